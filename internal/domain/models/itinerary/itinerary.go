// Package itinerary is the travel-plan project type: an ordered list of
// activities, each with a zoned start and end and an optional place.
package itinerary

import (
	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
)

// Meta is the itinerary-level metadata.
type Meta struct {
	Description string `json:"Description,omitempty"`
}

// Place is a geocodable reference. SearchQuery is what the planner asked
// for; the remaining fields are filled in once it has been resolved.
type Place struct {
	Reference   string  `json:"Reference,omitempty"`
	URI         string  `json:"Uri,omitempty"`
	SearchQuery string  `json:"SearchQuery"`
	Name        string  `json:"Name,omitempty"`
	Description string  `json:"Description,omitempty"`
	Latitude    float64 `json:"Latitude,omitempty"`
	Longitude   float64 `json:"Longitude,omitempty"`
}

// Resolved reports whether the place has been matched to a canonical record.
func (p *Place) Resolved() bool {
	return p != nil && p.Reference != ""
}

// TimeAndPlace is one end of an activity.
type TimeAndPlace struct {
	Time  models.ZonedTime `json:"Time"`
	Place *Place           `json:"Place,omitempty"`
}

// Activity is an itinerary item.
type Activity struct {
	project.ProjectItem
	Description string       `json:"Description,omitempty"`
	Start       TimeAndPlace `json:"Start"`
	End         TimeAndPlace `json:"End"`
}

// Places returns the non-nil start and end places.
func (a *Activity) Places() []*Place {
	var out []*Place
	if a.Start.Place != nil {
		out = append(out, a.Start.Place)
	}
	if a.End.Place != nil {
		out = append(out, a.End.Place)
	}
	return out
}

type (
	Itinerary  = project.Project[Meta, *Activity]
	Change     = project.Change[Meta, *Activity]
	Addition   = project.Addition[Meta, *Activity]
	Removal    = project.Removal[Meta, *Activity]
	Reordering = project.Reordering[Meta, *Activity]
	Codec      = project.ChangeCodec[Meta, *Activity]
)

// New returns an empty itinerary.
func New(name string, meta Meta) *Itinerary {
	return project.New[Meta, *Activity](name, meta)
}

// NewCodec returns a change codec that also understands Rescheduling.
func NewCodec() *Codec {
	c := project.NewChangeCodec[Meta, *Activity]()
	c.Register(project.KindRescheduling, project.DecodeAs[Rescheduling, Meta, *Activity])
	return c
}

// PlacesOf enumerates the places a change introduces. Only additions bring
// new places into the itinerary.
func PlacesOf(change Change) []*Place {
	if add, ok := change.(*Addition); ok && add.Item != nil {
		return add.Item.Places()
	}
	return nil
}
