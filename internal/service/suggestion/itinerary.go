package suggestion

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"assistant/internal/domain/models"
	"assistant/internal/domain/models/itinerary"
	"assistant/internal/domain/models/project"
)

// ItineraryResponse is the document the completion produces for itineraries.
type ItineraryResponse struct {
	Creations     []OrderedChange[ActivityCreation]                                    `json:"Creations"`
	Removals      []OrderedChange[ItemRemoval[itinerary.Meta, *itinerary.Activity]]    `json:"Removals"`
	Reorderings   []OrderedChange[ItemReordering[itinerary.Meta, *itinerary.Activity]] `json:"Reorderings"`
	Reschedulings []OrderedChange[ActivityRescheduling]                                `json:"Reschedulings"`
	Reasoning     string                                                               `json:"Reasoning" jsonschema_description:"Short explanation of the suggested changes"`
}

// NewItineraryResponse returns an empty response; used as the schema source
// and decode target.
func NewItineraryResponse() ResponseModel[itinerary.Meta, *itinerary.Activity] {
	return &ItineraryResponse{}
}

func (r *ItineraryResponse) Categories() ([][]Ordered[itinerary.Meta, *itinerary.Activity], error) {
	creations, err := Convert[itinerary.Meta, *itinerary.Activity]("Creations", r.Creations)
	if err != nil {
		return nil, err
	}
	removals, err := Convert[itinerary.Meta, *itinerary.Activity]("Removals", r.Removals)
	if err != nil {
		return nil, err
	}
	reorderings, err := Convert[itinerary.Meta, *itinerary.Activity]("Reorderings", r.Reorderings)
	if err != nil {
		return nil, err
	}
	reschedulings, err := Convert[itinerary.Meta, *itinerary.Activity]("Reschedulings", r.Reschedulings)
	if err != nil {
		return nil, err
	}
	return [][]Ordered[itinerary.Meta, *itinerary.Activity]{creations, removals, reorderings, reschedulings}, nil
}

func (r *ItineraryResponse) Explanation() string { return r.Reasoning }

// ActivityCreation is an activity addition flattened into scalar fields.
// Empty place queries mean no place; an empty PrecedingActivityId appends.
type ActivityCreation struct {
	ID                    string               `json:"Id" jsonschema_description:"New unique activity id"`
	Name                  string               `json:"Name"`
	Description           string               `json:"Description"`
	StartTime             models.LocalDateTime `json:"Start_Time"`
	StartTimeTzID         string               `json:"Start_Time_TzId" jsonschema_description:"IANA time zone id of Start_Time"`
	StartPlaceSearchQuery string               `json:"Start_Place_SearchQuery" jsonschema_description:"Query that finds the start place on Google Maps"`
	StartPlaceDescription string               `json:"Start_Place_Description"`
	EndTime               models.LocalDateTime `json:"End_Time"`
	EndTimeTzID           string               `json:"End_Time_TzId" jsonschema_description:"IANA time zone id of End_Time"`
	EndPlaceSearchQuery   string               `json:"End_Place_SearchQuery" jsonschema_description:"Query that finds the end place on Google Maps"`
	EndPlaceDescription   string               `json:"End_Place_Description"`
	PrecedingActivityID   string               `json:"PrecedingActivityId" jsonschema_description:"Id of the activity this one follows, or an empty string to append"`
}

func (c ActivityCreation) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.StartTime, requiredTime),
		validation.Field(&c.StartTimeTzID, validation.Required, ianaZone),
		validation.Field(&c.EndTime, requiredTime),
		validation.Field(&c.EndTimeTzID, validation.Required, ianaZone),
	)
}

func (c ActivityCreation) ToChange() (project.Change[itinerary.Meta, *itinerary.Activity], error) {
	start, err := c.StartTime.In(c.StartTimeTzID)
	if err != nil {
		return nil, fmt.Errorf("Start_Time: %w", err)
	}
	end, err := c.EndTime.In(c.EndTimeTzID)
	if err != nil {
		return nil, fmt.Errorf("End_Time: %w", err)
	}

	activity := &itinerary.Activity{
		ProjectItem: project.ProjectItem{ID: c.ID, Name: c.Name},
		Description: c.Description,
		Start: itinerary.TimeAndPlace{
			Time:  start,
			Place: newPlace(c.StartPlaceSearchQuery, c.StartPlaceDescription),
		},
		End: itinerary.TimeAndPlace{
			Time:  end,
			Place: newPlace(c.EndPlaceSearchQuery, c.EndPlaceDescription),
		},
	}
	return &itinerary.Addition{Item: activity, PrecedingItemID: c.PrecedingActivityID}, nil
}

// NewActivityCreation flattens an activity back into the completion shape.
func NewActivityCreation(a *itinerary.Activity, precedingID string) ActivityCreation {
	c := ActivityCreation{
		ID:                  a.ID,
		Name:                a.Name,
		Description:         a.Description,
		StartTime:           localOf(a.Start.Time),
		StartTimeTzID:       a.Start.Time.ZoneID(),
		EndTime:             localOf(a.End.Time),
		EndTimeTzID:         a.End.Time.ZoneID(),
		PrecedingActivityID: precedingID,
	}
	if p := a.Start.Place; p != nil {
		c.StartPlaceSearchQuery, c.StartPlaceDescription = p.SearchQuery, p.Description
	}
	if p := a.End.Place; p != nil {
		c.EndPlaceSearchQuery, c.EndPlaceDescription = p.SearchQuery, p.Description
	}
	return c
}

// ActivityRescheduling moves an activity's start and end.
type ActivityRescheduling struct {
	ItemID        string               `json:"ItemId" jsonschema_description:"Id of the activity to reschedule"`
	StartTime     models.LocalDateTime `json:"Start_Time"`
	StartTimeTzID string               `json:"Start_Time_TzId"`
	EndTime       models.LocalDateTime `json:"End_Time"`
	EndTimeTzID   string               `json:"End_Time_TzId"`
}

func (r ActivityRescheduling) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemID, validation.Required),
		validation.Field(&r.StartTime, requiredTime),
		validation.Field(&r.StartTimeTzID, validation.Required, ianaZone),
		validation.Field(&r.EndTime, requiredTime),
		validation.Field(&r.EndTimeTzID, validation.Required, ianaZone),
	)
}

func (r ActivityRescheduling) ToChange() (project.Change[itinerary.Meta, *itinerary.Activity], error) {
	start, err := r.StartTime.In(r.StartTimeTzID)
	if err != nil {
		return nil, fmt.Errorf("Start_Time: %w", err)
	}
	end, err := r.EndTime.In(r.EndTimeTzID)
	if err != nil {
		return nil, fmt.Errorf("End_Time: %w", err)
	}
	return &itinerary.Rescheduling{ItemID: r.ItemID, Start: start, End: end}, nil
}

func newPlace(query, description string) *itinerary.Place {
	if query == "" {
		return nil
	}
	return &itinerary.Place{SearchQuery: query, Description: description}
}

func localOf(z models.ZonedTime) models.LocalDateTime {
	if z.IsZero() {
		return models.LocalDateTime{}
	}
	return models.NewLocalDateTime(z.Year(), z.Month(), z.Day(), z.Hour(), z.Minute(), z.Second())
}
