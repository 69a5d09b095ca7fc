package itinerary

import (
	"errors"
	"fmt"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
)

var errRescheduleNotFound = &domain.NotFoundError{Message: "Item to reschedule was not found"}

// Rescheduling overwrites an activity's start and end times in place. Start
// is not checked against End.
type Rescheduling struct {
	ItemID string           `json:"ItemId"`
	Start  models.ZonedTime `json:"Start"`
	End    models.ZonedTime `json:"End"`
}

func (r *Rescheduling) Kind() project.ChangeKind { return project.KindRescheduling }

func (r *Rescheduling) Apply(it *Itinerary) error {
	activity, ok := it.Find(r.ItemID)
	if !ok {
		return errRescheduleNotFound
	}
	activity.Start.Time = r.Start
	activity.End.Time = r.End
	return nil
}

func (r *Rescheduling) Describe(it *Itinerary) string {
	return fmt.Sprintf("Reschedule %q to %s - %s.", it.NameOf(r.ItemID), r.Start, r.End)
}

func (r *Rescheduling) Validate() error {
	if r.ItemID == "" {
		return errors.New("item id is required")
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return errors.New("start and end are required")
	}
	return nil
}
