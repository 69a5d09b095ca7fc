package suggestion

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
)

// ItemRemoval is the flattened removal shared by every project type.
type ItemRemoval[M any, I project.Item] struct {
	ItemID string `json:"ItemId" jsonschema_description:"Id of the item to remove"`
}

func (r ItemRemoval[M, I]) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemID, validation.Required),
	)
}

func (r ItemRemoval[M, I]) ToChange() (project.Change[M, I], error) {
	return &project.Removal[M, I]{ItemID: r.ItemID}, nil
}

// ItemReordering is the flattened reordering shared by every project type.
type ItemReordering[M any, I project.Item] struct {
	ItemID          string `json:"ItemId" jsonschema_description:"Id of the item to move"`
	PrecedingItemID string `json:"PrecedingItemId" jsonschema_description:"Id of the item it should follow, or an empty string to move it to the end"`
}

func (r ItemReordering[M, I]) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemID, validation.Required),
	)
}

func (r ItemReordering[M, I]) ToChange() (project.Change[M, I], error) {
	return &project.Reordering[M, I]{ItemID: r.ItemID, PrecedingItemID: r.PrecedingItemID}, nil
}

// requiredTime rejects a zero wall-clock time.
var requiredTime = validation.By(func(value interface{}) error {
	if t, ok := value.(models.LocalDateTime); ok && t.IsZero() {
		return errors.New("cannot be blank")
	}
	return nil
})

// ianaZone rejects identifiers the zone database does not know.
var ianaZone = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return errors.New("must be an IANA time zone identifier")
	}
	return nil
})
