package suggestion

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"assistant/internal/domain/models"
	"assistant/internal/domain/models/mealplan"
	"assistant/internal/domain/models/project"
)

// MealPlanResponse is the document the completion produces for meal plans.
type MealPlanResponse struct {
	Creations   []OrderedChange[MealCreation]                                  `json:"Creations"`
	Removals    []OrderedChange[ItemRemoval[mealplan.Meta, *mealplan.Meal]]    `json:"Removals"`
	Reorderings []OrderedChange[ItemReordering[mealplan.Meta, *mealplan.Meal]] `json:"Reorderings"`
	Reasoning   string                                                         `json:"Reasoning" jsonschema_description:"Short explanation of the suggested changes"`
}

// NewMealPlanResponse returns an empty response.
func NewMealPlanResponse() ResponseModel[mealplan.Meta, *mealplan.Meal] {
	return &MealPlanResponse{}
}

func (r *MealPlanResponse) Categories() ([][]Ordered[mealplan.Meta, *mealplan.Meal], error) {
	creations, err := Convert[mealplan.Meta, *mealplan.Meal]("Creations", r.Creations)
	if err != nil {
		return nil, err
	}
	removals, err := Convert[mealplan.Meta, *mealplan.Meal]("Removals", r.Removals)
	if err != nil {
		return nil, err
	}
	reorderings, err := Convert[mealplan.Meta, *mealplan.Meal]("Reorderings", r.Reorderings)
	if err != nil {
		return nil, err
	}
	return [][]Ordered[mealplan.Meta, *mealplan.Meal]{creations, removals, reorderings}, nil
}

func (r *MealPlanResponse) Explanation() string { return r.Reasoning }

// MealCreation is a meal addition flattened into scalar fields.
type MealCreation struct {
	ID              string               `json:"Id" jsonschema_description:"New unique meal id"`
	Name            string               `json:"Name"`
	Recipe          string               `json:"Recipe"`
	RecipeLink      string               `json:"RecipeLink" jsonschema_description:"Absolute URL of the recipe, or an empty string"`
	EatOn           models.LocalDateTime `json:"EatOn"`
	PrecedingItemID string               `json:"PrecedingItemId" jsonschema_description:"Id of the meal this one follows, or an empty string to append"`
}

func (c MealCreation) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.RecipeLink, is.URL),
		validation.Field(&c.EatOn, requiredTime),
	)
}

func (c MealCreation) ToChange() (project.Change[mealplan.Meta, *mealplan.Meal], error) {
	meal := &mealplan.Meal{
		ProjectItem: project.ProjectItem{ID: c.ID, Name: c.Name},
		Recipe:      c.Recipe,
		RecipeLink:  c.RecipeLink,
		EatOn:       c.EatOn,
	}
	return &mealplan.Addition{Item: meal, PrecedingItemID: c.PrecedingItemID}, nil
}
