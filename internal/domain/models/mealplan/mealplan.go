// Package mealplan is the meal-planning project type.
package mealplan

import (
	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
)

// Meta is the plan-level metadata.
type Meta struct {
	Servings int    `json:"Servings,omitempty"`
	Notes    string `json:"Notes,omitempty"`
}

// Meal is a meal-plan item.
type Meal struct {
	project.ProjectItem
	Recipe     string               `json:"Recipe,omitempty"`
	RecipeLink string               `json:"RecipeLink,omitempty"`
	EatOn      models.LocalDateTime `json:"EatOn"`
}

// ExternalURL is the link checked before a suggested meal is accepted.
func (m *Meal) ExternalURL() string {
	return m.RecipeLink
}

type (
	MealPlan   = project.Project[Meta, *Meal]
	Change     = project.Change[Meta, *Meal]
	Addition   = project.Addition[Meta, *Meal]
	Removal    = project.Removal[Meta, *Meal]
	Reordering = project.Reordering[Meta, *Meal]
	Codec      = project.ChangeCodec[Meta, *Meal]
)

// New returns an empty meal plan.
func New(name string, meta Meta) *MealPlan {
	return project.New[Meta, *Meal](name, meta)
}

// NewCodec returns the meal-plan change codec.
func NewCodec() *Codec {
	return project.NewChangeCodec[Meta, *Meal]()
}
