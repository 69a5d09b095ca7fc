// Package suggestion turns a prompt into an ordered batch of domain changes
// through a structured completion. The completion answers in a flattened,
// category-keyed shape; this package owns that shape and its mapping back
// to domain changes.
package suggestion

import (
	"cmp"
	"fmt"
	"slices"

	"assistant/internal/domain/models/project"
)

// ChangeAdapter is a flattened change as emitted by the model.
type ChangeAdapter[M any, I project.Item] interface {
	Validate() error
	ToChange() (project.Change[M, I], error)
}

// OrderedChange pairs a flattened change with its position in the batch.
type OrderedChange[A any] struct {
	Order  int `json:"Order" jsonschema_description:"Position of this change in the overall sequence, shared across all categories"`
	Change A   `json:"Change"`
}

// Ordered is a converted change that still carries its merge order.
type Ordered[M any, I project.Item] struct {
	Order  int
	Change project.Change[M, I]
}

// ResponseModel is the document a completion must produce.
type ResponseModel[M any, I project.Item] interface {
	// Categories converts each category list, in declaration order.
	Categories() ([][]Ordered[M, I], error)
	Explanation() string
}

// Convert validates and converts one category list.
func Convert[M any, I project.Item, A ChangeAdapter[M, I]](category string, in []OrderedChange[A]) ([]Ordered[M, I], error) {
	out := make([]Ordered[M, I], 0, len(in))
	for i, oc := range in {
		if err := oc.Change.Validate(); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", category, i, err)
		}
		change, err := oc.Change.ToChange()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", category, i, err)
		}
		out = append(out, Ordered[M, I]{Order: oc.Order, Change: change})
	}
	return out, nil
}

// Merge concatenates category lists and stable-sorts them by Order, so ties
// keep the category declaration order and the order inside each list.
func Merge[M any, I project.Item](categories ...[]Ordered[M, I]) []project.Change[M, I] {
	var all []Ordered[M, I]
	for _, c := range categories {
		all = append(all, c...)
	}
	slices.SortStableFunc(all, func(a, b Ordered[M, I]) int {
		return cmp.Compare(a.Order, b.Order)
	})
	out := make([]project.Change[M, I], len(all))
	for i, o := range all {
		out[i] = o.Change
	}
	return out
}
