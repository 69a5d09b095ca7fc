package project

import (
	"errors"
	"fmt"
	"reflect"

	"assistant/internal/domain"
)

// ChangeKind tags each variant of the closed Change set.
type ChangeKind string

const (
	KindAddition     ChangeKind = "addition"
	KindRemoval      ChangeKind = "removal"
	KindReordering   ChangeKind = "reordering"
	KindRescheduling ChangeKind = "rescheduling"
)

// MissingItemName stands in for an item that is not in the project when a
// description is rendered.
const MissingItemName = "<Missing Item>"

var (
	errPrecedingNotFound = &domain.NotFoundError{Message: "Preceding item was not found"}
	errRemoveNotFound    = &domain.NotFoundError{Message: "Item to remove was not found"}
	errReorderNotFound   = &domain.NotFoundError{Message: "Item to reorder was not found"}
)

// Change is one edit intended for a project. Describe must be called with the
// state the change will be applied to, before it is applied.
type Change[M any, I Item] interface {
	Kind() ChangeKind
	Apply(p *Project[M, I]) error
	Describe(p *Project[M, I]) string
}

// Addition inserts Item after PrecedingItemID, or appends when it is empty.
type Addition[M any, I Item] struct {
	Item            I      `json:"Item"`
	PrecedingItemID string `json:"PrecedingItemId,omitempty"`
}

func (a *Addition[M, I]) Kind() ChangeKind { return KindAddition }

func (a *Addition[M, I]) Apply(p *Project[M, I]) error {
	return p.insertAfter(a.Item, a.PrecedingItemID)
}

func (a *Addition[M, I]) Describe(p *Project[M, I]) string {
	if a.PrecedingItemID == "" {
		return fmt.Sprintf("Add new item %q at the end.", a.Item.ItemName())
	}
	return fmt.Sprintf("Add new item %q after %q.", a.Item.ItemName(), p.NameOf(a.PrecedingItemID))
}

// Validate reports whether the addition carries an identifiable item.
func (a *Addition[M, I]) Validate() error {
	if isNil(a.Item) {
		return errors.New("item is required")
	}
	if a.Item.ItemID() == "" {
		return errors.New("item id is required")
	}
	return nil
}

// Removal deletes every item whose id matches ItemID.
type Removal[M any, I Item] struct {
	ItemID string `json:"ItemId"`
}

func (r *Removal[M, I]) Kind() ChangeKind { return KindRemoval }

func (r *Removal[M, I]) Apply(p *Project[M, I]) error {
	if p.removeAll(r.ItemID) == 0 {
		return errRemoveNotFound
	}
	return nil
}

func (r *Removal[M, I]) Describe(p *Project[M, I]) string {
	return fmt.Sprintf("Remove %q.", p.NameOf(r.ItemID))
}

func (r *Removal[M, I]) Validate() error {
	if r.ItemID == "" {
		return errors.New("item id is required")
	}
	return nil
}

// Reordering moves an existing item using Addition placement rules.
type Reordering[M any, I Item] struct {
	ItemID          string `json:"ItemId"`
	PrecedingItemID string `json:"PrecedingItemId,omitempty"`
}

func (r *Reordering[M, I]) Kind() ChangeKind { return KindReordering }

func (r *Reordering[M, I]) Apply(p *Project[M, I]) error {
	idx := p.IndexOf(r.ItemID)
	if idx < 0 {
		return errReorderNotFound
	}
	item := p.Items[idx]
	snapshot := append([]I(nil), p.Items...)
	p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
	addition := &Addition[M, I]{Item: item, PrecedingItemID: r.PrecedingItemID}
	if err := addition.Apply(p); err != nil {
		p.Items = snapshot
		return err
	}
	return nil
}

func (r *Reordering[M, I]) Describe(p *Project[M, I]) string {
	if r.PrecedingItemID == "" {
		return fmt.Sprintf("Move %q to the end.", p.NameOf(r.ItemID))
	}
	return fmt.Sprintf("Move %q after %q.", p.NameOf(r.ItemID), p.NameOf(r.PrecedingItemID))
}

func (r *Reordering[M, I]) Validate() error {
	if r.ItemID == "" {
		return errors.New("item id is required")
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Describe renders one description per change. Each is computed against the
// state left by the changes before it, replayed on a copy of p; p itself is
// never modified. A change that fails to apply does not stop the walk.
func Describe[M any, I Item](p *Project[M, I], changes []Change[M, I]) ([]string, error) {
	scratch, err := p.Clone()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(changes))
	for _, change := range changes {
		out = append(out, change.Describe(scratch))
		_ = change.Apply(scratch)
	}
	return out, nil
}
