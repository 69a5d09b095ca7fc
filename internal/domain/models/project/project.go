// Package project holds the generic aggregate shared by every project type:
// an ordered list of items plus a domain-specific metadata blob, mutated only
// by applying Change values.
package project

import (
	"encoding/json"
	"fmt"
	"time"
)

// Item is the capability every project item must expose.
type Item interface {
	ItemID() string
	ItemName() string
}

// ProjectItem is embedded by concrete items. The ID is supplied by the caller
// and is unique only within the owning project, by convention.
type ProjectItem struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

func (p ProjectItem) ItemID() string   { return p.ID }
func (p ProjectItem) ItemName() string { return p.Name }

// Project is the aggregate root. Item order is significant.
type Project[M any, I Item] struct {
	ID        string    `json:"Id"`
	Name      string    `json:"Name"`
	Meta      M         `json:"Meta"`
	Items     []I       `json:"Items"`
	CreatedAt time.Time `json:"CreatedAt"`
	UpdatedAt time.Time `json:"UpdatedAt"`
}

// New returns an empty project with the given name.
func New[M any, I Item](name string, meta M) *Project[M, I] {
	return &Project[M, I]{
		Name:  name,
		Meta:  meta,
		Items: []I{},
	}
}

// IndexOf returns the position of the first item with the given id, or -1.
func (p *Project[M, I]) IndexOf(id string) int {
	for i, item := range p.Items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

// Find returns the first item with the given id.
func (p *Project[M, I]) Find(id string) (I, bool) {
	if i := p.IndexOf(id); i >= 0 {
		return p.Items[i], true
	}
	var zero I
	return zero, false
}

// NameOf returns the display name of the item with the given id, or the
// missing-item placeholder.
func (p *Project[M, I]) NameOf(id string) string {
	if item, ok := p.Find(id); ok {
		return item.ItemName()
	}
	return MissingItemName
}

// insertAfter places item immediately after precedingID, or appends when
// precedingID is empty.
func (p *Project[M, I]) insertAfter(item I, precedingID string) error {
	if precedingID == "" {
		p.Items = append(p.Items, item)
		return nil
	}
	idx := p.IndexOf(precedingID)
	if idx < 0 {
		return errPrecedingNotFound
	}
	p.Items = append(p.Items, item)
	copy(p.Items[idx+2:], p.Items[idx+1:])
	p.Items[idx+1] = item
	return nil
}

// removeAll drops every item with the given id and reports how many went.
func (p *Project[M, I]) removeAll(id string) int {
	kept := p.Items[:0]
	for _, item := range p.Items {
		if item.ItemID() != id {
			kept = append(kept, item)
		}
	}
	removed := len(p.Items) - len(kept)
	clear(p.Items[len(kept):])
	p.Items = kept
	return removed
}

// Apply replays changes in order against the project and stops at the first
// failure. Changes applied before the failure stay applied.
func (p *Project[M, I]) Apply(changes ...Change[M, I]) error {
	for i, change := range changes {
		if err := change.Apply(p); err != nil {
			return fmt.Errorf("change %d (%s): %w", i+1, change.Kind(), err)
		}
	}
	return nil
}

// Clone returns a deep copy made through the project's JSON form.
func (p *Project[M, I]) Clone() (*Project[M, I], error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("clone project %s: %w", p.ID, err)
	}
	var out Project[M, I]
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone project %s: %w", p.ID, err)
	}
	if out.Items == nil {
		out.Items = []I{}
	}
	return &out, nil
}
