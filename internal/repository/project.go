// Package repository holds the unit-of-work project repository shared by the
// storage backends. Backends only move rows; this package owns staging and
// the conversion between aggregates and rows.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
	"assistant/internal/domain/repositories"
)

// Row is the stored form of a project. Meta and Items hold JSON.
type Row struct {
	ID        string
	Name      string
	Meta      []byte
	Items     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is one project table. Methods called inside
// TransactionManager.ExecTx must take part in that transaction.
type Store interface {
	Insert(ctx context.Context, row Row) error
	// Update returns domain.ErrNotFound when no row matched
	Update(ctx context.Context, row Row) error
	// Delete returns domain.ErrNotFound when no row matched
	Delete(ctx context.Context, id string) error
	// Get returns domain.ErrNotFound when absent
	Get(ctx context.Context, id string) (Row, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Page returns rows ordered by creation time and the total row count
	Page(ctx context.Context, offset, limit int) ([]Row, int, error)
}

// ProjectRepository implements repositories.ProjectRepository over a Store.
type ProjectRepository[M any, I project.Item] struct {
	store   Store
	txm     repositories.TransactionManager
	added   []*project.Project[M, I]
	tracked map[string]*project.Project[M, I]
	deleted []string
}

// NewProjectRepository opens a unit of work.
func NewProjectRepository[M any, I project.Item](store Store, txm repositories.TransactionManager) *ProjectRepository[M, I] {
	return &ProjectRepository[M, I]{
		store:   store,
		txm:     txm,
		tracked: make(map[string]*project.Project[M, I]),
	}
}

// Factory returns a ProjectRepositoryFactory producing fresh units of work.
func Factory[M any, I project.Item](store Store, txm repositories.TransactionManager) repositories.ProjectRepositoryFactory[M, I] {
	return func() repositories.ProjectRepository[M, I] {
		return NewProjectRepository[M, I](store, txm)
	}
}

// Add stages p for insertion
func (r *ProjectRepository[M, I]) Add(p *project.Project[M, I]) error {
	if p == nil || p.ID == "" {
		return domain.NewValidation("project id is required")
	}
	r.added = append(r.added, p)
	return nil
}

// GetPage returns one page of projects. Pages are not tracked.
func (r *ProjectRepository[M, I]) GetPage(ctx context.Context, req models.PaginationRequest) (models.Paginated[*project.Project[M, I]], error) {
	rows, total, err := r.store.Page(ctx, req.Offset, req.Limit)
	if err != nil {
		return models.Paginated[*project.Project[M, I]]{}, persistence("list projects", err)
	}

	projects := make([]*project.Project[M, I], 0, len(rows))
	for _, row := range rows {
		p, err := fromRow[M, I](row)
		if err != nil {
			return models.Paginated[*project.Project[M, I]]{}, err
		}
		projects = append(projects, p)
	}

	return models.NewPaginated(projects, req, total), nil
}

// GetByID loads p and tracks it so Save writes back any mutation.
func (r *ProjectRepository[M, I]) GetByID(ctx context.Context, id string) (*project.Project[M, I], error) {
	if p, ok := r.tracked[id]; ok {
		return p, nil
	}

	row, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, persistence("get project", err)
	}

	p, err := fromRow[M, I](row)
	if err != nil {
		return nil, err
	}
	r.tracked[id] = p
	return p, nil
}

// Delete stages removal of the project with id
func (r *ProjectRepository[M, I]) Delete(ctx context.Context, id string) error {
	exists, err := r.store.Exists(ctx, id)
	if err != nil {
		return persistence("check project", err)
	}
	if !exists {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	r.deleted = append(r.deleted, id)
	return nil
}

// Save writes every staged insert, tracked update and staged delete in one
// transaction. Staged work is cleared only when the transaction commits.
func (r *ProjectRepository[M, I]) Save(ctx context.Context) error {
	deleted := make(map[string]bool, len(r.deleted))
	for _, id := range r.deleted {
		deleted[id] = true
	}

	err := r.txm.ExecTx(ctx, func(ctx context.Context) error {
		for _, p := range r.added {
			row, err := toRow(p)
			if err != nil {
				return err
			}
			if err := r.store.Insert(ctx, row); err != nil {
				return err
			}
		}
		for id, p := range r.tracked {
			if deleted[id] {
				continue
			}
			row, err := toRow(p)
			if err != nil {
				return err
			}
			if err := r.store.Update(ctx, row); err != nil {
				return err
			}
		}
		for _, id := range r.deleted {
			if err := r.store.Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return persistence("save projects", err)
	}

	for _, p := range r.added {
		r.tracked[p.ID] = p
	}
	r.added = nil
	for _, id := range r.deleted {
		delete(r.tracked, id)
	}
	r.deleted = nil
	return nil
}

func toRow[M any, I project.Item](p *project.Project[M, I]) (Row, error) {
	meta, err := json.Marshal(p.Meta)
	if err != nil {
		return Row{}, fmt.Errorf("encode meta of %s: %w", p.ID, err)
	}
	items := p.Items
	if items == nil {
		items = []I{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return Row{}, fmt.Errorf("encode items of %s: %w", p.ID, err)
	}
	return Row{
		ID:        p.ID,
		Name:      p.Name,
		Meta:      meta,
		Items:     itemsJSON,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func fromRow[M any, I project.Item](row Row) (*project.Project[M, I], error) {
	p := &project.Project[M, I]{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Meta, &p.Meta); err != nil {
		return nil, persistence("decode meta of "+row.ID, err)
	}
	if err := json.Unmarshal(row.Items, &p.Items); err != nil {
		return nil, persistence("decode items of "+row.ID, err)
	}
	if p.Items == nil {
		p.Items = []I{}
	}
	return p, nil
}

// persistence passes domain errors and cancellation through and turns every
// other failure into a PersistenceError.
func persistence(op string, err error) error {
	if domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &domain.PersistenceError{Message: fmt.Sprintf("%s: %v", op, err)}
}
