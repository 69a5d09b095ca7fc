package repositories

import (
	"context"

	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
)

// ProjectRepository is a unit of work over one project type. Add and Delete
// only stage work; Save flushes everything staged, plus every aggregate
// returned by GetByID, in a single transaction. A repository is meant to
// live for one service operation.
type ProjectRepository[M any, I project.Item] interface {
	// Add stages a new project for insertion on the next Save
	Add(p *project.Project[M, I]) error

	// GetPage returns a window of projects ordered by creation time
	GetPage(ctx context.Context, req models.PaginationRequest) (models.Paginated[*project.Project[M, I]], error)

	// GetByID loads and tracks a project. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*project.Project[M, I], error)

	// Delete stages removal of a project. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Save persists all staged and tracked work
	Save(ctx context.Context) error
}

// ProjectRepositoryFactory opens a fresh unit of work.
type ProjectRepositoryFactory[M any, I project.Item] func() ProjectRepository[M, I]
