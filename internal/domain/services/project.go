package services

import (
	"context"

	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest[M any] struct {
	Name string `json:"name"`
	Meta M      `json:"meta"`
}

// Suggestion is a candidate batch of changes plus the model's explanation.
type Suggestion[M any, I project.Item] struct {
	Changes   []project.Change[M, I]
	Reasoning string
}

// ChangeProvider turns a prompt into a candidate ordered change sequence.
type ChangeProvider[M any, I project.Item] interface {
	GetChanges(ctx context.Context, p *project.Project[M, I], prompt string) (*Suggestion[M, I], error)
}

// ChangeProcessor validates or enriches a candidate batch before it reaches
// the caller. Processors run in registration order and the first failure
// aborts the batch.
type ChangeProcessor[M any, I project.Item] interface {
	Process(ctx context.Context, p *project.Project[M, I], changes []project.Change[M, I]) ([]project.Change[M, I], error)
}

// ProjectService defines business logic operations for one project type
type ProjectService[M any, I project.Item] interface {
	// Create assigns an identity and persists a new, empty project
	Create(ctx context.Context, req *CreateProjectRequest[M]) (*project.Project[M, I], error)

	// Get retrieves a project by ID
	Get(ctx context.Context, id string) (*project.Project[M, I], error)

	// List retrieves one page of projects
	List(ctx context.Context, req models.PaginationRequest) (models.Paginated[*project.Project[M, I]], error)

	// GetChangeSuggestions runs the provider and every processor for a prompt
	GetChangeSuggestions(ctx context.Context, id, prompt string) (*Suggestion[M, I], error)

	// ApplyChanges replays changes in order and persists only if all applied
	ApplyChanges(ctx context.Context, id string, changes []project.Change[M, I]) (*project.Project[M, I], error)

	// Delete removes a project
	Delete(ctx context.Context, id string) error
}
