// Package project implements services.ProjectService for any project type.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"assistant/internal/config"
	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
	"assistant/internal/domain/repositories"
	"assistant/internal/domain/services"
	"assistant/internal/metrics"
)

// projectService implements the ProjectService interface
type projectService[M any, I project.Item] struct {
	projectType string
	repos       repositories.ProjectRepositoryFactory[M, I]
	provider    services.ChangeProvider[M, I]
	processors  []services.ChangeProcessor[M, I]
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewProjectService creates a project service. projectType labels logs and
// metrics. Processors run in the order given.
func NewProjectService[M any, I project.Item](
	projectType string,
	repos repositories.ProjectRepositoryFactory[M, I],
	provider services.ChangeProvider[M, I],
	processors []services.ChangeProcessor[M, I],
	m *metrics.Metrics,
	logger *slog.Logger,
) services.ProjectService[M, I] {
	return &projectService[M, I]{
		projectType: projectType,
		repos:       repos,
		provider:    provider,
		processors:  processors,
		metrics:     m,
		logger:      logger.With("project_type", projectType),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a new, empty project
func (s *projectService[M, I]) Create(ctx context.Context, req *services.CreateProjectRequest[M]) (*project.Project[M, I], error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	p := project.New[M, I](strings.TrimSpace(req.Name), req.Meta)
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt

	repo := s.repos()
	if err := repo.Add(p); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"project_id", p.ID,
		"name", p.Name,
	)

	return p, nil
}

// Get retrieves a project by ID
func (s *projectService[M, I]) Get(ctx context.Context, id string) (*project.Project[M, I], error) {
	return s.repos().GetByID(ctx, id)
}

// List retrieves one page of projects
func (s *projectService[M, I]) List(ctx context.Context, req models.PaginationRequest) (models.Paginated[*project.Project[M, I]], error) {
	if err := validatePagination(&req); err != nil {
		return models.Paginated[*project.Project[M, I]]{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.repos().GetPage(ctx, req)
}

// GetChangeSuggestions fetches the project, asks the provider for changes and
// pipes them through every processor. Nothing is persisted.
func (s *projectService[M, I]) GetChangeSuggestions(ctx context.Context, id, prompt string) (suggestion *services.Suggestion[M, I], err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = string(domain.KindOf(err))
		}
		s.metrics.RecordSuggestion(s.projectType, status, time.Since(start))
	}()

	if err := validation.Validate(prompt,
		validation.Required.Error("prompt is required"),
		validation.RuneLength(1, config.MaxPromptLength),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	p, err := s.repos().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	suggestion, err = s.provider.GetChanges(ctx, p, prompt)
	if err != nil {
		return nil, err
	}

	changes := suggestion.Changes
	for i, processor := range s.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changes, err = processor.Process(ctx, p, changes)
		if err != nil {
			s.logger.Warn("change processor rejected batch",
				"project_id", id,
				"processor", i,
				"error", err,
			)
			return nil, err
		}
	}
	suggestion.Changes = changes

	s.logger.Info("suggestions generated",
		"project_id", id,
		"changes", len(changes),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return suggestion, nil
}

// ApplyChanges replays changes in order against the stored project. The
// first failing change aborts the call and nothing is persisted.
func (s *projectService[M, I]) ApplyChanges(ctx context.Context, id string, changes []project.Change[M, I]) (*project.Project[M, I], error) {
	if len(changes) > config.MaxChangesPerBatch {
		return nil, domain.NewValidation(fmt.Sprintf("%d changes exceed the limit of %d", len(changes), config.MaxChangesPerBatch))
	}

	repo := s.repos()
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Apply(changes...); err != nil {
		s.logger.Info("changes rejected",
			"project_id", id,
			"error", err,
		)
		return nil, err
	}
	p.UpdatedAt = s.now()

	if err := repo.Save(ctx); err != nil {
		return nil, err
	}

	for _, change := range changes {
		s.metrics.RecordChangeApplied(s.projectType, string(change.Kind()))
	}
	s.logger.Info("changes applied",
		"project_id", id,
		"changes", len(changes),
		"items", len(p.Items),
	)

	return p, nil
}

// Delete removes a project
func (s *projectService[M, I]) Delete(ctx context.Context, id string) error {
	repo := s.repos()
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := repo.Save(ctx); err != nil {
		return err
	}

	s.logger.Info("project deleted", "project_id", id)
	return nil
}

// validateCreateRequest validates a create project request
func (s *projectService[M, I]) validateCreateRequest(req *services.CreateProjectRequest[M]) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxProjectNameLength),
		),
	)
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
}

// validatePagination applies the default limit and checks bounds.
func validatePagination(req *models.PaginationRequest) error {
	if req.Limit == 0 {
		req.Limit = config.DefaultPageLimit
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Offset, validation.Min(0)),
		validation.Field(&req.Limit, validation.Min(1), validation.Max(config.MaxPageLimit)),
	)
}
