package processing

import (
	"context"
	"fmt"
	"log/slog"

	"assistant/internal/domain"
	"assistant/internal/domain/models/project"
	"assistant/internal/domain/services"
	"assistant/internal/metrics"
)

// Linked is implemented by items that point at an external page.
type Linked interface {
	ExternalURL() string
}

// LinkValidator rejects a batch when an added item links to a page that does
// not answer with a 2xx status.
type LinkValidator[M any, I project.Item] struct {
	checker services.LinkChecker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLinkValidator creates a link validator.
func NewLinkValidator[M any, I project.Item](checker services.LinkChecker, m *metrics.Metrics, logger *slog.Logger) *LinkValidator[M, I] {
	return &LinkValidator[M, I]{
		checker: checker,
		metrics: m,
		logger:  logger,
	}
}

// Process checks every addition's link in order and returns changes unchanged.
func (v *LinkValidator[M, I]) Process(ctx context.Context, _ *project.Project[M, I], changes []project.Change[M, I]) ([]project.Change[M, I], error) {
	for _, change := range changes {
		add, ok := change.(*project.Addition[M, I])
		if !ok {
			continue
		}
		linked, ok := any(add.Item).(Linked)
		if !ok {
			continue
		}
		url := linked.ExternalURL()
		if url == "" {
			continue
		}
		if err := v.check(ctx, url); err != nil {
			return nil, err
		}
	}
	return changes, nil
}

func (v *LinkValidator[M, I]) check(ctx context.Context, url string) error {
	status, err := v.checker.Check(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		v.metrics.RecordLinkCheck("error")
		v.logger.Warn("link check failed", "url", url, "error", err)
		return domain.NewDependency(fmt.Sprintf("Link %s could not be checked: %v", url, err))
	}
	if status < 200 || status > 299 {
		v.metrics.RecordLinkCheck("rejected")
		return domain.NewDependency(fmt.Sprintf("Status code does not indicate valid link %s, %d", url, status))
	}
	v.metrics.RecordLinkCheck("ok")
	return nil
}
