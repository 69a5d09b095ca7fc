package service

import (
	"context"
	"fmt"
	"log/slog"

	"assistant/internal/capabilities"
	"assistant/internal/config"
	"assistant/internal/domain/models/itinerary"
	"assistant/internal/domain/models/mealplan"
	"assistant/internal/domain/repositories"
	"assistant/internal/domain/services"
	"assistant/internal/metrics"
	"assistant/internal/repository"
	"assistant/internal/repository/postgres"
	"assistant/internal/repository/sqlite"
	"assistant/internal/service/external"
	"assistant/internal/service/llm"
	"assistant/internal/service/processing"
	projectsvc "assistant/internal/service/project"
	"assistant/internal/service/suggestion"
)

// Storage holds the repository factories of both project types on top of
// the configured driver.
type Storage struct {
	Itineraries repositories.ProjectRepositoryFactory[itinerary.Meta, *itinerary.Activity]
	MealPlans   repositories.ProjectRepositoryFactory[mealplan.Meta, *mealplan.Meal]

	ensure func(ctx context.Context) error
	drop   func(ctx context.Context) error
	close  func() error
}

// OpenStorage connects to the configured driver ("postgres" or "sqlite").
// Tables are not created until EnsureSchema is called.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	tables := postgres.NewTableNames(cfg.TablePrefix)

	switch cfg.StorageDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		txm := postgres.NewTransactionManager(pool, logger)
		logger.Info("database connected", "driver", "postgres", "table_prefix", cfg.TablePrefix)
		return &Storage{
			Itineraries: repository.Factory[itinerary.Meta, *itinerary.Activity](postgres.NewProjectStore(pool, tables.Itineraries), txm),
			MealPlans:   repository.Factory[mealplan.Meta, *mealplan.Meal](postgres.NewProjectStore(pool, tables.MealPlans), txm),
			ensure:      func(ctx context.Context) error { return postgres.EnsureSchema(ctx, pool, tables) },
			drop:        func(ctx context.Context) error { return postgres.DropTables(ctx, pool, tables) },
			close:       func() error { pool.Close(); return nil },
		}, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected", "driver", "sqlite", "path", cfg.SQLitePath, "table_prefix", cfg.TablePrefix)
		return &Storage{
			Itineraries: repository.Factory[itinerary.Meta, *itinerary.Activity](sqlite.NewProjectStore(db, tables.Itineraries), db),
			MealPlans:   repository.Factory[mealplan.Meta, *mealplan.Meal](sqlite.NewProjectStore(db, tables.MealPlans), db),
			ensure:      func(ctx context.Context) error { return db.EnsureSchema(ctx, tables.All()...) },
			drop:        func(ctx context.Context) error { return db.DropTables(ctx, tables.All()...) },
			close:       db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

// EnsureSchema creates missing project tables.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	return s.ensure(ctx)
}

// DropTables removes every project table.
func (s *Storage) DropTables(ctx context.Context) error {
	return s.drop(ctx)
}

// Close releases the underlying connection(s).
func (s *Storage) Close() error {
	return s.close()
}

// Services holds one project service per project type
type Services struct {
	Itineraries services.ProjectService[itinerary.Meta, *itinerary.Activity]
	MealPlans   services.ProjectService[mealplan.Meta, *mealplan.Meal]
}

// SetupServices wires completion, prompt profiles and processors into the
// project services.
//
// Itinerary suggestions have their places resolved when GOOGLE_MAPS_API_KEY
// is set. Meal-plan suggestions always have recipe links checked.
func SetupServices(cfg *config.Config, storage *Storage, m *metrics.Metrics, logger *slog.Logger) (*Services, error) {
	completion, model, err := llm.NewProviderFactory(cfg).Default()
	if err != nil {
		return nil, fmt.Errorf("failed to create completion provider: %w", err)
	}
	logger.Info("completion provider ready", "name", completion.Name(), "model", model)

	registry, err := capabilities.NewRegistry()
	if err != nil {
		return nil, err
	}
	maxTokens, err := outputBudget(registry, completion.Name(), model, cfg.MaxTokens, logger)
	if err != nil {
		return nil, err
	}

	profiles, err := suggestion.LoadProfiles()
	if err != nil {
		return nil, err
	}
	providerCfg := suggestion.ProviderConfig{Model: model, MaxTokens: maxTokens}

	itineraryProfile, err := profiles.Get("itinerary")
	if err != nil {
		return nil, err
	}
	itineraryProvider, err := suggestion.NewProvider(completion, itineraryProfile, suggestion.NewItineraryResponse, providerCfg, logger)
	if err != nil {
		return nil, err
	}

	mealPlanProfile, err := profiles.Get("mealplan")
	if err != nil {
		return nil, err
	}
	mealPlanProvider, err := suggestion.NewProvider(completion, mealPlanProfile, suggestion.NewMealPlanResponse, providerCfg, logger)
	if err != nil {
		return nil, err
	}

	var itineraryProcessors []services.ChangeProcessor[itinerary.Meta, *itinerary.Activity]
	if cfg.GoogleMapsAPIKey != "" {
		places := external.NewPlacesClient(cfg.GoogleMapsAPIKey)
		itineraryProcessors = append(itineraryProcessors, processing.NewPlaceEnricher(places, cfg.PlaceCacheTTL, m, logger))
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set - suggested places stay unresolved")
	}

	links := external.NewHTTPLinkChecker(cfg.LinkCheckTimeout)
	mealPlanProcessors := []services.ChangeProcessor[mealplan.Meta, *mealplan.Meal]{
		processing.NewLinkValidator[mealplan.Meta, *mealplan.Meal](links, m, logger),
	}

	return &Services{
		Itineraries: projectsvc.NewProjectService[itinerary.Meta, *itinerary.Activity]("itinerary", storage.Itineraries, itineraryProvider, itineraryProcessors, m, logger),
		MealPlans:   projectsvc.NewProjectService[mealplan.Meta, *mealplan.Meal]("meal_plan", storage.MealPlans, mealPlanProvider, mealPlanProcessors, m, logger),
	}, nil
}

// outputBudget caps the configured completion budget at the model's output
// limit. Models missing from the registry keep the configured value.
func outputBudget(registry *capabilities.Registry, provider, model string, configured int, logger *slog.Logger) (int, error) {
	caps, err := registry.GetModelCapabilities(provider, model)
	if err != nil {
		logger.Warn("model capabilities unknown", "provider", provider, "model", model, "error", err)
		return configured, nil
	}
	if !caps.SupportsTools {
		return 0, fmt.Errorf("model %s does not support tool calls", model)
	}
	if caps.MaxOutput > 0 && configured > caps.MaxOutput {
		logger.Warn("LLM_MAX_TOKENS exceeds model output limit", "model", model, "configured", configured, "limit", caps.MaxOutput)
		return caps.MaxOutput, nil
	}
	return configured, nil
}
