package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"assistant/internal/config"
	"assistant/internal/domain/models"
	"assistant/internal/domain/models/itinerary"
	"assistant/internal/domain/models/mealplan"
	"assistant/internal/domain/models/project"
	"assistant/internal/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed projects")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	storage, err := service.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := storage.DropTables(ctx); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := storage.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		return
	}

	it, err := seedItinerary()
	if err != nil {
		log.Fatalf("Failed to build itinerary: %v", err)
	}
	itineraries := storage.Itineraries()
	if err := itineraries.Add(it); err != nil {
		log.Fatalf("Failed to stage itinerary: %v", err)
	}
	if err := itineraries.Save(ctx); err != nil {
		log.Fatalf("Failed to save itinerary: %v", err)
	}
	log.Printf("✅ Created itinerary %q (ID: %s, Activities: %d)", it.Name, it.ID, len(it.Items))

	plan, err := seedMealPlan()
	if err != nil {
		log.Fatalf("Failed to build meal plan: %v", err)
	}
	mealPlans := storage.MealPlans()
	if err := mealPlans.Add(plan); err != nil {
		log.Fatalf("Failed to stage meal plan: %v", err)
	}
	if err := mealPlans.Save(ctx); err != nil {
		log.Fatalf("Failed to save meal plan: %v", err)
	}
	log.Printf("✅ Created meal plan %q (ID: %s, Meals: %d)", plan.Name, plan.ID, len(plan.Items))

	log.Println("🎉 Seeding complete!")
}

// seedItinerary builds a two-day city trip through the regular change path.
func seedItinerary() (*itinerary.Itinerary, error) {
	now := time.Now().UTC()
	it := itinerary.New("Paris Weekend", itinerary.Meta{Description: "A short first visit"})
	it.ID = uuid.NewString()
	it.CreatedAt, it.UpdatedAt = now, now

	stops := []struct {
		name, query, start, end string
	}{
		{"Louvre Museum", "Louvre Museum, Paris", "2025-04-14T10:00:00", "2025-04-14T13:00:00"},
		{"Lunch at Café Marly", "Café Marly, Paris", "2025-04-14T13:15:00", "2025-04-14T14:30:00"},
		{"Eiffel Tower", "Eiffel Tower, Paris", "2025-04-15T18:00:00", "2025-04-15T20:00:00"},
	}

	var changes []itinerary.Change
	preceding := ""
	for _, s := range stops {
		start, err := zoned(s.start, "Europe/Paris")
		if err != nil {
			return nil, err
		}
		end, err := zoned(s.end, "Europe/Paris")
		if err != nil {
			return nil, err
		}
		a := &itinerary.Activity{
			ProjectItem: project.ProjectItem{ID: uuid.NewString(), Name: s.name},
			Start:       itinerary.TimeAndPlace{Time: start, Place: &itinerary.Place{SearchQuery: s.query}},
			End:         itinerary.TimeAndPlace{Time: end},
		}
		changes = append(changes, &itinerary.Addition{Item: a, PrecedingItemID: preceding})
		preceding = a.ID
	}

	if err := it.Apply(changes...); err != nil {
		return nil, err
	}
	return it, nil
}

func seedMealPlan() (*mealplan.MealPlan, error) {
	now := time.Now().UTC()
	plan := mealplan.New("Weeknight Dinners", mealplan.Meta{Servings: 2})
	plan.ID = uuid.NewString()
	plan.CreatedAt, plan.UpdatedAt = now, now

	meals := []struct {
		name, recipe string
		day          int
	}{
		{"Lentil Soup", "Red lentils simmered with cumin and lemon", 14},
		{"Shakshuka", "Eggs poached in spiced tomato sauce", 15},
		{"Mushroom Risotto", "Arborio rice, porcini, parmesan", 16},
	}

	var changes []mealplan.Change
	for _, m := range meals {
		changes = append(changes, &mealplan.Addition{Item: &mealplan.Meal{
			ProjectItem: project.ProjectItem{ID: uuid.NewString(), Name: m.name},
			Recipe:      m.recipe,
			EatOn:       models.NewLocalDateTime(2025, time.April, m.day, 19, 0, 0),
		}})
	}

	if err := plan.Apply(changes...); err != nil {
		return nil, err
	}
	return plan, nil
}

func zoned(local, tz string) (models.ZonedTime, error) {
	l, err := models.ParseLocalDateTime(local)
	if err != nil {
		return models.ZonedTime{}, err
	}
	z, err := l.In(tz)
	if err != nil {
		return models.ZonedTime{}, fmt.Errorf("seed time %s: %w", local, err)
	}
	return z, nil
}
