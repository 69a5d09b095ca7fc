package processing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistant/internal/domain"
	"assistant/internal/domain/models/itinerary"
	"assistant/internal/domain/models/mealplan"
	"assistant/internal/domain/models/project"
	"assistant/internal/domain/services"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeLookup counts calls per query and can block until released.
type fakeLookup struct {
	mu      sync.Mutex
	calls   map[string]int
	records map[string]*services.PlaceRecord
	release chan struct{}
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		calls: map[string]int{},
		records: map[string]*services.PlaceRecord{
			"Louvre Museum": {Reference: "ChIJ-louvre", Name: "Musée du Louvre", URI: "https://maps.google.com/?cid=1", Latitude: 48.86, Longitude: 2.33},
			"Eiffel Tower":  {Reference: "ChIJ-eiffel", Name: "Eiffel Tower", Latitude: 48.85, Longitude: 2.29},
		},
	}
}

func (f *fakeLookup) SearchPlace(ctx context.Context, query string) (*services.PlaceRecord, error) {
	f.mu.Lock()
	f.calls[query]++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.records[query], nil
}

func (f *fakeLookup) callCount(query string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[query]
}

func addition(id string, start, end string) itinerary.Change {
	a := &itinerary.Activity{ProjectItem: project.ProjectItem{ID: id, Name: id}}
	if start != "" {
		a.Start.Place = &itinerary.Place{SearchQuery: start}
	}
	if end != "" {
		a.End.Place = &itinerary.Place{SearchQuery: end}
	}
	return &itinerary.Addition{Item: a}
}

func TestPlaceEnricher_ResolvesPlaces(t *testing.T) {
	lookup := newFakeLookup()
	e := NewPlaceEnricher(lookup, time.Hour, nil, discard)

	changes := []itinerary.Change{
		addition("a", "Louvre Museum", "Eiffel Tower"),
		&itinerary.Removal{ItemID: "x"},
		addition("b", "Louvre Museum", ""),
	}

	out, err := e.Process(context.Background(), itinerary.New("Paris", itinerary.Meta{}), changes)
	require.NoError(t, err)
	require.Len(t, out, 3)

	first := out[0].(*itinerary.Addition).Item
	assert.Equal(t, "ChIJ-louvre", first.Start.Place.Reference)
	assert.Equal(t, "Musée du Louvre", first.Start.Place.Name)
	assert.Equal(t, "Louvre Museum", first.Start.Place.SearchQuery)
	assert.Equal(t, 48.85, first.End.Place.Latitude)

	third := out[2].(*itinerary.Addition).Item
	assert.Equal(t, "ChIJ-louvre", third.Start.Place.Reference)
	assert.Equal(t, 1, lookup.callCount("Louvre Museum"), "second query should be served from cache")
}

func TestPlaceEnricher_NoMatchFailsWithQuery(t *testing.T) {
	lookup := newFakeLookup()
	e := NewPlaceEnricher(lookup, time.Hour, nil, discard)

	_, err := e.Process(context.Background(), nil, []itinerary.Change{addition("a", "Atlantis", "")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDependency))
	assert.Equal(t, `Location query "Atlantis" yielded no results.`, err.Error())

	// Misses are not cached.
	_, _ = e.Process(context.Background(), nil, []itinerary.Change{addition("a", "Atlantis", "")})
	assert.Equal(t, 2, lookup.callCount("Atlantis"))
}

func TestPlaceEnricher_ConcurrentRequestsShareOneLookup(t *testing.T) {
	lookup := newFakeLookup()
	lookup.release = make(chan struct{})
	e := NewPlaceEnricher(lookup, time.Hour, nil, discard)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Process(context.Background(), nil, []itinerary.Change{addition("a", "Eiffel Tower", "")})
			errs <- err
		}()
	}

	require.Eventually(t, func() bool { return lookup.callCount("Eiffel Tower") == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(lookup.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, lookup.callCount("Eiffel Tower"))
}

func TestPlaceEnricher_SkipsResolvedPlaces(t *testing.T) {
	lookup := newFakeLookup()
	e := NewPlaceEnricher(lookup, time.Hour, nil, discard)

	change := addition("a", "Louvre Museum", "")
	change.(*itinerary.Addition).Item.Start.Place.Reference = "known"

	_, err := e.Process(context.Background(), nil, []itinerary.Change{change})
	require.NoError(t, err)
	assert.Equal(t, 0, lookup.callCount("Louvre Museum"))
}

func TestPlaceEnricher_CancelledContext(t *testing.T) {
	e := NewPlaceEnricher(newFakeLookup(), time.Hour, nil, discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Process(ctx, nil, []itinerary.Change{addition("a", "Louvre Museum", "")})
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeChecker struct {
	mu       sync.Mutex
	statuses map[string]int
	checked  []string
}

func (f *fakeChecker) Check(_ context.Context, url string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, url)
	if s, ok := f.statuses[url]; ok {
		return s, nil
	}
	return 0, errors.New("connection refused")
}

func meal(id, link string) mealplan.Change {
	return &mealplan.Addition{Item: &mealplan.Meal{ProjectItem: project.ProjectItem{ID: id, Name: id}, RecipeLink: link}}
}

func TestLinkValidator(t *testing.T) {
	checker := &fakeChecker{statuses: map[string]int{
		"https://ok.example/soup":   200,
		"https://ok.example/moved":  204,
		"https://bad.example/gone":  404,
		"https://bad.example/error": 500,
	}}

	tests := []struct {
		name    string
		changes []mealplan.Change
		wantErr string
	}{
		{
			name:    "valid links",
			changes: []mealplan.Change{meal("a", "https://ok.example/soup"), meal("b", "https://ok.example/moved")},
		},
		{
			name:    "no link",
			changes: []mealplan.Change{meal("a", ""), &mealplan.Removal{ItemID: "z"}},
		},
		{
			name:    "not found",
			changes: []mealplan.Change{meal("a", "https://ok.example/soup"), meal("b", "https://bad.example/gone")},
			wantErr: "Status code does not indicate valid link https://bad.example/gone, 404",
		},
		{
			name:    "unreachable",
			changes: []mealplan.Change{meal("a", "https://nowhere.example")},
			wantErr: "Link https://nowhere.example could not be checked: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewLinkValidator[mealplan.Meta, *mealplan.Meal](checker, nil, discard)
			out, err := v.Process(context.Background(), nil, tt.changes)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.changes, out)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
			assert.Equal(t, domain.KindDependency, domain.KindOf(err))
			assert.Nil(t, out)
		})
	}
}

func TestLinkValidator_IgnoresItemsWithoutLinks(t *testing.T) {
	checker := &fakeChecker{}
	v := NewLinkValidator[itinerary.Meta, *itinerary.Activity](checker, nil, discard)

	_, err := v.Process(context.Background(), nil, []itinerary.Change{addition("a", "Louvre Museum", "")})
	require.NoError(t, err)
	assert.Empty(t, checker.checked)
}
