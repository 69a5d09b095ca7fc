package itinerary

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"assistant/internal/domain"
	"assistant/internal/domain/models"
	"assistant/internal/domain/models/project"
)

func zoned(t *testing.T, s string) models.ZonedTime {
	t.Helper()
	z, err := models.ParseZonedTime(s)
	if err != nil {
		t.Fatalf("ParseZonedTime(%q): %v", s, err)
	}
	return z
}

func activity(id string) *Activity {
	return &Activity{ProjectItem: project.ProjectItem{ID: id, Name: "Visit " + id}}
}

func TestRescheduling_Apply(t *testing.T) {
	it := New("Paris", Meta{})
	it.Items = append(it.Items, activity("louvre"))

	start := zoned(t, "2025-04-14T15:00:00[Europe/Paris]")
	end := zoned(t, "2025-04-14T13:00:00[Europe/Paris]")
	r := &Rescheduling{ItemID: "louvre", Start: start, End: end}

	if err := r.Apply(it); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := it.Items[0]
	if !got.Start.Time.Equal(start.Time) || !got.End.Time.Equal(end.Time) {
		t.Errorf("times not overwritten: %v - %v", got.Start.Time, got.End.Time)
	}
}

func TestRescheduling_MissingItem(t *testing.T) {
	it := New("Paris", Meta{})
	r := &Rescheduling{ItemID: "nope"}
	err := r.Apply(it)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Apply() error = %v, want not found", err)
	}
	if err.Error() != "Item to reschedule was not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestRescheduling_Describe(t *testing.T) {
	it := New("Paris", Meta{})
	it.Items = append(it.Items, activity("louvre"))
	r := &Rescheduling{
		ItemID: "louvre",
		Start:  zoned(t, "2025-04-14T10:00:00[Europe/Paris]"),
		End:    zoned(t, "2025-04-14T12:00:00[Europe/Paris]"),
	}
	want := `Reschedule "Visit louvre" to 2025-04-14T10:00:00[Europe/Paris] - 2025-04-14T12:00:00[Europe/Paris].`
	if got := r.Describe(it); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestPlacesOf(t *testing.T) {
	a := activity("louvre")
	a.Start.Place = &Place{SearchQuery: "Louvre Museum"}
	a.End.Place = &Place{SearchQuery: "Tuileries Garden"}

	tests := []struct {
		name   string
		change Change
		want   int
	}{
		{"addition with two places", &Addition{Item: a}, 2},
		{"addition without places", &Addition{Item: activity("x")}, 0},
		{"removal", &Removal{ItemID: "louvre"}, 0},
		{"reordering", &Reordering{ItemID: "louvre"}, 0},
		{"rescheduling", &Rescheduling{ItemID: "louvre"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(PlacesOf(tt.change)); got != tt.want {
				t.Errorf("PlacesOf() returned %d places, want %d", got, tt.want)
			}
		})
	}
}

func TestCodec_DecodesRescheduling(t *testing.T) {
	codec := NewCodec()
	raw := `{"ItemId":"louvre","Start":"2025-04-14T10:00:00[Europe/Paris]","End":"2025-04-14T12:00:00[Europe/Paris]"}`
	change, err := codec.Decode(project.Envelope{Kind: project.KindRescheduling, Change: json.RawMessage(raw)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	r, ok := change.(*Rescheduling)
	if !ok {
		t.Fatalf("decoded %T, want *Rescheduling", change)
	}
	if r.Start.ZoneID() != "Europe/Paris" || r.Start.Hour() != 10 {
		t.Errorf("start = %v", r.Start)
	}
}

func TestActivityJSONShape(t *testing.T) {
	a := activity("louvre")
	a.Start.Time = zoned(t, "2025-04-14T15:23:56[Europe/Paris]")
	a.Start.Place = &Place{SearchQuery: "Louvre Museum"}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["Id"] != "louvre" {
		t.Errorf("Id = %v", m["Id"])
	}
	start := m["Start"].(map[string]any)
	if start["Time"] != "2025-04-14T15:23:56[Europe/Paris]" {
		t.Errorf("Start.Time = %v", start["Time"])
	}

	var back Activity
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	_, offset := back.Start.Time.Zone()
	if offset != 2*int(time.Hour/time.Second) {
		t.Errorf("offset = %d, want CEST", offset)
	}
}
