package project

import (
	"errors"
	"reflect"
	"testing"

	"assistant/internal/domain"
)

type testMeta struct {
	Note string `json:"Note"`
}

type testItem struct {
	ProjectItem
	Detail string `json:"Detail,omitempty"`
}

type testProject = Project[testMeta, *testItem]

func item(id string) *testItem {
	return &testItem{ProjectItem: ProjectItem{ID: id, Name: "item " + id}}
}

func newTestProject(ids ...string) *testProject {
	p := New[testMeta, *testItem]("trip", testMeta{})
	p.ID = "P1"
	for _, id := range ids {
		p.Items = append(p.Items, item(id))
	}
	return p
}

func ids(p *testProject) []string {
	out := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, it.ID)
	}
	return out
}

func TestAddition_Apply(t *testing.T) {
	tests := []struct {
		name      string
		start     []string
		add       string
		preceding string
		want      []string
		wantErr   bool
	}{
		{name: "append to empty", start: nil, add: "A", want: []string{"A"}},
		{name: "append to one", start: []string{"A"}, add: "B", want: []string{"A", "B"}},
		{name: "append to many", start: []string{"A", "B", "C"}, add: "D", want: []string{"A", "B", "C", "D"}},
		{name: "after first", start: []string{"A", "B", "C"}, add: "X", preceding: "A", want: []string{"A", "X", "B", "C"}},
		{name: "after last", start: []string{"A", "B"}, add: "X", preceding: "B", want: []string{"A", "B", "X"}},
		{name: "missing precedent", start: []string{"A", "B"}, add: "X", preceding: "Z", want: []string{"A", "B"}, wantErr: true},
		{name: "missing precedent on empty", start: nil, add: "X", preceding: "Z", want: []string{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProject(tt.start...)
			err := (&Addition[testMeta, *testItem]{Item: item(tt.add), PrecedingItemID: tt.preceding}).Apply(p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if err.Error() != "Preceding item was not found" {
					t.Errorf("error = %q", err.Error())
				}
				if !errors.Is(err, domain.ErrNotFound) {
					t.Errorf("expected not found kind, got %v", domain.KindOf(err))
				}
			}
			if got := ids(p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoval_Apply(t *testing.T) {
	tests := []struct {
		name    string
		start   []string
		remove  string
		want    []string
		wantErr bool
	}{
		{name: "middle", start: []string{"A", "B", "C"}, remove: "B", want: []string{"A", "C"}},
		{name: "all duplicates", start: []string{"A", "B", "A", "C"}, remove: "A", want: []string{"B", "C"}},
		{name: "absent", start: []string{"A", "B"}, remove: "Z", want: []string{"A", "B"}, wantErr: true},
		{name: "empty project", start: nil, remove: "A", want: []string{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProject(tt.start...)
			err := (&Removal[testMeta, *testItem]{ItemID: tt.remove}).Apply(p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Error() != "Item to remove was not found" {
				t.Errorf("error = %q", err.Error())
			}
			if got := ids(p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReordering_Apply(t *testing.T) {
	tests := []struct {
		name      string
		start     []string
		move      string
		preceding string
		want      []string
		wantErr   string
	}{
		{name: "to end", start: []string{"A", "B", "C"}, move: "A", want: []string{"B", "C", "A"}},
		{name: "after other", start: []string{"A", "B", "C"}, move: "C", preceding: "A", want: []string{"A", "C", "B"}},
		{name: "already last", start: []string{"A", "B"}, move: "B", want: []string{"A", "B"}},
		{name: "absent item", start: []string{"A"}, move: "Z", want: []string{"A"}, wantErr: "Item to reorder was not found"},
		{name: "absent precedent", start: []string{"A", "B"}, move: "A", preceding: "Z", want: []string{"A", "B"}, wantErr: "Preceding item was not found"},
		{name: "self precedent", start: []string{"A", "B"}, move: "A", preceding: "A", want: []string{"A", "B"}, wantErr: "Preceding item was not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProject(tt.start...)
			err := (&Reordering[testMeta, *testItem]{ItemID: tt.move, PrecedingItemID: tt.preceding}).Apply(p)
			if tt.wantErr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != "" && (err == nil || err.Error() != tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
			if got := ids(p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReordering_ToEndMatchesRemoveThenAppend(t *testing.T) {
	reordered := newTestProject("A", "B", "C", "D")
	if err := (&Reordering[testMeta, *testItem]{ItemID: "B"}).Apply(reordered); err != nil {
		t.Fatal(err)
	}

	manual := newTestProject("A", "B", "C", "D")
	moved, _ := manual.Find("B")
	if err := manual.Apply(
		&Removal[testMeta, *testItem]{ItemID: "B"},
		&Addition[testMeta, *testItem]{Item: moved},
	); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(ids(reordered), ids(manual)) {
		t.Errorf("reordered %v, manual %v", ids(reordered), ids(manual))
	}
}

func TestProject_ApplyStopsAtFirstFailure(t *testing.T) {
	p := newTestProject("A", "B")
	err := p.Apply(
		&Removal[testMeta, *testItem]{ItemID: "B"},
		&Removal[testMeta, *testItem]{ItemID: "Z"},
		&Addition[testMeta, *testItem]{Item: item("C")},
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := ids(p); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("items = %v, want [A]", got)
	}
}

func TestProject_RemoveThenAddAfter(t *testing.T) {
	p := newTestProject("A", "B")
	err := p.Apply(
		&Removal[testMeta, *testItem]{ItemID: "B"},
		&Addition[testMeta, *testItem]{Item: item("C"), PrecedingItemID: "A"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(p); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("items = %v, want [A C]", got)
	}
}

func TestDescriptions(t *testing.T) {
	p := newTestProject("A", "B")
	tests := []struct {
		name   string
		change Change[testMeta, *testItem]
		want   string
	}{
		{"addition at end", &Addition[testMeta, *testItem]{Item: item("C")}, `Add new item "item C" at the end.`},
		{"addition after", &Addition[testMeta, *testItem]{Item: item("C"), PrecedingItemID: "A"}, `Add new item "item C" after "item A".`},
		{"addition after missing", &Addition[testMeta, *testItem]{Item: item("C"), PrecedingItemID: "Z"}, `Add new item "item C" after "<Missing Item>".`},
		{"removal", &Removal[testMeta, *testItem]{ItemID: "B"}, `Remove "item B".`},
		{"removal missing", &Removal[testMeta, *testItem]{ItemID: "Z"}, `Remove "<Missing Item>".`},
		{"reorder to end", &Reordering[testMeta, *testItem]{ItemID: "A"}, `Move "item A" to the end.`},
		{"reorder after", &Reordering[testMeta, *testItem]{ItemID: "B", PrecedingItemID: "Z"}, `Move "item B" after "<Missing Item>".`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.change.Describe(p); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribe_UsesStateBeforeEachChange(t *testing.T) {
	p := newTestProject("A", "B")
	changes := []Change[testMeta, *testItem]{
		&Removal[testMeta, *testItem]{ItemID: "B"},
		&Removal[testMeta, *testItem]{ItemID: "B"},
		&Addition[testMeta, *testItem]{Item: item("C"), PrecedingItemID: "A"},
	}

	got, err := Describe(p, changes)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		`Remove "item B".`,
		`Remove "<Missing Item>".`,
		`Add new item "item C" after "item A".`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Describe() = %v, want %v", got, want)
	}
	if got := ids(p); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("original project mutated: %v", got)
	}
}

func TestChangeCodec_RoundTrip(t *testing.T) {
	codec := NewChangeCodec[testMeta, *testItem]()
	changes := []Change[testMeta, *testItem]{
		&Addition[testMeta, *testItem]{Item: item("C"), PrecedingItemID: "A"},
		&Removal[testMeta, *testItem]{ItemID: "B"},
		&Reordering[testMeta, *testItem]{ItemID: "A"},
	}

	envs, err := codec.EncodeAll(changes)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := codec.DecodeAll(envs)
	if err != nil {
		t.Fatal(err)
	}

	p := newTestProject("A", "B")
	if err := p.Apply(decoded...); err != nil {
		t.Fatal(err)
	}
	if got := ids(p); !reflect.DeepEqual(got, []string{"C", "A"}) {
		t.Errorf("items = %v, want [C A]", got)
	}
}

func TestChangeCodec_Rejects(t *testing.T) {
	codec := NewChangeCodec[testMeta, *testItem]()
	tests := []struct {
		name string
		env  Envelope
	}{
		{"unknown kind", Envelope{Kind: "teleport", Change: []byte(`{}`)}},
		{"addition without item", Envelope{Kind: KindAddition, Change: []byte(`{}`)}},
		{"addition without item id", Envelope{Kind: KindAddition, Change: []byte(`{"Item":{"Name":"x"}}`)}},
		{"removal without id", Envelope{Kind: KindRemoval, Change: []byte(`{}`)}},
		{"malformed", Envelope{Kind: KindRemoval, Change: []byte(`[1]`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.env)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Decode() error = %v, want validation", err)
			}
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	p := newTestProject("A")
	clone, err := p.Clone()
	if err != nil {
		t.Fatal(err)
	}
	clone.Items[0].Name = "changed"
	clone.Items = append(clone.Items, item("B"))

	if p.Items[0].Name != "item A" || len(p.Items) != 1 {
		t.Errorf("original changed: %+v", p.Items)
	}
}
