package kinio

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/store"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemory()

	for _, name := range []string{"Greta", "Henrik", "Ida"} {
		if _, err := st.InsertPerson(ctx, family.Person{Name: name}); err != nil {
			t.Fatalf("InsertPerson: %v", err)
		}
	}
	rels := []family.Relationship{
		{Type: family.RelSpouse, PersonID: 1, RelatedPersonID: 2},
		{Type: family.RelParent, PersonID: 1, RelatedPersonID: 3},
	}
	for _, r := range rels {
		if _, err := st.AddRelationship(ctx, r); err != nil {
			t.Fatalf("AddRelationship: %v", err)
		}
	}
	return st
}

func TestCapture(t *testing.T) {
	ctx := context.Background()
	snap, err := Capture(ctx, seedStore(t))
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if snap.ID == "" {
		t.Error("snapshot ID should be set")
	}
	if snap.ExportedAt.IsZero() {
		t.Error("ExportedAt should be set")
	}
	if len(snap.People) != 3 {
		t.Errorf("people = %d, want 3", len(snap.People))
	}
	// Both directions of both relationships
	if len(snap.Relationships) != 4 {
		t.Errorf("relationships = %d, want 4", len(snap.Relationships))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	if err := WriteJSON(ctx, seedStore(t), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	if !strings.Contains(buf.String(), `"exported_at"`) {
		t.Error("output missing exported_at field")
	}

	snap, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(snap.People) != 3 || len(snap.Relationships) != 4 {
		t.Errorf("round trip lost records: %d people, %d relationships",
			len(snap.People), len(snap.Relationships))
	}
}

func TestReadJSONMalformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("malformed input should fail")
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	snap, err := Capture(ctx, seedStore(t))
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	dst := store.NewMemory()
	if err := Restore(ctx, dst, snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	people, _ := dst.ListPeople(ctx)
	if len(people) != 3 {
		t.Errorf("people = %d, want 3", len(people))
	}
	rels, _ := dst.ListRelationships(ctx)
	if len(rels) != 4 {
		t.Errorf("relationships = %d, want 4 (mirrors must not double)", len(rels))
	}
}

func TestRestoreReestablishesMirrors(t *testing.T) {
	ctx := context.Background()

	// A hand-edited snapshot carrying only one direction per pair.
	snap := &Snapshot{
		People: []family.Person{
			{ID: 10, Name: "Greta"},
			{ID: 20, Name: "Ida"},
		},
		Relationships: []family.Relationship{
			{ID: 1, Type: family.RelParent, PersonID: 10, RelatedPersonID: 20},
		},
	}

	dst := store.NewMemory()
	if err := Restore(ctx, dst, snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	rels, _ := dst.ListRelationships(ctx)
	if len(rels) != 2 {
		t.Fatalf("relationships = %d, want 2 (mirror re-established)", len(rels))
	}

	types := map[string]bool{}
	for _, r := range rels {
		types[r.Type] = true
	}
	if !types[family.RelParent] || !types[family.RelChild] {
		t.Errorf("expected parent and child edges, got %v", rels)
	}
}

func TestRestoreRemapsIDs(t *testing.T) {
	ctx := context.Background()

	snap := &Snapshot{
		People: []family.Person{
			{ID: 40, Name: "Henrik"},
			{ID: 7, Name: "Greta"},
		},
		Relationships: []family.Relationship{
			{ID: 1, Type: family.RelSpouse, PersonID: 7, RelatedPersonID: 40},
			{ID: 2, Type: family.RelSpouse, PersonID: 40, RelatedPersonID: 7},
		},
	}

	dst := store.NewMemory()
	if err := Restore(ctx, dst, snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	// Insertion follows snapshot ID order: Greta (7) first.
	p, err := dst.GetPerson(ctx, 1)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if p.Name != "Greta" {
		t.Errorf("person 1 = %q, want Greta", p.Name)
	}

	rels, _ := dst.ListRelationships(ctx)
	if len(rels) != 2 {
		t.Fatalf("relationships = %d, want 2", len(rels))
	}
	for _, r := range rels {
		if r.PersonID > 2 || r.RelatedPersonID > 2 {
			t.Errorf("endpoints not remapped: %+v", r)
		}
	}
}

func TestRestoreSkipsDanglingEdges(t *testing.T) {
	ctx := context.Background()

	snap := &Snapshot{
		People: []family.Person{{ID: 1, Name: "Greta"}},
		Relationships: []family.Relationship{
			{ID: 1, Type: family.RelParent, PersonID: 1, RelatedPersonID: 99},
		},
	}

	dst := store.NewMemory()
	if err := Restore(ctx, dst, snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	rels, _ := dst.ListRelationships(ctx)
	if len(rels) != 0 {
		t.Errorf("dangling edge should be skipped, got %v", rels)
	}
}

func TestExportImportFile(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/snapshot.json"

	if err := ExportJSON(ctx, seedStore(t), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	snap, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(snap.People) != 3 {
		t.Errorf("people = %d, want 3", len(snap.People))
	}

	// The file is well-formed standalone JSON.
	data, _ := json.Marshal(snap)
	if !json.Valid(data) {
		t.Error("snapshot should re-marshal to valid JSON")
	}
}
