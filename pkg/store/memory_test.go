package store

import (
	"context"
	"errors"
	"testing"

	"github.com/kintree/kintree/pkg/family"
)

func TestMemoryPersonCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	// Insert assigns sequential IDs and ignores the input ID.
	a, err := m.InsertPerson(ctx, family.Person{ID: 99, Name: "Ada"})
	if err != nil {
		t.Fatalf("InsertPerson: %v", err)
	}
	if a.ID != 1 {
		t.Errorf("first ID = %d, want 1", a.ID)
	}
	b, _ := m.InsertPerson(ctx, family.Person{Name: "Blaise"})
	if b.ID != 2 {
		t.Errorf("second ID = %d, want 2", b.ID)
	}

	// Get
	got, err := m.GetPerson(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("Name = %q, want Ada", got.Name)
	}
	if _, err := m.GetPerson(ctx, 42); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("GetPerson(42) error = %v, want ErrPersonNotFound", err)
	}

	// Replace is a full-record overwrite.
	a.Name = "Ada Lovelace"
	a.BirthDate = "1815-12-10"
	if err := m.ReplacePerson(ctx, a); err != nil {
		t.Fatalf("ReplacePerson: %v", err)
	}
	got, _ = m.GetPerson(ctx, a.ID)
	if got.Name != "Ada Lovelace" || got.BirthDate != "1815-12-10" {
		t.Errorf("after replace: %+v", got)
	}
	if err := m.ReplacePerson(ctx, family.Person{ID: 42, Name: "Ghost"}); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("ReplacePerson(42) error = %v, want ErrPersonNotFound", err)
	}

	// List is ordered by ID.
	people, _ := m.ListPeople(ctx)
	if len(people) != 2 || people[0].ID != 1 || people[1].ID != 2 {
		t.Errorf("ListPeople = %+v", people)
	}

	// Delete
	if err := m.DeletePerson(ctx, b.ID); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	if err := m.DeletePerson(ctx, b.ID); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("double delete error = %v, want ErrPersonNotFound", err)
	}
}

func TestMemoryReciprocalRelationships(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	tests := []struct {
		relType    string
		wantMirror string
	}{
		{family.RelParent, family.RelChild},
		{family.RelChild, family.RelParent},
		{family.RelSpouse, family.RelSpouse},
		{family.RelSibling, family.RelSibling},
	}

	for _, tt := range tests {
		t.Run(tt.relType, func(t *testing.T) {
			m := NewMemory()
			r, err := m.AddRelationship(ctx, family.Relationship{
				Type: tt.relType, PersonID: 1, RelatedPersonID: 2,
			})
			if err != nil {
				t.Fatalf("AddRelationship: %v", err)
			}

			rels, _ := m.ListRelationships(ctx)
			if len(rels) != 2 {
				t.Fatalf("stored %d relationships, want 2 (edge + mirror)", len(rels))
			}

			var mirror family.Relationship
			for _, got := range rels {
				if got.ID != r.ID {
					mirror = got
				}
			}
			if mirror.Type != tt.wantMirror {
				t.Errorf("mirror type = %s, want %s", mirror.Type, tt.wantMirror)
			}
			if mirror.PersonID != 2 || mirror.RelatedPersonID != 1 {
				t.Errorf("mirror endpoints = %d→%d, want 2→1", mirror.PersonID, mirror.RelatedPersonID)
			}
		})
	}

	// Invalid type and self-relationship are rejected before anything is stored.
	if _, err := m.AddRelationship(ctx, family.Relationship{Type: "cousin", PersonID: 1, RelatedPersonID: 2}); err == nil {
		t.Error("unknown type should be rejected")
	}
	if _, err := m.AddRelationship(ctx, family.Relationship{Type: family.RelSpouse, PersonID: 1, RelatedPersonID: 1}); err == nil {
		t.Error("self-relationship should be rejected")
	}
	if rels, _ := m.ListRelationships(ctx); len(rels) != 0 {
		t.Errorf("rejected inserts should store nothing, got %d", len(rels))
	}
}

func TestMemoryDeleteRelationshipRemovesMirror(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	r, _ := m.AddRelationship(ctx, family.Relationship{
		Type: family.RelParent, PersonID: 1, RelatedPersonID: 2,
	})

	if err := m.DeleteRelationship(ctx, r.ID); err != nil {
		t.Fatalf("DeleteRelationship: %v", err)
	}

	rels, _ := m.ListRelationships(ctx)
	if len(rels) != 0 {
		t.Errorf("mirror should be removed too, %d relationships remain", len(rels))
	}

	if err := m.DeleteRelationship(ctx, r.ID); !errors.Is(err, ErrRelationshipNotFound) {
		t.Errorf("delete of missing relationship = %v, want ErrRelationshipNotFound", err)
	}
}

func TestMemoryDeleteMirrorSide(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	r, _ := m.AddRelationship(ctx, family.Relationship{
		Type: family.RelParent, PersonID: 1, RelatedPersonID: 2,
	})

	// Find the mirror and delete THAT side; the original must go too.
	rels, _ := m.ListRelationships(ctx)
	var mirrorID int
	for _, got := range rels {
		if got.ID != r.ID {
			mirrorID = got.ID
		}
	}
	if err := m.DeleteRelationship(ctx, mirrorID); err != nil {
		t.Fatalf("DeleteRelationship(mirror): %v", err)
	}
	if rels, _ := m.ListRelationships(ctx); len(rels) != 0 {
		t.Errorf("deleting the mirror side should remove both, %d remain", len(rels))
	}
}

func TestMemoryDeletePersonCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	a, _ := m.InsertPerson(ctx, family.Person{Name: "A"})
	b, _ := m.InsertPerson(ctx, family.Person{Name: "B"})
	c, _ := m.InsertPerson(ctx, family.Person{Name: "C"})

	m.AddRelationship(ctx, family.Relationship{Type: family.RelParent, PersonID: a.ID, RelatedPersonID: b.ID})
	m.AddRelationship(ctx, family.Relationship{Type: family.RelSpouse, PersonID: a.ID, RelatedPersonID: c.ID})
	m.AddRelationship(ctx, family.Relationship{Type: family.RelSibling, PersonID: b.ID, RelatedPersonID: c.ID})

	if err := m.DeletePerson(ctx, a.ID); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}

	rels, _ := m.ListRelationships(ctx)
	// Only the b↔c sibling pair should survive.
	if len(rels) != 2 {
		t.Fatalf("%d relationships remain, want 2", len(rels))
	}
	for _, r := range rels {
		if r.PersonID == a.ID || r.RelatedPersonID == a.ID {
			t.Errorf("relationship %+v still references deleted person", r)
		}
	}
}

func TestMemoryDuplicatePairsDeleteOnePair(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	// The store does not deduplicate: two identical parent edges mean two pairs.
	r1, _ := m.AddRelationship(ctx, family.Relationship{Type: family.RelParent, PersonID: 1, RelatedPersonID: 2})
	m.AddRelationship(ctx, family.Relationship{Type: family.RelParent, PersonID: 1, RelatedPersonID: 2})

	if err := m.DeleteRelationship(ctx, r1.ID); err != nil {
		t.Fatalf("DeleteRelationship: %v", err)
	}
	rels, _ := m.ListRelationships(ctx)
	if len(rels) != 2 {
		t.Errorf("deleting one pair should leave the other intact, %d remain", len(rels))
	}
}
