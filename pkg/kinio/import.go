package kinio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/store"
)

// ReadJSON decodes a snapshot from r.
//
// Only the document structure is checked here; record-level validation
// happens in [Restore], where each record passes through the store's normal
// insert path. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &snap, nil
}

// ImportJSON reads a snapshot file at path and decodes it.
func ImportJSON(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// mirrorKey identifies a directed relationship edge by its snapshot IDs.
type mirrorKey struct {
	Type      string
	PersonID  int
	RelatedID int
}

// Restore replays a snapshot into the store.
//
// People are inserted in snapshot ID order and receive fresh IDs from the
// store; relationship endpoints are remapped accordingly. Each relationship
// is added through the store, which creates the reciprocal edge itself - the
// snapshot's own mirror edges are recognized and consumed rather than added
// again, so a snapshot never doubles its relationships on import.
//
// Edges whose endpoints are missing from the snapshot's people list are
// skipped, matching the store's tolerance for dangling references.
func Restore(ctx context.Context, st store.Store, snap *Snapshot) error {
	people := slices.Clone(snap.People)
	slices.SortFunc(people, func(a, b family.Person) int { return a.ID - b.ID })

	idMap := make(map[int]int, len(people))
	for _, p := range people {
		oldID := p.ID
		p.ID = 0
		inserted, err := st.InsertPerson(ctx, p)
		if err != nil {
			return fmt.Errorf("person %d (%s): %w", oldID, p.Name, err)
		}
		idMap[oldID] = inserted.ID
	}

	rels := slices.Clone(snap.Relationships)
	slices.SortFunc(rels, func(a, b family.Relationship) int { return a.ID - b.ID })

	// Mirrors the store will create, counted so duplicate pairs survive.
	expected := make(map[mirrorKey]int)

	for _, r := range rels {
		key := mirrorKey{Type: r.Type, PersonID: r.PersonID, RelatedID: r.RelatedPersonID}
		if expected[key] > 0 {
			expected[key]--
			continue
		}

		personID, ok := idMap[r.PersonID]
		if !ok {
			continue // dangling edge
		}
		relatedID, ok := idMap[r.RelatedPersonID]
		if !ok {
			continue
		}

		_, err := st.AddRelationship(ctx, family.Relationship{
			Type:            r.Type,
			PersonID:        personID,
			RelatedPersonID: relatedID,
		})
		if err != nil {
			return fmt.Errorf("relationship %d (%s %d->%d): %w",
				r.ID, r.Type, r.PersonID, r.RelatedPersonID, err)
		}

		if recip, ok := family.Reciprocal(r.Type); ok {
			expected[mirrorKey{Type: recip, PersonID: r.RelatedPersonID, RelatedID: r.PersonID}]++
		}
	}

	return nil
}
