package kinio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/store"
)

// Snapshot is the serialized form of a complete record set.
type Snapshot struct {
	ID            string                `json:"id"`
	ExportedAt    time.Time             `json:"exported_at"`
	People        []family.Person       `json:"people"`
	Relationships []family.Relationship `json:"relationships"`
}

// Capture reads the full record state from the store into a snapshot,
// stamped with a fresh snapshot ID and the current time.
func Capture(ctx context.Context, st store.Store) (*Snapshot, error) {
	people, err := st.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	rels, err := st.ListRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}

	return &Snapshot{
		ID:            uuid.NewString(),
		ExportedAt:    time.Now().UTC(),
		People:        people,
		Relationships: rels,
	}, nil
}

// WriteJSON captures the store state and writes it to w as indented JSON.
// The output can be re-imported with [Restore] for round-trip processing.
func WriteJSON(ctx context.Context, st store.Store, w io.Writer) error {
	snap, err := Capture(ctx, st)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot of the store to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(ctx context.Context, st store.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(ctx, st, f)
}
