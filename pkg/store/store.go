// Package store defines the record store interface for persons and
// relationships, and its in-memory implementation.
//
// The store owns two invariants that callers must never maintain themselves:
//
//  1. Reciprocity: adding a relationship of type X between A→B also records
//     the mirror relationship of the reciprocal type between B→A
//     (parent↔child, spouse↔spouse, sibling↔sibling). Deleting either side
//     removes its mirror.
//  2. Cascade: deleting a person removes every relationship referencing it.
//
// Referential integrity is intentionally NOT enforced: a relationship may
// reference person IDs that were never inserted. The tree builder skips such
// edges.
//
// A MongoDB-backed implementation with identical semantics lives in
// store/mongo for deployments that need records to survive restarts.
package store

import (
	"context"
	"errors"

	"github.com/kintree/kintree/pkg/family"
)

var (
	// ErrPersonNotFound is returned when a person ID does not exist.
	ErrPersonNotFound = errors.New("person not found")

	// ErrRelationshipNotFound is returned when a relationship ID does not exist.
	ErrRelationshipNotFound = errors.New("relationship not found")
)

// Store is the interface for record storage backends.
// Implementations must maintain the reciprocity and cascade invariants
// documented on the package.
type Store interface {
	// ListPeople returns all persons ordered by ID.
	ListPeople(ctx context.Context) ([]family.Person, error)

	// GetPerson returns the person with the given ID.
	// Returns ErrPersonNotFound if it does not exist.
	GetPerson(ctx context.Context, id int) (family.Person, error)

	// InsertPerson stores a new person, assigning the next ID.
	// The input's ID field is ignored. Returns the stored record.
	InsertPerson(ctx context.Context, p family.Person) (family.Person, error)

	// ReplacePerson replaces the full record of an existing person.
	// Returns ErrPersonNotFound if the ID does not exist.
	ReplacePerson(ctx context.Context, p family.Person) error

	// DeletePerson removes a person and cascades to all relationships
	// referencing it. Returns ErrPersonNotFound if the ID does not exist.
	DeletePerson(ctx context.Context, id int) error

	// ListRelationships returns all relationships (mirrors included) ordered by ID.
	ListRelationships(ctx context.Context) ([]family.Relationship, error)

	// AddRelationship stores a relationship and its mirror, assigning IDs to
	// both. The input's ID field is ignored. Returns the stored record for
	// the requested direction.
	AddRelationship(ctx context.Context, r family.Relationship) (family.Relationship, error)

	// DeleteRelationship removes a relationship and its mirror.
	// Returns ErrRelationshipNotFound if the ID does not exist.
	DeleteRelationship(ctx context.Context, id int) error

	// Close releases resources held by the store.
	Close(ctx context.Context) error
}
