package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/kintree/kintree/pkg/family"
)

// Memory is the in-memory record store. IDs are auto-incrementing integers,
// shared across restarts only via export/import.
//
// Memory is safe for concurrent use: the HTTP surface serves requests from
// multiple goroutines even though the data set is small.
type Memory struct {
	mu sync.RWMutex

	people        map[int]family.Person
	relationships map[int]family.Relationship

	nextPersonID int
	nextRelID    int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		people:        make(map[int]family.Person),
		relationships: make(map[int]family.Relationship),
		nextPersonID:  1,
		nextRelID:     1,
	}
}

// ListPeople returns all persons ordered by ID.
func (m *Memory) ListPeople(ctx context.Context) ([]family.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	people := make([]family.Person, 0, len(m.people))
	for _, id := range slices.Sorted(maps.Keys(m.people)) {
		people = append(people, m.people[id])
	}
	return people, nil
}

// GetPerson returns the person with the given ID.
func (m *Memory) GetPerson(ctx context.Context, id int) (family.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.people[id]
	if !ok {
		return family.Person{}, ErrPersonNotFound
	}
	return p, nil
}

// InsertPerson stores a new person under the next free ID.
func (m *Memory) InsertPerson(ctx context.Context, p family.Person) (family.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = m.nextPersonID
	m.nextPersonID++
	m.people[p.ID] = p
	return p, nil
}

// ReplacePerson replaces the full record of an existing person.
func (m *Memory) ReplacePerson(ctx context.Context, p family.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.people[p.ID]; !ok {
		return ErrPersonNotFound
	}
	m.people[p.ID] = p
	return nil
}

// DeletePerson removes a person and every relationship referencing it.
func (m *Memory) DeletePerson(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.people[id]; !ok {
		return ErrPersonNotFound
	}
	delete(m.people, id)

	for relID, r := range m.relationships {
		if r.PersonID == id || r.RelatedPersonID == id {
			delete(m.relationships, relID)
		}
	}
	return nil
}

// ListRelationships returns all relationships ordered by ID.
func (m *Memory) ListRelationships(ctx context.Context) ([]family.Relationship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rels := make([]family.Relationship, 0, len(m.relationships))
	for _, id := range slices.Sorted(maps.Keys(m.relationships)) {
		rels = append(rels, m.relationships[id])
	}
	return rels, nil
}

// AddRelationship stores the relationship and its reciprocal mirror.
// Both records get consecutive IDs; the requested direction is returned.
func (m *Memory) AddRelationship(ctx context.Context, r family.Relationship) (family.Relationship, error) {
	if err := r.Validate(); err != nil {
		return family.Relationship{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = m.nextRelID
	m.nextRelID++
	m.relationships[r.ID] = r

	mirror := r.Mirror()
	mirror.ID = m.nextRelID
	m.nextRelID++
	m.relationships[mirror.ID] = mirror

	return r, nil
}

// DeleteRelationship removes a relationship and its mirror.
func (m *Memory) DeleteRelationship(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.relationships[id]
	if !ok {
		return ErrRelationshipNotFound
	}
	delete(m.relationships, id)

	// Remove the first matching mirror edge. Duplicate pairs are possible
	// (the store does not deduplicate), so only one mirror is removed.
	for _, mid := range slices.Sorted(maps.Keys(m.relationships)) {
		if r.IsMirrorOf(m.relationships[mid]) {
			delete(m.relationships, mid)
			break
		}
	}
	return nil
}

// Close does nothing for the in-memory store.
func (m *Memory) Close(ctx context.Context) error {
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
