// Package family defines the core record types of the genealogy keeper:
// persons and the directed pairwise relationships between them.
//
// A Relationship is always stored together with its mirror: recording
// "A is parent of B" implies "B is child of A". The reciprocal type mapping
// lives here; maintaining the mirror records is the store's job.
package family

import (
	"github.com/kintree/kintree/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Relationship types.
const (
	RelParent  = "parent"
	RelChild   = "child"
	RelSpouse  = "spouse"
	RelSibling = "sibling"
)

// reciprocals maps each relationship type to the type of its mirror edge.
var reciprocals = map[string]string{
	RelParent:  RelChild,
	RelChild:   RelParent,
	RelSpouse:  RelSpouse,
	RelSibling: RelSibling,
}

// ValidRelTypes is the set of supported relationship types.
var ValidRelTypes = map[string]bool{
	RelParent:  true,
	RelChild:   true,
	RelSpouse:  true,
	RelSibling: true,
}

// Reciprocal returns the mirror type for a relationship type and whether
// the type is known: parent↔child, spouse↔spouse, sibling↔sibling.
func Reciprocal(relType string) (string, bool) {
	r, ok := reciprocals[relType]
	return r, ok
}

// =============================================================================
// Person
// =============================================================================

// Person is a genealogy record. The ID is assigned by the store on insert.
// All fields except Name are optional. Dates are free-form display strings -
// the system never computes on them.
type Person struct {
	ID         int    `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Gender     string `json:"gender,omitempty" bson:"gender,omitempty"`
	BirthDate  string `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
	BirthPlace string `json:"birth_place,omitempty" bson:"birth_place,omitempty"`
	DeathDate  string `json:"death_date,omitempty" bson:"death_date,omitempty"`
	Notes      string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Validate checks that the person record is acceptable for storage.
func (p Person) Validate() error {
	if p.Name == "" {
		return errors.New(errors.ErrCodeInvalidPerson, "person name is required")
	}
	return nil
}

// =============================================================================
// Relationship
// =============================================================================

// Relationship is a directed edge between two persons. Every stored
// relationship has a mirror with the reciprocal type and swapped endpoints.
// Referential integrity is not enforced - PersonID and RelatedPersonID may
// reference persons that no longer exist.
type Relationship struct {
	ID              int    `json:"id" bson:"id"`
	Type            string `json:"type" bson:"type"`
	PersonID        int    `json:"person_id" bson:"person_id"`
	RelatedPersonID int    `json:"related_person_id" bson:"related_person_id"`
}

// Validate checks the relationship type and endpoints.
func (r Relationship) Validate() error {
	if !ValidRelTypes[r.Type] {
		return errors.New(errors.ErrCodeInvalidRelationship,
			"invalid relationship type: %q (must be one of: parent, child, spouse, sibling)", r.Type)
	}
	if r.PersonID == r.RelatedPersonID {
		return errors.New(errors.ErrCodeInvalidRelationship,
			"a person cannot be related to themselves")
	}
	return nil
}

// Mirror returns the reciprocal relationship (without an ID): the same edge
// seen from the other person's side.
func (r Relationship) Mirror() Relationship {
	recip, _ := Reciprocal(r.Type)
	return Relationship{
		Type:            recip,
		PersonID:        r.RelatedPersonID,
		RelatedPersonID: r.PersonID,
	}
}

// IsMirrorOf reports whether other is the reciprocal edge of r.
func (r Relationship) IsMirrorOf(other Relationship) bool {
	recip, ok := Reciprocal(r.Type)
	return ok &&
		other.Type == recip &&
		other.PersonID == r.RelatedPersonID &&
		other.RelatedPersonID == r.PersonID
}
