// Package tree derives the hierarchical family view from the flat record
// lists: each person is augmented with its related persons (children,
// parents, spouses, siblings), and the forest roots are the persons with no
// recorded parent.
//
// The derived view is rebuilt on every call and never persisted. Relationship
// edges referencing unknown person IDs are skipped - the store does not
// enforce referential integrity, so the builder must tolerate dangling edges.
package tree

import (
	"slices"

	"github.com/kintree/kintree/pkg/family"
)

// Person is a presentation-only augmentation of a family.Person with the
// derived related-person slices. All slices are ordered by person ID and
// deduplicated; they are never nil.
type Person struct {
	family.Person
	Children []family.Person `json:"children" bson:"children"`
	Parents  []family.Person `json:"parents" bson:"parents"`
	Spouses  []family.Person `json:"spouses" bson:"spouses"`
	Siblings []family.Person `json:"siblings" bson:"siblings"`
}

// IsRoot reports whether the person has no recorded parent.
func (p *Person) IsRoot() bool { return len(p.Parents) == 0 }

// Build converts the flat person and relationship lists into augmented tree
// persons, ordered by person ID.
//
// Because the store records both directions of every relationship, only the
// outgoing edge of each pair is consulted: a person's Children slice comes
// from its own "parent" edges, its Parents slice from its own "child" edges,
// and so on.
func Build(people []family.Person, rels []family.Relationship) []Person {
	byID := make(map[int]family.Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}

	out := make([]Person, 0, len(people))
	index := make(map[int]int, len(people)) // person ID -> position in out

	sorted := slices.Clone(people)
	slices.SortFunc(sorted, func(a, b family.Person) int { return a.ID - b.ID })
	for _, p := range sorted {
		index[p.ID] = len(out)
		out = append(out, Person{
			Person:   p,
			Children: []family.Person{},
			Parents:  []family.Person{},
			Spouses:  []family.Person{},
			Siblings: []family.Person{},
		})
	}

	seen := make(map[[3]int]bool) // (personID, relatedID, type index) dedupe
	for _, r := range rels {
		pos, ok := index[r.PersonID]
		if !ok {
			continue // dangling edge: owner was deleted out from under it
		}
		related, ok := byID[r.RelatedPersonID]
		if !ok {
			continue
		}

		key := [3]int{r.PersonID, r.RelatedPersonID, relTypeIndex(r.Type)}
		if seen[key] {
			continue
		}
		seen[key] = true

		tp := &out[pos]
		switch r.Type {
		case family.RelParent:
			tp.Children = append(tp.Children, related)
		case family.RelChild:
			tp.Parents = append(tp.Parents, related)
		case family.RelSpouse:
			tp.Spouses = append(tp.Spouses, related)
		case family.RelSibling:
			tp.Siblings = append(tp.Siblings, related)
		}
	}

	for i := range out {
		sortByID(out[i].Children)
		sortByID(out[i].Parents)
		sortByID(out[i].Spouses)
		sortByID(out[i].Siblings)
	}
	return out
}

// Roots returns the forest roots: persons with no recorded parent.
// The input order (by ID) is preserved.
func Roots(persons []Person) []Person {
	var roots []Person
	for _, p := range persons {
		if p.IsRoot() {
			roots = append(roots, p)
		}
	}
	return roots
}

// Index builds a person-ID lookup over the augmented persons.
func Index(persons []Person) map[int]*Person {
	m := make(map[int]*Person, len(persons))
	for i := range persons {
		m[persons[i].ID] = &persons[i]
	}
	return m
}

func sortByID(people []family.Person) {
	slices.SortFunc(people, func(a, b family.Person) int { return a.ID - b.ID })
}

func relTypeIndex(t string) int {
	switch t {
	case family.RelParent:
		return 0
	case family.RelChild:
		return 1
	case family.RelSpouse:
		return 2
	case family.RelSibling:
		return 3
	}
	return -1
}
