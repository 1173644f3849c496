package tree

import (
	"testing"

	"github.com/kintree/kintree/pkg/family"
)

// pair returns both directions of a relationship, the way a store records them.
func pair(relType string, a, b int) []family.Relationship {
	r := family.Relationship{Type: relType, PersonID: a, RelatedPersonID: b}
	m := r.Mirror()
	return []family.Relationship{r, m}
}

func testFamily() ([]family.Person, []family.Relationship) {
	people := []family.Person{
		{ID: 1, Name: "Greta"},
		{ID: 2, Name: "Henrik"},
		{ID: 3, Name: "Ida"},
		{ID: 4, Name: "Jonas"},
		{ID: 5, Name: "Klara"},
	}
	var rels []family.Relationship
	rels = append(rels, pair(family.RelSpouse, 1, 2)...)  // Greta ⚭ Henrik
	rels = append(rels, pair(family.RelParent, 1, 3)...)  // Greta → Ida
	rels = append(rels, pair(family.RelParent, 2, 3)...)  // Henrik → Ida
	rels = append(rels, pair(family.RelParent, 1, 4)...)  // Greta → Jonas
	rels = append(rels, pair(family.RelSibling, 3, 4)...) // Ida ~ Jonas
	rels = append(rels, pair(family.RelParent, 3, 5)...)  // Ida → Klara
	return people, rels
}

func TestBuild(t *testing.T) {
	people, rels := testFamily()
	persons := Build(people, rels)

	if len(persons) != 5 {
		t.Fatalf("built %d persons, want 5", len(persons))
	}

	idx := Index(persons)

	greta := idx[1]
	if got := ids(greta.Children); !equal(got, []int{3, 4}) {
		t.Errorf("Greta children = %v, want [3 4]", got)
	}
	if got := ids(greta.Spouses); !equal(got, []int{2}) {
		t.Errorf("Greta spouses = %v, want [2]", got)
	}
	if len(greta.Parents) != 0 {
		t.Errorf("Greta parents = %v, want none", ids(greta.Parents))
	}

	ida := idx[3]
	if got := ids(ida.Parents); !equal(got, []int{1, 2}) {
		t.Errorf("Ida parents = %v, want [1 2]", got)
	}
	if got := ids(ida.Siblings); !equal(got, []int{4}) {
		t.Errorf("Ida siblings = %v, want [4]", got)
	}
	if got := ids(ida.Children); !equal(got, []int{5}) {
		t.Errorf("Ida children = %v, want [5]", got)
	}

	// Mirror edges must show up on the other side without being asked for.
	jonas := idx[4]
	if got := ids(jonas.Siblings); !equal(got, []int{3}) {
		t.Errorf("Jonas siblings = %v, want [3]", got)
	}
}

func TestBuildSkipsDanglingEdges(t *testing.T) {
	people := []family.Person{{ID: 1, Name: "Solo"}}
	rels := []family.Relationship{
		{ID: 1, Type: family.RelParent, PersonID: 1, RelatedPersonID: 99}, // related missing
		{ID: 2, Type: family.RelChild, PersonID: 99, RelatedPersonID: 1},  // owner missing
	}

	persons := Build(people, rels)
	if len(persons) != 1 {
		t.Fatalf("built %d persons, want 1", len(persons))
	}
	if len(persons[0].Children) != 0 || len(persons[0].Parents) != 0 {
		t.Errorf("dangling edges should be skipped: %+v", persons[0])
	}
}

func TestBuildDeduplicates(t *testing.T) {
	people := []family.Person{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	var rels []family.Relationship
	rels = append(rels, pair(family.RelSpouse, 1, 2)...)
	rels = append(rels, pair(family.RelSpouse, 1, 2)...) // duplicate pair

	persons := Build(people, rels)
	if got := ids(persons[0].Spouses); !equal(got, []int{2}) {
		t.Errorf("spouses = %v, want [2] (deduplicated)", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	persons := Build(nil, nil)
	if len(persons) != 0 {
		t.Errorf("Build(nil, nil) = %v, want empty", persons)
	}
}

func TestRoots(t *testing.T) {
	people, rels := testFamily()
	persons := Build(people, rels)

	roots := Roots(persons)
	if got := rootIDs(roots); !equal(got, []int{1, 2}) {
		t.Errorf("roots = %v, want [1 2]", got)
	}
}

func ids(people []family.Person) []int {
	out := make([]int, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}

func rootIDs(persons []Person) []int {
	out := make([]int, len(persons))
	for i, p := range persons {
		out[i] = p.ID
	}
	return out
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
