package family

import (
	"testing"

	"github.com/kintree/kintree/pkg/errors"
)

func TestReciprocal(t *testing.T) {
	tests := []struct {
		relType string
		want    string
		ok      bool
	}{
		{RelParent, RelChild, true},
		{RelChild, RelParent, true},
		{RelSpouse, RelSpouse, true},
		{RelSibling, RelSibling, true},
		{"cousin", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.relType, func(t *testing.T) {
			got, ok := Reciprocal(tt.relType)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Reciprocal(%q) = %q, %v; want %q, %v", tt.relType, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPersonValidate(t *testing.T) {
	if err := (Person{Name: "Ada"}).Validate(); err != nil {
		t.Errorf("valid person: %v", err)
	}

	err := (Person{}).Validate()
	if err == nil {
		t.Fatal("empty name should fail validation")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPerson) {
		t.Errorf("error code = %s, want INVALID_PERSON", errors.GetCode(err))
	}
}

func TestRelationshipValidate(t *testing.T) {
	tests := []struct {
		name    string
		rel     Relationship
		wantErr bool
	}{
		{"Parent", Relationship{Type: RelParent, PersonID: 1, RelatedPersonID: 2}, false},
		{"Spouse", Relationship{Type: RelSpouse, PersonID: 1, RelatedPersonID: 2}, false},
		{"UnknownType", Relationship{Type: "cousin", PersonID: 1, RelatedPersonID: 2}, true},
		{"SelfRelationship", Relationship{Type: RelSibling, PersonID: 3, RelatedPersonID: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rel.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidRelationship) {
				t.Errorf("error code = %s, want INVALID_RELATIONSHIP", errors.GetCode(err))
			}
		})
	}
}

func TestMirror(t *testing.T) {
	r := Relationship{ID: 10, Type: RelParent, PersonID: 1, RelatedPersonID: 2}
	m := r.Mirror()

	if m.Type != RelChild {
		t.Errorf("mirror type = %s, want child", m.Type)
	}
	if m.PersonID != 2 || m.RelatedPersonID != 1 {
		t.Errorf("mirror endpoints = %d→%d, want 2→1", m.PersonID, m.RelatedPersonID)
	}
	if m.ID != 0 {
		t.Errorf("mirror should not carry an ID, got %d", m.ID)
	}

	if !r.IsMirrorOf(m) {
		t.Error("r.IsMirrorOf(m) should be true")
	}
	if !m.IsMirrorOf(r) {
		t.Error("m.IsMirrorOf(r) should be true")
	}
	if r.IsMirrorOf(r) {
		t.Error("a relationship is not its own mirror")
	}
}
