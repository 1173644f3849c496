package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/tree"
)

func testPersons() []tree.Person {
	return []tree.Person{
		{Person: family.Person{ID: 1, Name: "Greta", BirthDate: "1912", DeathDate: "1989"}},
		{Person: family.Person{ID: 2, Name: "Henrik"}},
		{Person: family.Person{ID: 3, Name: "Ida", BirthPlace: "Lund"}},
	}
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPersonListNavigation(t *testing.T) {
	m := NewPersonListModel(testPersons())

	// Down twice, up once
	next, _ := m.Update(key("j"))
	next, _ = next.(PersonListModel).Update(key("j"))
	next, _ = next.(PersonListModel).Update(key("k"))

	got := next.(PersonListModel)
	if got.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", got.Cursor)
	}

	// Up at the top stays put
	m = NewPersonListModel(testPersons())
	next, _ = m.Update(key("k"))
	if next.(PersonListModel).Cursor != 0 {
		t.Error("cursor should not move above 0")
	}
}

func TestPersonListSelection(t *testing.T) {
	m := NewPersonListModel(testPersons())

	next, _ := m.Update(key("j"))
	next, cmd := next.(PersonListModel).Update(key("enter"))

	got := next.(PersonListModel)
	if got.Selected == nil || got.Selected.Name != "Henrik" {
		t.Errorf("Selected = %+v, want Henrik", got.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestPersonListView(t *testing.T) {
	m := NewPersonListModel(testPersons())
	view := m.View()

	for _, want := range []string{"Greta", "Henrik", "Ida", "1912", "Lund"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.Contains(view, "[1/3]") {
		t.Error("view missing position indicator")
	}
}

func TestLifespanOf(t *testing.T) {
	tests := []struct {
		birth, death string
		want         string
	}{
		{"", "", ""},
		{"1912", "", "* 1912"},
		{"", "1989", "† 1989"},
		{"1912", "1989", "1912 – 1989"},
	}

	for _, tt := range tests {
		p := tree.Person{Person: family.Person{BirthDate: tt.birth, DeathDate: tt.death}}
		if got := lifespanOf(p); got != tt.want {
			t.Errorf("lifespanOf(%q, %q) = %q, want %q", tt.birth, tt.death, got, tt.want)
		}
	}
}
