package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/archsketch/archsketch/pkg/store"
)

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testRecords() []store.Record {
	return []store.Record{
		{RoundID: 1, RoundTitle: "Baseline", HasDocument: true},
		{RoundID: 2, RoundTitle: "Add cache", HasDocument: true},
		{RoundID: 3, RoundTitle: "Draft", HasDocument: false},
	}
}

func TestRoundListNavigation(t *testing.T) {
	m := newRoundListModel(testRecords())

	next, _ := m.Update(keyMsg("j"))
	m = next.(roundListModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(roundListModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	// Cursor stays in bounds.
	next, _ = m.Update(keyMsg("k"))
	m = next.(roundListModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 at top", m.cursor)
	}
}

func TestRoundListSelect(t *testing.T) {
	m := newRoundListModel(testRecords())

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(roundListModel)
	if m.selected == nil || m.selected.RoundID != 1 {
		t.Fatalf("selected = %+v, want round 1", m.selected)
	}
	if cmd == nil {
		t.Error("selection should quit the program")
	}
}

func TestRoundListSelectWithoutDocumentIgnored(t *testing.T) {
	m := newRoundListModel(testRecords())
	m.cursor = 2 // "Draft", no document

	next, _ := m.Update(keyMsg("enter"))
	m = next.(roundListModel)
	if m.selected != nil {
		t.Error("rounds without documents should not be selectable")
	}
}

func TestRoundListViewShowsRecords(t *testing.T) {
	m := newRoundListModel(testRecords())
	view := m.View()
	for _, want := range []string{"Baseline", "Add cache", "Draft", "no document"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
