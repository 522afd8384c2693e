package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// TestKeyMapBindings verifies the default planner bindings.
func TestKeyMapBindings(t *testing.T) {
	k := newKeyMap()
	cases := []struct {
		name    string
		binding key.Binding
		msg     tea.KeyPressMsg
	}{
		{"quit", k.quit, keyRune('q')},
		{"quit ctrl+c", k.quit, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}},
		{"down", k.moveDown, keyRune('j')},
		{"down arrow", k.moveDown, tea.KeyPressMsg{Code: tea.KeyDown}},
		{"scroll right", k.scrollRight, keyRune('l')},
		{"toggle x", k.toggleComplete, keyRune('x')},
		{"toggle space", k.toggleComplete, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}},
		{"info enter", k.taskInfo, tea.KeyPressMsg{Code: tea.KeyEnter}},
		{"prev category", k.prevCategory, keyRune('C')},
		{"prev assignee", k.prevAssignee, keyRune('A')},
		{"clear filters", k.clearFilters, tea.KeyPressMsg{Code: tea.KeyEscape}},
	}
	for _, tc := range cases {
		if !key.Matches(tc.msg, tc.binding) {
			t.Fatalf("%s: expected %q to match %#v", tc.name, tc.msg.String(), tc.binding.Keys())
		}
	}
	if key.Matches(keyRune('c'), k.prevCategory) {
		t.Fatal("lowercase c must not match prev category")
	}
}

// TestKeyMapHelp verifies short and full help coverage.
func TestKeyMapHelp(t *testing.T) {
	k := newKeyMap()
	if got := len(k.ShortHelp()); got == 0 || got > 10 {
		t.Fatalf("unexpected short help size %d", got)
	}
	seen := map[string]bool{}
	for _, group := range k.FullHelp() {
		for _, b := range group {
			if b.Help().Key == "" || b.Help().Desc == "" {
				t.Fatalf("binding %#v is missing help text", b.Keys())
			}
			seen[b.Help().Desc] = true
		}
	}
	for _, want := range []string{"new task", "search", "jump to today", "copy summary", "clear filters"} {
		if !seen[want] {
			t.Fatalf("full help missing %q", want)
		}
	}
}
