package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit           key.Binding
	reload         key.Binding
	toggleHelp     key.Binding
	moveUp         key.Binding
	moveDown       key.Binding
	scrollLeft     key.Binding
	scrollRight    key.Binding
	jumpToday      key.Binding
	addTask        key.Binding
	editTask       key.Binding
	taskInfo       key.Binding
	toggleComplete key.Binding
	deleteTask     key.Binding
	yankTask       key.Binding
	search         key.Binding
	nextCategory   key.Binding
	prevCategory   key.Binding
	nextAssignee   key.Binding
	prevAssignee   key.Binding
	clearFilters   key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		scrollLeft:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "scroll left")),
		scrollRight:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "scroll right")),
		jumpToday:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "jump to today")),
		addTask:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		editTask:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		taskInfo:       key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		toggleComplete: key.NewBinding(key.WithKeys("x", " ", "space"), key.WithHelp("x/space", "toggle complete")),
		deleteTask:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		yankTask:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy summary")),
		search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		nextCategory:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next category")),
		prevCategory:   key.NewBinding(key.WithKeys("C", "shift+c"), key.WithHelp("C", "prev category")),
		nextAssignee:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "next assignee")),
		prevAssignee:   key.NewBinding(key.WithKeys("A", "shift+a"), key.WithHelp("A", "prev assignee")),
		clearFilters:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filters")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.editTask, k.toggleComplete, k.deleteTask, k.search, k.nextCategory, k.nextAssignee, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.editTask, k.taskInfo, k.toggleComplete, k.deleteTask, k.yankTask, k.reload, k.toggleHelp, k.quit},
		{k.moveUp, k.moveDown, k.scrollLeft, k.scrollRight, k.jumpToday},
		{k.search, k.nextCategory, k.prevCategory, k.nextAssignee, k.prevAssignee, k.clearFilters},
	}
}
