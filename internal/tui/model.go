package tui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"slices"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/hylla/gengantt/internal/app"
	"github.com/hylla/gengantt/internal/domain"
	"github.com/hylla/gengantt/internal/timeline"
)

// Service represents service data used by this package.
type Service interface {
	ListTasks(context.Context) ([]domain.Task, error)
	SaveTask(context.Context, domain.TaskInput) (domain.Task, error)
	DeleteTask(context.Context, string) error
	ToggleComplete(context.Context, string) (domain.Task, error)
	CategorySuggestions(context.Context) ([]string, error)
	NewTaskDraft() domain.TaskInput
	Today() domain.Date
}

// inputMode describes the modal state of the model.
type inputMode int

const (
	modeNone inputMode = iota
	modeSearch
	modeAddTask
	modeEditTask
	modeTaskInfo
	modeConfirmAction
)

// task form field indexes.
const (
	taskFieldTitle = iota
	taskFieldStart
	taskFieldEnd
	taskFieldCategory
	taskFieldAssignee
	taskFieldProgress
)

var taskFormFields = []string{"title", "start", "end", "category", "assignee", "progress"}

// progressStep is the h/l increment of the progress picker.
const progressStep = 5

// chrome rows around the chart: top bar, tooltip, status and the two-line help footer.
const chromeHeight = 5

// chartHeaderHeight is the month/day/weekday header of RenderChart.
const chartHeaderHeight = 3

// confirmAction describes a pending confirmation.
type confirmAction struct {
	Label string
	Task  domain.Task
}

// loadedMsg carries a fresh task list.
type loadedMsg struct {
	tasks       []domain.Task
	suggestions []string
	err         error
}

// actionMsg reports a completed mutation or side effect.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusTaskID string
}

// taskSavedMsg reports a form submission. Validation errors keep the form open.
type taskSavedMsg struct {
	task    domain.Task
	created bool
	err     error
}

// Model holds the planner UI state.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error
	status string

	help          help.Model
	keys          keyMap
	chartCfg      ChartConfig
	confirmDelete bool
	copyText      func(string) error
	markdown      markdownRenderer

	tasks       []domain.Task
	suggestions []string
	filter      app.Filter

	selected  int
	rowOffset int
	scrollX   int

	mode               inputMode
	searchInput        textinput.Model
	formInputs         []textinput.Model
	formFocus          int
	formProgress       int
	editingTaskID      string
	infoTaskID         string
	pendingConfirm     confirmAction
	confirmChoice      int
	pendingFocusTaskID string
}

// NewModel constructs the planner model.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	searchInput := textinput.New()
	searchInput.Prompt = "/ "
	searchInput.Placeholder = "search task titles"
	searchInput.CharLimit = 120
	m := Model{
		svc:           svc,
		status:        "loading...",
		help:          h,
		keys:          newKeyMap(),
		chartCfg:      DefaultChartConfig(),
		confirmDelete: true,
		copyText:      systemClipboard,
		searchInput:   searchInput,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectionVisible()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tasks = msg.tasks
		m.suggestions = msg.suggestions
		m.retainFilterOptions()
		if m.pendingFocusTaskID != "" {
			m.focusTaskByID(m.pendingFocusTaskID)
			m.pendingFocusTaskID = ""
		}
		m.clampSelection()
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusTaskID != "" {
			m.pendingFocusTaskID = msg.focusTaskID
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			if isValidationError(msg.err) && (m.mode == modeAddTask || m.mode == modeEditTask) {
				m.status = "invalid task: " + msg.err.Error()
				return m, nil
			}
			m.err = msg.err
			return m, nil
		}
		m.closeTaskForm()
		m.status = "saved " + msg.task.Title
		if msg.created {
			m.status = "created " + msg.task.Title
		}
		m.pendingFocusTaskID = msg.task.ID
		return m, m.loadData

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// View renders the planner.
func (m Model) View() tea.View {
	if m.err != nil {
		return newView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
	}
	if !m.ready {
		return newView("loading...")
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	visible := m.visibleTasks()
	chart := m.chart(visible)
	rows := m.visibleRowCount()
	window := chart
	end := min(len(chart.Rows), m.rowOffset+rows)
	window.Rows = chart.Rows[min(m.rowOffset, end):end]

	sections := []string{
		m.renderTopBar(accent, muted, len(visible)),
		RenderChart(window, RenderOptions{
			SidebarWidth: m.chartCfg.SidebarWidth,
			Width:        m.width,
			ScrollX:      m.scrollX,
			Selected:     m.selected - m.rowOffset,
			ShowWeekends: m.chartCfg.ShowWeekends,
			ShowToday:    m.chartCfg.ShowToday,
		}),
	}
	if task, ok := m.selectedTask(); ok {
		sections = append(sections, m.renderTooltip(task, accent, muted))
	}
	if m.mode == modeSearch {
		in := m.searchInput
		in.SetWidth(max(20, m.width-4))
		sections = append(sections, in.View())
	}
	sections = append(sections, lipgloss.NewStyle().Foreground(dim).Render(m.status))
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	var overlay string
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	} else {
		overlay = m.renderModeOverlay(accent, muted, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return newView(fullContent)
}

func newView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// currentDay is read from the service clock on every render.
func (m Model) currentDay() domain.Date {
	return m.svc.Today()
}

// loadData loads tasks and category suggestions.
func (m Model) loadData() tea.Msg {
	ctx := context.Background()
	tasks, err := m.svc.ListTasks(ctx)
	if err != nil {
		return loadedMsg{err: err}
	}
	suggestions, err := m.svc.CategorySuggestions(ctx)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{tasks: tasks, suggestions: suggestions}
}

// handleNormalModeKey handles keys when no modal is open.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.reload):
			m.err = nil
			m.status = "reloading..."
			return m, m.loadData
		}
		return m, nil
	}
	if m.help.ShowAll {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.toggleHelp), msg.Code == tea.KeyEscape || msg.String() == "esc":
			m.help.ShowAll = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.moveUp):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.scrollLeft):
		m.scrollBy(-m.chartCfg.DayWidth)
		return m, nil
	case key.Matches(msg, m.keys.scrollRight):
		m.scrollBy(m.chartCfg.DayWidth)
		return m, nil
	case key.Matches(msg, m.keys.jumpToday):
		m.jumpToToday()
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		return m, m.startTaskForm(nil)
	case key.Matches(msg, m.keys.editTask):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m, m.startTaskForm(&task)
	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeTaskInfo
		m.infoTaskID = task.ID
		m.status = "task info"
		return m, nil
	case key.Matches(msg, m.keys.toggleComplete):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m, m.toggleTaskCmd(task)
	case key.Matches(msg, m.keys.deleteTask):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m.requestDelete(task)
	case key.Matches(msg, m.keys.yankTask):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m, m.copyTaskCmd(task)
	case key.Matches(msg, m.keys.search):
		return m, m.startSearchMode()
	case key.Matches(msg, m.keys.nextCategory):
		m.cycleCategory(1)
		return m, nil
	case key.Matches(msg, m.keys.prevCategory):
		m.cycleCategory(-1)
		return m, nil
	case key.Matches(msg, m.keys.nextAssignee):
		m.cycleAssignee(1)
		return m, nil
	case key.Matches(msg, m.keys.prevAssignee):
		m.cycleAssignee(-1)
		return m, nil
	case key.Matches(msg, m.keys.clearFilters):
		if m.filter.IsZero() {
			return m, nil
		}
		m.filter = app.Filter{}
		m.searchInput.SetValue("")
		m.clampSelection()
		m.status = "filters cleared"
		return m, nil
	default:
		return m, nil
	}
}

// handleInputModeKey routes keys to the open modal.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		switch {
		case msg.Code == tea.KeyEscape || msg.String() == "esc":
			m.mode = modeNone
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.applySearch("")
			m.status = "search cleared"
			return m, nil
		case msg.Code == tea.KeyEnter || msg.String() == "enter":
			m.mode = modeNone
			m.searchInput.Blur()
			m.status = fmt.Sprintf("%d matching tasks", len(m.visibleTasks()))
			return m, nil
		case msg.String() == "ctrl+u":
			m.searchInput.SetValue("")
			m.applySearch("")
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.applySearch(m.searchInput.Value())
			return m, cmd
		}

	case modeAddTask, modeEditTask:
		switch {
		case msg.Code == tea.KeyEscape || msg.String() == "esc":
			m.closeTaskForm()
			m.status = "cancelled"
			return m, nil
		case msg.Code == tea.KeyTab || msg.String() == "tab" || msg.String() == "ctrl+i" || msg.String() == "down":
			return m, m.focusTaskFormField(m.formFocus + 1)
		case msg.String() == "shift+tab" || msg.String() == "backtab" || msg.String() == "up":
			return m, m.focusTaskFormField(m.formFocus - 1)
		case isCtrlY(msg):
			if m.formFocus == taskFieldCategory {
				if m.acceptCategorySuggestion() {
					m.status = "accepted category suggestion"
				} else {
					m.status = "no category suggestion"
				}
			}
			return m, nil
		case msg.Code == tea.KeyEnter || msg.String() == "enter":
			return m.submitTaskForm()
		default:
			if m.formFocus == taskFieldProgress {
				switch msg.String() {
				case "h", "left", "-":
					m.stepProgress(-progressStep)
				case "l", "right", "+", "=":
					m.stepProgress(progressStep)
				case "0":
					m.setProgress(domain.ProgressMin)
				case "!":
					m.setProgress(domain.ProgressComplete)
				}
				return m, nil
			}
			if len(m.formInputs) == 0 {
				return m, nil
			}
			var cmd tea.Cmd
			m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
			return m, cmd
		}

	case modeTaskInfo:
		task, ok := m.taskInfoTask()
		if !ok {
			m.mode = modeNone
			m.infoTaskID = ""
			return m, nil
		}
		switch {
		case msg.Code == tea.KeyEscape || msg.String() == "esc", key.Matches(msg, m.keys.taskInfo), msg.String() == "q":
			m.mode = modeNone
			m.infoTaskID = ""
			m.status = "ready"
			return m, nil
		case key.Matches(msg, m.keys.editTask):
			m.infoTaskID = ""
			return m, m.startTaskForm(&task)
		case key.Matches(msg, m.keys.toggleComplete):
			return m, m.toggleTaskCmd(task)
		case key.Matches(msg, m.keys.deleteTask):
			m.infoTaskID = ""
			m.mode = modeNone
			return m.requestDelete(task)
		case key.Matches(msg, m.keys.yankTask):
			return m, m.copyTaskCmd(task)
		}
		return m, nil

	case modeConfirmAction:
		switch {
		case msg.Code == tea.KeyEscape || msg.String() == "esc" || msg.String() == "n":
			m.mode = modeNone
			m.pendingConfirm = confirmAction{}
			m.status = "cancelled"
			return m, nil
		case msg.String() == "h" || msg.String() == "left":
			m.confirmChoice = 0
			return m, nil
		case msg.String() == "l" || msg.String() == "right":
			m.confirmChoice = 1
			return m, nil
		case msg.String() == "y":
			m.confirmChoice = 0
			return m.applyConfirm()
		case msg.Code == tea.KeyEnter || msg.String() == "enter":
			if m.confirmChoice != 0 {
				m.mode = modeNone
				m.pendingConfirm = confirmAction{}
				m.status = "cancelled"
				return m, nil
			}
			return m.applyConfirm()
		}
		return m, nil
	}
	return m, nil
}

// handleMouseWheel moves the selection vertically and scrolls the timeline horizontally.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		m.moveSelection(-1)
	case tea.MouseWheelDown:
		m.moveSelection(1)
	case tea.MouseWheelLeft:
		m.scrollBy(-m.chartCfg.DayWidth)
	case tea.MouseWheelRight:
		m.scrollBy(m.chartCfg.DayWidth)
	}
	return m, nil
}

// startSearchMode opens the live search input.
func (m *Model) startSearchMode() tea.Cmd {
	m.mode = modeSearch
	m.searchInput.SetValue(m.filter.Search)
	m.searchInput.CursorEnd()
	m.status = "search"
	return m.searchInput.Focus()
}

// applySearch filters on every keystroke.
func (m *Model) applySearch(query string) {
	m.filter.Search = query
	m.clampSelection()
}

// startTaskForm opens the create form, or the edit form when task is set.
func (m *Model) startTaskForm(task *domain.Task) tea.Cmd {
	in := m.svc.NewTaskDraft()
	if task != nil {
		in = task.Input()
	}
	m.formFocus = 0
	m.formInputs = []textinput.Model{
		newModalInput("", "task title (required)", in.Title, 120),
		newModalInput("", "YYYY-MM-DD", in.StartDate, 10),
		newModalInput("", "YYYY-MM-DD (not before start)", in.EndDate, 10),
		newModalInput("", "category", in.Category, 60),
		newModalInput("", "assignee (optional)", in.Assignee, 60),
		newModalInput("", "", "", 3),
	}
	m.formInputs[taskFieldCategory].ShowSuggestions = true
	m.formInputs[taskFieldCategory].SetSuggestions(m.suggestions)
	m.setProgress(in.Progress)
	if task != nil {
		m.mode = modeEditTask
		m.editingTaskID = task.ID
		m.status = "edit task"
	} else {
		m.mode = modeAddTask
		m.editingTaskID = ""
		m.status = "new task"
	}
	return m.focusTaskFormField(0)
}

// newModalInput constructs a modal text input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// focusTaskFormField focuses one form field; the progress picker has no cursor.
func (m *Model) focusTaskFormField(idx int) tea.Cmd {
	if len(m.formInputs) == 0 {
		return nil
	}
	idx = clamp(idx, 0, len(m.formInputs)-1)
	m.formFocus = idx
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	if idx == taskFieldProgress {
		return nil
	}
	return m.formInputs[idx].Focus()
}

func (m *Model) setProgress(progress int) {
	m.formProgress = clamp(progress, domain.ProgressMin, domain.ProgressComplete)
	if len(m.formInputs) > taskFieldProgress {
		m.formInputs[taskFieldProgress].SetValue(fmt.Sprintf("%d", m.formProgress))
	}
}

func (m *Model) stepProgress(delta int) {
	m.setProgress(m.formProgress + delta)
}

// acceptCategorySuggestion replaces the category with the current completion.
func (m *Model) acceptCategorySuggestion() bool {
	if len(m.formInputs) <= taskFieldCategory {
		return false
	}
	suggestion := strings.TrimSpace(m.formInputs[taskFieldCategory].CurrentSuggestion())
	if suggestion == "" {
		matches := m.formInputs[taskFieldCategory].MatchedSuggestions()
		if len(matches) == 0 {
			return false
		}
		suggestion = strings.TrimSpace(matches[0])
	}
	if suggestion == "" {
		return false
	}
	m.formInputs[taskFieldCategory].SetValue(suggestion)
	m.formInputs[taskFieldCategory].CursorEnd()
	return true
}

// taskFormInput collects the form values.
func (m Model) taskFormInput() domain.TaskInput {
	value := func(idx int) string {
		if idx >= len(m.formInputs) {
			return ""
		}
		return strings.TrimSpace(m.formInputs[idx].Value())
	}
	return domain.TaskInput{
		ID:        m.editingTaskID,
		Title:     value(taskFieldTitle),
		StartDate: value(taskFieldStart),
		EndDate:   value(taskFieldEnd),
		Progress:  m.formProgress,
		Category:  value(taskFieldCategory),
		Assignee:  value(taskFieldAssignee),
	}
}

// submitTaskForm saves the form. Required fields are checked before calling the service.
func (m Model) submitTaskForm() (tea.Model, tea.Cmd) {
	in := m.taskFormInput()
	switch {
	case in.Title == "":
		m.status = "title is required"
		return m, m.focusTaskFormField(taskFieldTitle)
	case in.StartDate == "":
		m.status = "start date is required"
		return m, m.focusTaskFormField(taskFieldStart)
	case in.EndDate == "":
		m.status = "end date is required"
		return m, m.focusTaskFormField(taskFieldEnd)
	}
	svc := m.svc
	created := in.ID == ""
	m.status = "saving..."
	return m, func() tea.Msg {
		task, err := svc.SaveTask(context.Background(), in)
		return taskSavedMsg{task: task, created: created, err: err}
	}
}

func (m *Model) closeTaskForm() {
	m.mode = modeNone
	m.formInputs = nil
	m.formFocus = 0
	m.formProgress = 0
	m.editingTaskID = ""
}

// requestDelete deletes task, asking first when confirmation is enabled.
func (m Model) requestDelete(task domain.Task) (tea.Model, tea.Cmd) {
	if !m.confirmDelete {
		return m, m.deleteTaskCmd(task)
	}
	m.mode = modeConfirmAction
	m.pendingConfirm = confirmAction{Label: "delete task", Task: task}
	m.confirmChoice = 0
	m.status = "confirm delete"
	return m, nil
}

// applyConfirm runs the pending confirmation.
func (m Model) applyConfirm() (tea.Model, tea.Cmd) {
	pending := m.pendingConfirm
	m.mode = modeNone
	m.pendingConfirm = confirmAction{}
	if pending.Task.ID == "" {
		m.status = "nothing to confirm"
		return m, nil
	}
	return m, m.deleteTaskCmd(pending.Task)
}

func (m Model) deleteTaskCmd(task domain.Task) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.DeleteTask(context.Background(), task.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "deleted " + task.Title, reload: true}
	}
}

func (m Model) toggleTaskCmd(task domain.Task) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		updated, err := svc.ToggleComplete(context.Background(), task.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		status := "reopened " + updated.Title
		if updated.IsComplete() {
			status = "completed " + updated.Title
		}
		return actionMsg{status: status, reload: true, focusTaskID: updated.ID}
	}
}

// copyTaskCmd copies the task summary; clipboard failures only update the status line.
func (m Model) copyTaskCmd(task domain.Task) tea.Cmd {
	write := m.copyText
	summary := taskSummary(task)
	return func() tea.Msg {
		if err := write(summary); err != nil {
			return actionMsg{status: "copy failed: " + err.Error()}
		}
		return actionMsg{status: "copied " + task.Title}
	}
}

// visibleTasks applies the active filter to the task list.
func (m Model) visibleTasks() []domain.Task {
	return m.filter.Apply(m.tasks)
}

func (m Model) chart(tasks []domain.Task) app.Chart {
	return app.BuildChart(tasks, m.currentDay(), timeline.CellScale(m.chartCfg.DayWidth))
}

func (m Model) selectedTask() (domain.Task, bool) {
	tasks := m.visibleTasks()
	if m.selected < 0 || m.selected >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.selected], true
}

func (m Model) taskInfoTask() (domain.Task, bool) {
	for _, task := range m.tasks {
		if task.ID == m.infoTaskID {
			return task, true
		}
	}
	return domain.Task{}, false
}

func (m *Model) focusTaskByID(taskID string) {
	for idx, task := range m.visibleTasks() {
		if task.ID == taskID {
			m.selected = idx
			return
		}
	}
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

// clampSelection keeps the selection inside the filtered list.
func (m *Model) clampSelection() {
	count := len(m.visibleTasks())
	if count == 0 {
		m.selected = 0
		m.rowOffset = 0
		return
	}
	m.selected = clamp(m.selected, 0, count-1)
	m.ensureSelectionVisible()
}

// ensureSelectionVisible scrolls the row window so the selection is on screen.
func (m *Model) ensureSelectionVisible() {
	rows := m.visibleRowCount()
	if m.selected < m.rowOffset {
		m.rowOffset = m.selected
	}
	if m.selected >= m.rowOffset+rows {
		m.rowOffset = m.selected - rows + 1
	}
	m.rowOffset = max(0, m.rowOffset)
}

// visibleRowCount is the number of task rows that fit on screen.
func (m Model) visibleRowCount() int {
	if m.height <= 0 {
		return max(1, len(m.tasks))
	}
	return max(1, m.height-chromeHeight-chartHeaderHeight)
}

// timelineWidth is the number of grid cells on screen.
func (m Model) timelineWidth() int {
	if m.width <= 0 {
		return 0
	}
	return max(1, m.width-max(12, m.chartCfg.SidebarWidth)-1)
}

func (m *Model) scrollBy(delta int) {
	chart := m.chart(m.visibleTasks())
	maxScroll := max(0, chart.GridWidth-m.timelineWidth())
	if m.width <= 0 {
		maxScroll = 0
	}
	m.scrollX = clamp(m.scrollX+delta, 0, maxScroll)
}

// jumpToToday centers the today marker, or resets the scroll when today is off-range.
func (m *Model) jumpToToday() {
	chart := m.chart(m.visibleTasks())
	if !chart.ShowToday {
		m.scrollX = 0
		m.status = "today is outside the chart"
		return
	}
	m.scrollX = 0
	m.scrollBy(chart.TodayX - m.timelineWidth()/2)
	m.status = "today " + m.currentDay().String()
}

func (m *Model) cycleCategory(step int) {
	opts := app.CategoryOptions(m.tasks)
	m.filter.Category = normalizeFilterValue(app.Cycle(opts, displayFilterValue(m.filter.Category), step))
	m.clampSelection()
	m.status = "category: " + displayFilterValue(m.filter.Category)
}

func (m *Model) cycleAssignee(step int) {
	opts := app.AssigneeOptions(m.tasks)
	m.filter.Assignee = normalizeFilterValue(app.Cycle(opts, displayFilterValue(m.filter.Assignee), step))
	m.clampSelection()
	m.status = "assignee: " + displayFilterValue(m.filter.Assignee)
}

// retainFilterOptions drops category/assignee filters whose value no longer exists.
func (m *Model) retainFilterOptions() {
	if m.filter.Category != "" && !slices.Contains(app.CategoryOptions(m.tasks), m.filter.Category) {
		m.filter.Category = ""
	}
	if m.filter.Assignee != "" && !slices.Contains(app.AssigneeOptions(m.tasks), m.filter.Assignee) {
		m.filter.Assignee = ""
	}
}

func displayFilterValue(value string) string {
	if value == "" {
		return app.FilterAll
	}
	return value
}

func normalizeFilterValue(value string) string {
	if value == app.FilterAll {
		return ""
	}
	return value
}

// taskSummary is the tooltip and clipboard text of a task.
func taskSummary(task domain.Task) string {
	parts := []string{
		task.Title,
		task.StartDate.String() + " → " + task.EndDate.String(),
		fmt.Sprintf("%d%% done", task.Progress),
	}
	if task.Category != "" {
		parts = append(parts, task.Category)
	}
	if task.Assignee != "" {
		parts = append(parts, "@"+task.Assignee)
	}
	return strings.Join(parts, " • ")
}

// taskMarkdown renders the task info body.
func taskMarkdown(task domain.Task) string {
	category := task.Category
	if category == "" {
		category = "-"
	}
	status := "in progress"
	switch {
	case task.IsComplete():
		status = "complete"
	case task.Progress == domain.ProgressMin:
		status = "not started"
	}
	lines := []string{
		"## " + task.Title,
		"",
		fmt.Sprintf("- **Dates:** %s → %s (%d days)", task.StartDate, task.EndDate, task.DurationDays()),
		fmt.Sprintf("- **Progress:** %d%% done, %s", task.Progress, status),
		"- **Category:** " + category,
		"- **Assignee:** " + task.EffectiveAssignee(),
		"- **ID:** `" + task.ID + "`",
	}
	return strings.Join(lines, "\n")
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidTitle) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, domain.ErrInvalidDateRange) ||
		errors.Is(err, domain.ErrInvalidProgress) ||
		errors.Is(err, domain.ErrInvalidID)
}

// renderTopBar renders the title, task counts and active filters.
func (m Model) renderTopBar(accent, muted color.Color, visibleCount int) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("GenGantt")
	filters := []string{fmt.Sprintf("%d/%d tasks", visibleCount, len(m.tasks))}
	if search := strings.TrimSpace(m.filter.Search); search != "" {
		filters = append(filters, fmt.Sprintf("search %q", search))
	}
	filters = append(filters,
		"category: "+displayFilterValue(m.filter.Category),
		"assignee: "+displayFilterValue(m.filter.Assignee),
		"today: "+m.currentDay().String(),
	)
	return title + "  " + lipgloss.NewStyle().Foreground(muted).Render(strings.Join(filters, " • "))
}

// renderTooltip renders the summary line of the selected task.
func (m Model) renderTooltip(task domain.Task, accent, muted color.Color) string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(timeline.CategoryColor(task.Category).ANSI)).Render("■")
	summary := taskSummary(task)
	if m.width > 0 {
		summary = truncate(summary, max(1, m.width-2))
	}
	title, rest, found := strings.Cut(summary, " • ")
	if !found {
		return swatch + " " + lipgloss.NewStyle().Bold(true).Foreground(accent).Render(summary)
	}
	return swatch + " " + lipgloss.NewStyle().Bold(true).Foreground(accent).Render(title) +
		lipgloss.NewStyle().Foreground(muted).Render(" • "+rest)
}

// renderModeOverlay renders the active modal.
func (m Model) renderModeOverlay(accent, muted color.Color, maxWidth int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)

	switch m.mode {
	case modeAddTask, modeEditTask:
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 44, 80))
		}
		heading := "New Task"
		if m.mode == modeEditTask {
			heading = "Edit Task"
		}
		lines := []string{titleStyle.Render(heading)}
		fieldWidth := max(18, min(80, maxWidth)-20)
		for i, in := range m.formInputs {
			label := taskFormFields[i]
			labelStyle := lipgloss.NewStyle().Foreground(muted)
			if i == m.formFocus {
				labelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
			}
			if i == taskFieldProgress {
				lines = append(lines, labelStyle.Render(fmt.Sprintf("%-10s", label+":"))+" "+m.renderProgressPicker(accent, muted, fieldWidth))
				continue
			}
			in.SetWidth(fieldWidth)
			lines = append(lines, labelStyle.Render(fmt.Sprintf("%-10s", label+":"))+" "+in.View())
		}
		switch m.formFocus {
		case taskFieldCategory:
			if len(m.suggestions) > 0 {
				lines = append(lines, hintStyle.Render("suggestions: "+strings.Join(m.suggestions, ", ")))
			}
			lines = append(lines, hintStyle.Render("ctrl+y accept autocomplete"))
		case taskFieldProgress:
			lines = append(lines, hintStyle.Render(fmt.Sprintf("h/l adjust by %d • 0 reset • ! complete", progressStep)))
		}
		lines = append(lines, hintStyle.Render("tab next field • enter save • esc cancel"))
		return style.Render(strings.Join(lines, "\n"))

	case modeTaskInfo:
		task, ok := m.taskInfoTask()
		if !ok {
			return ""
		}
		width := 76
		if maxWidth > 0 {
			width = clamp(maxWidth, 32, 76)
			style = style.Width(width)
		}
		body := m.markdown.render(taskMarkdown(task), width-4)
		lines := []string{
			titleStyle.Render("Task Info"),
			body,
			hintStyle.Render("e edit • x toggle complete • d delete • y copy • esc close"),
		}
		return style.Render(strings.Join(lines, "\n"))

	case modeConfirmAction:
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 36, 72))
		}
		taskTitle := strings.TrimSpace(m.pendingConfirm.Task.Title)
		if taskTitle == "" {
			taskTitle = "(unknown task)"
		}
		confirmStyle := lipgloss.NewStyle().Foreground(muted)
		cancelStyle := lipgloss.NewStyle().Foreground(muted)
		if m.confirmChoice == 0 {
			confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		} else {
			cancelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		}
		lines := []string{
			titleStyle.Render("Confirm Action"),
			fmt.Sprintf("%s: %s", m.pendingConfirm.Label, taskTitle),
			confirmStyle.Render("[confirm]") + "  " + cancelStyle.Render("[cancel]"),
			hintStyle.Render("enter apply • esc cancel • h/l switch • y confirm • n cancel"),
		}
		return style.Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// renderProgressPicker renders the progress value as a small bar.
func (m Model) renderProgressPicker(accent, muted color.Color, width int) string {
	barWidth := clamp(width-6, 10, 30)
	filled := barWidth * m.formProgress / domain.ProgressComplete
	bar := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat(string(glyphFill), filled)) +
		lipgloss.NewStyle().Foreground(muted).Render(strings.Repeat(string(glyphRest), barWidth-filled))
	return fmt.Sprintf("%s %3d%%", bar, m.formProgress)
}

// renderHelpOverlay renders the full key reference.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 56, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("GenGantt Help")
	workflow := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Workflows"),
		"1. n new task  •  e edit  •  i/enter info  •  x/space toggle complete  •  d delete",
		"2. / live search  •  c/C cycle category  •  a/A cycle assignee  •  esc clear filters",
		"3. h/l scroll the timeline  •  t jump to today  •  y copy the selected task",
		"4. task form: tab moves fields  •  h/l adjust progress  •  ctrl+y accept category",
	}
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(strings.Join(workflow, "\n")),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// isCtrlY reports whether msg is ctrl+y across terminal encodings.
func isCtrlY(msg tea.KeyPressMsg) bool {
	if msg.String() == "ctrl+y" {
		return true
	}
	if (msg.Mod & tea.ModCtrl) == 0 {
		return false
	}
	if msg.Code == 'y' || msg.Code == 'Y' {
		return true
	}
	return strings.EqualFold(msg.Text, "y")
}

// clamp bounds v to [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or truncates content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay on top of base.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
