package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mlowery/daybook/internal/models"
	"github.com/mlowery/daybook/internal/pomodoro"
	"github.com/mlowery/daybook/internal/store"
	"github.com/mlowery/daybook/internal/ui/keys"
	"github.com/mlowery/daybook/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// PomodoroDuration is the length of one focus session
const PomodoroDuration = 25 * time.Minute

// DayView shows one day's todos and notes
type DayView struct {
	dataDir string
	date    models.Date
	day     models.DayData
	styles  *styles.Styles
	keys    keys.KeyMap
	zoom    float64

	width  int
	height int

	// UI state
	cursor  int
	scrollY int
	errMsg  string

	// Todo creation/editing
	editing    bool
	editingNew bool
	editInput  textinput.Model

	// Day notes editing
	editingNotes bool
	notesInput   textarea.Model

	// Delete confirmation
	confirmingDelete bool

	// Pomodoro session
	timer         *pomodoro.Timer
	timerGen      int // distinguishes signals of stopped timers from the live one
	pomodoroEnd   time.Time
	pomodoroLabel string
	pomodoroNote  string // completion notice shown until dismissed

	// Help popup
	showHelpPopup bool
}

// NewDayView creates a view for the given date
func NewDayView(dataDir string, date models.Date, s *styles.Styles, zoom float64) *DayView {
	editInput := textinput.New()
	editInput.Placeholder = "Todo text"
	editInput.CharLimit = 0

	notesInput := textarea.New()
	notesInput.Placeholder = "Notes for the day..."
	notesInput.CharLimit = 0
	notesInput.SetWidth(50)
	notesInput.SetHeight(6)
	notesInput.ShowLineNumbers = false

	return &DayView{
		dataDir:    dataDir,
		date:       date,
		day:        models.NewDayData(date),
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		zoom:       zoom,
		editInput:  editInput,
		notesInput: notesInput,
	}
}

// SetStyles swaps the style set and zoom, e.g. after a theme toggle
func (v *DayView) SetStyles(s *styles.Styles, zoom float64) {
	v.styles = s
	v.zoom = zoom
	v.resizeInputs()
}

// Capturing reports whether the view currently routes keys into a text
// input, so global shortcuts must stay out of the way
func (v *DayView) Capturing() bool {
	return v.editing || v.editingNotes
}

// Init initializes the view
func (v *DayView) Init() tea.Cmd {
	return v.loadDay
}

type dayLoadedMsg struct {
	day models.DayData
}

type pomodoroFiredMsg struct {
	gen       int
	label     string
	completed bool
}

type pomodoroTickMsg time.Time

func (v *DayView) loadDay() tea.Msg {
	day, err := store.LoadDay(v.date.String(), v.dataDir)
	if err != nil {
		return err
	}
	return dayLoadedMsg{day: day}
}

// persist saves the in-memory day record; failures land in the status bar
func (v *DayView) persist() {
	if err := store.SaveDay(v.day, v.dataDir); err != nil {
		v.errMsg = err.Error()
		return
	}
	v.errMsg = ""
}

func (v *DayView) gotoDate(date models.Date) tea.Cmd {
	v.date = date
	v.cursor = 0
	v.scrollY = 0
	return v.loadDay
}

// Update handles messages
func (v *DayView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.resizeInputs()
		return v, nil

	case dayLoadedMsg:
		v.day = msg.day
		if v.cursor >= len(v.day.Todos) {
			v.cursor = max(0, len(v.day.Todos)-1)
		}
		return v, nil

	case error:
		v.errMsg = msg.Error()
		return v, nil

	case pomodoroFiredMsg:
		// A timer stopped just before a new one started still delivers its
		// signal; only the live session's counts.
		if msg.gen != v.timerGen {
			return v, nil
		}
		v.timer = nil
		if msg.completed {
			v.pomodoroNote = fmt.Sprintf("Pomodoro done: %s", msg.label)
		}
		return v, nil

	case pomodoroTickMsg:
		if v.timer == nil {
			return v, nil
		}
		return v, tickPomodoro()

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.pomodoroNote != "" {
			v.pomodoroNote = ""
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.editingNotes {
			return v.updateEditingNotes(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *DayView) resizeInputs() {
	contentWidth := styles.ContentWidth(v.width, v.zoom)
	inputWidth := clamp(contentWidth-10, 20, 70)
	v.editInput.Width = inputWidth
	v.notesInput.SetWidth(inputWidth)
}

func (v *DayView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.day.Todos)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.PrevDay):
		return v, v.gotoDate(v.date.AddDays(-1))

	case key.Matches(msg, v.keys.NextDay):
		return v, v.gotoDate(v.date.AddDays(1))

	case key.Matches(msg, v.keys.Today):
		return v, v.gotoDate(models.Today())

	case key.Matches(msg, v.keys.New):
		v.editing = true
		v.editingNew = true
		v.editInput.SetValue("")
		v.editInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if v.cursor < len(v.day.Todos) {
			v.editing = true
			v.editingNew = false
			v.editInput.SetValue(v.day.Todos[v.cursor].Text)
			v.editInput.CursorEnd()
			v.editInput.Focus()
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if v.cursor < len(v.day.Todos) {
			v.confirmingDelete = true
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if v.cursor < len(v.day.Todos) {
			v.day.Todos[v.cursor].Completed = !v.day.Todos[v.cursor].Completed
			v.persist()
		}
		return v, nil

	case key.Matches(msg, v.keys.Carry):
		if v.cursor < len(v.day.Todos) {
			v.day.Todos[v.cursor].MoveToNextDay = !v.day.Todos[v.cursor].MoveToNextDay
			v.persist()
		}
		return v, nil

	case key.Matches(msg, v.keys.Notes):
		v.editingNotes = true
		v.notesInput.SetValue(v.day.Notes)
		v.notesInput.Focus()
		return v, textarea.Blink

	case key.Matches(msg, v.keys.Pomodoro):
		return v, v.togglePomodoro()

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *DayView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.editInput.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		text := v.editInput.Value()
		if v.editingNew {
			v.day.Todos = append(v.day.Todos, models.NewTodoItem(text))
			v.cursor = len(v.day.Todos) - 1
			v.ensureVisible()
		} else if v.cursor < len(v.day.Todos) {
			v.day.Todos[v.cursor].Text = text
		}
		v.editing = false
		v.editInput.Blur()
		v.persist()
		return v, nil

	default:
		var cmd tea.Cmd
		v.editInput, cmd = v.editInput.Update(msg)
		return v, cmd
	}
}

func (v *DayView) updateEditingNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.day.Notes = v.notesInput.Value()
		v.editingNotes = false
		v.notesInput.Blur()
		v.persist()
		return v, nil

	default:
		var cmd tea.Cmd
		v.notesInput, cmd = v.notesInput.Update(msg)
		return v, cmd
	}
}

func (v *DayView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if v.cursor < len(v.day.Todos) {
			v.day.Todos = append(v.day.Todos[:v.cursor], v.day.Todos[v.cursor+1:]...)
			if v.cursor >= len(v.day.Todos) {
				v.cursor = max(0, len(v.day.Todos)-1)
			}
			v.persist()
		}
		v.confirmingDelete = false
	default:
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *DayView) togglePomodoro() tea.Cmd {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
		return nil
	}
	if v.cursor >= len(v.day.Todos) {
		return nil
	}

	label := v.day.Todos[v.cursor].Text
	v.timerGen++
	v.timer = pomodoro.Start(PomodoroDuration, label)
	v.pomodoroEnd = time.Now().Add(PomodoroDuration)
	v.pomodoroLabel = label

	return tea.Batch(waitForPomodoro(v.timer, v.timerGen), tickPomodoro())
}

func waitForPomodoro(tm *pomodoro.Timer, gen int) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-tm.Done()
		return pomodoroFiredMsg{gen: gen, label: c.Label, completed: ok}
	}
}

func tickPomodoro() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return pomodoroTickMsg(t)
	})
}

func (v *DayView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	}
	if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *DayView) visibleItems() int {
	// Header, notes panel and status bar take a fixed share of the height.
	available := v.height - 14
	if available < 3 {
		available = 3
	}
	return available
}

// View renders the day
func (v *DayView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.editing {
		return v.renderEditForm()
	}
	if v.editingNotes {
		return v.renderNotesForm()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTodoList())
	b.WriteString("\n\n")
	b.WriteString(v.renderNotesPanel())
	b.WriteString("\n")
	b.WriteString(v.renderStatusBar())

	if v.confirmingDelete {
		b.WriteString("\n")
		b.WriteString(v.styles.ErrorText.Render("Delete this todo? (y/n)"))
	}

	return styles.CenterView(b.String(), v.width, v.height, v.zoom)
}

func (v *DayView) renderHeader() string {
	s := v.styles

	title := v.date.Time().Format("Monday, January 2 2006")
	if v.date == models.Today() {
		title += " (today)"
	}

	left := s.Title.Render(title)
	right := s.TitleMuted.Render("←/→ days · t today")

	contentWidth := styles.ContentWidth(v.width, v.zoom)
	gap := contentWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (v *DayView) renderTodoList() string {
	s := v.styles

	if len(v.day.Todos) == 0 {
		return s.TitleMuted.Render("No todos. Press 'n' to add one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.day.Todos))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTodoItem(v.day.Todos[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *DayView) renderTodoItem(todo models.TodoItem, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width, v.zoom)
	width := max(contentWidth-4, 20)

	check := "[ ]"
	if todo.Completed {
		check = "[x]"
	}

	text := todo.Text
	if todo.Completed {
		text = s.TodoDone.Render(text)
	}
	line := check + " " + text
	if todo.MoveToNextDay {
		line += " " + s.TodoCarry.Render("→ next day")
	}
	if todo.Notes != "" {
		line += " " + s.TitleMuted.Render("≡")
	}

	style := s.ListItem
	if selected {
		style = s.ListSelected
	}
	return style.Width(width).Render(line)
}

func (v *DayView) renderNotesPanel() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width, v.zoom)

	notes := v.day.Notes
	if notes == "" {
		notes = s.TitleMuted.Render("No notes. Press 'N' to write some.")
	}
	return s.NotesPanel.Width(max(contentWidth-2, 20)).Render(notes)
}

func (v *DayView) renderStatusBar() string {
	s := v.styles

	var parts []string
	if v.timer != nil {
		remaining := time.Until(v.pomodoroEnd).Round(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		parts = append(parts, s.Pomodoro.Render(fmt.Sprintf("🍅 %s (%s)", remaining, v.pomodoroLabel)))
	}
	if v.pomodoroNote != "" {
		parts = append(parts, s.Pomodoro.Render(v.pomodoroNote))
	}
	if v.errMsg != "" {
		parts = append(parts, s.ErrorText.Render(v.errMsg))
	}
	parts = append(parts, s.HelpDesc.Render("? help · q quit"))

	return s.StatusBar.Render(strings.Join(parts, "  "))
}

func (v *DayView) renderEditForm() string {
	s := v.styles

	title := "Edit todo"
	if v.editingNew {
		title = "New todo"
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		s.InputFocused.Render(v.editInput.View()),
		"",
		s.HelpDesc.Render("enter save · esc cancel"),
	)
	return styles.CenterView(content, v.width, v.height, v.zoom)
}

func (v *DayView) renderNotesForm() string {
	s := v.styles

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Notes for "+v.date.String()),
		"",
		v.notesInput.View(),
		"",
		s.HelpDesc.Render("esc save and close"),
	)
	return styles.CenterView(content, v.width, v.height, v.zoom)
}

func (v *DayView) renderHelpPopup() string {
	s := v.styles

	rows := [][2]string{
		{"↑/k ↓/j", "move"},
		{"←/h →/l", "previous / next day"},
		{"t", "jump to today"},
		{"n", "new todo"},
		{"e", "edit todo"},
		{"space", "toggle done"},
		{"m", "toggle move to next day"},
		{"d", "delete todo"},
		{"N", "edit day notes"},
		{"p", "start/stop pomodoro"},
		{"+ / -", "zoom in / out"},
		{"D", "toggle dark mode"},
		{"q", "quit"},
	}

	var lines []string
	lines = append(lines, s.Title.Render("Keys"), "")
	for _, r := range rows {
		lines = append(lines, s.HelpKey.Render(fmt.Sprintf("%-10s", r[0]))+" "+s.HelpDesc.Render(r[1]))
	}
	lines = append(lines, "", s.HelpDesc.Render("press any key to close"))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return styles.CenterView(s.NotesPanel.Render(content), v.width, v.height, v.zoom)
}
