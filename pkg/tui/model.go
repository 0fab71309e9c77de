package tui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/stefanpenner/stratlife/pkg/plan"
	"github.com/stefanpenner/stratlife/pkg/request"
	"github.com/stefanpenner/stratlife/pkg/store"
	"github.com/stefanpenner/stratlife/pkg/sync"
	"github.com/stefanpenner/stratlife/pkg/view"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

type planDoneMsg struct {
	goals []store.Goal
	err   error
}

type breakdownDoneMsg struct {
	parentID string
	goals    []store.Goal
	err      error
}

type refineDoneMsg struct {
	title    string
	horizon  store.Horizon
	category string
	goal     store.Goal
	err      error
}

type adviceDoneMsg struct {
	text string
	err  error
}

// Screen is one of the top-level views.
type Screen int

const (
	ScreenPlanner Screen = iota
	ScreenDashboard
	ScreenCalendar
)

var screenNames = []string{"Planner", "Dashboard", "Calendar"}

func (s Screen) String() string { return screenNames[s] }

// inputKind says what the text input is collecting.
type inputKind int

const (
	inputNone inputKind = iota
	inputAdd
	inputVision
	inputReview
)

// Options wires the model to its collaborators.
type Options struct {
	Store   *store.Store
	Planner *plan.Planner
	// Repo enables git sync when non-nil.
	Repo   *sync.Repo
	Logger *slog.Logger
	// Location is used to bucket calendar days; nil means local time.
	Location *time.Location
	Now      func() time.Time
}

// Model is the Bubble Tea model for the planner TUI.
type Model struct {
	store    *store.Store
	planner  *plan.Planner
	repo     *sync.Repo
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
	requests *request.Tracker
	keys     KeyMap
	width    int
	height   int

	screen  Screen
	horizon store.Horizon
	month   view.Month
	items   []ListItem
	cursor  int

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteTarget      store.Goal

	// Input mode
	input     inputKind
	textInput textinput.Model

	spinner spinner.Model
	advice  string

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 280

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = InProgressStyle

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		store:     opts.Store,
		planner:   opts.Planner,
		repo:      opts.Repo,
		logger:    opts.Logger,
		loc:       opts.Location,
		now:       opts.Now,
		requests:  &request.Tracker{},
		keys:      DefaultKeyMap(),
		horizon:   store.HorizonAnnual,
		month:     view.MonthOf(opts.Now().In(opts.Location)),
		textInput: ti,
		spinner:   sp,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(m.detailWidth())
		return m, tea.ClearScreen

	case FileChangedMsg:
		if err := m.store.Reload(); err != nil {
			m.setStatus("Load error: " + err.Error())
		}
		m.refresh()
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.setStatus("Sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("Synced successfully")
			if err := m.store.Reload(); err != nil {
				m.setStatus("Load error: " + err.Error())
			}
			m.refresh()
		}
		return m, nil

	case planDoneMsg:
		return m.handlePlanDone(msg), nil

	case breakdownDoneMsg:
		return m.handleBreakdownDone(msg), nil

	case refineDoneMsg:
		return m.handleRefineDone(msg), nil

	case adviceDoneMsg:
		reqKey := request.Key{Op: request.OpAdvice}
		if msg.err != nil {
			m.requests.Fail(reqKey, msg.err)
			m.setStatus("Advice failed: " + msg.err.Error())
		} else {
			m.requests.Succeed(reqKey)
			m.advice = msg.text
		}
		return m, nil

	case spinner.TickMsg:
		if !m.requests.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.input != inputNone {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input != inputNone {
		return m.handleInput(msg)
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// Delete confirmation
	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			if err := m.store.Delete(m.deleteTarget.ID); err != nil {
				m.setStatus("Delete failed: " + err.Error())
			} else {
				m.setStatus("Deleted: " + m.deleteTarget.Title)
				m.refresh()
			}
			m.showDeleteConfirm = false
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true

	case key.Matches(msg, m.keys.Tab):
		m.screen = (m.screen + 1) % Screen(len(screenNames))

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Prev):
		m.step(-1)

	case key.Matches(msg, m.keys.Next):
		m.step(1)

	case key.Matches(msg, m.keys.Space):
		if g, ok := m.selected(); ok {
			updated, err := m.store.ToggleStatus(g.ID)
			if err != nil {
				m.setStatus("Error: " + err.Error())
			} else {
				m.setStatus(updated.Title + " → " + string(updated.Status))
				m.refresh()
			}
		}

	case key.Matches(msg, m.keys.ProgressUp), key.Matches(msg, m.keys.ProgressDown):
		if g, ok := m.selected(); ok {
			delta := 10
			if key.Matches(msg, m.keys.ProgressDown) {
				delta = -10
			}
			if _, err := m.store.SetProgress(g.ID, g.Progress+delta); err != nil {
				m.setStatus("Error: " + err.Error())
			} else {
				m.refresh()
			}
		}

	case key.Matches(msg, m.keys.Add):
		if m.screen == ScreenPlanner {
			m.startInput(inputAdd, "Describe a "+string(m.horizon)+" goal")
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Plan):
		m.startInput(inputVision, "Your vision for the year")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Review):
		if _, ok := m.selected(); ok {
			m.startInput(inputReview, "Review note")
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Delete):
		if g, ok := m.selected(); ok {
			m.showDeleteConfirm = true
			m.deleteTarget = g
		}

	case key.Matches(msg, m.keys.Breakdown):
		if g, ok := m.selected(); ok {
			cmd := m.startBreakdown(g)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Advice):
		cmd := m.startAdvice()
		return m, cmd

	case key.Matches(msg, m.keys.Reload):
		if err := m.store.Reload(); err != nil {
			m.setStatus("Load error: " + err.Error())
		} else {
			m.setStatus("Reloaded")
		}
		m.refresh()

	case key.Matches(msg, m.keys.Sync):
		if m.repo == nil {
			m.setStatus("Git sync is not configured")
			return m, nil
		}
		m.setStatus("Syncing...")
		return m, m.doSync()
	}

	return m, nil
}

func (m *Model) step(delta int) {
	switch m.screen {
	case ScreenCalendar:
		m.month = m.month.Add(delta)
	case ScreenPlanner:
		m.horizon = shiftHorizon(m.horizon, delta)
		m.cursor = 0
		m.refresh()
	}
}

func (m *Model) startInput(kind inputKind, placeholder string) {
	m.input = kind
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	m.textInput.Focus()
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		m.textInput.Blur()
		return m, nil
	case tea.KeyEnter:
		text := strings.TrimSpace(m.textInput.Value())
		kind := m.input
		m.input = inputNone
		m.textInput.Blur()
		if text == "" {
			return m, nil
		}
		switch kind {
		case inputAdd:
			cmd := m.startRefine(text)
			return m, cmd
		case inputVision:
			cmd := m.startPlan(text)
			return m, cmd
		case inputReview:
			if g, ok := m.selected(); ok {
				if _, err := m.store.AddReview(g.ID, text); err != nil {
					m.setStatus("Error: " + err.Error())
				} else {
					m.setStatus("Review added")
					m.refresh()
				}
			}
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

// categoryForNew picks the category of the selected goal, or Personal.
func (m Model) categoryForNew() string {
	if g, ok := m.selected(); ok && g.Category != "" {
		return g.Category
	}
	return "Personal"
}

func (m *Model) startPlan(vision string) tea.Cmd {
	reqKey := request.Key{Op: request.OpPlan}
	idle := !m.requests.Pending()
	if !m.requests.Begin(reqKey) {
		m.setStatus("A plan is already being generated")
		return nil
	}
	m.setStatus("Generating strategic plan...")
	planner, category := m.planner, m.categoryForNew()
	return m.withSpinner(idle, func() tea.Msg {
		goals, err := planner.StrategicPlan(context.Background(), vision, category)
		return planDoneMsg{goals: goals, err: err}
	})
}

func (m Model) handlePlanDone(msg planDoneMsg) Model {
	reqKey := request.Key{Op: request.OpPlan}
	if msg.err != nil {
		m.requests.Fail(reqKey, msg.err)
		m.logger.Warn("strategic plan failed", "err", msg.err)
		m.setStatus(failureText("Plan", msg.err))
		return m
	}
	if _, err := m.store.AddAll(msg.goals); err != nil {
		m.requests.Fail(reqKey, err)
		m.setStatus("Error: " + err.Error())
		return m
	}
	m.requests.Succeed(reqKey)
	m.setStatus("Plan created with " + strconv.Itoa(len(msg.goals)) + " goals")
	m.refresh()
	return m
}

func (m *Model) startBreakdown(parent store.Goal) tea.Cmd {
	if _, ok := parent.Horizon.Child(); !ok {
		m.setStatus("Daily goals cannot be broken down further")
		return nil
	}
	reqKey := request.Key{Op: request.OpBreakdown, GoalID: parent.ID}
	idle := !m.requests.Pending()
	if !m.requests.Begin(reqKey) {
		m.setStatus("Already breaking down " + parent.Title)
		return nil
	}
	m.setStatus("Breaking down " + parent.Title + "...")
	planner := m.planner
	return m.withSpinner(idle, func() tea.Msg {
		goals, err := planner.Breakdown(context.Background(), parent)
		return breakdownDoneMsg{parentID: parent.ID, goals: goals, err: err}
	})
}

func (m Model) handleBreakdownDone(msg breakdownDoneMsg) Model {
	reqKey := request.Key{Op: request.OpBreakdown, GoalID: msg.parentID}
	if msg.err != nil {
		m.requests.Fail(reqKey, msg.err)
		m.logger.Warn("breakdown failed", "goal", msg.parentID, "err", msg.err)
		m.setStatus(failureText("Breakdown", msg.err))
		return m
	}
	if len(msg.goals) > 0 {
		if _, err := m.store.AddAll(msg.goals); err != nil {
			m.requests.Fail(reqKey, err)
			m.setStatus("Error: " + err.Error())
			return m
		}
	}
	m.requests.Succeed(reqKey)
	m.setStatus("Added " + strconv.Itoa(len(msg.goals)) + " sub-goals")
	m.refresh()
	return m
}

func (m *Model) startRefine(text string) tea.Cmd {
	reqKey := request.Key{Op: request.OpRefine}
	idle := !m.requests.Pending()
	if !m.requests.Begin(reqKey) {
		m.setStatus("Already refining a goal")
		return nil
	}
	m.setStatus("Refining goal...")
	planner, horizon, category := m.planner, m.horizon, m.categoryForNew()
	return m.withSpinner(idle, func() tea.Msg {
		g, err := planner.RefineToSmart(context.Background(), text, horizon, category, "")
		return refineDoneMsg{title: text, horizon: horizon, category: category, goal: g, err: err}
	})
}

// handleRefineDone stores the refined goal. Without a credential the text
// is added as-is.
func (m Model) handleRefineDone(msg refineDoneMsg) Model {
	reqKey := request.Key{Op: request.OpRefine}
	g := msg.goal
	if msg.err != nil {
		if !errors.Is(msg.err, plan.ErrMissingCredential) {
			m.requests.Fail(reqKey, msg.err)
			m.setStatus(failureText("Refine", msg.err))
			return m
		}
		g = store.Goal{
			Title:    msg.title,
			Horizon:  msg.horizon,
			Category: msg.category,
			Status:   store.StatusNotStarted,
			DueDate:  defaultDue(msg.horizon, m.now()),
		}
	}
	added, err := m.store.Add(g)
	if err != nil {
		m.requests.Fail(reqKey, err)
		m.setStatus("Error: " + err.Error())
		return m
	}
	m.requests.Succeed(reqKey)
	m.setStatus("Created: " + added.Title)
	m.refresh()
	m.selectID(added.ID)
	return m
}

func (m *Model) startAdvice() tea.Cmd {
	reqKey := request.Key{Op: request.OpAdvice}
	idle := !m.requests.Pending()
	if !m.requests.Begin(reqKey) {
		return nil
	}
	planner, goals := m.planner, m.store.All()
	return m.withSpinner(idle, func() tea.Msg {
		text, err := planner.Advice(context.Background(), goals)
		return adviceDoneMsg{text: text, err: err}
	})
}

// withSpinner starts the spinner's tick chain alongside work unless one is
// already running for another pending request.
func (m *Model) withSpinner(idle bool, work tea.Cmd) tea.Cmd {
	if !idle {
		return work
	}
	return tea.Batch(m.spinner.Tick, work)
}

func failureText(op string, err error) string {
	if errors.Is(err, plan.ErrMissingCredential) {
		return op + " needs an API key (set GEMINI_API_KEY)"
	}
	return op + " failed: " + err.Error()
}

// refresh rebuilds the planner list from the store and keeps the cursor
// in range.
func (m *Model) refresh() {
	m.items = BuildItems(m.store, m.horizon)
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectID(id string) {
	for i, item := range m.items {
		if item.Goal.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (store.Goal, bool) {
	if m.screen != ScreenPlanner || m.cursor < 0 || m.cursor >= len(m.items) {
		return store.Goal{}, false
	}
	return m.items[m.cursor].Goal, true
}

func (m Model) detailWidth() int {
	w := m.width - m.width/3 - 1 - 2
	if w < 20 {
		w = 20
	}
	return w
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m Model) doSync() tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		return SyncDoneMsg{Err: repo.Sync(context.Background())}
	}
}
