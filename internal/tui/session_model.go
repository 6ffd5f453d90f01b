package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/questionnaire"
	"github.com/rshade/footprint/internal/session"
)

// SessionState represents the current state of the session TUI.
type SessionState int

const (
	// SessionStateQuestionnaire shows the visible questions and their answers.
	SessionStateQuestionnaire SessionState = iota
	// SessionStatePlanning shows the ranked scenario table.
	SessionStatePlanning
	// SessionStateQuitting indicates the application is exiting.
	SessionStateQuitting
	// SessionStateError indicates a recomputation failed.
	SessionStateError
)

// answerAppliedMsg is sent when an answer change has been recomputed.
type answerAppliedMsg struct {
	err error
}

// scenariosMsg is sent when scenario generation completes.
type scenariosMsg struct {
	scenarios []engine.Scenario
	err       error
}

// Default dimensions for the session model.
const (
	sessionDefaultWidth  = 100
	sessionDefaultHeight = 24
	tableChromeHeight    = 12
	minTableHeight       = 3
	maxChoiceShortcut    = 9
)

// SessionModel is the Bubble Tea model for an interactive footprint session.
type SessionModel struct {
	ctx     context.Context
	session *session.Session

	state      SessionState
	focusedRow int
	loading    bool
	notice     string
	err        error

	scenarios []engine.Scenario
	table     table.Model

	width  int
	height int
}

// NewSessionModel creates a SessionModel over an existing session. The model
// starts in whichever mode the session is in.
func NewSessionModel(ctx context.Context, s *session.Session) *SessionModel {
	m := &SessionModel{
		ctx:     ctx,
		session: s,
		state:   SessionStateQuestionnaire,
		width:   sessionDefaultWidth,
		height:  sessionDefaultHeight,
	}
	m.table = NewScenarioTable(nil, m.tableHeight())
	if s.Mode() == session.ModePlanning {
		m.state = SessionStatePlanning
	}
	return m
}

// Init loads scenarios when the session is already in planning mode.
func (m *SessionModel) Init() tea.Cmd {
	if m.state == SessionStatePlanning {
		return m.loadScenarios()
	}
	return nil
}

// Update handles messages and updates the model state.
func (m *SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case answerAppliedMsg:
		return m.handleAnswerApplied(msg)

	case scenariosMsg:
		return m.handleScenarios(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

//nolint:exhaustive // Only handling keys shared by both modes.
func (m *SessionModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.state = SessionStateQuitting
		return m, tea.Quit
	case tea.KeyRunes:
		if string(msg.Runes) == "q" {
			m.state = SessionStateQuitting
			return m, tea.Quit
		}
	}

	if m.loading {
		return m, nil
	}

	switch m.state {
	case SessionStateQuestionnaire:
		return m.handleQuestionnaireKey(msg)
	case SessionStatePlanning:
		return m.handlePlanningKey(msg)
	case SessionStateQuitting, SessionStateError:
	}
	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for question navigation.
func (m *SessionModel) handleQuestionnaireKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()

	switch msg.Type {
	case tea.KeyUp:
		if m.focusedRow > 0 {
			m.focusedRow--
		}
		return m, nil

	case tea.KeyDown:
		if m.focusedRow < len(visible)-1 {
			m.focusedRow++
		}
		return m, nil

	case tea.KeyRight, tea.KeyEnter, tea.KeySpace:
		return m, m.cycleChoice(1)

	case tea.KeyLeft:
		return m, m.cycleChoice(-1)

	case tea.KeyBackspace, tea.KeyDelete:
		return m, m.clearFocused()

	case tea.KeyRunes:
		key := string(msg.Runes)
		switch key {
		case "p":
			return m.enterPlanning()
		case "x":
			return m, m.clearFocused()
		}
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= maxChoiceShortcut {
			return m, m.selectChoice(n - 1)
		}
	}

	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for the scenario table.
func (m *SessionModel) handlePlanningKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.session.ExitPlanning()
		m.state = SessionStateQuestionnaire
		m.notice = ""
		return m, nil

	case tea.KeyEnter:
		return m, m.adoptSelected()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *SessionModel) enterPlanning() (tea.Model, tea.Cmd) {
	err := m.session.EnterPlanning(m.ctx)
	var incomplete *session.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		m.notice = "Answer these first: " + strings.Join(incomplete.Missing, ", ")
		return m, nil
	case err != nil:
		m.err = err
		m.state = SessionStateError
		return m, nil
	}

	m.state = SessionStatePlanning
	m.notice = ""
	return m, m.loadScenarios()
}

// cycleChoice moves the focused question's answer by step through its
// choices, starting at the first (or last) when unanswered.
func (m *SessionModel) cycleChoice(step int) tea.Cmd {
	q, ok := m.focused()
	if !ok || len(q.Choices) == 0 {
		return nil
	}

	current := m.session.Answers()[q.ID]
	idx := -1
	for i, c := range q.Choices {
		if c.Key == current {
			idx = i
			break
		}
	}

	n := len(q.Choices)
	var next int
	switch {
	case idx < 0 && step < 0:
		next = n - 1
	case idx < 0:
		next = 0
	default:
		next = ((idx+step)%n + n) % n
	}
	return m.applyAnswer(q.ID, q.Choices[next].Key)
}

func (m *SessionModel) selectChoice(i int) tea.Cmd {
	q, ok := m.focused()
	if !ok || i >= len(q.Choices) {
		return nil
	}
	return m.applyAnswer(q.ID, q.Choices[i].Key)
}

func (m *SessionModel) clearFocused() tea.Cmd {
	q, ok := m.focused()
	if !ok {
		return nil
	}

	m.loading = true
	ctx, s, id := m.ctx, m.session, q.ID
	return func() tea.Msg {
		return answerAppliedMsg{err: s.ClearAnswer(ctx, id)}
	}
}

// adoptSelected applies the highlighted scenario's candidate choice.
func (m *SessionModel) adoptSelected() tea.Cmd {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.scenarios) {
		return nil
	}
	sc := m.scenarios[cursor]
	logging.FromContext(m.ctx).Debug().
		Ctx(m.ctx).
		Str("component", "tui").
		Str("question_id", sc.QuestionID).
		Str("candidate", sc.CandidateChoiceKey).
		Msg("adopting scenario")
	return m.applyAnswer(sc.QuestionID, sc.CandidateChoiceKey)
}

func (m *SessionModel) applyAnswer(questionID, choiceKey string) tea.Cmd {
	m.loading = true
	m.notice = ""

	// Capture references before the command runs off the update loop.
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return answerAppliedMsg{err: s.SetAnswer(ctx, questionID, choiceKey)}
	}
}

func (m *SessionModel) loadScenarios() tea.Cmd {
	m.loading = true

	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		snap, err := s.Snapshot(ctx)
		if err != nil {
			return scenariosMsg{err: err}
		}
		return scenariosMsg{scenarios: snap.Scenarios}
	}
}

func (m *SessionModel) handleAnswerApplied(msg answerAppliedMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	if msg.err != nil {
		m.err = msg.err
		m.state = SessionStateError
		return m, nil
	}

	if n := len(m.visible()); m.focusedRow >= n {
		m.focusedRow = max(n-1, 0)
	}

	if m.state == SessionStatePlanning {
		return m, m.loadScenarios()
	}
	return m, nil
}

func (m *SessionModel) handleScenarios(msg scenariosMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	if msg.err != nil {
		m.err = msg.err
		m.state = SessionStateError
		return m, nil
	}

	m.scenarios = msg.scenarios
	m.table.SetRows(ScenarioRows(m.scenarios))
	m.table.SetCursor(0)
	return m, nil
}

func (m *SessionModel) visible() []questionnaire.Question {
	if r := m.session.Result(); r != nil {
		return r.Visible
	}
	return nil
}

func (m *SessionModel) focused() (questionnaire.Question, bool) {
	visible := m.visible()
	if m.focusedRow < 0 || m.focusedRow >= len(visible) {
		return questionnaire.Question{}, false
	}
	return visible[m.focusedRow], true
}

func (m *SessionModel) tableHeight() int {
	return max(m.height-tableChromeHeight, minTableHeight)
}

// View renders the current view.
func (m *SessionModel) View() string {
	switch m.state {
	case SessionStateQuitting:
		return ""
	case SessionStateError:
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	case SessionStateQuestionnaire, SessionStatePlanning:
	}

	if m.loading {
		return RenderLoadingIndicator()
	}

	var sb strings.Builder
	sb.WriteString(RenderSessionHeader(m.state, m.session.Result()))
	sb.WriteString("\n\n")

	if m.state == SessionStatePlanning {
		sb.WriteString(RenderScenarioSection(m.table, m.scenarios, m.session.Result()))
	} else {
		sb.WriteString(RenderQuestionList(m.visible(), m.session.Answers(), m.session.Result(), m.focusedRow))
	}
	sb.WriteString("\n")

	if m.notice != "" {
		sb.WriteString(NoticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(RenderSessionHelp(m.state))
	return sb.String()
}

// State returns the current TUI state.
func (m *SessionModel) State() SessionState { return m.state }

// Session returns the underlying session.
func (m *SessionModel) Session() *session.Session { return m.session }
