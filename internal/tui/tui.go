package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/life-narrator/internal/engine"
	"github.com/tatianab/life-narrator/internal/models"
)

type sessionState int

const (
	stateLoading sessionState = iota
	statePlaying
	stateConfirmReset
	stateDead
	stateError
)

type model struct {
	state     sessionState
	prior     sessionState
	engine    *engine.Engine
	settings  models.GameSettings
	game      models.GameState
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	notice    string
	toast     string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D97706")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	deathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DC2626")).
			Bold(true)
)

// NewModel wraps an engine that already holds a started or restored game.
// settings are reused when the player starts a new life after a reset.
func NewModel(eng *engine.Engine, settings models.GameSettings) model {
	ti := textinput.New()
	ti.Placeholder = "Pick an option number or describe what you do..."
	ti.Focus()
	ti.CharLimit = 280
	ti.Width = 60

	m := model{
		state:     stateLoading,
		engine:    eng,
		settings:  settings,
		textInput: ti,
		viewport:  viewport.New(80, 20),
	}
	if game, ok := eng.State(); ok {
		m.game = game
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.open(), m.waitForAchievement())
}

type turnMsg struct {
	result engine.TurnResult
	err    error
}

type achievementMsg struct {
	achievement models.Achievement
}

type errMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.state {
		case stateConfirmReset:
			switch strings.ToLower(msg.String()) {
			case "y":
				m.state = stateLoading
				m.toast = ""
				return m, m.newLife()
			case "n":
				m.state = m.prior
			}
			return m, nil

		case stateDead:
			switch strings.ToLower(msg.String()) {
			case "r":
				m.prior = stateDead
				m.state = stateConfirmReset
			case "q":
				return m, tea.Quit
			}
			return m, nil

		case statePlaying:
			if msg.Type == tea.KeyEnter {
				return m.submit()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.72)
		m.viewport.Height = max(5, msg.Height-12)
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()

	case turnMsg:
		if msg.err != nil {
			if errors.Is(msg.err, engine.ErrTurnInFlight) {
				return m, nil
			}
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		if game, ok := m.engine.State(); ok {
			m.game = game
		}
		m.notice = ""
		if msg.result.Fallback {
			m.notice = "The narrator could not be reached."
		}
		if msg.result.SaveErr != nil {
			m.notice = "Progress could not be saved; continuing without saving."
		}
		m.state = statePlaying
		if m.engine.Phase() == engine.PhaseDead {
			m.state = stateDead
		}
		m.viewport.SetContent(m.renderLog())
		m.viewport.GotoBottom()
		return m, nil

	case achievementMsg:
		m.toast = "New achievement unlocked: " + msg.achievement.Title
		return m, m.waitForAchievement()

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m, nil
	}
	m.textInput.Reset()

	switch input {
	case "/quit":
		return m, tea.Quit
	case "/restart":
		m.prior = statePlaying
		m.state = stateConfirmReset
		return m, nil
	}

	action := input
	if m.game.CurrentTurn != nil {
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(m.game.CurrentTurn.Options) {
			action = m.game.CurrentTurn.Options[n-1]
		}
	}

	m.state = stateLoading
	m.toast = ""
	m.game.History = append(m.game.History, models.HistoryEntry{Role: models.RolePlayer, Text: action})
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
	return m, m.processTurn(action)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = m.playView("\n  Weaving the events of your life... please wait.")

	case statePlaying:
		help := helpStyle.Render("Commands: /restart, /quit, an option number, or just type what you want to do.")
		s = m.playView(lipgloss.JoinVertical(lipgloss.Left,
			m.renderOptions(),
			"\n"+m.textInput.View(),
			"\n"+help,
		))

	case stateConfirmReset:
		s = "\n  Are you sure? Your current progress will be deleted. (y/n)\n"

	case stateDead:
		stats := m.game.Stats
		s = lipgloss.JoinVertical(lipgloss.Left,
			m.playView(""),
			deathStyle.Render("GAME OVER - you have passed away..."),
			fmt.Sprintf("Final score: %d days lived, %d achievements", stats.DaysLived, len(stats.Achievements)),
			helpStyle.Render("Press r to start a new life, q to quit."),
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) playView(footer string) string {
	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)
	parts := []string{mainView}
	if m.toast != "" {
		parts = append(parts, toastStyle.Render("★ "+m.toast))
	}
	if m.notice != "" {
		parts = append(parts, helpStyle.Render(m.notice))
	}
	if footer != "" {
		parts = append(parts, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderOptions() string {
	if m.game.CurrentTurn == nil || len(m.game.CurrentTurn.Options) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("What will you do now?\n")
	for i, opt := range m.game.CurrentTurn.Options {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, formatText(opt))
	}
	return b.String()
}

func (m model) renderState() string {
	settings := m.game.Settings
	stats := m.game.Stats

	header := titleStyle.Render(settings.PlayerName) + "\n" + settings.Country + " • " + settings.Year + "\n\n"

	statsTitle := titleStyle.Render("STATS") + "\n"
	body := fmt.Sprintf("Age: %d years\nDays lived: %d\nHealth: %d%%\nWealth: %d gold\nTurn: %d\n\n",
		stats.AgeYears, stats.DaysLived, stats.Health, stats.Wealth, m.game.TurnCount)

	invTitle := titleStyle.Render("INVENTORY") + "\n"
	inventory := ""
	if len(stats.Inventory) == 0 {
		inventory = "(empty)\n"
	} else {
		for _, item := range stats.Inventory {
			inventory += "- " + formatText(item) + "\n"
		}
	}

	achTitle := "\n" + titleStyle.Render("ACHIEVEMENTS") + "\n"
	achievements := ""
	if len(stats.Achievements) == 0 {
		achievements = "(none yet)\n"
	} else {
		for _, a := range stats.Achievements {
			achievements += "★ " + a.Title + "\n"
		}
	}

	content := header + statsTitle + body + invTitle + inventory + achTitle + achievements

	stateWidth := int(float64(m.width) * 0.25)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func (m model) renderLog() string {
	logWidth := max(20, m.viewport.Width-2)
	var b strings.Builder
	for _, entry := range m.game.History {
		switch entry.Role {
		case models.RolePlayer:
			b.WriteString(userStyle.Width(logWidth).Render("> " + entry.Text))
		default:
			b.WriteString(gameStyle.Width(logWidth).Render(formatText(entry.Text)))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// formatText renders **bold** spans with the highlight style.
func formatText(text string) string {
	parts := strings.Split(text, "**")
	if len(parts) < 3 {
		return text
	}
	var b strings.Builder
	for i, part := range parts {
		// odd segments sit between a pair of markers; a trailing unmatched
		// marker leaves the last segment plain
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString(keyStyle.Render(part))
			continue
		}
		if i%2 == 1 {
			b.WriteString("**")
		}
		b.WriteString(part)
	}
	return b.String()
}

func (m model) open() tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.Open(context.Background())
		return turnMsg{res, err}
	}
}

func (m model) processTurn(action string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.SubmitAction(context.Background(), action)
		return turnMsg{res, err}
	}
}

// newLife discards the current game and starts over with the same settings.
func (m model) newLife() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.engine.Reset(ctx); err != nil && !errors.Is(err, models.ErrPersistence) {
			return errMsg{err}
		}
		if _, err := m.engine.Start(m.settings); err != nil {
			return errMsg{err}
		}
		res, err := m.engine.Open(ctx)
		return turnMsg{res, err}
	}
}

func (m model) waitForAchievement() tea.Cmd {
	ch := m.engine.Achievements()
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return achievementMsg{a}
	}
}

func Run(eng *engine.Engine, settings models.GameSettings) error {
	p := tea.NewProgram(NewModel(eng, settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
