package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"tictactoe/agent"
	"tictactoe/game"
)

// startMsg begins the first turn inside Update, where turn state is kept.
type startMsg struct{}

// aiMoveMsg carries the move the AI picked on a copy of the board.
type aiMoveMsg struct {
	move game.Move
	err  error
}

// Model is an interactive game of the human against an agent.
type Model struct {
	game     *game.Game
	ai       agent.Agent
	cursor   game.Move
	profile  termenv.Profile
	thinking bool
	message  string

	Wins   int
	Losses int
	Draws  int
}

func New(g *game.Game, ai agent.Agent, profile termenv.Profile) Model {
	return Model{game: g, ai: ai, profile: profile}
}

func (m Model) Game() *game.Game {
	return m.game
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case startMsg:
		cmd := m.nextTurn()
		return m, cmd
	case aiMoveMsg:
		m.thinking = false
		if msg.err != nil {
			m.message = "ai failed: " + msg.err.Error()
			return m, nil
		}
		if err := m.game.Play(msg.move); err != nil {
			m.message = "ai failed: " + err.Error()
			return m, nil
		}
		m.message = fmt.Sprintf("ai played %v", msg.move)
		cmd := m.nextTurn()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := m.game.Board.Size()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case "down", "j":
		m.cursor.Row = min(m.cursor.Row+1, size-1)
	case "left", "h":
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case "right", "l":
		m.cursor.Col = min(m.cursor.Col+1, size-1)
	case "r":
		if m.game.IsOver() {
			m.game.Reset()
			m.message = ""
			cmd := m.nextTurn()
			return m, cmd
		}
	case "enter", " ":
		if m.thinking || m.game.IsOver() || m.game.Current != m.game.Human {
			return m, nil
		}
		if err := m.game.Play(m.cursor); err != nil {
			m.message = "cell is taken"
			return m, nil
		}
		m.message = ""
		cmd := m.nextTurn()
		return m, cmd
	}
	return m, nil
}

// nextTurn records a finished game or asks the AI for its move.
func (m *Model) nextTurn() tea.Cmd {
	if m.game.IsOver() {
		switch m.game.Reward() {
		case 1:
			m.Losses++
		case -1:
			m.Wins++
		default:
			m.Draws++
		}
		log.Debug().Str("board", string(m.game.Key())).Msg("interactive game over")
		return nil
	}
	if m.game.Current != m.game.AI {
		return nil
	}
	m.thinking = true
	g, ai := m.game.Copy(), m.ai
	return func() tea.Msg {
		move, err := ai.FindMove(g)
		return aiMoveMsg{move: move, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder
	size := m.game.Board.Size()
	for row := 0; row < size; row++ {
		if row > 0 {
			b.WriteString(strings.Repeat("───┼", size-1) + "───\n")
		}
		for col := 0; col < size; col++ {
			if col > 0 {
				b.WriteString("│")
			}
			b.WriteString(m.cell(game.Move{Row: row, Col: col}))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + m.status() + "\n")
	if m.message != "" {
		b.WriteString(m.message + "\n")
	}
	fmt.Fprintf(&b, "\nyou %d  ai %d  draws %d\n", m.Wins, m.Losses, m.Draws)
	b.WriteString("arrows move, enter plays, r restarts, q quits\n")
	return b.String()
}

func (m Model) cell(move game.Move) string {
	symbol := m.game.Board.At(move.Row, move.Col)
	text := " " + symbol.String() + " "
	if move == m.cursor && !m.game.IsOver() {
		text = "[" + symbol.String() + "]"
	}
	styled := m.profile.String(text)
	switch symbol {
	case m.game.Human:
		styled = styled.Foreground(m.profile.Color("#5FAFFF")).Bold()
	case m.game.AI:
		styled = styled.Foreground(m.profile.Color("#FF5F5F")).Bold()
	}
	if move == m.cursor {
		styled = styled.Reverse()
	}
	return styled.String()
}

func (m Model) status() string {
	status, winner := m.game.Board.Status()
	switch {
	case status == game.Draw:
		return "draw"
	case status == game.Won && winner == m.game.Human:
		return "you win"
	case status == game.Won:
		return "ai wins"
	case m.thinking:
		return "ai is thinking..."
	}
	return fmt.Sprintf("your move (%v)", m.game.Human)
}

// Run plays interactively on the terminal until the user quits.
func Run(g *game.Game, ai agent.Agent) error {
	_, err := tea.NewProgram(New(g, ai, termenv.ColorProfile())).Run()
	return err
}
