package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/arenacore/internal/eventlog"
	"github.com/lox/arenacore/internal/match"
)

// pollInterval bounds how often the model re-reads the log file looking for
// new lines. The log is append-only, so a full re-read is cheap and
// trivially correct even across concurrent writes.
const pollInterval = 250 * time.Millisecond

type tickMsg time.Time

// model is the bubbletea Model for the watch TUI: a read-only, scrollable
// view over whatever events it has decoded from the tailed log so far. The
// scrollback lives in a bubbles/viewport.Model rather than being
// re-rendered flat every frame.
type model struct {
	path   string
	logger *log.Logger

	vp     viewport.Model
	ready  bool
	events []match.Event
	err    error
}

func newModel(path string, logger *log.Logger) *model {
	return &model{path: path, logger: logger}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.reload(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) reload() tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(m.path)
		if err != nil {
			return reloadErrMsg{err}
		}
		defer f.Close()
		events, err := eventlog.ReadAll(f)
		if err != nil {
			return reloadErrMsg{err}
		}
		return reloadedMsg{events}
	}
}

type reloadedMsg struct{ events []match.Event }
type reloadErrMsg struct{ err error }

const headerHeight = 2

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight
		}
		m.vp.SetContent(m.renderEvents())
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		cmds = append(cmds, m.reload(), tick())
	case reloadedMsg:
		m.events = msg.events
		m.err = nil
		wasAtBottom := m.vp.AtBottom()
		m.vp.SetContent(m.renderEvents())
		if wasAtBottom {
			m.vp.GotoBottom()
		}
	case reloadErrMsg:
		m.err = msg.err
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) View() string {
	header := headerStyle.Render(fmt.Sprintf(" watch: %s ", m.path))
	if !m.ready {
		return header + "\n\ninitializing...\n"
	}
	return header + "\n" + m.vp.View()
}

func (m *model) renderEvents() string {
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}
	if len(m.events) == 0 {
		return infoStyle.Render("waiting for events...")
	}

	var b strings.Builder
	for _, ev := range m.events {
		switch e := ev.(type) {
		case match.MatchStartEvent:
			b.WriteString(handInfoStyle.Render(fmt.Sprintf("MATCH_START  match=%s game=%s@%s seedCommit=%s",
				e.MatchID, e.GameID, e.GameVersion, shortHash(e.SeedCommit))))
			b.WriteString("\n")
			for _, a := range e.Agents {
				b.WriteString(infoStyle.Render(fmt.Sprintf("  seat agent=%s (%s)", a.ID, shortHash(a.Fingerprint))))
				b.WriteString("\n")
			}
		case match.TurnEvent:
			b.WriteString(renderTurn(e))
			b.WriteString("\n")
		case match.MatchEndEvent:
			b.WriteString(renderEnd(e))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("↑/↓ to scroll, q to quit"))
	return b.String()
}

func renderTurn(e match.TurnEvent) string {
	flags := ""
	if e.TimedOut {
		flags += " [timeout]"
	}
	if e.IllegalAction {
		flags += fmt.Sprintf(" [illegal, wanted %v]", e.OriginalAction)
	}
	line := fmt.Sprintf("TURN %-4d seat=%d action=%v (%dms)%s", e.TurnIndex, e.PlayerIndex, e.Action, e.TimingMs, flags)
	if flags != "" {
		line = actionsStyle.Render(line)
	}
	for _, annotation := range e.Events {
		if glyphs := annotationCardGlyphs(annotation); glyphs != "" {
			line += "\n  " + glyphs
		}
	}
	return line
}

// annotationCardGlyphs renders any string-valued card fields a
// discipline-authored GameAnnotation carries (e.g. {"type":"STREET",
// "data":{"community":["2h","9s","Kd"]}}) as bordered glyphs. The replay
// verifier ignores annotations, but a spectator still wants them.
func annotationCardGlyphs(a match.GameAnnotation) string {
	data, ok := a.Data.(map[string]any)
	if !ok {
		return ""
	}
	var glyphs []string
	for _, v := range data {
		cards, ok := v.([]any)
		if !ok {
			continue
		}
		for _, c := range cards {
			if s, ok := c.(string); ok && len(s) == 2 {
				glyphs = append(glyphs, cardGlyph(s))
			}
		}
	}
	if len(glyphs) == 0 {
		return ""
	}
	return strings.Join(glyphs, "")
}

func renderEnd(e match.MatchEndEvent) string {
	var b strings.Builder
	b.WriteString(successStyle.Render(fmt.Sprintf("MATCH_END  turns=%d timeMs=%d seedReveal=%s",
		e.TotalTurns, e.TotalTimeMs, e.SeedReveal)))
	b.WriteString("\n")
	for _, p := range e.Results.Players {
		b.WriteString(fmt.Sprintf("  seat=%d score=%.2f rank=%d\n", p.PlayerIndex, p.Score, p.Rank))
	}
	if e.Results.IsDraw {
		b.WriteString(infoStyle.Render("  draw"))
	} else if e.Results.Winner != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  winner=seat %d", *e.Results.Winner)))
	}
	return b.String()
}

func shortHash(h string) string {
	if len(h) <= 10 {
		return h
	}
	return h[:10] + "…"
}
