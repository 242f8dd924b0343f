package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/tankwar/battle"
	"github.com/brensch/tankwar/output"
)

const recentLines = 8

// doneMsg is sent once the battle has finished or failed.
type doneMsg struct {
	summary string
	err     error
}

type model struct {
	title   string
	updates <-chan tea.Msg

	frame   *battle.Frame
	recent  []string
	done    bool
	summary string
	err     error
}

func newModel(title string, updates <-chan tea.Msg) model {
	return model{title: title, updates: updates}
}

func waitForUpdate(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case battle.Frame:
		m.frame = &msg
		line := fmt.Sprintf("%4d  %s", msg.Round, output.RoundLine(msg))
		m.recent = append([]string{line}, m.recent...)
		if len(m.recent) > recentLines {
			m.recent = m.recent[:recentLines]
		}
		return m, waitForUpdate(m.updates)
	case doneMsg:
		m.done = true
		m.summary = msg.summary
		m.err = msg.err
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Board: %s\n", m.title)
	if m.frame == nil {
		b.WriteString("Waiting for the first round...\n")
	} else {
		p1, p2 := 0, 0
		for _, t := range m.frame.Tanks {
			if !t.Alive {
				continue
			}
			if t.Side == 1 {
				p1++
			} else {
				p2++
			}
		}
		fmt.Fprintf(&b, "Round: %d   Player 1: %d tanks   Player 2: %d tanks   Shells: %d\n\n", m.frame.Round, p1, p2, m.frame.Shells)
		border := "+" + strings.Repeat("-", len(m.frame.Board[0])) + "+\n"
		b.WriteString(border)
		for _, row := range m.frame.Board {
			b.WriteString("|" + row + "|\n")
		}
		b.WriteString(border)
	}

	b.WriteString("\nRecent rounds:\n")
	for _, l := range m.recent {
		b.WriteString(l + "\n")
	}

	switch {
	case m.err != nil:
		fmt.Fprintf(&b, "\nBattle failed: %v\n", m.err)
	case m.done:
		fmt.Fprintf(&b, "\n%s\n", m.summary)
	}
	b.WriteString("\nPress q to quit.\n")
	return b.String()
}
