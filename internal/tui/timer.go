// Package tui holds the live session timer view.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dayquest/internal/engine"
	"dayquest/internal/ui"
)

type timerModel struct {
	ctx     context.Context
	svc     *engine.Service
	eventID string
	title   string

	seconds int64
	running bool
	lastLog string
	err     error
}

type tickMsg time.Time

type refreshedMsg struct {
	seconds int64
	running bool
	err     error
}

type toggledMsg struct {
	running bool
	err     error
}

func newTimerModel(ctx context.Context, svc *engine.Service, eventID, title string) timerModel {
	return timerModel{
		ctx:     ctx,
		svc:     svc,
		eventID: eventID,
		title:   title,
		lastLog: "Loaded.",
	}
}

func (m timerModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m timerModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		seconds, _, err := m.svc.CurrentDuration(m.ctx, m.eventID)
		if err != nil {
			return refreshedMsg{err: err}
		}
		active, err := m.svc.ActiveSession(m.ctx, m.eventID)
		if err != nil {
			return refreshedMsg{err: err}
		}
		return refreshedMsg{seconds: seconds, running: active != nil}
	}
}

func (m timerModel) toggleCmd() tea.Cmd {
	return func() tea.Msg {
		if m.running {
			_, err := m.svc.PauseSession(m.ctx, m.eventID)
			return toggledMsg{running: false, err: err}
		}
		_, err := m.svc.StartSession(m.ctx, m.eventID)
		return toggledMsg{running: true, err: err}
	}
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.running {
			m.seconds++
		}
		return m, tick()
	case refreshedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.seconds = msg.seconds
		m.running = msg.running
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Toggle failed: " + msg.err.Error()
			return m, nil
		}
		m.running = msg.running
		if msg.running {
			m.lastLog = "Timer started."
		} else {
			m.lastLog = "Timer paused."
		}
		return m, m.refreshCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ", "p":
			return m, m.toggleCmd()
		case "r":
			return m, m.refreshCmd()
		}
	}
	return m, nil
}

func (m timerModel) View() string {
	state := ui.Muted.Render("paused")
	if m.running {
		state = ui.Good.Render("running")
	}
	body := fmt.Sprintf("%s\n\n  %s  %s\n\n%s\n%s",
		ui.Heading(ui.IconTimer, m.title),
		ui.Gold.Render(ui.Duration(m.seconds)),
		state,
		ui.Muted.Render("space/p: start/pause  r: refresh  q: quit"),
		ui.Muted.Render(m.lastLog),
	)
	return ui.Panel.Render(body) + "\n"
}

// RunTimer opens the interactive timer for one task.
func RunTimer(ctx context.Context, svc *engine.Service, eventID, title string) error {
	p := tea.NewProgram(newTimerModel(ctx, svc, eventID, title))
	_, err := p.Run()
	return err
}
