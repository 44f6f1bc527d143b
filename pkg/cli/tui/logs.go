package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"scrape-dash-go/pkg/cli/logger"
	"scrape-dash-go/pkg/logstream"
)

// logsModel shows the lines received on one log stream. The stream is
// opened in Init and released in Teardown; a closed or errored stream stays
// that way until the widget is replaced.
type logsModel struct {
	id     uuid.UUID
	keys   keyMap
	stream *logstream.Stream
	events *logstream.ChanHandler
	ctx    context.Context
	cancel context.CancelFunc

	buffer  *logstream.Buffer
	lastErr error

	viewport viewport.Model
	follow   bool
	width    int
	height   int
	focused  bool
	torndown bool
}

func newLogsModel(url string, dialer logstream.Dialer) *logsModel {
	ctx, cancel := context.WithCancel(context.Background())
	events := logstream.NewChanHandler(ctx, 64)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()
	vp.MouseWheelEnabled = true

	return &logsModel{
		id:       uuid.New(),
		keys:     defaultKeyMap(),
		stream:   logstream.New(url, dialer, events),
		events:   events,
		ctx:      ctx,
		cancel:   cancel,
		buffer:   logstream.NewBuffer(),
		viewport: vp,
		follow:   true,
	}
}

// Init opens the stream and starts draining its events
func (m *logsModel) Init() tea.Cmd {
	if m.torndown {
		return nil
	}
	logger.WithFields(logrus.Fields{"widget": m.id.String(), "url": m.stream.URL()}).Info("opening log stream")
	m.stream.Start()
	return m.waitForEvent()
}

// waitForEvent delivers the next stream event as a message
func (m *logsModel) waitForEvent() tea.Cmd {
	id, events, ctx := m.id, m.events.Events(), m.ctx
	return func() tea.Msg {
		if ctx.Err() != nil {
			return nil
		}
		select {
		case ev := <-events:
			if ctx.Err() != nil {
				return nil
			}
			return logEventMsg{widget: id, event: ev}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *logsModel) Update(msg tea.Msg) (*logsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case logEventMsg:
		if msg.widget != m.id || m.torndown {
			return m, nil
		}
		return m, m.handleEvent(msg.event)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
		case msg.String() == "pgdown":
			m.viewport.HalfViewDown()
		case msg.String() == "pgup":
			m.viewport.HalfViewUp()
		default:
			return m, nil
		}
		m.follow = m.viewport.AtBottom()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.follow = m.viewport.AtBottom()
		return m, cmd
	}

	return m, nil
}

func (m *logsModel) handleEvent(ev logstream.Event) tea.Cmd {
	entry := logger.WithFields(logrus.Fields{"widget": m.id.String(), "url": m.stream.URL()})

	switch ev.Kind {
	case logstream.EventOpen:
		entry.Info("log stream connected")
	case logstream.EventMessage:
		m.buffer.Append(ev.Line)
		m.viewport.SetContent(m.buffer.String())
		if m.follow {
			m.viewport.GotoBottom()
		}
	case logstream.EventError:
		m.lastErr = ev.Err
		entry.WithError(ev.Err).Warn("log stream error")
	case logstream.EventClose:
		entry.Info("log stream closed")
		// Close is always the last hook
		return nil
	}

	return m.waitForEvent()
}

// Buffer returns the lines received so far
func (m *logsModel) Buffer() *logstream.Buffer {
	return m.buffer
}

// State returns the stream's lifecycle state
func (m *logsModel) State() logstream.State {
	return m.stream.State()
}

// SetFocus sets the focus state
func (m *logsModel) SetFocus(focused bool) {
	m.focused = focused
}

// SetSize updates the viewport dimensions; one line is reserved for the header
func (m *logsModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - 1
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.viewport.SetContent(m.buffer.String())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// Teardown releases the stream. Safe to call more than once.
func (m *logsModel) Teardown() {
	if m.torndown {
		return
	}
	m.torndown = true
	m.cancel()
	m.stream.Close()
	logger.WithFields(logrus.Fields{"widget": m.id.String()}).Debug("log widget torn down")
}

func (m *logsModel) View() string {
	var b strings.Builder

	b.WriteString(boldStyle.Render("Logs:"))
	b.WriteString(" " + m.renderStatus())
	b.WriteString("\n")

	if m.buffer.Len() == 0 {
		b.WriteString(mutedStyle.Render("(no log lines yet)"))
		return b.String()
	}
	b.WriteString(m.viewport.View())
	return b.String()
}

func (m *logsModel) renderStatus() string {
	state := m.stream.State()
	label := fmt.Sprintf("[%s · %d lines]", state, m.buffer.Len())

	switch state {
	case logstream.StateConnected:
		return successStyle.Render(label)
	case logstream.StateErrored:
		text := label
		if m.lastErr != nil {
			text += " " + m.lastErr.Error()
		}
		return errorStyle.Render(text)
	case logstream.StateClosed:
		return warningStyle.Render(label)
	default:
		return infoStyle.Render(label)
	}
}
