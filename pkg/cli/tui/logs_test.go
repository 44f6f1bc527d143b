package tui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrape-dash-go/pkg/logstream"
)

var normalClose = websocket.CloseError{Code: websocket.StatusNormalClosure}

// drain feeds stream events to the model until the stream reports close
func drain(t *testing.T, m *logsModel, cmd tea.Cmd) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for cmd != nil {
		msgCh := make(chan tea.Msg, 1)
		go func(c tea.Cmd) { msgCh <- c() }(cmd)
		select {
		case msg := <-msgCh:
			if msg == nil {
				return
			}
			m, cmd = m.Update(msg)
		case <-deadline:
			t.Fatal("timed out draining log events")
		}
	}
}

// nextEvent runs cmd and applies the message it produces
func nextEvent(t *testing.T, m *logsModel, cmd tea.Cmd) (logEventMsg, tea.Cmd) {
	t.Helper()
	msg, ok := cmd().(logEventMsg)
	require.True(t, ok)
	_, next := m.Update(msg)
	return msg, next
}

func TestLogs_AppendsLinesInReceiptOrder(t *testing.T) {
	conn := newScriptConn(normalClose, "line1", "line2")
	m := newLogsModel("ws://test/ws/logs", &scriptDialer{conns: []*scriptConn{conn}})
	m.SetSize(60, 10)

	drain(t, m, m.Init())

	assert.Equal(t, "line1\nline2", m.Buffer().String())
	assert.Equal(t, logstream.StateClosed, m.State())
	assert.Contains(t, m.View(), "line1")
	assert.Contains(t, m.View(), "line2")

	m.Teardown()
	assert.Equal(t, int32(1), conn.closeCalls.Load())
}

func TestLogs_NoDropsOrReordering(t *testing.T) {
	const n = 500
	frames := make([]string, n)
	for i := range frames {
		frames[i] = fmt.Sprintf("payload %d", i)
	}
	conn := newScriptConn(normalClose, frames...)
	m := newLogsModel("ws://test/ws/logs", &scriptDialer{conns: []*scriptConn{conn}})

	drain(t, m, m.Init())

	assert.Equal(t, frames, m.Buffer().Lines())
}

func TestLogs_TransportErrorLeavesBufferUntouched(t *testing.T) {
	conn := newScriptConn(errors.New("connection reset by peer"), "kept")
	m := newLogsModel("ws://test/ws/logs", &scriptDialer{conns: []*scriptConn{conn}})

	drain(t, m, m.Init())

	assert.Equal(t, []string{"kept"}, m.Buffer().Lines())
	assert.Equal(t, logstream.StateErrored, m.State())
	assert.Contains(t, m.View(), "connection reset by peer")
}

func TestLogs_OpenEventMarksConnected(t *testing.T) {
	conn := newScriptConn(nil)
	m := newLogsModel("ws://test/ws/logs", &scriptDialer{conns: []*scriptConn{conn}})

	msg, next := nextEvent(t, m, m.Init())
	assert.Equal(t, logstream.EventOpen, msg.event.Kind)
	assert.NotNil(t, next)
	assert.Equal(t, logstream.StateConnected, m.State())
	assert.Equal(t, 0, m.Buffer().Len())
	assert.Contains(t, m.View(), "connected")

	m.Teardown()
	m.Teardown()
	assert.Equal(t, int32(1), conn.closeCalls.Load())
	assert.Nil(t, next(), "pending wait returns nothing after teardown")
}

func TestLogs_IgnoresEventsForOtherInstance(t *testing.T) {
	m := newLogsModel("ws://test/ws/logs", &scriptDialer{})

	_, cmd := m.Update(logEventMsg{
		widget: uuid.New(),
		event:  logstream.Event{Kind: logstream.EventMessage, Line: "stray"},
	})

	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Buffer().Len())
}

func TestLogs_TeardownBeforeInitNeverDials(t *testing.T) {
	dialer := &scriptDialer{}
	m := newLogsModel("ws://test/ws/logs", dialer)

	m.Teardown()
	assert.Nil(t, m.Init())
	assert.Equal(t, 0, dialer.dials)
}

func TestLogs_FollowsTailUnlessScrolledUp(t *testing.T) {
	m := newLogsModel("ws://test/ws/logs", &scriptDialer{})
	m.SetSize(40, 4)
	m.SetFocus(true)

	feed := func(line string) {
		m.Update(logEventMsg{widget: m.id, event: logstream.Event{Kind: logstream.EventMessage, Line: line}})
	}
	for i := 0; i < 10; i++ {
		feed(fmt.Sprintf("l%d", i))
	}
	assert.True(t, m.viewport.AtBottom())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	feed("l10")
	assert.True(t, m.viewport.AtTop(), "scrolled-up view stays put")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	feed("l11")
	assert.True(t, m.viewport.AtBottom())
	m.Teardown()
}
