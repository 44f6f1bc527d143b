package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scrape-dash-go/pkg/scraper"
)

func newTestDashboard(conns ...*scriptConn) (*Dashboard, *fakeTrigger, *scriptDialer) {
	ft := &fakeTrigger{resp: &scraper.StartResponse{Message: "Scraping started"}}
	dialer := &scriptDialer{conns: conns}
	return NewDashboard(ft, "ws://test/ws/logs", dialer), ft, dialer
}

func TestDashboard_TabSwitchesFocus(t *testing.T) {
	d, _, _ := newTestDashboard()

	assert.True(t, d.trigger.focused)
	assert.False(t, d.logs.focused)

	d.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, d.trigger.focused)
	assert.True(t, d.logs.focused)

	d.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, d.trigger.focused)
}

func TestDashboard_RoutesTriggerResult(t *testing.T) {
	d, ft, _ := newTestDashboard()

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, d.trigger.State().Loading)

	d.Update(d.trigger.request()())
	assert.Equal(t, "Scraping started", d.trigger.State().Message)
	assert.False(t, d.trigger.State().Loading)
	assert.Equal(t, 1, ft.calls)
	assert.Equal(t, 0, d.logs.Buffer().Len(), "widgets share no state")
}

func TestDashboard_RemountResetsLogs(t *testing.T) {
	first := newScriptConn(nil, "old line")
	second := newScriptConn(normalClose, "new line")
	d, _, dialer := newTestDashboard(first, second)

	oldLogs := d.logs
	cmd := oldLogs.Init()
	_, cmd = nextEvent(t, oldLogs, cmd) // open
	_, _ = nextEvent(t, oldLogs, cmd)   // message
	require.Equal(t, []string{"old line"}, oldLogs.Buffer().Lines())

	d.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd = d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)

	assert.NotSame(t, oldLogs, d.logs)
	assert.Equal(t, int32(1), first.closeCalls.Load(), "old stream released")
	assert.Equal(t, 0, d.logs.Buffer().Len(), "fresh instance starts empty")
	assert.True(t, d.logs.focused)

	drain(t, d.logs, cmd)
	assert.Equal(t, []string{"new line"}, d.logs.Buffer().Lines())
	assert.Equal(t, 2, dialer.dials)

	d.Teardown()
	assert.Equal(t, int32(1), first.closeCalls.Load())
	assert.Equal(t, int32(1), second.closeCalls.Load())
}

func TestDashboard_ReconnectKeyIgnoredOnTrigger(t *testing.T) {
	d, _, _ := newTestDashboard()
	logs := d.logs

	d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Same(t, logs, d.logs)
}

func TestDashboard_LayoutSwitchesWithWidth(t *testing.T) {
	d, _, _ := newTestDashboard()

	d.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	wide := d.View()
	assert.Contains(t, firstLineWith(wide, "Run scraping"), "Logs:", "side by side")

	d.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	narrow := d.View()
	assert.NotContains(t, firstLineWith(narrow, "Run scraping"), "Logs:", "stacked")
	assert.Contains(t, narrow, "Logs:")
}

func TestShell_QuitTearsDownDashboard(t *testing.T) {
	conn := newScriptConn(nil)
	d, _, _ := newTestDashboard(conn)
	shell := NewShell(d, ShellConfig{Title: "Scrape Dashboard", EnableHelp: true, HelpContent: DashboardHelpContent})

	cmd := d.logs.Init()
	_, _ = nextEvent(t, d.logs, cmd) // open

	_, quit := shell.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
	assert.True(t, shell.Quitting())
	assert.Equal(t, int32(1), conn.closeCalls.Load())

	d.Teardown()
	assert.Equal(t, int32(1), conn.closeCalls.Load(), "teardown is idempotent")
}

func TestShell_HelpOverlay(t *testing.T) {
	d, _, _ := newTestDashboard()
	shell := NewShell(d, ShellConfig{Title: "Scrape Dashboard", EnableHelp: true, HelpContent: DashboardHelpContent})

	shell.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	view := shell.View()
	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "run scraping")

	_, cmd := shell.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "esc closes help instead of quitting")
	assert.Contains(t, shell.View(), "Scrape Dashboard")
	assert.False(t, shell.Quitting())
}

func firstLineWith(view, needle string) string {
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	return ""
}
