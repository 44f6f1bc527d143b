package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scrape-dash-go/pkg/logstream"
	"scrape-dash-go/pkg/scraper"
)

const (
	focusTrigger = iota
	focusLogs
)

// Below this width the panels are stacked instead of side by side
const sideBySideMinWidth = 80

// Dashboard composes the trigger widget and the log widget. The two share
// no state; the dashboard only routes messages and owns their lifetimes.
type Dashboard struct {
	trigger *triggerModel
	logs    *logsModel

	logsURL string
	dialer  logstream.Dialer

	keys  keyMap
	help  help.Model
	focus int

	width  int
	height int
}

// NewDashboard constructs the dashboard. Nothing connects until Init.
func NewDashboard(trigger scraper.Trigger, logsURL string, dialer logstream.Dialer) *Dashboard {
	d := &Dashboard{
		trigger: newTriggerModel(trigger),
		logs:    newLogsModel(logsURL, dialer),
		logsURL: logsURL,
		dialer:  dialer,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   sideBySideMinWidth,
		height:  24,
	}
	d.setFocus(focusTrigger)
	d.layout()
	return d
}

func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(d.trigger.Init(), d.logs.Init())
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.layout()
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, d.keys.SwitchFocus):
			if d.focus == focusTrigger {
				d.setFocus(focusLogs)
			} else {
				d.setFocus(focusTrigger)
			}
			return d, nil
		case d.focus == focusLogs && key.Matches(msg, d.keys.Reconnect):
			return d, d.remountLogs()
		}
		if d.focus == focusTrigger {
			d.trigger, cmd = d.trigger.Update(msg)
		} else {
			d.logs, cmd = d.logs.Update(msg)
		}
		return d, cmd

	case scrapeDoneMsg, spinner.TickMsg:
		d.trigger, cmd = d.trigger.Update(msg)
		return d, cmd

	case logEventMsg, tea.MouseMsg:
		d.logs, cmd = d.logs.Update(msg)
		return d, cmd
	}

	return d, nil
}

// remountLogs replaces the log widget with a fresh instance: the old stream
// is released and the new one starts from an empty buffer
func (d *Dashboard) remountLogs() tea.Cmd {
	d.logs.Teardown()
	d.logs = newLogsModel(d.logsURL, d.dialer)
	d.setFocus(d.focus)
	d.layout()
	return d.logs.Init()
}

// RunTrigger runs the trigger widget as if its button was pressed
func (d *Dashboard) RunTrigger() tea.Cmd {
	return d.trigger.Run()
}

// Teardown unmounts both widgets and closes the log stream
func (d *Dashboard) Teardown() {
	d.trigger.Teardown()
	d.logs.Teardown()
}

func (d *Dashboard) setFocus(focus int) {
	d.focus = focus
	d.trigger.SetFocus(focus == focusTrigger)
	d.logs.SetFocus(focus == focusLogs)
}

// layout distributes the terminal size between the panels
func (d *Dashboard) layout() {
	frameW, frameH := panelStyle.GetFrameSize()
	footerH := 1
	avail := d.height - footerH

	if d.width >= sideBySideMinWidth {
		triggerW := d.width / 3
		logsW := d.width - triggerW
		d.trigger.SetWidth(triggerW - frameW)
		d.logs.SetSize(logsW-frameW, avail-frameH)
		return
	}

	triggerH := 8
	d.trigger.SetWidth(d.width - frameW)
	d.logs.SetSize(d.width-frameW, avail-triggerH-frameH)
}

func (d *Dashboard) View() string {
	triggerStyle, logsStyle := panelStyle, panelStyle
	if d.focus == focusTrigger {
		triggerStyle = focusedPanelStyle
	} else {
		logsStyle = focusedPanelStyle
	}

	// Style width and height exclude the border
	borderW, borderH := panelStyle.GetHorizontalBorderSize(), panelStyle.GetVerticalBorderSize()
	footer := d.help.ShortHelpView(d.keys.ShortHelp())
	avail := d.height - lipgloss.Height(footer)

	var body string
	if d.width >= sideBySideMinWidth {
		triggerW := d.width / 3
		logsW := d.width - triggerW
		left := triggerStyle.Width(triggerW - borderW).Height(avail - borderH).Render(d.trigger.View())
		right := logsStyle.Width(logsW - borderW).Height(avail - borderH).Render(d.logs.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		top := triggerStyle.Width(d.width - borderW).Render(d.trigger.View())
		bottom := logsStyle.Width(d.width - borderW).Render(d.logs.View())
		body = lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}
