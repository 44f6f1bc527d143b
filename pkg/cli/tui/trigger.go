package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"scrape-dash-go/pkg/cli/logger"
	"scrape-dash-go/pkg/scraper"
)

// triggerModel is the "Run scraping" button. Each run issues one request;
// a run while loading is not blocked, only the label changes.
type triggerModel struct {
	id      uuid.UUID
	trigger scraper.Trigger
	keys    keyMap

	state   scraper.TriggerState
	spinner spinner.Model

	focused  bool
	torndown bool
	width    int
}

func newTriggerModel(trigger scraper.Trigger) *triggerModel {
	return &triggerModel{
		id:      uuid.New(),
		trigger: trigger,
		keys:    defaultKeyMap(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(infoStyle)),
	}
}

func (m *triggerModel) Init() tea.Cmd {
	return nil
}

// State returns what the widget currently displays
func (m *triggerModel) State() scraper.TriggerState {
	return m.state
}

// Run clears the previous outcome, enters loading and issues the request
func (m *triggerModel) Run() tea.Cmd {
	if m.torndown {
		return nil
	}
	m.state = m.state.Begin()
	logger.WithFields(logrus.Fields{"widget": m.id.String()}).Info("scrape trigger started")
	return tea.Batch(m.spinner.Tick, m.request())
}

func (m *triggerModel) request() tea.Cmd {
	id, trigger := m.id, m.trigger
	return func() tea.Msg {
		resp, err := trigger.StartScrape(context.Background())
		return scrapeDoneMsg{widget: id, resp: resp, err: err}
	}
}

func (m *triggerModel) Update(msg tea.Msg) (*triggerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scrapeDoneMsg:
		if msg.widget != m.id || m.torndown {
			logger.WithFields(logrus.Fields{"widget": msg.widget.String()}).
				Debug("dropping trigger result for unmounted widget")
			return m, nil
		}
		m.state = m.state.Complete(msg.resp, msg.err)
		entry := logger.WithFields(logrus.Fields{"widget": m.id.String()})
		if msg.err != nil {
			entry.WithFields(scraper.ErrorFields(msg.err)).Warn("scrape trigger failed")
		} else {
			entry.WithField("message", m.state.Message).Info("scrape trigger succeeded")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.focused && key.Matches(msg, m.keys.Run) {
			return m, m.Run()
		}
	}

	return m, nil
}

// SetFocus sets the focus state
func (m *triggerModel) SetFocus(focused bool) {
	m.focused = focused
}

// SetWidth sets the content width used for wrapping the outcome text
func (m *triggerModel) SetWidth(width int) {
	m.width = width
}

// Teardown unmounts the widget; results that arrive later are dropped
func (m *triggerModel) Teardown() {
	m.torndown = true
}

func (m *triggerModel) View() string {
	var b strings.Builder

	b.WriteString(renderTitle("Run scraping"))

	if m.state.Loading {
		b.WriteString(buttonBusyStyle.Render("Loading..."))
		b.WriteString(" " + m.spinner.View())
	} else {
		b.WriteString(buttonStyle.Render("Run scraping"))
	}
	b.WriteString("\n\n")

	if m.state.Message != "" {
		b.WriteString(wrapText(renderSuccess(m.state.Message), m.width))
		b.WriteString("\n")
	}
	if m.state.Error != "" {
		b.WriteString(wrapText(renderError(m.state.Error), m.width))
		b.WriteString("\n")
	}

	return b.String()
}
