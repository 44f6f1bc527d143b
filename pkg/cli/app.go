package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"scrape-dash-go/pkg/cli/logger"
	"scrape-dash-go/pkg/cli/tui"
	"scrape-dash-go/pkg/config"
	"scrape-dash-go/pkg/logstream"
	"scrape-dash-go/pkg/scraper"
)

type App struct {
	// cfg holds file values; env overrides are applied per use via Effective
	cfg     *config.Config
	trigger *scraper.Client
	dialer  logstream.Dialer
	save    func(*config.Config) error
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:    cfg,
		dialer: logstream.WebsocketDialer{},
		save:   config.Save,
	}
}

// getTrigger returns the scrape-start client, creating it if necessary
func (a *App) getTrigger() (*scraper.Client, error) {
	if a.trigger != nil {
		return a.trigger, nil
	}

	cfg := a.cfg.Effective()
	if cfg.Server.APIURL == "" {
		return nil, fmt.Errorf("API URL not configured")
	}

	timeout := time.Duration(cfg.CLI.RequestTimeout) * time.Second
	a.trigger = scraper.NewClient(cfg.Server.APIURL, cfg.Server.TriggerPath, timeout)
	return a.trigger, nil
}

// logsURL derives the log stream URL from the configured origin
func (a *App) logsURL() (string, error) {
	cfg := a.cfg.Effective()
	url, err := logstream.StreamURL(cfg.Server.Origin, cfg.Server.LogsPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive log stream URL")
	}
	return url, nil
}

// Run starts the interactive dashboard
func (a *App) Run() error {
	trigger, err := a.getTrigger()
	if err != nil {
		return err
	}
	url, err := a.logsURL()
	if err != nil {
		return err
	}

	logger.Log("starting dashboard: trigger=%s logs=%s", trigger.Endpoint(), url)

	dashboard := tui.NewDashboard(trigger, url, a.dialer)
	// Released on every exit path, including a program error
	defer dashboard.Teardown()

	shell := tui.NewShell(dashboard, tui.ShellConfig{
		Title:       "Ingredient Scraper",
		MinWidth:    40,
		MinHeight:   12,
		EnableHelp:  true,
		HelpContent: tui.DashboardHelpContent,
	})

	p := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "error running dashboard")
	}
	return nil
}
