package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scrape-dash-go/pkg/cli/logger"
)

// Shell wraps a model with a title header, a help overlay and quit handling
type Shell struct {
	model  tea.Model
	width  int
	height int
	config ShellConfig

	showHelp    bool
	helpContent string
	quitting    bool
}

// ShellConfig configures the shell behavior
type ShellConfig struct {
	Title       string
	MinWidth    int           // Minimum terminal width
	MinHeight   int           // Minimum terminal height
	EnableHelp  bool          // Enable '?' for help
	HelpContent func() string // Function to generate help text
}

// tearer is implemented by models that own resources released on quit
type tearer interface {
	Teardown()
}

// NewShell creates a new shell around a model
func NewShell(model tea.Model, config ShellConfig) *Shell {
	return &Shell{
		model:  model,
		config: config,
		width:  80,
		height: 24,
	}
}

func (s *Shell) Init() tea.Cmd {
	if s.model == nil {
		return nil
	}
	return s.model.Init()
}

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = max(msg.Width, s.config.MinWidth)
		s.height = max(msg.Height, s.config.MinHeight)

		// The wrapped model gets what is left below the header
		inner := tea.WindowSizeMsg{Width: s.width, Height: s.height - s.headerHeight()}
		var cmd tea.Cmd
		if s.model != nil {
			s.model, cmd = s.model.Update(inner)
		}
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "?":
			if s.config.EnableHelp {
				s.showHelp = !s.showHelp
				if s.showHelp && s.config.HelpContent != nil {
					s.helpContent = s.config.HelpContent()
				}
				return s, nil
			}
		case "ctrl+c", "q", "esc":
			// Esc and q close the help overlay first
			if s.showHelp && msg.String() != "ctrl+c" {
				s.showHelp = false
				return s, nil
			}
			logger.Log("quit requested")
			s.quitting = true
			if t, ok := s.model.(tearer); ok {
				t.Teardown()
			}
			return s, tea.Quit
		}

		if s.showHelp {
			return s, nil
		}
	}

	var cmd tea.Cmd
	if s.model != nil {
		s.model, cmd = s.model.Update(msg)
	}
	return s, cmd
}

// Quitting reports whether the user asked to quit
func (s *Shell) Quitting() bool {
	return s.quitting
}

func (s *Shell) View() string {
	if s.quitting {
		return ""
	}
	if s.showHelp {
		return s.renderHelpOverlay()
	}

	content := ""
	if s.model != nil {
		content = s.model.View()
	}
	if s.config.Title == "" {
		return content
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.renderHeader(), content)
}

func (s *Shell) headerHeight() int {
	if s.config.Title == "" {
		return 0
	}
	return lipgloss.Height(s.renderHeader())
}

func (s *Shell) renderHeader() string {
	hint := ""
	if s.config.EnableHelp {
		hint = "  " + helpStyle.Render("Press '?' for help")
	}
	return titleStyle.UnsetMarginBottom().Render(s.config.Title) + hint
}

func (s *Shell) renderHelpOverlay() string {
	helpText := s.helpContent
	if helpText == "" {
		helpText = "No help available"
	}

	overlayStyle := lipgloss.NewStyle().
		Width(s.width-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	title := titleStyle.Render("Keyboard Shortcuts")
	closeHint := helpStyle.Render("Press '?' or Esc to close")

	return overlayStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, helpText, closeHint),
	)
}
