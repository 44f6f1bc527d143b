package cli

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// ShowConfig writes the effective configuration, env overrides included, as TOML
func (a *App) ShowConfig(w io.Writer) error {
	data, err := toml.Marshal(a.cfg.Effective())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// SetConfig sets a configuration value and saves the file
// Format: section.key=value (e.g., "server.api_url=http://localhost:8000")
func (a *App) SetConfig(setStr string) error {
	if err := a.cfg.SetValue(setStr); err != nil {
		return err
	}
	return a.save(a.cfg)
}
