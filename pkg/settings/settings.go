// Package settings manages persistent user settings for the confgen CLIs.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/confgen-ops/confgen/pkg/spec"
)

// Settings holds persistent user preferences
type Settings struct {
	// DefinitionsDir overrides the default definitions directory
	DefinitionsDir string `json:"definitions_dir,omitempty"`

	// OutputDir is where generated bundles are exported
	OutputDir string `json:"output_dir,omitempty"`

	// DefaultVendor is used when a fleet row leaves vendor empty
	DefaultVendor string `json:"default_vendor,omitempty"`

	// RedisAddr enables the deployment lock when set
	RedisAddr string `json:"redis_addr,omitempty"`

	// ControllerURL is the UniFi controller endpoint
	ControllerURL string `json:"controller_url,omitempty"`

	// ControllerUser is the UniFi controller login
	ControllerUser string `json:"controller_user,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "confgen_settings.json"
	}
	return filepath.Join(home, ".confgen", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetDefinitionsDir returns the definitions directory (with fallback)
func (s *Settings) GetDefinitionsDir() string {
	if s.DefinitionsDir != "" {
		return s.DefinitionsDir
	}
	return spec.DefinitionsDir
}

// GetOutputDir returns the export directory (with fallback)
func (s *Settings) GetOutputDir() string {
	if s.OutputDir != "" {
		return s.OutputDir
	}
	return "out"
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
