// Package settings persists the user's scan policy. The document is read
// once at startup and re-saved in full on every change.
package settings

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pistolinkr/Mactaphine/internal/types"
)

const (
	configDir  = ".config/mactaphine"
	configFile = "config.yaml"
)

// Default returns the out-of-the-box scan policy.
func Default() types.ScanSettings {
	return types.ScanSettings{
		ActiveCategories:    append([]types.Category(nil), types.AllCategories...),
		MinFileSize:         1024 * 1024, // 1 MB
		MaxFileAgeDays:      365,
		AutoScanOnLaunch:    true,
		ConfirmBeforeDelete: true,
		CreateBackup:        true,
		ScanHiddenFiles:     false,
		ExcludeSystemFiles:  true,
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir, configFile), nil
}

// Load reads the settings document, falling back to defaults when the
// file is missing.
func Load() (types.ScanSettings, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the settings document from an explicit path.
func LoadFrom(path string) (types.ScanSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), err
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), err
	}
	if len(s.ActiveCategories) == 0 {
		s.ActiveCategories = append([]types.Category(nil), types.AllCategories...)
	}
	return s, nil
}

// Save writes the full settings document to the default location.
func Save(s types.ScanSettings) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return SaveTo(path, s)
}

// SaveTo writes the full settings document to an explicit path.
func SaveTo(path string, s types.ScanSettings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
