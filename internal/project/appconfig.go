package project

import (
	"os"
	"path/filepath"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// DefaultConfigDir is ~/.hojamaestra, or ./.hojamaestra when the home
// directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".hojamaestra")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultDatabasePath is where the sheet history lives unless the config
// names another file.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultConfigDir(), "hojas.db")
}

// SaveAppConfig writes the settings, creating the directory if needed.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads the settings at path. A missing file yields the
// defaults, and settings the file leaves out keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	if _, err := readJSON(path, &config); err != nil {
		return model.AppConfig{}, err
	}
	normalizeConfig(&config)
	return config, nil
}

// normalizeConfig restores the lists an older or hand-edited file may have
// emptied.
func normalizeConfig(config *model.AppConfig) {
	if config.RecentSheets == nil {
		config.RecentSheets = []string{}
	}
	if len(config.Machines.Machines) == 0 {
		config.Machines = model.DefaultMachineInventory()
	}
	if len(config.Palletizing.Pallets) == 0 {
		config.Palletizing = model.DefaultPalletizing()
	}
}
