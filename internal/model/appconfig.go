package model

// LoggerConfig selects where and how the application logs.
type LoggerConfig struct {
	Level      string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format     string `json:"format" mapstructure:"format"` // "json", "console" or "" for auto
	File       string `json:"file" mapstructure:"file"`     // rotated log file, "" = stderr only
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
}

// AppConfig holds application-wide preferences and plant settings.
type AppConfig struct {
	// Constants overrides are merged onto DefaultMaterialConstants.
	Constants   MaterialConstants `json:"constants"`
	Machines    MachineInventory  `json:"machines"`
	Palletizing Palletizing       `json:"palletizing"`

	// Application preferences
	AutoSaveInterval int      `json:"auto_save_interval"` // seconds, 0 = disabled
	RecentSheets     []string `json:"recent_sheets"`
	Theme            string   `json:"theme"` // "light", "dark", "system"
	DatabasePath     string   `json:"database_path"`

	Logger LoggerConfig `json:"logger"`
}

// MaxRecentSheets bounds the recent sheets list.
const MaxRecentSheets = 10

// DefaultAppConfig returns an AppConfig populated with the plant defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Constants:        DefaultMaterialConstants(),
		Machines:         DefaultMachineInventory(),
		Palletizing:      DefaultPalletizing(),
		AutoSaveInterval: 30,
		RecentSheets:     []string{},
		Theme:            "system",
		Logger: LoggerConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// EffectiveConstants returns the built-in constants with the configured
// overrides applied.
func (c AppConfig) EffectiveConstants() MaterialConstants {
	return DefaultMaterialConstants().Merge(c.Constants)
}

// AddRecentSheet moves id to the front of the recent list.
func (c *AppConfig) AddRecentSheet(id string) {
	out := []string{id}
	for _, r := range c.RecentSheets {
		if r != id {
			out = append(out, r)
		}
	}
	if len(out) > MaxRecentSheets {
		out = out[:MaxRecentSheets]
	}
	c.RecentSheets = out
}
