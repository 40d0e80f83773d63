package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// ErrInvalidBackup is returned for files that are not Hoja Maestra backups.
var ErrInvalidBackup = errors.New("invalid backup file")

// BackupData is a full snapshot of a workstation: settings, templates and
// the whole sheet history.
type BackupData struct {
	Version   string                `json:"version"`
	CreatedAt string                `json:"created_at"`
	Config    model.AppConfig       `json:"config"`
	Templates []model.SheetTemplate `json:"templates"`
	Sheets    []*model.Sheet        `json:"sheets"`
}

// ExportAllData writes a backup of config, templates and sheets to path.
func ExportAllData(path string, config model.AppConfig, templates model.TemplateStore, sheets []*model.Sheet) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Templates: templates.Templates,
		Sheets:    sheets,
	}
	if backup.Templates == nil {
		backup.Templates = []model.SheetTemplate{}
	}
	if backup.Sheets == nil {
		backup.Sheets = []*model.Sheet{}
	}
	return writeJSON(path, backup)
}

// ImportAllData reads a backup. Applying it (replacing the history, the
// templates and the settings) is left to the caller.
func ImportAllData(path string) (BackupData, error) {
	backup := BackupData{Config: model.DefaultAppConfig()}
	found, err := readJSON(path, &backup)
	if err != nil {
		return BackupData{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if !found {
		return BackupData{}, fmt.Errorf("backup file %s not found", path)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("%w: missing version field", ErrInvalidBackup)
	}
	normalizeConfig(&backup.Config)
	if backup.Templates == nil {
		backup.Templates = []model.SheetTemplate{}
	}
	if backup.Sheets == nil {
		backup.Sheets = []*model.Sheet{}
	}
	return backup, nil
}
