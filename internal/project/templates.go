package project

import (
	"path/filepath"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes the template store.
func SaveTemplates(path string, store model.TemplateStore) error {
	if store.Templates == nil {
		store.Templates = []model.SheetTemplate{}
	}
	return writeJSON(path, store)
}

// LoadTemplates reads the template store. No file means no templates yet.
func LoadTemplates(path string) (model.TemplateStore, error) {
	store := model.NewTemplateStore()
	if _, err := readJSON(path, &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.SheetTemplate{}
	}
	return store, nil
}
