package project

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")

	rec := model.NewRecord()
	rec.Write(model.KeyClient, "Lácteos", model.WriteOptions{})
	rec.Write(model.KeyMatClass, "MICRO", model.WriteOptions{})

	store := model.NewTemplateStore()
	store.Add(model.NewSheetTemplate("Charola", "Charola estándar", model.SheetSAP, rec))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}

	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	got := loaded.Templates[0]
	if got.Name != "Charola" {
		t.Errorf("expected 'Charola', got %q", got.Name)
	}
	if got.Fields[model.KeyClient] != "Lácteos" {
		t.Errorf("expected client field, got %v", got.Fields)
	}
}

func TestLoadTemplates_NotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.json")

	store, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %d templates", len(store.Templates))
	}
}

func TestSaveAndLoadTemplates_Multiple(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")

	store := model.NewTemplateStore()
	store.Add(model.NewSheetTemplate("T1", "First", model.SheetSAP, nil))
	store.Add(model.NewSheetTemplate("T2", "Second", model.SheetFAC, nil))
	store.Add(model.NewSheetTemplate("T3", "Third", model.SheetMAQ, nil))

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(loaded.Templates))
	}
}
