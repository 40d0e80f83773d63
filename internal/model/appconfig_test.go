package model

import "testing"

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.Theme != "system" {
		t.Errorf("expected default theme=system, got %s", cfg.Theme)
	}
	if cfg.RecentSheets == nil {
		t.Error("RecentSheets should not be nil")
	}
	if len(cfg.Machines.Machines) == 0 {
		t.Error("expected default machines")
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logger.Level)
	}
}

func TestEffectiveConstantsMergesOverrides(t *testing.T) {
	cfg := AppConfig{}
	c := cfg.EffectiveConstants()
	if c.FluteFactor("C") != 1.48 {
		t.Errorf("empty override should keep defaults, got %v", c.FluteFactor("C"))
	}

	cfg.Constants.Adhesives.Total = 40
	c = cfg.EffectiveConstants()
	if c.Adhesives.Total != 40 {
		t.Errorf("expected adhesive total 40, got %v", c.Adhesives.Total)
	}
}

func TestAddRecentSheet(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentSheet("FAC-001")
	cfg.AddRecentSheet("400123")
	cfg.AddRecentSheet("FAC-001")

	if len(cfg.RecentSheets) != 2 {
		t.Fatalf("expected 2 recent sheets, got %v", cfg.RecentSheets)
	}
	if cfg.RecentSheets[0] != "FAC-001" {
		t.Errorf("expected FAC-001 first, got %v", cfg.RecentSheets)
	}

	for i := 0; i < MaxRecentSheets+5; i++ {
		cfg.AddRecentSheet(FormatFACID(i + 10))
	}
	if len(cfg.RecentSheets) != MaxRecentSheets {
		t.Errorf("expected list capped at %d, got %d", MaxRecentSheets, len(cfg.RecentSheets))
	}
}
