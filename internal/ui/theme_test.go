package ui

import (
	"testing"

	"fyne.io/fyne/v2/theme"
)

func TestThemeFor(t *testing.T) {
	dark := ThemeFor("dark")
	if dark.system || dark.variant != theme.VariantDark {
		t.Errorf("dark preference should fix the dark variant")
	}
	light := ThemeFor("light")
	if light.system || light.variant != theme.VariantLight {
		t.Errorf("light preference should fix the light variant")
	}
	if !ThemeFor("system").system || !ThemeFor("").system {
		t.Errorf("other preferences should follow the system")
	}
}

func TestThemeCompactSizes(t *testing.T) {
	th := NewHojaMaestraTheme()
	if got := th.Size(theme.SizeNameText); got != 12 {
		t.Errorf("expected text size 12, got %v", got)
	}
	if got := th.Size(theme.SizeNamePadding); got != 3 {
		t.Errorf("expected padding 3, got %v", got)
	}
}

func TestThemeSetVariant(t *testing.T) {
	th := NewHojaMaestraTheme()
	th.SetVariant(theme.VariantDark)
	if th.system {
		t.Error("SetVariant should stop following the system")
	}
}
