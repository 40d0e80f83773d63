// Package ui provides the Hoja Maestra desktop window: the field form, the
// editing session behind it and the dialogs around them.
//
// This file defines a compact Fyne theme for the dense spec-sheet form.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// HojaMaestraTheme wraps the default Fyne theme with compact sizing overrides
// so the whole spec sheet fits on a laptop screen.
type HojaMaestraTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewHojaMaestraTheme creates a HojaMaestraTheme with the system default variant.
func NewHojaMaestraTheme() *HojaMaestraTheme {
	return &HojaMaestraTheme{
		base:   theme.DefaultTheme(),
		system: true,
	}
}

// NewHojaMaestraThemeWithVariant creates a HojaMaestraTheme with a specific light/dark variant.
func NewHojaMaestraThemeWithVariant(variant fyne.ThemeVariant) *HojaMaestraTheme {
	return &HojaMaestraTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// SetVariant fixes the theme to a light or dark variant.
func (t *HojaMaestraTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
	t.system = false
}

// ThemeFor returns the theme of a configured preference: "light", "dark"
// or anything else for the system variant.
func ThemeFor(pref string) *HojaMaestraTheme {
	switch pref {
	case "light":
		return NewHojaMaestraThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewHojaMaestraThemeWithVariant(theme.VariantDark)
	default:
		return NewHojaMaestraTheme()
	}
}

// Color delegates to the base theme with the stored variant, or the
// requested one when following the system.
func (t *HojaMaestraTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.system {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *HojaMaestraTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *HojaMaestraTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for a dense, professional layout.
func (t *HojaMaestraTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
