package model

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1200", 1200},
		{" 800 ", 800},
		{"0.25", 0.25},
		{".5", 0.5},
		{"-3", -3},
		{"150g", 150},
		{"18 pts", 18},
		{"12,000", 12000},
		{"1e3", 1000},
		{"1e", 1},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{".", 0},
		{"NaN", 0},
		{"Infinity", 0},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric("1,234") {
		t.Error("expected 1,234 to be numeric")
	}
	if IsNumeric("MICROCORRUGADO") {
		t.Error("expected text to be non-numeric")
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatNumber(1200); got != "1200" {
		t.Errorf("FormatNumber(1200) = %q", got)
	}
	if got := FormatNumber(0.96); got != "0.96" {
		t.Errorf("FormatNumber(0.96) = %q", got)
	}
	if got := FormatFixed(0.96, 3); got != "0.960" {
		t.Errorf("FormatFixed(0.96, 3) = %q", got)
	}
	if got := FormatThousands(12000); got != "12,000" {
		t.Errorf("FormatThousands(12000) = %q", got)
	}
	if got := FormatThousands(950); got != "950" {
		t.Errorf("FormatThousands(950) = %q", got)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.5, 3},
		{2.49, 2},
		{-2.5, -2},
		{505.6, 506},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundHalfUp(tt.in); got != tt.want {
			t.Errorf("RoundHalfUp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := RoundTo(41.6666, 2); got != 41.67 {
		t.Errorf("RoundTo(41.6666, 2) = %v", got)
	}
}
