package model

import (
	"testing"
	"time"
)

func TestNewSheetTemplate_DropsIdentityAndDerived(t *testing.T) {
	rec := RecordFromMap(map[FieldKey]string{
		KeyClient:    "Cliente",
		KeySAP:       "100",
		KeyDate:      "01/01/2025",
		KeyDimGrain:  "100",
		KeyAreaTotal: "1.000",
		KeyGSM:       "450",
	})
	tmpl := NewSheetTemplate("Caja estándar", "", SheetSAP, rec)

	if tmpl.ID == "" || len(tmpl.ID) != 8 {
		t.Errorf("expected 8-char id, got %q", tmpl.ID)
	}
	if tmpl.Fields[KeyClient] != "Cliente" || tmpl.Fields[KeyDimGrain] != "100" {
		t.Errorf("input fields not captured: %v", tmpl.Fields)
	}
	for _, k := range []FieldKey{KeySAP, KeyDate, KeyAreaTotal, KeyGSM} {
		if _, ok := tmpl.Fields[k]; ok {
			t.Errorf("field %s should not be in template", k)
		}
	}
}

func TestSheetTemplate_ToRecord(t *testing.T) {
	tmpl := SheetTemplate{Fields: map[FieldKey]string{KeyClient: "X", KeyInk1: "PANTONE 485"}}
	now := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	rec := tmpl.ToRecord(now)
	if rec.Get(KeyClient) != "X" {
		t.Errorf("client = %q", rec.Get(KeyClient))
	}
	if rec.Get(KeyInk1) != "PANTONE 485" {
		t.Errorf("template value should override default, got %q", rec.Get(KeyInk1))
	}
	if rec.Get(KeyInk2) != "MAGENTA" {
		t.Errorf("defaults should apply, ink2 = %q", rec.Get(KeyInk2))
	}
	if rec.Get(KeyDate) != "09/06/2025" {
		t.Errorf("date = %q", rec.Get(KeyDate))
	}
}

func TestTemplateStore(t *testing.T) {
	ts := NewTemplateStore()
	a := NewSheetTemplate("A", "", SheetFAC, nil)
	ts.Add(a)
	ts.Add(NewSheetTemplate("B", "", SheetMAQ, nil))

	if got := ts.Names(); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("names = %v", got)
	}
	if ts.FindByName("B") == nil {
		t.Error("expected to find B")
	}
	if !ts.Remove(a.ID) {
		t.Error("expected A to be removed")
	}
	if ts.Remove(a.ID) {
		t.Error("second remove should report false")
	}
	if ts.FindByName("A") != nil {
		t.Error("A should be gone")
	}
}
