package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSheet is wrapped by every validation failure.
var ErrInvalidSheet = errors.New("invalid sheet")

// SheetType is the numbering scheme a sheet belongs to.
type SheetType string

const (
	// SheetSAP sheets are identified by their SAP material code.
	SheetSAP SheetType = "SAP"
	// SheetFAC sheets are quotes numbered from a persistent counter.
	SheetFAC SheetType = "FAC"
	// SheetMAQ sheets are toll-manufacturing sheets keyed by an engineer code.
	SheetMAQ SheetType = "MAQ"
)

// SheetTypes lists every sheet type in display order.
var SheetTypes = []SheetType{SheetSAP, SheetFAC, SheetMAQ}

// Valid reports whether t is a known sheet type.
func (t SheetType) Valid() bool {
	switch t {
	case SheetSAP, SheetFAC, SheetMAQ:
		return true
	}
	return false
}

// Status is the workflow state of a sheet.
type Status string

const (
	StatusDraft    Status = "borrador"
	StatusFinal    Status = "finalizada"
	StatusApproved Status = "aprobada"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusDraft, StatusFinal, StatusApproved}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusFinal, StatusApproved:
		return true
	}
	return false
}

// FACPrefix and MAQPrefix start the IDs of FAC and MAQ sheets.
const (
	FACPrefix = "FAC-"
	MAQPrefix = "M-"
)

// Sheet is a saved Hoja Maestra: metadata plus a snapshot of the form.
type Sheet struct {
	Type      SheetType `json:"tipo"`
	ID        string    `json:"id"`
	Status    Status    `json:"estado"`
	CreatedAt time.Time `json:"fecha_creacion"`
	UpdatedAt time.Time `json:"fecha_modificacion"`
	Fields    *Record   `json:"fields"`
}

// NewSheet creates a draft sheet with an empty record.
func NewSheet(t SheetType, id string) Sheet {
	return Sheet{
		Type:   t,
		ID:     id,
		Status: StatusDraft,
		Fields: NewRecord(),
	}
}

// Client returns the client name stored in the sheet fields.
func (s Sheet) Client() string { return s.field(KeyClient) }

// Product returns the article description stored in the sheet fields.
func (s Sheet) Product() string { return s.field(KeyArticle) }

// SAPCode returns the SAP code stored in the sheet fields.
func (s Sheet) SAPCode() string { return s.field(KeySAP) }

func (s Sheet) field(k FieldKey) string {
	if s.Fields == nil {
		return ""
	}
	return s.Fields.Get(k)
}

// FormatFACID renders the n-th FAC number as "FAC-007".
func FormatFACID(n int) string {
	return fmt.Sprintf("%s%03d", FACPrefix, n)
}

// ParseFACID returns the number of a FAC ID such as "FAC-007".
func ParseFACID(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, FACPrefix)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// SheetID builds the ID of a SAP or MAQ sheet from its code. FAC IDs come
// from the store counter and are rejected here.
func SheetID(t SheetType, code string) (string, error) {
	code = strings.TrimSpace(code)
	switch t {
	case SheetSAP:
		if code == "" {
			return "", fmt.Errorf("%w: SAP code is required", ErrInvalidSheet)
		}
		return code, nil
	case SheetMAQ:
		if code == "" {
			return "", fmt.Errorf("%w: engineer code is required", ErrInvalidSheet)
		}
		return MAQPrefix + code, nil
	case SheetFAC:
		return "", fmt.Errorf("%w: FAC ids are allocated by the store", ErrInvalidSheet)
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidSheet, t)
	}
}

// Validate checks the metadata of a sheet before it is saved. All problems
// are reported in one error.
func (s Sheet) Validate() error {
	var problems []string
	if s.Type == "" {
		problems = append(problems, "type is required")
	} else if !s.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown type %q", s.Type))
	}
	if strings.TrimSpace(s.ID) == "" {
		problems = append(problems, "id is required")
	}
	if s.Type == SheetFAC && !strings.HasPrefix(s.ID, FACPrefix) {
		problems = append(problems, "FAC id must look like FAC-XXX")
	}
	if s.Type == SheetMAQ && !strings.HasPrefix(s.ID, MAQPrefix) {
		problems = append(problems, "MAQ id must look like M-CODE")
	}
	if s.Status != "" && !s.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", s.Status))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSheet, strings.Join(problems, "; "))
	}
	return nil
}

// Column titles of the sheet metadata in spreadsheet exports.
const (
	ColumnType    = "Tipo"
	ColumnID      = "ID"
	ColumnStatus  = "Estado"
	ColumnCreated = "Creada"
	ColumnUpdated = "Modificada"
)
