package testutil

import (
	"time"

	"github.com/piwi3910/HojaMaestra/internal/model"
)

// SheetOption customises a test sheet.
type SheetOption func(*model.Sheet)

func WithStatus(s model.Status) SheetOption {
	return func(sh *model.Sheet) {
		sh.Status = s
	}
}

func WithField(k model.FieldKey, v string) SheetOption {
	return func(sh *model.Sheet) {
		sh.Fields.Write(k, v, model.WriteOptions{})
	}
}

func NewTestSheet(t model.SheetType, id string, opts ...SheetOption) *model.Sheet {
	s := model.NewSheet(t, id)
	s.Fields.Write(model.KeyClient, "Cliente Prueba", model.WriteOptions{})
	s.Fields.Write(model.KeyArticle, "Caja regular", model.WriteOptions{})
	for _, opt := range opts {
		opt(&s)
	}
	return &s
}

// Clock is a deterministic time source that advances one second per call.
type Clock struct {
	T time.Time
}

// NewClock starts a Clock at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{T: start.Add(-time.Second)}
}

func (c *Clock) Now() time.Time {
	c.T = c.T.Add(time.Second)
	return c.T
}
