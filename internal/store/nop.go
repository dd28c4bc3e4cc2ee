package store

import (
	"context"

	"github.com/amishk599/salarynorm/internal/model"
)

// NopStore is a no-op store used in dry-run mode. Runs are discarded and
// nothing can be loaded back.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) SaveRun(context.Context, model.RunStats, []model.CleanRecord) error { return nil }
func (s *NopStore) LoadRecords(context.Context) ([]model.CleanRecord, error)          { return nil, ErrNoRuns }
