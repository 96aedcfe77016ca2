package storage

import (
	"context"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

// Journal is a sink for vault transaction records.
type Journal interface {
	PutTxRecords(ctx context.Context, records []model.TxRecord) error
}

// Multi fans records out to every journal, stopping at the first failure.
type Multi []Journal

func (m Multi) PutTxRecords(ctx context.Context, records []model.TxRecord) error {
	for _, j := range m {
		if j == nil {
			continue
		}
		if err := j.PutTxRecords(ctx, records); err != nil {
			return err
		}
	}
	return nil
}
