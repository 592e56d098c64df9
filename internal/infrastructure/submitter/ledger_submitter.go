package submitter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
	"wallet.com/internal/infrastructure/logger"
	"wallet.com/internal/infrastructure/metrics"
)

const successMessage = "Transaction complete! Your balance will automatically update when the blockchain has processed it."

// LedgerSubmitter settles transactions against the account ledger
type LedgerSubmitter struct {
	repository port.LedgerRepository
	notifier   port.Notifier
	logger     logger.Logger
	now        func() time.Time
}

var _ port.TransactionSubmitter = (*LedgerSubmitter)(nil)

// NewLedgerSubmitter creates a new ledger submitter
func NewLedgerSubmitter(repository port.LedgerRepository, notifier port.Notifier, logger logger.Logger) *LedgerSubmitter {
	return &LedgerSubmitter{
		repository: repository,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitTransaction debits from and credits every recipient in one atomic batch.
// The outcome is reported to the user through the notifier.
func (s *LedgerSubmitter) SubmitTransaction(ctx context.Context, from string, entries []entity.SendEntry) (*entity.Receipt, error) {
	receipt, err := s.submit(ctx, from, entries)
	metrics.Submissions.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		s.logger.LogError(ctx, "Transaction submission failed", err,
			"from", from,
			"entries", len(entries))
		s.notifier.Notify(ctx, "Transaction failed: "+err.Error(), entity.LevelError)
		return nil, err
	}

	s.logger.LogInfo(ctx, "Transaction submitted",
		"tx_id", receipt.TxID,
		"from", from,
		"entries", len(entries))
	s.notifier.Notify(ctx, successMessage, entity.LevelSuccess)

	return receipt, nil
}

func (s *LedgerSubmitter) submit(ctx context.Context, from string, entries []entity.SendEntry) (*entity.Receipt, error) {
	if len(entries) == 0 {
		return nil, entity.ErrNoEntries
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("transaction cancelled: %w", err)
	}

	batch := make([]entity.LedgerEntry, 0, 2*len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		batch = append(batch,
			entity.LedgerEntry{Address: from, Asset: e.Symbol, Amount: e.Amount.Neg()},
			entity.LedgerEntry{Address: e.Address, Asset: e.Symbol, Amount: e.Amount},
		)
	}

	if err := s.repository.ApplyEntries(ctx, batch); err != nil {
		return nil, err
	}

	return &entity.Receipt{
		TxID:        uuid.New().String(),
		From:        from,
		Entries:     append([]entity.SendEntry(nil), entries...),
		SubmittedAt: s.now().Unix(),
	}, nil
}
