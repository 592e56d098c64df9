package port

import (
	"context"

	"wallet.com/internal/domain/entity"
)

// LedgerRepository is the port for account ledger operations
type LedgerRepository interface {
	AddEntry(ctx context.Context, entry entity.LedgerEntry) error
	ApplyEntries(ctx context.Context, entries []entity.LedgerEntry) error
	GetBalance(ctx context.Context, address string) (*entity.BalanceResponse, error)
	GetAccountBalances(ctx context.Context, address string) (*entity.AccountBalances, error)
}
