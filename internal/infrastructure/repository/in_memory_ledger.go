package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
	"wallet.com/internal/infrastructure/logger"
)

// InMemoryLedger implements the LedgerRepository port
type InMemoryLedger struct {
	mu       sync.RWMutex
	balances map[string]map[string]decimal.Decimal
	entries  []entity.LedgerEntry
	logger   logger.Logger
}

// NewInMemoryLedger creates a new in-memory ledger
func NewInMemoryLedger(logger logger.Logger) port.LedgerRepository {
	return &InMemoryLedger{
		balances: make(map[string]map[string]decimal.Decimal),
		entries:  make([]entity.LedgerEntry, 0),
		logger:   logger,
	}
}

// AddEntry applies a single credit (positive amount) or debit (negative amount)
func (l *InMemoryLedger) AddEntry(ctx context.Context, entry entity.LedgerEntry) error {
	return l.ApplyEntries(ctx, []entity.LedgerEntry{entry})
}

// ApplyEntries applies all entries or none of them. A batch that would leave any
// balance below zero is rejected with ErrInsufficientFunds.
func (l *InMemoryLedger) ApplyEntries(ctx context.Context, entries []entity.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Work on the touched balances only, commit once every entry checks out
	pending := make(map[string]map[string]decimal.Decimal)
	for _, entry := range entries {
		if entry.Address == "" || entry.Asset == "" {
			return fmt.Errorf("invalid ledger entry: address and asset are required")
		}
		if pending[entry.Address] == nil {
			pending[entry.Address] = make(map[string]decimal.Decimal)
		}
		current, ok := pending[entry.Address][entry.Asset]
		if !ok {
			current = l.balances[entry.Address][entry.Asset]
		}

		next := current.Add(entry.Amount)
		if next.IsNegative() {
			l.logger.LogWarning(ctx, "Ledger entry rejected",
				"address", entry.Address,
				"asset", entry.Asset,
				"current", current.String(),
				"amount", entry.Amount.String())
			return fmt.Errorf("%w: %s has %s %s", entity.ErrInsufficientFunds, entry.Address, current.String(), entry.Asset)
		}
		pending[entry.Address][entry.Asset] = next
	}

	for address, assets := range pending {
		if l.balances[address] == nil {
			l.balances[address] = make(map[string]decimal.Decimal)
		}
		for asset, balance := range assets {
			l.balances[address][asset] = balance
			l.logger.LogInfo(ctx, "Balance updated",
				"address", address,
				"asset", asset,
				"new_balance", entity.FormatAmount(asset, balance))
		}
	}

	// Add to audit trail
	l.entries = append(l.entries, entries...)

	return nil
}

// GetBalance returns the balances of an account rendered for display
func (l *InMemoryLedger) GetBalance(_ context.Context, address string) (*entity.BalanceResponse, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balances := make(map[string]string)
	for asset, balance := range l.balances[address] {
		balances[asset] = entity.FormatAmount(asset, balance)
	}

	return &entity.BalanceResponse{
		Address:  address,
		Balances: balances,
	}, nil
}

// GetAccountBalances returns the native and token balances of an account.
// An account the ledger has never seen has zero balances.
func (l *InMemoryLedger) GetAccountBalances(_ context.Context, address string) (*entity.AccountBalances, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	account := &entity.AccountBalances{
		Address: address,
		NEO:     decimal.Zero,
		GAS:     decimal.Zero,
		Tokens:  make(map[string]entity.TokenBalance),
	}
	for asset, balance := range l.balances[address] {
		switch asset {
		case entity.AssetNEO:
			account.NEO = balance
		case entity.AssetGAS:
			account.GAS = balance
		default:
			account.Tokens[asset] = entity.TokenBalance{Symbol: asset, Balance: balance}
		}
	}

	return account, nil
}

// History returns a copy of the audit trail
func (l *InMemoryLedger) History() []entity.LedgerEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]entity.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
