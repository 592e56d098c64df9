package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"wallet.com/internal/domain/entity"
)

// mockValidator is a mock implementation of EntryValidator
type mockValidator struct {
	validateFunc func(available decimal.Decimal, entry entity.SendEntry) error
}

func (m *mockValidator) ValidateEntry(available decimal.Decimal, entry entity.SendEntry) error {
	if m.validateFunc != nil {
		return m.validateFunc(available, entry)
	}
	if entry.Amount.GreaterThan(available) {
		return fmt.Errorf("You do not have enough %s to send.", entry.Symbol)
	}
	return nil
}

// mockSubmitter is a mock implementation of TransactionSubmitter
type mockSubmitter struct {
	calls      [][]entity.SendEntry
	submitFunc func(ctx context.Context, from string, entries []entity.SendEntry) (*entity.Receipt, error)
}

func (m *mockSubmitter) SubmitTransaction(ctx context.Context, from string, entries []entity.SendEntry) (*entity.Receipt, error) {
	m.calls = append(m.calls, entries)
	if m.submitFunc != nil {
		return m.submitFunc(ctx, from, entries)
	}
	return &entity.Receipt{TxID: "tx-1", From: from, Entries: entries}, nil
}

// recordingNotifier records every notifier call in order
type recordingNotifier struct {
	events []string
	shown  []entity.Notification
	seq    int
}

func (n *recordingNotifier) Notify(_ context.Context, message string, level entity.NotificationLevel) string {
	n.seq++
	id := fmt.Sprintf("notification_%d", n.seq)
	n.events = append(n.events, "show:"+string(level))
	n.shown = append(n.shown, entity.Notification{ID: id, Message: message, Level: level})
	return id
}

func (n *recordingNotifier) DismissAll(_ context.Context) {
	n.events = append(n.events, "dismiss_all")
}

func (n *recordingNotifier) Dismiss(_ context.Context, id string) {
	n.events = append(n.events, "dismiss:"+id)
}

func (n *recordingNotifier) List(_ context.Context) []entity.Notification {
	return n.shown
}

func (n *recordingNotifier) count(level entity.NotificationLevel) int {
	total := 0
	for _, s := range n.shown {
		if s.Level == level {
			total++
		}
	}
	return total
}

// mockDecryptor is a mock implementation of KeyDecryptor
type mockDecryptor struct {
	calls       int
	decryptFunc func(ctx context.Context, encryptedKey, passphrase string) (*entity.Credential, error)
}

func (m *mockDecryptor) Decrypt(ctx context.Context, encryptedKey, passphrase string) (*entity.Credential, error) {
	m.calls++
	if m.decryptFunc != nil {
		return m.decryptFunc(ctx, encryptedKey, passphrase)
	}
	return nil, errors.New("wrong passphrase")
}

// mockDispatcher records dispatched login actions
type mockDispatcher struct {
	actions []entity.LoginAction
	err     error
}

func (m *mockDispatcher) DispatchLogin(_ context.Context, action entity.LoginAction) error {
	if m.err != nil {
		return m.err
	}
	m.actions = append(m.actions, action)
	return nil
}

// mockRepository is a mock implementation of LedgerRepository
type mockRepository struct {
	getBalanceFunc         func(ctx context.Context, address string) (*entity.BalanceResponse, error)
	getAccountBalancesFunc func(ctx context.Context, address string) (*entity.AccountBalances, error)
}

func (m *mockRepository) AddEntry(_ context.Context, _ entity.LedgerEntry) error {
	return nil
}

func (m *mockRepository) ApplyEntries(_ context.Context, _ []entity.LedgerEntry) error {
	return nil
}

func (m *mockRepository) GetBalance(ctx context.Context, address string) (*entity.BalanceResponse, error) {
	if m.getBalanceFunc != nil {
		return m.getBalanceFunc(ctx, address)
	}
	return &entity.BalanceResponse{Address: address, Balances: make(map[string]string)}, nil
}

func (m *mockRepository) GetAccountBalances(ctx context.Context, address string) (*entity.AccountBalances, error) {
	if m.getAccountBalancesFunc != nil {
		return m.getAccountBalancesFunc(ctx, address)
	}
	return &entity.AccountBalances{Address: address}, nil
}
