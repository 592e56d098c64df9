package port

import (
	"context"

	"github.com/shopspring/decimal"

	"wallet.com/internal/domain/entity"
)

// KeyDecryptor recovers a credential from an encrypted key and its passphrase
type KeyDecryptor interface {
	Decrypt(ctx context.Context, encryptedKey, passphrase string) (*entity.Credential, error)
}

// EntryValidator checks a candidate entry against the balance still available for its symbol.
// A non-nil error carries the message shown to the user.
type EntryValidator interface {
	ValidateEntry(available decimal.Decimal, entry entity.SendEntry) error
}

// TransactionSubmitter submits the accumulated entries as one transaction.
// It owns reporting failures to the user.
type TransactionSubmitter interface {
	SubmitTransaction(ctx context.Context, from string, entries []entity.SendEntry) (*entity.Receipt, error)
}

// Notifier shows and dismisses user notifications
type Notifier interface {
	Notify(ctx context.Context, message string, level entity.NotificationLevel) string
	DismissAll(ctx context.Context)
	Dismiss(ctx context.Context, id string)
	List(ctx context.Context) []entity.Notification
}

// LoginDispatcher receives the login action once a key has been decrypted
type LoginDispatcher interface {
	DispatchLogin(ctx context.Context, action entity.LoginAction) error
}
