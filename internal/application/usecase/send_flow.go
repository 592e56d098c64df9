package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
)

// ErrSubmissionInProgress is returned when a confirm arrives while a submission is outstanding
var ErrSubmissionInProgress = errors.New("transaction submission already in progress")

// SendFlowDeps holds the capabilities a send flow is bound to
type SendFlowDeps struct {
	Validator port.EntryValidator
	Submitter port.TransactionSubmitter
	Notifier  port.Notifier
	// OnClose is called once when the flow closes.
	OnClose func()
}

// SendFlow drives the add-recipient / confirm wizard of one send modal.
// Balances are reserved as entries are added and never released: cancelling
// discards the whole flow.
type SendFlow struct {
	mu sync.Mutex

	from       string
	entries    []entity.SendEntry
	display    entity.DisplayMode
	balances   entity.BalanceLedger
	closed     bool
	submitting bool
	cancel     context.CancelFunc

	validator port.EntryValidator
	submitter port.TransactionSubmitter
	notifier  port.Notifier
	onClose   func()
}

// NewSendFlow creates a flow for the account at from, starting on the add-recipient screen.
func NewSendFlow(from string, balances entity.BalanceLedger, deps SendFlowDeps) *SendFlow {
	onClose := deps.OnClose
	if onClose == nil {
		onClose = func() {}
	}
	return &SendFlow{
		from:      from,
		entries:   make([]entity.SendEntry, 0),
		display:   entity.DisplayAddRecipient,
		balances:  balances.Clone(),
		validator: deps.Validator,
		submitter: deps.Submitter,
		notifier:  deps.Notifier,
		onClose:   onClose,
	}
}

// From returns the sending account address
func (f *SendFlow) From() string {
	return f.from
}

// AddRecipient validates entry against the available balance of its symbol. On success
// the entry is appended, its amount reserved and the confirm screen shown. On failure
// one error notification is raised and the flow is left untouched.
func (f *SendFlow) AddRecipient(ctx context.Context, entry entity.SendEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkEditable(); err != nil {
		return err
	}

	if err := f.validator.ValidateEntry(f.balances.Available(entry.Symbol), entry); err != nil {
		f.notifier.Notify(ctx, err.Error(), entity.LevelError)
		return fmt.Errorf("%w: %w", entity.ErrValidation, err)
	}

	balances := f.balances.Clone()
	if err := balances.Reserve(entry.Symbol, entry.Amount); err != nil {
		f.notifier.Notify(ctx, err.Error(), entity.LevelError)
		return fmt.Errorf("%w: %w", entity.ErrValidation, err)
	}

	f.entries = append(f.entries, entry)
	f.balances = balances
	f.display = entity.DisplayConfirm

	return nil
}

// CancelAddRecipient closes the flow when nothing has been added yet, otherwise
// goes back to the confirm screen.
func (f *SendFlow) CancelAddRecipient(_ context.Context) error {
	f.mu.Lock()
	if err := f.checkEditable(); err != nil {
		f.mu.Unlock()
		return err
	}
	if len(f.entries) > 0 {
		f.display = entity.DisplayConfirm
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	f.close()
	return nil
}

// ReturnToAddRecipient shows the add-recipient screen.
func (f *SendFlow) ReturnToAddRecipient() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkEditable(); err != nil {
		return err
	}
	f.display = entity.DisplayAddRecipient
	return nil
}

// ConfirmTransaction submits every entry, in insertion order, as one transaction and
// closes the flow once the submission succeeds. A failed submission leaves the flow
// open with its entries and reservations so it can be confirmed again or cancelled.
func (f *SendFlow) ConfirmTransaction(ctx context.Context) (*entity.Receipt, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, entity.ErrFlowClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	if len(f.entries) == 0 {
		f.mu.Unlock()
		return nil, entity.ErrNoEntries
	}

	entries := slices.Clone(f.entries)
	submitCtx, cancel := context.WithCancel(ctx)
	f.submitting = true
	f.cancel = cancel
	f.mu.Unlock()

	receipt, err := f.submitter.SubmitTransaction(submitCtx, f.from, entries)
	cancel()

	f.mu.Lock()
	f.submitting = false
	f.cancel = nil
	f.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrSubmission, err)
	}

	f.close()
	return receipt, nil
}

// CancelTransaction closes the flow and discards everything it holds. An outstanding
// submission is cancelled.
func (f *SendFlow) CancelTransaction(_ context.Context) error {
	if !f.close() {
		return entity.ErrFlowClosed
	}
	return nil
}

// State returns a copy of the flow state
func (f *SendFlow) State() entity.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return entity.FlowState{
		Entries:  slices.Clone(f.entries),
		Display:  f.display,
		Balances: f.balances.Clone(),
		Closed:   f.closed,
	}
}

// checkEditable reports whether the screens may change. The entries are fixed while a
// submission is outstanding. Callers hold f.mu.
func (f *SendFlow) checkEditable() error {
	if f.closed {
		return entity.ErrFlowClosed
	}
	if f.submitting {
		return ErrSubmissionInProgress
	}
	return nil
}

// close moves the flow to its terminal state. It reports false if the flow was already closed.
func (f *SendFlow) close() bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	f.closed = true
	if f.cancel != nil {
		f.cancel()
	}
	f.mu.Unlock()

	// onClose may reach back into the host, so it runs without the lock held.
	f.onClose()
	return true
}
