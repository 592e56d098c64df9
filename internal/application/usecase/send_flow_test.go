package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet.com/internal/domain/entity"
)

type flowFixture struct {
	flow      *SendFlow
	notifier  *recordingNotifier
	submitter *mockSubmitter
	closes    int
}

func newFlowFixture(t *testing.T, balances map[string]string) *flowFixture {
	t.Helper()

	ledger := entity.BalanceLedger{}
	for symbol, amount := range balances {
		ledger[symbol] = decimal.RequireFromString(amount)
	}

	fx := &flowFixture{
		notifier:  &recordingNotifier{},
		submitter: &mockSubmitter{},
	}
	fx.flow = NewSendFlow("sender", ledger, SendFlowDeps{
		Validator: &mockValidator{},
		Submitter: fx.submitter,
		Notifier:  fx.notifier,
		OnClose:   func() { fx.closes++ },
	})
	return fx
}

func neoEntry(amount string) entity.SendEntry {
	return entity.SendEntry{Symbol: entity.AssetNEO, Amount: decimal.RequireFromString(amount), Address: "recipient"}
}

func TestSendFlow_InitialState(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100", "GAS": "1.5"})

	state := fx.flow.State()
	assert.Equal(t, entity.DisplayAddRecipient, state.Display)
	assert.Empty(t, state.Entries)
	assert.False(t, state.Closed)
	assert.Equal(t, map[string]string{"NEO": "100", "GAS": "1.5"}, state.Balances.Strings())
}

func TestSendFlow_AddRecipientScenario(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100"})
	ctx := context.Background()

	require.NoError(t, fx.flow.AddRecipient(ctx, neoEntry("40")))

	state := fx.flow.State()
	assert.Equal(t, "60", state.Balances["NEO"].String())
	assert.Equal(t, entity.DisplayConfirm, state.Display)
	assert.Len(t, state.Entries, 1)

	err := fx.flow.AddRecipient(ctx, neoEntry("70"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrValidation))

	state = fx.flow.State()
	assert.Equal(t, "60", state.Balances["NEO"].String())
	assert.Len(t, state.Entries, 1)
	assert.Equal(t, 1, fx.notifier.count(entity.LevelError))
	assert.Equal(t, "You do not have enough NEO to send.", fx.notifier.shown[0].Message)
}

func TestSendFlow_LedgerTracksReservations(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100", "GAS": "10.5"})
	ctx := context.Background()

	steps := []struct {
		symbol  string
		amount  string
		wantNEO string
		wantGAS string
	}{
		{symbol: "NEO", amount: "10", wantNEO: "90", wantGAS: "10.5"},
		{symbol: "GAS", amount: "0.1", wantNEO: "90", wantGAS: "10.4"},
		{symbol: "GAS", amount: "0.2", wantNEO: "90", wantGAS: "10.2"},
		{symbol: "NEO", amount: "90", wantNEO: "0", wantGAS: "10.2"},
		{symbol: "GAS", amount: "10.19999999", wantNEO: "0", wantGAS: "0.00000001"},
	}

	for i, step := range steps {
		entry := entity.SendEntry{Symbol: step.symbol, Amount: decimal.RequireFromString(step.amount), Address: "recipient"}
		require.NoError(t, fx.flow.AddRecipient(ctx, entry), "step %d", i)

		state := fx.flow.State()
		assert.Equal(t, step.wantNEO, state.Balances["NEO"].String(), "step %d", i)
		assert.Equal(t, step.wantGAS, state.Balances["GAS"].String(), "step %d", i)
		assert.Len(t, state.Entries, i+1)
	}
	assert.Zero(t, fx.notifier.count(entity.LevelError))
}

func TestSendFlow_AddRecipientRejected(t *testing.T) {
	tests := []struct {
		name      string
		validator *mockValidator
		entry     entity.SendEntry
	}{
		{
			name:  "amount above balance",
			entry: neoEntry("100.00000001"),
		},
		{
			name: "validator message",
			validator: &mockValidator{validateFunc: func(_ decimal.Decimal, _ entity.SendEntry) error {
				return errors.New("The address you entered was not valid.")
			}},
			entry: neoEntry("1"),
		},
		{
			name: "symbol without balance",
			validator: &mockValidator{validateFunc: func(_ decimal.Decimal, _ entity.SendEntry) error {
				return nil
			}},
			entry: entity.SendEntry{Symbol: "RPX", Amount: decimal.NewFromInt(1), Address: "recipient"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFlowFixture(t, map[string]string{"NEO": "100"})
			if tt.validator != nil {
				fx.flow.validator = tt.validator
			}
			before := fx.flow.State()

			err := fx.flow.AddRecipient(context.Background(), tt.entry)
			require.ErrorIs(t, err, entity.ErrValidation)

			after := fx.flow.State()
			assert.Equal(t, before, after)
			assert.Len(t, fx.notifier.shown, 1)
			assert.Equal(t, entity.LevelError, fx.notifier.shown[0].Level)
		})
	}
}

func TestSendFlow_CancelAddRecipient(t *testing.T) {
	t.Run("no entries closes the flow", func(t *testing.T) {
		fx := newFlowFixture(t, map[string]string{"NEO": "100"})

		require.NoError(t, fx.flow.CancelAddRecipient(context.Background()))

		assert.True(t, fx.flow.State().Closed)
		assert.Equal(t, 1, fx.closes)
	})

	t.Run("with entries goes back to confirm", func(t *testing.T) {
		fx := newFlowFixture(t, map[string]string{"NEO": "100"})
		ctx := context.Background()

		require.NoError(t, fx.flow.AddRecipient(ctx, neoEntry("40")))
		require.NoError(t, fx.flow.ReturnToAddRecipient())
		before := fx.flow.State()
		assert.Equal(t, entity.DisplayAddRecipient, before.Display)

		require.NoError(t, fx.flow.CancelAddRecipient(ctx))

		after := fx.flow.State()
		assert.Equal(t, entity.DisplayConfirm, after.Display)
		assert.Equal(t, before.Entries, after.Entries)
		assert.Equal(t, before.Balances, after.Balances)
		assert.False(t, after.Closed)
		assert.Zero(t, fx.closes)
	})
}

func TestSendFlow_ReturnToAddRecipient(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100"})

	require.NoError(t, fx.flow.ReturnToAddRecipient())
	assert.Equal(t, entity.DisplayAddRecipient, fx.flow.State().Display)

	require.NoError(t, fx.flow.AddRecipient(context.Background(), neoEntry("1")))
	require.NoError(t, fx.flow.ReturnToAddRecipient())
	assert.Equal(t, entity.DisplayAddRecipient, fx.flow.State().Display)
	assert.Len(t, fx.flow.State().Entries, 1)
}

func TestSendFlow_ConfirmTransaction(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100", "GAS": "5"})
	ctx := context.Background()

	entries := []entity.SendEntry{
		neoEntry("40"),
		{Symbol: "GAS", Amount: decimal.RequireFromString("1.25"), Address: "other"},
		neoEntry("10"),
	}
	for _, e := range entries {
		require.NoError(t, fx.flow.AddRecipient(ctx, e))
	}

	fx.submitter.submitFunc = func(_ context.Context, from string, got []entity.SendEntry) (*entity.Receipt, error) {
		// not closed until the submission resolves
		assert.False(t, fx.flow.State().Closed)
		assert.Zero(t, fx.closes)
		return &entity.Receipt{TxID: "tx-42", From: from, Entries: got}, nil
	}

	receipt, err := fx.flow.ConfirmTransaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tx-42", receipt.TxID)

	require.Len(t, fx.submitter.calls, 1)
	assert.Equal(t, entries, fx.submitter.calls[0])
	assert.True(t, fx.flow.State().Closed)
	assert.Equal(t, 1, fx.closes)
}

func TestSendFlow_ConfirmTransactionFailure(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100"})
	ctx := context.Background()

	require.NoError(t, fx.flow.AddRecipient(ctx, neoEntry("40")))
	fx.submitter.submitFunc = func(context.Context, string, []entity.SendEntry) (*entity.Receipt, error) {
		return nil, errors.New("node unreachable")
	}

	_, err := fx.flow.ConfirmTransaction(ctx)
	require.ErrorIs(t, err, entity.ErrSubmission)

	state := fx.flow.State()
	assert.False(t, state.Closed)
	assert.Equal(t, entity.DisplayConfirm, state.Display)
	assert.Len(t, state.Entries, 1)
	assert.Equal(t, "60", state.Balances["NEO"].String())
	assert.Zero(t, fx.closes)

	// a retry goes through
	fx.submitter.submitFunc = nil
	_, err = fx.flow.ConfirmTransaction(ctx)
	require.NoError(t, err)
	assert.Len(t, fx.submitter.calls, 2)
	assert.True(t, fx.flow.State().Closed)
}

func TestSendFlow_ConfirmWithoutEntries(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100"})

	_, err := fx.flow.ConfirmTransaction(context.Background())
	require.ErrorIs(t, err, entity.ErrNoEntries)
	assert.Empty(t, fx.submitter.calls)
	assert.False(t, fx.flow.State().Closed)
}

func TestSendFlow_CancelTransaction(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100"})
	ctx := context.Background()

	require.NoError(t, fx.flow.AddRecipient(ctx, neoEntry("40")))
	require.NoError(t, fx.flow.CancelTransaction(ctx))

	assert.True(t, fx.flow.State().Closed)
	assert.Equal(t, 1, fx.closes)
	assert.Empty(t, fx.submitter.calls)

	// closed is terminal
	assert.ErrorIs(t, fx.flow.CancelTransaction(ctx), entity.ErrFlowClosed)
	assert.ErrorIs(t, fx.flow.CancelAddRecipient(ctx), entity.ErrFlowClosed)
	assert.ErrorIs(t, fx.flow.ReturnToAddRecipient(), entity.ErrFlowClosed)
	assert.ErrorIs(t, fx.flow.AddRecipient(ctx, neoEntry("1")), entity.ErrFlowClosed)
	_, err := fx.flow.ConfirmTransaction(ctx)
	assert.ErrorIs(t, err, entity.ErrFlowClosed)
	assert.Equal(t, 1, fx.closes)
}

func TestSendFlow_CancelDuringSubmission(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100"})
	ctx := context.Background()
	require.NoError(t, fx.flow.AddRecipient(ctx, neoEntry("40")))

	started := make(chan struct{})
	fx.submitter.submitFunc = func(ctx context.Context, _ string, _ []entity.SendEntry) (*entity.Receipt, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	done := make(chan error, 1)
	go func() {
		_, err := fx.flow.ConfirmTransaction(ctx)
		done <- err
	}()

	<-started
	_, err := fx.flow.ConfirmTransaction(ctx)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	require.NoError(t, fx.flow.CancelTransaction(ctx))

	err = <-done
	require.ErrorIs(t, err, entity.ErrSubmission)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, fx.flow.State().Closed)
	assert.Equal(t, 1, fx.closes)
}

func TestSendFlow_EditsRejectedDuringSubmission(t *testing.T) {
	fx := newFlowFixture(t, map[string]string{"NEO": "100"})
	ctx := context.Background()
	require.NoError(t, fx.flow.AddRecipient(ctx, neoEntry("40")))

	started := make(chan struct{})
	release := make(chan struct{})
	fx.submitter.submitFunc = func(_ context.Context, from string, entries []entity.SendEntry) (*entity.Receipt, error) {
		close(started)
		<-release
		return &entity.Receipt{TxID: "tx-1", From: from, Entries: entries}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := fx.flow.ConfirmTransaction(ctx)
		done <- err
	}()
	<-started

	assert.ErrorIs(t, fx.flow.AddRecipient(ctx, neoEntry("10")), ErrSubmissionInProgress)
	assert.ErrorIs(t, fx.flow.ReturnToAddRecipient(), ErrSubmissionInProgress)
	assert.ErrorIs(t, fx.flow.CancelAddRecipient(ctx), ErrSubmissionInProgress)

	state := fx.flow.State()
	assert.Len(t, state.Entries, 1)
	assert.Equal(t, entity.DisplayConfirm, state.Display)
	assert.Equal(t, "60", state.Balances.Available(entity.AssetNEO).String())

	close(release)
	require.NoError(t, <-done)

	require.Len(t, fx.submitter.calls, 1)
	assert.Equal(t, []entity.SendEntry{neoEntry("40")}, fx.submitter.calls[0])
	assert.True(t, fx.flow.State().Closed)
	assert.Equal(t, 1, fx.closes)
}
