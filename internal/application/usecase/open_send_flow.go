package usecase

import (
	"context"
	"fmt"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
)

// OpenSendFlowUseCase opens a send flow over the current balances of an account
type OpenSendFlowUseCase struct {
	repository port.LedgerRepository
	validator  port.EntryValidator
	submitter  port.TransactionSubmitter
	notifier   port.Notifier
}

// NewOpenSendFlowUseCase creates a new OpenSendFlowUseCase
func NewOpenSendFlowUseCase(
	repository port.LedgerRepository,
	validator port.EntryValidator,
	submitter port.TransactionSubmitter,
	notifier port.Notifier,
) *OpenSendFlowUseCase {
	return &OpenSendFlowUseCase{
		repository: repository,
		validator:  validator,
		submitter:  submitter,
		notifier:   notifier,
	}
}

// Execute opens a flow for address. onClose is called when the flow closes.
func (uc *OpenSendFlowUseCase) Execute(ctx context.Context, address string, onClose func()) (*SendFlow, error) {
	balances, err := uc.repository.GetAccountBalances(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}

	return NewSendFlow(address, entity.NewBalanceLedger(*balances), SendFlowDeps{
		Validator: uc.validator,
		Submitter: uc.submitter,
		Notifier:  uc.notifier,
		OnClose:   onClose,
	}), nil
}
