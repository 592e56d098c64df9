package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
)

// GetBalanceUseCase reads the balances shown on an account's wallet screen
type GetBalanceUseCase struct {
	repository port.LedgerRepository
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase
func NewGetBalanceUseCase(repository port.LedgerRepository) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		repository: repository,
	}
}

// Execute returns the balances of address. NEO and GAS are always present,
// at zero when the account holds none.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, address string) (*entity.BalanceResponse, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, entity.ErrMissingAddress
	}

	balance, err := uc.repository.GetBalance(ctx, address)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]string, len(balance.Balances)+2)
	for _, symbol := range []string{entity.AssetNEO, entity.AssetGAS} {
		balances[symbol] = entity.FormatAmount(symbol, decimal.Zero)
	}
	for symbol, amount := range balance.Balances {
		balances[symbol] = amount
	}

	return &entity.BalanceResponse{
		Address:  address,
		Balances: balances,
	}, nil
}
