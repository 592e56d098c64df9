package entity

import (
	"github.com/shopspring/decimal"
)

// SendEntry is one recipient of a pending transfer
type SendEntry struct {
	Symbol  string          `json:"symbol"`
	Amount  decimal.Decimal `json:"amount"`
	Address string          `json:"address"`
}

// Validate checks the entry is well formed. It guards the settlement layer against
// entries that never went through the entry validator; address, precision and balance
// rules belong to that validator.
func (e *SendEntry) Validate() error {
	if e.Symbol == "" {
		return ErrMissingSymbol
	}
	if e.Address == "" {
		return ErrMissingAddress
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
