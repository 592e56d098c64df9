package validator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
	"wallet.com/internal/infrastructure/crypto"
)

// EntryValidator implements the EntryValidator port with the wallet's send rules
type EntryValidator struct{}

var _ port.EntryValidator = (*EntryValidator)(nil)

// NewEntryValidator creates a new entry validator
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{}
}

// ValidateEntry checks the entry is sendable out of available.
// The returned error message is meant to be shown to the user as is.
func (v *EntryValidator) ValidateEntry(available decimal.Decimal, entry entity.SendEntry) error {
	if entry.Symbol == "" {
		return errors.New("You need to choose an asset to send.")
	}
	if !crypto.IsValidAddress(entry.Address) {
		return errors.New("The address you entered was not valid.")
	}
	if !entry.Amount.IsPositive() {
		return fmt.Errorf("You cannot send zero or negative amounts of %s.", entry.Symbol)
	}
	if decimals, ok := entity.AssetDecimals(entry.Symbol); ok && !entry.Amount.Equal(entry.Amount.Truncate(decimals)) {
		if decimals == 0 {
			return fmt.Errorf("You cannot send fractional amounts of %s.", entry.Symbol)
		}
		return fmt.Errorf("%s amounts cannot have more than %d decimal places.", entry.Symbol, decimals)
	}
	if entry.Amount.GreaterThan(available) {
		return fmt.Errorf("You do not have enough %s to send.", entry.Symbol)
	}
	return nil
}
