package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceResponse represents the balances of an account
type BalanceResponse struct {
	Address  string            `json:"address"`
	Balances map[string]string `json:"balances"`
}

// LedgerEntry represents a single movement on the account ledger
type LedgerEntry struct {
	Address string
	Asset   string
	Amount  decimal.Decimal
}

// TokenBalance is the balance of a non-native token held by an account
type TokenBalance struct {
	Symbol  string
	Balance decimal.Decimal
}

// AccountBalances holds the balances a send flow is opened with
type AccountBalances struct {
	Address string
	NEO     decimal.Decimal
	GAS     decimal.Decimal
	Tokens  map[string]TokenBalance
}

// BalanceLedger maps an asset symbol to the amount still available for new entries
type BalanceLedger map[string]decimal.Decimal

// NewBalanceLedger builds a ledger from the native balances plus every token balance.
func NewBalanceLedger(b AccountBalances) BalanceLedger {
	ledger := BalanceLedger{
		AssetNEO: b.NEO,
		AssetGAS: b.GAS,
	}
	for key, token := range b.Tokens {
		symbol := token.Symbol
		if symbol == "" {
			symbol = key
		}
		ledger[symbol] = token.Balance
	}
	return ledger
}

// Available returns the balance for symbol, zero when the symbol is not tracked.
func (l BalanceLedger) Available(symbol string) decimal.Decimal {
	return l[symbol]
}

// Reserve subtracts amount from the balance of symbol.
func (l BalanceLedger) Reserve(symbol string, amount decimal.Decimal) error {
	current, ok := l[symbol]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	l[symbol] = current.Sub(amount)
	return nil
}

// Clone returns an independent copy of the ledger.
func (l BalanceLedger) Clone() BalanceLedger {
	out := make(BalanceLedger, len(l))
	for symbol, amount := range l {
		out[symbol] = amount
	}
	return out
}

// Strings renders every balance as a decimal string.
func (l BalanceLedger) Strings() map[string]string {
	out := make(map[string]string, len(l))
	for symbol, amount := range l {
		out[symbol] = amount.String()
	}
	return out
}
