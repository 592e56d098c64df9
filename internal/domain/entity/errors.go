package entity

import "errors"

var (
	ErrMissingSymbol  = errors.New("missing required field: symbol")
	ErrMissingAddress = errors.New("missing required field: address")
	ErrInvalidAmount  = errors.New("amount must be a positive number")
	ErrUnknownSymbol  = errors.New("unknown asset symbol")

	ErrValidation         = errors.New("entry validation failed")
	ErrDecryption         = errors.New("failed to decrypt key")
	ErrSubmission         = errors.New("transaction submission failed")
	ErrMissingCredentials = errors.New("passphrase and encrypted key are required")
	ErrFlowClosed         = errors.New("send flow is closed")
	ErrNoEntries          = errors.New("no entries to submit")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSessionNotFound    = errors.New("session not found")
	ErrFlowNotFound       = errors.New("send flow not found")
)
