package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
)

const (
	decryptingMessage = "Decrypting encoded key..."
	loginFailedPrefix = "Login failed: "
)

// LoginRequest contains the fields of the encrypted-key login form
type LoginRequest struct {
	Passphrase   string
	EncryptedKey string
}

// LoginUseCase handles encrypted-key login
type LoginUseCase struct {
	decryptor  port.KeyDecryptor
	notifier   port.Notifier
	dispatcher port.LoginDispatcher
}

// NewLoginUseCase creates a new LoginUseCase
func NewLoginUseCase(
	decryptor port.KeyDecryptor,
	notifier port.Notifier,
	dispatcher port.LoginDispatcher,
) *LoginUseCase {
	return &LoginUseCase{
		decryptor:  decryptor,
		notifier:   notifier,
		dispatcher: dispatcher,
	}
}

// Execute decrypts the key and dispatches the login action.
// Blank input returns ErrMissingCredentials without notifying or dispatching anything.
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*entity.LoginAction, error) {
	if strings.TrimSpace(req.Passphrase) == "" || strings.TrimSpace(req.EncryptedKey) == "" {
		return nil, entity.ErrMissingCredentials
	}

	uc.notifier.DismissAll(ctx)
	progressID := uc.notifier.Notify(ctx, decryptingMessage, entity.LevelInfo)

	credential, err := uc.decryptor.Decrypt(ctx, strings.TrimSpace(req.EncryptedKey), req.Passphrase)
	uc.notifier.Dismiss(ctx, progressID)
	if err != nil {
		uc.notifier.Notify(ctx, loginFailedPrefix+err.Error(), entity.LevelError)
		return nil, fmt.Errorf("%w: %w", entity.ErrDecryption, err)
	}

	action := entity.LoginAction{
		SessionID:  uuid.New().String(),
		Credential: *credential,
	}
	if err := uc.dispatcher.DispatchLogin(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to dispatch login: %w", err)
	}

	return &action, nil
}
