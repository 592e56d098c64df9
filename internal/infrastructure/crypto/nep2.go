package crypto

import (
	"bytes"
	"context"
	"crypto/aes"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"

	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
	"wallet.com/internal/infrastructure/logger"
)

const (
	nep2PayloadLen = 39
	nep2Prefix0    = 0x01
	nep2Prefix1    = 0x42
	nep2Flag       = 0xe0
	derivedKeyLen  = 64
	addressHashLen = 4
)

var (
	ErrInvalidEncryptedKey = errors.New("invalid encrypted key format")
	ErrWrongPassphrase     = errors.New("wrong passphrase")
)

// ScryptParams are the key derivation costs. NEP-2 keys use N=16384, r=8, p=8.
type ScryptParams struct {
	N int
	R int
	P int
}

// DefaultScryptParams returns the standard NEP-2 parameters
func DefaultScryptParams() ScryptParams {
	return ScryptParams{N: 16384, R: 8, P: 8}
}

// NEP2 encrypts and decrypts NEP-2 passphrase-protected private keys
type NEP2 struct {
	params ScryptParams
	logger logger.Logger
}

var _ port.KeyDecryptor = (*NEP2)(nil)

// NewNEP2 creates a NEP-2 codec with the given scrypt parameters
func NewNEP2(params ScryptParams, logger logger.Logger) *NEP2 {
	return &NEP2{
		params: params,
		logger: logger,
	}
}

// Encrypt protects priv with passphrase and returns the NEP-2 string
func (n *NEP2) Encrypt(priv []byte, passphrase string) (string, error) {
	address, err := AddressFromPrivateKey(priv)
	if err != nil {
		return "", err
	}
	addressHash := doubleSHA256([]byte(address))[:addressHashLen]

	derived, err := n.deriveKey(passphrase, addressHash)
	if err != nil {
		return "", err
	}
	defer clear(derived)

	block := xorBytes(priv, derived[:32])
	defer clear(block)

	encrypted, err := aesECB(derived[32:], block, true)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, nep2PayloadLen)
	payload = append(payload, nep2Prefix0, nep2Prefix1, nep2Flag)
	payload = append(payload, addressHash...)
	payload = append(payload, encrypted...)
	return base58CheckEncode(payload), nil
}

// Decrypt recovers the credential behind a NEP-2 key. A wrong passphrase yields ErrWrongPassphrase.
func (n *NEP2) Decrypt(ctx context.Context, encryptedKey, passphrase string) (*entity.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := base58CheckDecode(encryptedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncryptedKey, err)
	}
	if len(payload) != nep2PayloadLen || payload[0] != nep2Prefix0 || payload[1] != nep2Prefix1 || payload[2] != nep2Flag {
		return nil, ErrInvalidEncryptedKey
	}
	addressHash := payload[3 : 3+addressHashLen]
	encrypted := payload[3+addressHashLen:]

	derived, err := n.deriveKey(passphrase, addressHash)
	if err != nil {
		return nil, err
	}
	defer clear(derived)

	decrypted, err := aesECB(derived[32:], encrypted, false)
	if err != nil {
		return nil, err
	}
	defer clear(decrypted)
	priv := xorBytes(decrypted, derived[:32])

	address, err := AddressFromPrivateKey(priv)
	if err != nil || !bytes.Equal(doubleSHA256([]byte(address))[:addressHashLen], addressHash) {
		clear(priv)
		n.logger.LogWarning(ctx, "Encrypted key did not match passphrase")
		return nil, ErrWrongPassphrase
	}

	wif, err := WIF(priv)
	if err != nil {
		clear(priv)
		return nil, err
	}

	return &entity.Credential{
		Address:    address,
		PrivateKey: priv,
		WIF:        wif,
	}, nil
}

func (n *NEP2) deriveKey(passphrase string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(norm.NFC.String(passphrase)), salt, n.params.N, n.params.R, n.params.P, derivedKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// aesECB runs AES-256 over each 16-byte block of data independently
func aesECB(key, data []byte, encrypt bool) ([]byte, error) {
	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, ErrInvalidEncryptedKey
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		if encrypt {
			c.Encrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
		} else {
			c.Decrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
		}
	}
	return out, nil
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
