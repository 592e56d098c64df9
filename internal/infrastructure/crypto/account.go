package crypto

import (
	"crypto/ecdh"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // NEO script hashes are RIPEMD-160
)

const (
	addressVersion = 0x17
	wifVersion     = 0x80
	wifCompressed  = 0x01
	privateKeyLen  = 32
	scriptHashLen  = 20
	pushBytes33    = 0x21
	opCheckSig     = 0xac
	addressByteLen = 1 + scriptHashLen
	wifPayloadLen  = 1 + privateKeyLen + 1
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidWIF        = errors.New("invalid WIF")
)

// compressedPublicKey returns the 33-byte compressed P-256 public key of priv
func compressedPublicKey(priv []byte) ([]byte, error) {
	if len(priv) != privateKeyLen {
		return nil, ErrInvalidPrivateKey
	}
	key, err := ecdh.P256().NewPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	// 0x04 || X || Y
	uncompressed := key.PublicKey().Bytes()
	x, y := uncompressed[1:33], uncompressed[33:]

	out := make([]byte, 0, 33)
	out = append(out, 0x02+(y[len(y)-1]&1))
	out = append(out, x...)
	return out, nil
}

// AddressFromPrivateKey derives the account address of a private key
func AddressFromPrivateKey(priv []byte) (string, error) {
	pub, err := compressedPublicKey(priv)
	if err != nil {
		return "", err
	}

	script := make([]byte, 0, len(pub)+2)
	script = append(script, pushBytes33)
	script = append(script, pub...)
	script = append(script, opCheckSig)

	digest := sha256.Sum256(script)
	h := ripemd160.New()
	h.Write(digest[:])

	payload := make([]byte, 0, addressByteLen)
	payload = append(payload, addressVersion)
	payload = append(payload, h.Sum(nil)...)
	return base58CheckEncode(payload), nil
}

// IsValidAddress reports whether address is a well formed account address
func IsValidAddress(address string) bool {
	payload, err := base58CheckDecode(address)
	if err != nil {
		return false
	}
	return len(payload) == addressByteLen && payload[0] == addressVersion
}

// WIF encodes a private key in wallet import format
func WIF(priv []byte) (string, error) {
	if len(priv) != privateKeyLen {
		return "", ErrInvalidPrivateKey
	}
	payload := make([]byte, 0, wifPayloadLen)
	payload = append(payload, wifVersion)
	payload = append(payload, priv...)
	payload = append(payload, wifCompressed)
	return base58CheckEncode(payload), nil
}

// PrivateKeyFromWIF decodes a wallet import format key
func PrivateKeyFromWIF(wif string) ([]byte, error) {
	payload, err := base58CheckDecode(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWIF, err)
	}
	if len(payload) != wifPayloadLen || payload[0] != wifVersion || payload[wifPayloadLen-1] != wifCompressed {
		return nil, ErrInvalidWIF
	}
	priv := make([]byte, privateKeyLen)
	copy(priv, payload[1:1+privateKeyLen])
	return priv, nil
}
