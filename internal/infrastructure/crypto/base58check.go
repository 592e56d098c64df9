package crypto

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/mr-tron/base58"
)

const checksumLen = 4

var errBadChecksum = errors.New("base58check: checksum mismatch")

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// base58CheckEncode appends the 4-byte double SHA-256 checksum and encodes the result
func base58CheckEncode(payload []byte) string {
	buf := make([]byte, 0, len(payload)+checksumLen)
	buf = append(buf, payload...)
	buf = append(buf, doubleSHA256(payload)[:checksumLen]...)
	return base58.Encode(buf)
}

// base58CheckDecode decodes s and verifies its checksum, returning the payload
func base58CheckDecode(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(raw) < checksumLen {
		return nil, errBadChecksum
	}
	payload, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	if !bytes.Equal(doubleSHA256(payload)[:checksumLen], sum) {
		return nil, errBadChecksum
	}
	return payload, nil
}
