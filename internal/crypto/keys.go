package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of every symmetric key used for local state.
const KeySize = 32

// HKDF info strings. Changing one invalidates every file sealed with it.
const (
	InfoSessionStore = "skinanalyze/session-store/v1"
)

// ErrInvalidKeyLength is returned when the provided key length is invalid.
var ErrInvalidKeyLength = errors.New("invalid key length")

// DeriveStoreKey binds a random profile key to the device fingerprint so a
// copied state directory cannot be opened on another machine.
func DeriveStoreKey(profileKey []byte, deviceFP, info string) ([]byte, error) {
	if len(profileKey) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	ikm := make([]byte, 0, len(profileKey)+len(deviceFP))
	ikm = append(ikm, profileKey...)
	ikm = append(ikm, deviceFP...)
	h := hkdf.New(sha256.New, ikm, nil, []byte(info))
	out := make([]byte, KeySize)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// MustRandom returns n random bytes or panics.
func MustRandom(n int) []byte {
	b, err := RandomBytes(n)
	if err != nil {
		panic(err)
	}
	return b
}
