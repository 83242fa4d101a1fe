package files

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"skinanalyze/internal/crypto"
)

// ReadHexKey reads a 32 byte key stored as 64 hex characters.
func ReadHexKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeHexKey(string(data))
}

func DecodeHexKey(h string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(h))
	if err != nil {
		return nil, fmt.Errorf("key hex decode error: %w", err)
	}
	if len(b) != crypto.KeySize {
		return nil, fmt.Errorf("key length must be %d bytes (hex %d chars)", crypto.KeySize, crypto.KeySize*2)
	}
	return b, nil
}

// WriteHexKey writes key to path, refusing to overwrite an existing file.
func WriteHexKey(path string, key []byte) error {
	if FileExists(path) {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(hex.EncodeToString(key) + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadOrCreateKey returns the key at path, generating it on first use.
func ReadOrCreateKey(path string) ([]byte, error) {
	key, err := ReadHexKey(path)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	key, err = crypto.RandomBytes(crypto.KeySize)
	if err != nil {
		return nil, err
	}
	if err := WriteHexKey(path, key); err != nil {
		// Lost a creation race with another process; use its key.
		if existing, rerr := ReadHexKey(path); rerr == nil {
			return existing, nil
		}
		return nil, err
	}
	return key, nil
}

// ReadMasterKey reads the key from the named env var, falling back to path.
func ReadMasterKey(envVar, path string) ([]byte, error) {
	if h := os.Getenv(envVar); h != "" {
		return DecodeHexKey(h)
	}
	key, err := ReadHexKey(path)
	if err != nil {
		return nil, fmt.Errorf("%s not set and %s not readable: %w", envVar, path, err)
	}
	return key, nil
}

// FileExists checks if the given file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// WriteFileAtomic writes data to a temp file in the same directory and
// renames it over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
