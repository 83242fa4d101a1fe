package utils

import (
	"os"
	"path/filepath"
)

// StateDirName is the per-user directory holding the session and store key.
const StateDirName = ".skinanalyze"

// GetStateDir returns ~/.skinanalyze, or a temp-dir fallback when the home
// directory is unknown.
func GetStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), StateDirName)
	}
	return filepath.Join(home, StateDirName)
}
