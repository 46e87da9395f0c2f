package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDataDir resolves the application data directory, creating it if
// needed. Uses XDG data directory or falls back to the home directory.
func DefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: resolve home directory: %v", ErrIO, err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "daybook")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create data directory: %v", ErrIO, err)
	}

	return appDir, nil
}
