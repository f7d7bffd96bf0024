package sessionstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the directory that holds the session database.
const HomeEnv = "EXAM_CLIENT_HOME"

// DefaultPath is where the session lives when nothing else is configured:
// $EXAM_CLIENT_HOME/session.db, falling back to ~/.exam-client/session.db.
// The directory is created with 0700 permissions.
func DefaultPath() (string, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		dir = filepath.Join(home, ".exam-client")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state directory: %w", err)
	}
	return filepath.Join(dir, "session.db"), nil
}
