package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile writes the artifact into dir atomically and returns its path and SHA-256.
// The data goes to a temp file that is renamed into place only after a complete write.
func WriteFile(dir string, a *Artifact) (path, checksum string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	path = filepath.Join(dir, a.Filename)
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", "", fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmpPath) //nolint:errcheck // Gone after a successful rename
	defer f.Close()          //nolint:errcheck // Closed explicitly below

	hash := sha256.New()
	if _, err := io.MultiWriter(f, hash).Write(a.Data); err != nil {
		return "", "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", "", fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", "", fmt.Errorf("rename export file: %w", err)
	}

	return path, hex.EncodeToString(hash.Sum(nil)), nil
}
