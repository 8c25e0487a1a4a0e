// Package backup keeps a copy of an existing output file before gridfill
// replaces it.
package backup

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gridfill/internal/errors"
)

// maxBackupAttempts bounds the numbered names tried when backups taken within
// the same second collide.
const maxBackupAttempts = 100

const backupTimeLayout = "20060102_150405"

// Manager handles output file backups.
type Manager struct {
	enabled bool
	now     func() time.Time
}

// NewBackupManager creates a Manager. A disabled manager never copies
// anything, which lets callers use it unconditionally.
func NewBackupManager(enabled bool) *Manager {
	return &Manager{
		enabled: enabled,
		now:     time.Now,
	}
}

// BackupFile copies filePath to a timestamped .bak file next to it and
// returns the backup path. It returns "" without error when backups are
// disabled or when filePath does not exist yet.
func (bm *Manager) BackupFile(filePath string) (string, error) {
	if !bm.enabled {
		return "", nil
	}

	srcFile, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.NewBackupError(filePath, "failed to open existing output file", err)
	}
	defer srcFile.Close()

	dstFile, backupPath, err := bm.createBackupFile(filePath)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		_ = os.Remove(backupPath)
		return "", errors.NewBackupError(backupPath, "failed to copy file content", err)
	}

	if err := dstFile.Close(); err != nil {
		_ = os.Remove(backupPath)
		return "", errors.NewBackupError(backupPath, "failed to close backup file", err)
	}

	// Permissions are best effort; the content copy is what matters.
	if srcInfo, err := srcFile.Stat(); err == nil {
		_ = os.Chmod(backupPath, srcInfo.Mode())
	}

	return backupPath, nil
}

// CleanupBackup removes a backup that turned out to be unnecessary, e.g.
// because the write it guarded failed and left the original untouched.
func (bm *Manager) CleanupBackup(backupPath string) error {
	if backupPath == "" {
		return nil
	}

	err := os.Remove(backupPath)
	if err != nil && !os.IsNotExist(err) {
		return errors.NewBackupError(backupPath, "failed to remove backup file", err)
	}

	return nil
}

// createBackupFile creates a new, previously absent backup file for
// originalPath. An existing backup is never reused.
func (bm *Manager) createBackupFile(originalPath string) (*os.File, string, error) {
	timestamp := bm.now()

	for attempt := 0; attempt < maxBackupAttempts; attempt++ {
		backupPath := bm.generateBackupPath(originalPath, timestamp, attempt)

		file, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return file, backupPath, nil
		}
		if !stderrors.Is(err, fs.ErrExist) {
			return nil, "", errors.NewBackupError(backupPath, "failed to create backup file", err)
		}
	}

	message := fmt.Sprintf("failed to create backup file: %d backups already exist for %s",
		maxBackupAttempts, timestamp.Format(backupTimeLayout))
	return nil, "", errors.NewBackupError(originalPath, message, nil)
}

// generateBackupPath names the backup after the original file and timestamp.
// Attempts past the first get a counter so backups within one second differ.
func (bm *Manager) generateBackupPath(originalPath string, timestamp time.Time, attempt int) string {
	dir := filepath.Dir(originalPath)
	base := filepath.Base(originalPath)
	stamp := timestamp.Format(backupTimeLayout)

	if attempt == 0 {
		return filepath.Join(dir, fmt.Sprintf("%s.%s.bak", base, stamp))
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s.%d.bak", base, stamp, attempt))
}
