// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// CalculateFileHash returns the hex SHA-256 of the file at path.
func CalculateFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // Read-only file; close error non-critical

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// CopyFile copies src to dst with the given mode, replacing dst.
func CopyFile(src, dst string, mode os.FileMode) (err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = srcFile.Close() }() // Read-only file; close error non-critical

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dstFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := dstFile.Chmod(mode); err != nil {
		return fmt.Errorf("failed to set mode on destination file: %w", err)
	}
	return dstFile.Sync()
}

// copyVerified copies src to dst and checks that both hash the same.
func copyVerified(src, dst string, mode os.FileMode) error {
	if err := CopyFile(src, dst, mode); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	want, err := CalculateFileHash(src)
	if err != nil {
		return fmt.Errorf("hash %s: %w", src, err)
	}
	got, err := CalculateFileHash(dst)
	if err != nil {
		return fmt.Errorf("hash %s: %w", dst, err)
	}
	if got != want {
		return fmt.Errorf("%w: %s has sha256 %s, source %s has %s", ErrCopyMismatch, dst, got, src, want)
	}
	return nil
}
