// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stagehand/stagehand/internal/testutil"
)

func TestCalculateFileHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	testutil.MustWriteFile(t, path, "hello\n", 0o644)

	got, err := CalculateFileHash(path)
	if err != nil {
		t.Fatalf("CalculateFileHash() error = %v", err)
	}
	// sha256 of "hello\n"
	const want = "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03"
	if got != want {
		t.Errorf("CalculateFileHash() = %s, want %s", got, want)
	}

	if _, err := CalculateFileHash(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CalculateFileHash(missing) error = %v, want ErrNotExist", err)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	testutil.MustWriteFile(t, src, "#!/bin/sh\necho hi\n", 0o600)
	testutil.MustWriteFile(t, dst, "stale content that is longer than the source\n", 0o644)

	if err := CopyFile(src, dst, 0o755); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	if got := testutil.MustReadFile(t, dst); got != "#!/bin/sh\necho hi\n" {
		t.Errorf("dst content = %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("dst mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"), 0o644)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("CopyFile() error = %v, want ErrNotExist", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "dst")); !os.IsNotExist(statErr) {
		t.Error("destination created for missing source")
	}
}

func TestCopyVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "config.cue")
	testutil.MustWriteFile(t, src, "installer: {}\n", 0o644)

	dst := filepath.Join(dir, "staged", "config.cue")
	testutil.MustMkdirAll(t, filepath.Dir(dst), 0o755)

	if err := copyVerified(src, dst, 0o644); err != nil {
		t.Fatalf("copyVerified() error = %v", err)
	}
	want, _ := CalculateFileHash(src)
	got, _ := CalculateFileHash(dst)
	if got != want {
		t.Errorf("hash mismatch after copy: %s != %s", got, want)
	}
}
