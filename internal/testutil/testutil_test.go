// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFile_CreatesParents(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "public", "net", "probe-host.sh")

	MustWriteFile(t, path, "probe-host() { :; }\n")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "probe-host() { :; }\n" {
		t.Errorf("content = %q, want the written body", string(data))
	}
}

func TestMustWriteFile_Overwrites(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "shmod.cue")

	MustWriteFile(t, path, "first")
	MustWriteFile(t, path, "second")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", string(data), "second")
	}
}

func TestMustChdir_RestoresOriginal(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}

	tmpDir := t.TempDir()
	cleanup := MustChdir(t, tmpDir)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	// Resolve symlinks: on darwin TempDir lives under /var, a /private/var alias.
	wantWd, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	gotWd, err := filepath.EvalSymlinks(wd)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	if gotWd != wantWd {
		t.Errorf("Getwd = %q, want %q", gotWd, wantWd)
	}

	cleanup()

	wd, err = os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if wd != originalWd {
		t.Errorf("after cleanup Getwd = %q, want %q", wd, originalWd)
	}
}
