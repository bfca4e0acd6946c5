package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	// Create temp dirs to use as allowed dirs
	allowedDir := t.TempDir()
	otherDir := t.TempDir()

	// Create a subdirectory inside the allowed dir
	subDir := filepath.Join(allowedDir, "subdir")
	if err := os.MkdirAll(subDir, 0700); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	tests := []struct {
		name        string
		path        string
		allowedDirs []string
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid path inside allowed dir",
			path:        filepath.Join(allowedDir, "mystery.txt"),
			allowedDirs: []string{allowedDir},
			wantErr:     false,
		},
		{
			name:        "valid path in subdirectory of allowed dir",
			path:        filepath.Join(subDir, "mystery.txt"),
			allowedDirs: []string{allowedDir},
			wantErr:     false,
		},
		{
			name:        "path that is exactly the allowed dir",
			path:        allowedDir,
			allowedDirs: []string{allowedDir},
			wantErr:     false,
		},
		{
			name:        "path traversal with dot-dot",
			path:        filepath.Join(allowedDir, "..", "etc", "passwd"),
			allowedDirs: []string{allowedDir},
			wantErr:     true,
			errContains: "outside allowed directories",
		},
		{
			name:        "absolute path outside allowed dir",
			path:        filepath.Join(otherDir, "mystery.txt"),
			allowedDirs: []string{allowedDir},
			wantErr:     true,
			errContains: "outside allowed directories",
		},
		{
			name:        "null bytes in path",
			path:        filepath.Join(allowedDir, "mys\x00tery.txt"),
			allowedDirs: []string{allowedDir},
			wantErr:     true,
			errContains: "null byte",
		},
		{
			name:        "path with redundant separators is cleaned",
			path:        allowedDir + string(os.PathSeparator) + string(os.PathSeparator) + "mystery.txt",
			allowedDirs: []string{allowedDir},
			wantErr:     false,
		},
		{
			name:        "empty path",
			path:        "",
			allowedDirs: []string{allowedDir},
			wantErr:     true,
			errContains: "empty",
		},
		{
			name:        "no allowed dirs",
			path:        filepath.Join(allowedDir, "mystery.txt"),
			allowedDirs: []string{},
			wantErr:     true,
			errContains: "no allowed directories",
		},
		{
			name:        "multiple allowed dirs - matches second",
			path:        filepath.Join(otherDir, "mystery.txt"),
			allowedDirs: []string{allowedDir, otherDir},
			wantErr:     false,
		},
		{
			name:        "path traversal with embedded dot-dot",
			path:        filepath.Join(allowedDir, "subdir", "..", "..", "etc", "passwd"),
			allowedDirs: []string{allowedDir},
			wantErr:     true,
			errContains: "outside allowed directories",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path, tt.allowedDirs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("ValidatePath() error = %v, want error containing %q", err, tt.errContains)
				}
			}
		})
	}
}

func TestValidatePath_SymlinkOutsideAllowedDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not supported on Windows")
	}

	allowedDir := t.TempDir()
	outsideDir := t.TempDir()

	// Create a symlink inside the allowed dir that points outside
	symlinkPath := filepath.Join(allowedDir, "escape")
	if err := os.Symlink(outsideDir, symlinkPath); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	// A path through the symlink should be rejected
	err := ValidatePath(filepath.Join(symlinkPath, "mystery.txt"), []string{allowedDir})
	if err == nil {
		t.Error("ValidatePath() should reject symlink pointing outside allowed dir")
	}
	if err != nil && !strings.Contains(err.Error(), "outside allowed directories") {
		t.Errorf("ValidatePath() error = %v, want error about outside allowed directories", err)
	}
}

func TestValidatePath_SymlinkInsideAllowedDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not supported on Windows")
	}

	allowedDir := t.TempDir()

	// Create a subdirectory and a symlink to it (both inside allowed dir)
	realSubDir := filepath.Join(allowedDir, "real")
	if err := os.MkdirAll(realSubDir, 0700); err != nil {
		t.Fatalf("failed to create real subdir: %v", err)
	}

	symlinkPath := filepath.Join(allowedDir, "link")
	if err := os.Symlink(realSubDir, symlinkPath); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	// A path through a symlink that stays inside allowed dir should be OK
	err := ValidatePath(filepath.Join(symlinkPath, "mystery.txt"), []string{allowedDir})
	if err != nil {
		t.Errorf("ValidatePath() should accept symlink staying inside allowed dir, got: %v", err)
	}
}

func TestValidatePath_FinalSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not supported on Windows")
	}

	allowedDir := t.TempDir()
	outsideDir := t.TempDir()

	secret := filepath.Join(outsideDir, "private.txt")
	if err := os.WriteFile(secret, []byte("not for attribution"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	inside := filepath.Join(allowedDir, "mystery.txt")
	if err := os.WriteFile(inside, []byte("Call me Ishmael."), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	links := []struct {
		name    string
		target  string
		wantErr string
	}{
		{"leak.txt", secret, "outside allowed directories"},
		{"dangling.stats", filepath.Join(outsideDir, "missing.stats"), "cannot resolve symlink"},
		{"alias.txt", inside, ""},
	}
	for _, l := range links {
		t.Run(l.name, func(t *testing.T) {
			link := filepath.Join(allowedDir, l.name)
			if err := os.Symlink(l.target, link); err != nil {
				t.Fatalf("failed to create symlink: %v", err)
			}

			_, err := ResolveWithin(l.name, allowedDir, []string{allowedDir})
			if l.wantErr == "" {
				if err != nil {
					t.Errorf("symlink to a file inside the allowed dir rejected: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), l.wantErr) {
				t.Errorf("ResolveWithin() error = %v, want error containing %q", err, l.wantErr)
			}
		})
	}
}

func TestRedactPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"simple", "/home/user/.stylo/library.db", ".../.stylo/library.db"},
		{"relative single", "mystery.txt", "mystery.txt"},
		{"root child", "/mystery.txt", "mystery.txt"},
		{"trailing slash cleaned", "/home/user/signatures/", ".../user/signatures"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactPath(tt.path); got != tt.want {
				t.Errorf("RedactPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveWithin(t *testing.T) {
	root := t.TempDir()
	sigDir := t.TempDir()
	allowed := AllowedDirs(root, ".", sigDir)

	got, err := ResolveWithin("texts/mystery.txt", root, allowed)
	if err != nil {
		t.Fatalf("ResolveWithin failed: %v", err)
	}
	if want := filepath.Join(root, "texts", "mystery.txt"); got != want {
		t.Errorf("ResolveWithin() = %q, want %q", got, want)
	}

	if _, err := ResolveWithin(filepath.Join(sigDir, "austen.stats"), root, allowed); err != nil {
		t.Errorf("absolute path in second allowed dir rejected: %v", err)
	}

	if _, err := ResolveWithin("../outside.txt", root, allowed); err == nil {
		t.Error("expected traversal out of root to be rejected")
	}
}

func TestAllowedDirs(t *testing.T) {
	got := AllowedDirs("/project", "", "signatures", "/abs/refs")
	want := []string{filepath.Join("/project", "signatures"), "/abs/refs"}
	if len(got) != len(want) {
		t.Fatalf("AllowedDirs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllowedDirs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
