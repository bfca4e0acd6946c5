package signature

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is a signature read from a directory.
type Entry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Signature Signature `json:"signature"`
}

// IsHidden reports whether a file name is hidden (starts with a dot).
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// ReadDir reads every signature file in dir, in file name order.
// Hidden files are never opened and subdirectories are skipped. Any
// unreadable or malformed file aborts the scan.
func ReadDir(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing signatures: %w", err)
	}

	// os.ReadDir sorts by name, which fixes the order ties are broken in.
	names := make([]string, 0, len(dirEntries))
	for _, de := range dirEntries {
		if IsHidden(de.Name()) || de.IsDir() {
			continue
		}
		names = append(names, de.Name())
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		sig, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: name, Path: path, Signature: sig})
	}
	return entries, nil
}
