// Package pathutil confines file access requested by tool callers to a set
// of allowed directories.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath shortens a path to .../<parent>/<base> for error messages,
// e.g. "/home/user/.stylo/library.db" becomes ".../.stylo/library.db".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	base := filepath.Base(cleaned)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// ValidatePath checks that path lies inside one of allowedDirs once cleaned
// and with symlinks resolved, including a symlink at path itself. The file
// itself need not exist, but a dangling symlink is rejected.
func ValidatePath(path string, allowedDirs []string) error {
	if path == "" {
		return fmt.Errorf("path validation failed: path is empty")
	}
	if len(allowedDirs) == 0 {
		return fmt.Errorf("path validation failed: no allowed directories configured")
	}
	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("path validation failed: path contains null byte")
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("path validation failed: cannot resolve absolute path: %w", err)
	}

	resolved, err := resolveTarget(absPath)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}

	for _, allowed := range allowedDirs {
		allowedAbs, err := filepath.Abs(filepath.Clean(allowed))
		if err != nil {
			continue
		}
		allowedResolved, err := resolveExistingParent(allowedAbs)
		if err != nil {
			continue
		}
		if isSubpath(resolved, allowedResolved) {
			return nil
		}
	}

	return fmt.Errorf("path validation failed: %q is outside allowed directories", RedactPath(absPath))
}

// ResolveWithin resolves path against root when relative, then validates it
// against allowedDirs. It returns the cleaned absolute path.
func ResolveWithin(path, root string, allowedDirs []string) (string, error) {
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if err := ValidatePath(path, allowedDirs); err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Clean(path))
}

// AllowedDirs returns the absolute forms of dirs, skipping empty entries and
// resolving relative ones against root.
func AllowedDirs(root string, dirs ...string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if !filepath.IsAbs(d) {
			d = filepath.Join(root, d)
		}
		out = append(out, filepath.Clean(d))
	}
	return out
}

// resolveTarget returns where absPath really points. The parent is resolved
// so a linked directory cannot lead outside, and a symlink at absPath itself
// is followed to its target.
func resolveTarget(absPath string) (string, error) {
	resolvedDir, err := resolveExistingParent(filepath.Dir(absPath))
	if err != nil {
		return "", fmt.Errorf("cannot resolve parent directory: %w", err)
	}
	resolved := filepath.Join(resolvedDir, filepath.Base(absPath))

	info, err := os.Lstat(resolved)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return resolved, nil
	}
	target, err := filepath.EvalSymlinks(resolved)
	if err != nil {
		return "", fmt.Errorf("cannot resolve symlink %q: %w", RedactPath(absPath), err)
	}
	return target, nil
}

// resolveExistingParent resolves symlinks on the deepest existing ancestor
// of dir and re-appends the part that does not exist yet.
func resolveExistingParent(dir string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(dir)
	if parent == dir {
		return "", fmt.Errorf("cannot resolve path: %s", RedactPath(dir))
	}

	resolvedParent, err := resolveExistingParent(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(dir)), nil
}

// isSubpath reports whether path equals base or lies below it.
func isSubpath(path, base string) bool {
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(os.PathSeparator))
}
