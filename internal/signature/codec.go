package signature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// ErrMalformed is returned when a signature file has a non-numeric value
// where a feature is expected.
var ErrMalformed = errors.New("malformed signature")

// Read parses a signature. The first line is the author label and is not
// parsed; every following line must be a finite number.
func Read(r io.Reader) (Signature, error) {
	scanner := bufio.NewScanner(r)

	var sig Signature
	if scanner.Scan() {
		sig.Author = strings.TrimSpace(scanner.Text())
	}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		raw := strings.TrimSpace(scanner.Text())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Signature{}, fmt.Errorf("%w: line %d: %q is not a finite number", ErrMalformed, lineNum, raw)
		}
		sig.Features = append(sig.Features, v)
	}
	if err := scanner.Err(); err != nil {
		return Signature{}, fmt.Errorf("reading signature: %w", err)
	}
	return sig, nil
}

// ReadFile reads the signature stored at path.
func ReadFile(path string) (Signature, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signature{}, fmt.Errorf("opening signature: %w", err)
	}
	defer f.Close()

	sig, err := Read(f)
	if err != nil {
		return Signature{}, fmt.Errorf("%s: %w", path, err)
	}
	return sig, nil
}

// Write writes sig one element per line: the label as-is, then each feature
// in its shortest exact decimal form.
func Write(w io.Writer, sig Signature) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(sig.Author)
	bw.WriteByte('\n')
	for _, v := range sig.Features {
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteFile writes sig to path, replacing any existing file. Concurrent
// writers to the same path are serialized with a lock file, and the
// content is swapped in with a rename so readers never see a partial file.
// Lock and temporary files are dot-prefixed, so directory scans skip them.
func WriteFile(path string, sig Signature) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating signature directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "."+base+".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking signature: %w", err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Write(tmp, sig); err != nil {
		tmp.Close()
		return fmt.Errorf("writing signature: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing signature: %w", err)
	}
	return nil
}
