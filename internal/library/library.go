// Package library keeps reference signatures of known authors in a SQLite
// database, as an alternative to a directory of signature files.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/nvandessel/stylo/internal/signature"
	"github.com/nvandessel/stylo/internal/similarity"
	_ "modernc.org/sqlite" // SQLite driver
)

var (
	// ErrNotFound is returned when no signature is stored for an author.
	ErrNotFound = errors.New("signature not found")

	// ErrFingerprintMismatch is returned when a stored signature was computed
	// with a different function word list than the one in use.
	ErrFingerprintMismatch = errors.New("function word list changed since signature was stored")
)

// Entry is a stored signature with its bookkeeping.
type Entry struct {
	Signature   signature.Signature `json:"signature"`
	Fingerprint string              `json:"wordlist_fingerprint"`
	Source      string              `json:"source,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Store is a SQLite-backed signature library.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens or creates the library database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores sig under its author, replacing any previous signature for
// that author. fingerprint identifies the function word list sig was
// computed with; source records where it came from.
func (s *Store) Put(ctx context.Context, sig signature.Signature, fingerprint, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.put(ctx, s.db, sig, fingerprint, source)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) put(ctx context.Context, db execer, sig signature.Signature, fingerprint, source string) error {
	if strings.TrimSpace(sig.Author) == "" {
		return fmt.Errorf("signature has no author")
	}

	featuresJSON, err := json.Marshal(sig.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = db.ExecContext(ctx, `
		INSERT INTO signatures (author, features, dimensions, wordlist_fingerprint, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(author) DO UPDATE SET
			features = excluded.features,
			dimensions = excluded.dimensions,
			wordlist_fingerprint = excluded.wordlist_fingerprint,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		sig.Author, string(featuresJSON), len(sig.Features), fingerprint, source, now, now)
	if err != nil {
		return fmt.Errorf("failed to store signature for %q: %w", sig.Author, err)
	}
	return nil
}

// Get returns the entry stored for author.
func (s *Store) Get(ctx context.Context, author string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT author, features, wordlist_fingerprint, source, created_at, updated_at
		FROM signatures WHERE author = ?`, author)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", author, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns every stored entry ordered by author.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT author, features, wordlist_fingerprint, source, created_at, updated_at
		FROM signatures ORDER BY author`)
	if err != nil {
		return nil, fmt.Errorf("failed to query signatures: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signatures: %w", err)
	}
	return entries, nil
}

// Delete removes the signature stored for author.
func (s *Store) Delete(ctx context.Context, author string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM signatures WHERE author = ?`, author)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", author, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", author, err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", author, ErrNotFound)
	}
	return nil
}

// ImportDir stores every signature file in dir (hidden files skipped) in a
// single transaction and returns how many were imported. A malformed or
// unlabeled file aborts the import without storing anything.
func (s *Store) ImportDir(ctx context.Context, dir, fingerprint string) (int, error) {
	entries, err := signature.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := s.put(ctx, tx, e.Signature, fingerprint, e.Path); err != nil {
			return 0, fmt.Errorf("%s: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(entries), nil
}

// ExportDir writes every stored signature to dir as a signature file named
// after its author, and returns the paths written. Authors whose labels map
// to the same file name get a numeric suffix (mark.twain.2.stats), so every
// entry is written exactly once.
func (s *Store) ExportDir(ctx context.Context, dir string) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool, len(entries))
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		name := uniqueFileName(FileName(e.Signature.Author), used)
		used[name] = true
		path := filepath.Join(dir, name)
		if err := signature.WriteFile(path, e.Signature); err != nil {
			return nil, fmt.Errorf("exporting %q: %w", e.Signature.Author, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// References returns every stored signature as a comparison reference,
// ordered by author. With a non-empty fingerprint, a signature computed
// with a different function word list fails the whole call.
func (s *Store) References(ctx context.Context, fingerprint string) ([]similarity.Reference, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]similarity.Reference, 0, len(entries))
	for _, e := range entries {
		if fingerprint != "" && e.Fingerprint != "" && e.Fingerprint != fingerprint {
			return nil, fmt.Errorf("%q: %w", e.Signature.Author, ErrFingerprintMismatch)
		}
		refs = append(refs, similarity.Reference{
			Signature: e.Signature,
			Source:    "library:" + e.Signature.Author,
		})
	}
	return refs, nil
}

// FileName turns an author label into a safe signature file name. Letters
// and digits are kept (lowercased); runs of anything else become one dot.
func FileName(author string) string {
	var b strings.Builder
	lastDot := true
	for _, r := range strings.ToLower(author) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDot = false
			continue
		}
		if !lastDot {
			b.WriteByte('.')
			lastDot = true
		}
	}
	name := strings.TrimSuffix(b.String(), ".")
	if name == "" {
		name = "unnamed"
	}
	return name + ".stats"
}

func uniqueFileName(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	stem := strings.TrimSuffix(name, ".stats")
	for n := 2; ; n++ {
		candidate := stem + "." + strconv.Itoa(n) + ".stats"
		if !used[candidate] {
			return candidate
		}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry                Entry
		featuresJSON         string
		createdAt, updatedAt string
	)
	if err := row.Scan(&entry.Signature.Author, &featuresJSON, &entry.Fingerprint, &entry.Source, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(featuresJSON), &entry.Signature.Features); err != nil {
		return nil, fmt.Errorf("failed to decode features for %q: %w", entry.Signature.Author, err)
	}
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	entry.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &entry, nil
}
