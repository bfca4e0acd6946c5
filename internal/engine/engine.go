// Package engine wires configuration into the pieces an attribution needs:
// the function word list, the extractor and weights, the URL fetcher, the
// signature library and the decision log. The CLI and the MCP server both
// run on an Engine.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/nvandessel/stylo/internal/config"
	"github.com/nvandessel/stylo/internal/features"
	"github.com/nvandessel/stylo/internal/fetch"
	"github.com/nvandessel/stylo/internal/library"
	"github.com/nvandessel/stylo/internal/logging"
	"github.com/nvandessel/stylo/internal/sanitize"
	"github.com/nvandessel/stylo/internal/signature"
	"github.com/nvandessel/stylo/internal/similarity"
)

// Engine holds the immutable attribution state plus lazily opened
// resources. It is safe for concurrent use.
type Engine struct {
	root      string
	cfg       *config.StyloConfig
	extractor *features.Extractor
	weights   similarity.Weights
	fetcher   signature.TextSource
	decisions *logging.DecisionLogger
	logger    *slog.Logger

	libMu sync.Mutex
	lib   *library.Store
}

// Option customizes an Engine.
type Option func(*Engine)

// WithFetcher replaces the HTTP fetcher used for URL sources.
func WithFetcher(src signature.TextSource) Option {
	return func(e *Engine) { e.fetcher = src }
}

// WithLogger sets the operational logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New loads the function word list named by cfg and prepares an Engine
// rooted at root.
func New(root string, cfg *config.StyloConfig, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	words, err := features.LoadFunctionWords(config.Resolve(root, cfg.FunctionWords))
	if err != nil {
		return nil, err
	}

	e := &Engine{
		root:      root,
		cfg:       cfg,
		extractor: features.NewExtractor(words, cfg.Features),
		weights:   similarity.NewWeights(words),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fetcher == nil {
		e.fetcher = fetch.NewClient(
			time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
			fetch.WithUserAgent(cfg.Fetch.UserAgent),
			fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		)
	}
	e.decisions = logging.NewDecisionLogger(filepath.Join(root, config.DataDir), cfg.Logging.Level)

	e.logger.Debug("engine ready",
		"function_words", words.Len(),
		"fingerprint", words.Fingerprint()[:12],
		"signature_dir", e.SignatureDir())
	return e, nil
}

// Root returns the project root.
func (e *Engine) Root() string { return e.root }

// Config returns the configuration the engine was built from.
func (e *Engine) Config() *config.StyloConfig { return e.cfg }

// Extractor returns the feature extractor.
func (e *Engine) Extractor() *features.Extractor { return e.extractor }

// Weights returns the weight vector matching the extractor's features.
func (e *Engine) Weights() similarity.Weights { return e.weights }

// Fingerprint identifies the function word list in use.
func (e *Engine) Fingerprint() string { return e.extractor.FunctionWords().Fingerprint() }

// SignatureDir returns the absolute reference signature directory.
func (e *Engine) SignatureDir() string {
	return config.Resolve(e.root, e.cfg.Signatures.Dir)
}

// LibraryPath returns the absolute library database path.
func (e *Engine) LibraryPath() string {
	return config.Resolve(e.root, e.cfg.Library.Path)
}

// IsURL reports whether source names an http(s) URL rather than a file.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Signature computes the unlabeled signature of source, which is either a
// URL or a file path. Relative paths resolve against the project root.
func (e *Engine) Signature(ctx context.Context, source string) (signature.Signature, error) {
	if IsURL(source) {
		e.logger.Debug("fetching text", "url", source)
		return signature.FromURL(ctx, source, e.fetcher, e.extractor)
	}
	return signature.FromFile(config.Resolve(e.root, source), e.extractor)
}

// LabeledSignature computes the signature of source labeled with author.
// An empty author is derived from the source's file name.
func (e *Engine) LabeledSignature(ctx context.Context, source, author string) (signature.Signature, error) {
	sig, err := e.Signature(ctx, source)
	if err != nil {
		return signature.Signature{}, err
	}
	label := sanitize.Author(author)
	if label == "" {
		label = DefaultAuthor(source)
	}
	return sig.WithAuthor(label), nil
}

// DefaultAuthor derives an author label from a file path or URL.
func DefaultAuthor(source string) string {
	if IsURL(source) {
		u, _ := url.Parse(source)
		if base := filepath.Base(u.Path); base != "/" && base != "." {
			return sanitize.AuthorFromFileName(base)
		}
		return sanitize.Author(u.Host)
	}
	return sanitize.AuthorFromFileName(source)
}

// Library opens the signature library on first use.
func (e *Engine) Library(ctx context.Context) (*library.Store, error) {
	e.libMu.Lock()
	defer e.libMu.Unlock()

	if e.lib != nil {
		return e.lib, nil
	}
	lib, err := library.Open(ctx, e.LibraryPath())
	if err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}
	e.lib = lib
	return lib, nil
}

// References returns the known author signatures, read either from the
// signature directory or from the library.
func (e *Engine) References(ctx context.Context, fromLibrary bool) ([]similarity.Reference, error) {
	if fromLibrary {
		lib, err := e.Library(ctx)
		if err != nil {
			return nil, err
		}
		return lib.References(ctx, e.Fingerprint())
	}
	return similarity.DirReferences(e.SignatureDir())
}

// Result is the outcome of one attribution.
type Result struct {
	Source  string             `json:"source"`
	Author  string             `json:"author"`
	Score   float64            `json:"score"`
	Matches []similarity.Match `json:"matches"`
	RunID   string             `json:"run_id,omitempty"`
}

// Attribute finds the known author whose signature is closest to the text
// at source. Matches are ordered from most to least similar.
func (e *Engine) Attribute(ctx context.Context, source string, fromLibrary bool) (*Result, error) {
	mystery, err := e.Signature(ctx, source)
	if err != nil {
		return nil, err
	}
	return e.AttributeSignature(ctx, source, mystery, fromLibrary)
}

// AttributeSignature is Attribute for an already computed signature. name
// only labels the run in logs and in the result.
func (e *Engine) AttributeSignature(ctx context.Context, name string, mystery signature.Signature, fromLibrary bool) (*Result, error) {
	refs, err := e.References(ctx, fromLibrary)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		where := e.SignatureDir()
		if fromLibrary {
			where = e.LibraryPath()
		}
		return nil, fmt.Errorf("%s: %w", where, similarity.ErrNoReferences)
	}

	matches, err := similarity.Rank(refs, mystery, e.weights)
	if err != nil {
		return nil, err
	}
	best := matches[0]

	candidates := make([]logging.Candidate, len(matches))
	for i, m := range matches {
		candidates[i] = logging.Candidate{Author: m.Author, Score: m.Score, Source: m.Source}
	}
	runID := e.decisions.LogAttribution(logging.Attribution{
		Mystery:     name,
		Winner:      best.Author,
		Score:       best.Score,
		Fingerprint: e.Fingerprint(),
		Candidates:  candidates,
	})

	e.logger.Info("attributed", "source", name, "author", best.Author, "score", best.Score, "candidates", len(matches))
	return &Result{
		Source:  name,
		Author:  best.Author,
		Score:   best.Score,
		Matches: matches,
		RunID:   runID,
	}, nil
}

// Close releases the library and the decision log.
func (e *Engine) Close() error {
	e.decisions.Close()

	e.libMu.Lock()
	defer e.libMu.Unlock()
	if e.lib == nil {
		return nil
	}
	err := e.lib.Close()
	e.lib = nil
	return err
}
