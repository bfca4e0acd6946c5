package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/stylo/internal/engine"
	"github.com/nvandessel/stylo/internal/features"
	"github.com/nvandessel/stylo/internal/pathutil"
	"github.com/nvandessel/stylo/internal/ratelimit"
	"github.com/nvandessel/stylo/internal/signature"
)

// defaultTop is the number of candidates stylo_attribute returns when the
// caller does not ask for a specific count.
const defaultTop = 5

// registerTools registers all stylo MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "stylo_signature",
		Description: "Compute the linguistic signature of a text file or URL, optionally writing it to a signature file or the library",
	}, s.handleSignature)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "stylo_attribute",
		Description: "Find the known author whose signature is most similar to a text of unknown authorship",
	}, s.handleAttribute)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "stylo_authors",
		Description: "List the known authors in the signature directory or library",
	}, s.handleAuthors)
}

// registerResources registers the known-authors resource.
func (s *Server) registerResources() {
	s.server.AddResource(&sdk.Resource{
		URI:         "stylo://authors",
		Name:        "stylo-authors",
		Description: "Authors with a reference signature in the signature directory.",
		MIMEType:    "text/markdown",
	}, s.handleAuthorsResource)
}

// resolveSource turns the path/url pair of a tool call into an engine
// source. Exactly one must be set, and paths must stay in allowed dirs.
func (s *Server) resolveSource(path, url string) (string, error) {
	switch {
	case path != "" && url != "":
		return "", errors.New("set either path or url, not both")
	case url != "":
		if !engine.IsURL(url) {
			return "", fmt.Errorf("url must be an http or https URL")
		}
		return url, nil
	case path != "":
		resolved, err := pathutil.ResolveWithin(path, s.root, s.allowedDirs)
		if err != nil {
			return "", fmt.Errorf("path rejected: %w", err)
		}
		return resolved, nil
	default:
		return "", errors.New("path or url is required")
	}
}

// handleSignature implements the stylo_signature tool.
func (s *Server) handleSignature(ctx context.Context, req *sdk.CallToolRequest, args SignatureInput) (_ *sdk.CallToolResult, _ SignatureOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("stylo_signature", start, retErr, sanitizeToolParams(map[string]any{
			"path":   args.Path,
			"url":    args.URL,
			"author": args.Author,
			"out":    args.Out,
			"save":   args.Save,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "stylo_signature"); err != nil {
		return nil, SignatureOutput{}, err
	}

	source, err := s.resolveSource(args.Path, args.URL)
	if err != nil {
		return nil, SignatureOutput{}, err
	}

	sig, err := s.engine.LabeledSignature(ctx, source, args.Author)
	if err != nil {
		return nil, SignatureOutput{}, err
	}

	out := SignatureOutput{
		Author:        sig.Author,
		Scalars:       make(map[string]float64, features.ScalarCount),
		FunctionWords: make(map[string]float64),
		Dimensions:    len(sig.Features),
	}
	for i, v := range sig.Scalars() {
		out.Scalars[features.ScalarNames[i]] = v
	}
	words := s.engine.Extractor().FunctionWords()
	for i, v := range sig.FunctionWordRatios() {
		out.FunctionWords[words.Word(i).Word] = v
	}

	if args.Out != "" {
		dst, err := pathutil.ResolveWithin(args.Out, s.root, s.allowedDirs)
		if err != nil {
			return nil, SignatureOutput{}, fmt.Errorf("output path rejected: %w", err)
		}
		if err := signature.WriteFile(dst, sig); err != nil {
			return nil, SignatureOutput{}, err
		}
		out.Written = dst
	}

	if args.Save {
		lib, err := s.engine.Library(ctx)
		if err != nil {
			return nil, SignatureOutput{}, err
		}
		if err := lib.Put(ctx, sig, s.engine.Fingerprint(), source); err != nil {
			return nil, SignatureOutput{}, err
		}
		out.Saved = true
	}

	out.Message = fmt.Sprintf("Signature for %q: %d features", sig.Author, out.Dimensions)
	if out.Written != "" {
		out.Message += fmt.Sprintf(", written to %s", pathutil.RedactPath(out.Written))
	}
	if out.Saved {
		out.Message += ", saved to library"
	}
	return nil, out, nil
}

// handleAttribute implements the stylo_attribute tool.
func (s *Server) handleAttribute(ctx context.Context, req *sdk.CallToolRequest, args AttributeInput) (_ *sdk.CallToolResult, _ AttributeOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("stylo_attribute", start, retErr, sanitizeToolParams(map[string]any{
			"path":        args.Path,
			"url":         args.URL,
			"use_library": args.UseLibrary,
			"top":         args.Top,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "stylo_attribute"); err != nil {
		return nil, AttributeOutput{}, err
	}

	source, err := s.resolveSource(args.Path, args.URL)
	if err != nil {
		return nil, AttributeOutput{}, err
	}

	res, err := s.engine.Attribute(ctx, source, args.UseLibrary)
	if err != nil {
		return nil, AttributeOutput{}, err
	}

	top := args.Top
	if top <= 0 {
		top = defaultTop
	}
	candidates := res.Matches
	if len(candidates) > top {
		candidates = candidates[:top]
	}

	return nil, AttributeOutput{
		Author:     res.Author,
		Score:      res.Score,
		Candidates: candidates,
		Total:      len(res.Matches),
		RunID:      res.RunID,
		Message:    fmt.Sprintf("Most similar author: %s (score %.4g, %d compared)", res.Author, res.Score, len(res.Matches)),
	}, nil
}

// handleAuthors implements the stylo_authors tool.
func (s *Server) handleAuthors(ctx context.Context, req *sdk.CallToolRequest, args AuthorsInput) (_ *sdk.CallToolResult, _ AuthorsOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("stylo_authors", start, retErr, sanitizeToolParams(map[string]any{
			"use_library": args.UseLibrary,
		}))
	}()

	if err := ratelimit.CheckLimit(s.toolLimiters, "stylo_authors"); err != nil {
		return nil, AuthorsOutput{}, err
	}

	refs, err := s.engine.References(ctx, args.UseLibrary)
	if err != nil {
		return nil, AuthorsOutput{}, err
	}

	authors := make([]AuthorItem, len(refs))
	for i, ref := range refs {
		authors[i] = AuthorItem{Author: ref.Signature.Author, Source: ref.Source}
	}
	return nil, AuthorsOutput{Authors: authors, Count: len(authors)}, nil
}

// handleAuthorsResource lists the signature directory as markdown.
func (s *Server) handleAuthorsResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	refs, err := s.engine.References(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read signatures: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Known Authors\n\n")
	if len(refs) == 0 {
		sb.WriteString("No reference signatures yet. Create one with `stylo_signature`.\n")
	}
	for _, ref := range refs {
		author := ref.Signature.Author
		if author == "" {
			author = "(unnamed)"
		}
		fmt.Fprintf(&sb, "- %s\n", author)
	}

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      "stylo://authors",
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}
