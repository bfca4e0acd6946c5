// Package mcp provides an MCP (Model Context Protocol) server for stylo.
package mcp

import "github.com/nvandessel/stylo/internal/similarity"

// SignatureInput defines the input for the stylo_signature tool.
type SignatureInput struct {
	Path   string `json:"path,omitempty" jsonschema:"Text file to analyze (relative to project root). Exactly one of path or url is required"`
	URL    string `json:"url,omitempty" jsonschema:"http(s) URL of a text or HTML page to analyze"`
	Author string `json:"author,omitempty" jsonschema:"Author label for the signature (default: derived from the file name)"`
	Out    string `json:"out,omitempty" jsonschema:"Write the signature to this file (must be under the project root or signature directory)"`
	Save   bool   `json:"save,omitempty" jsonschema:"Store the signature in the signature library (default: false)"`
}

// SignatureOutput defines the output for the stylo_signature tool.
type SignatureOutput struct {
	Author        string             `json:"author" jsonschema:"Author label"`
	Scalars       map[string]float64 `json:"scalars" jsonschema:"The five scalar metrics by name"`
	FunctionWords map[string]float64 `json:"function_words" jsonschema:"Relative frequency of each function word"`
	Dimensions    int                `json:"dimensions" jsonschema:"Number of numeric features"`
	Written       string             `json:"written,omitempty" jsonschema:"Path the signature file was written to"`
	Saved         bool               `json:"saved" jsonschema:"Whether the signature was stored in the library"`
	Message       string             `json:"message" jsonschema:"Human-readable result message"`
}

// AttributeInput defines the input for the stylo_attribute tool.
type AttributeInput struct {
	Path       string `json:"path,omitempty" jsonschema:"Text file of unknown authorship (relative to project root). Exactly one of path or url is required"`
	URL        string `json:"url,omitempty" jsonschema:"http(s) URL of the text of unknown authorship"`
	UseLibrary bool   `json:"use_library,omitempty" jsonschema:"Compare against the signature library instead of the signature directory (default: false)"`
	Top        int    `json:"top,omitempty" jsonschema:"Number of ranked candidates to return (default: 5)"`
}

// AttributeOutput defines the output for the stylo_attribute tool.
type AttributeOutput struct {
	Author     string             `json:"author" jsonschema:"Most similar known author"`
	Score      float64            `json:"score" jsonschema:"Weighted distance to that author (lower is more similar)"`
	Candidates []similarity.Match `json:"candidates" jsonschema:"Closest authors, most similar first"`
	Total      int                `json:"total" jsonschema:"Number of authors compared"`
	RunID      string             `json:"run_id,omitempty" jsonschema:"Decision log run id (debug logging only)"`
	Message    string             `json:"message" jsonschema:"Human-readable result message"`
}

// AuthorsInput defines the input for the stylo_authors tool.
type AuthorsInput struct {
	UseLibrary bool `json:"use_library,omitempty" jsonschema:"List the signature library instead of the signature directory (default: false)"`
}

// AuthorsOutput defines the output for the stylo_authors tool.
type AuthorsOutput struct {
	Authors []AuthorItem `json:"authors" jsonschema:"Known authors"`
	Count   int          `json:"count" jsonschema:"Number of authors"`
}

// AuthorItem is one known author.
type AuthorItem struct {
	Author string `json:"author"`
	Source string `json:"source,omitempty"`
}
