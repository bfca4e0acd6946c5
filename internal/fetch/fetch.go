// Package fetch downloads a text from a URL. HTML pages are reduced to
// their visible text so they can be measured like a plain text file.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// Client fetches texts over HTTP.
type Client struct {
	http      *http.Client
	userAgent string
	maxBytes  int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxBytes caps the response body size. Zero means no cap.
func WithMaxBytes(n int64) Option {
	return func(c *Client) { c.maxBytes = n }
}

// NewClient creates a Client with the given request timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: "stylo",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Text fetches url and returns its text decoded to UTF-8. HTML responses
// are stripped down to their visible text.
func (c *Client) Text(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	var body io.Reader = resp.Body
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	if c.maxBytes > 0 && int64(len(raw)) > c.maxBytes {
		return "", fmt.Errorf("fetching %s: body exceeds %d bytes", url, c.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(raw)
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}

	if isHTML(contentType) {
		return VisibleText(decoded)
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}
	return string(data), nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// blockElements end a line of text.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Tr: true, atom.Section: true, atom.Article: true,
}

// VisibleText parses an HTML document and returns the text a reader would
// see: script, style, head and noscript content is dropped, and block
// elements end a line.
func VisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isHidden(n) {
			return
		}
		if isVisibleText(n) {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	return b.String(), nil
}

func isHidden(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Noscript, atom.Template:
		return true
	}
	return false
}

// isVisibleText reports whether n is a text node with non-whitespace content.
func isVisibleText(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) != ""
}
