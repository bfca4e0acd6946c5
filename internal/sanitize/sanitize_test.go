package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAuthor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"passthrough", "Jane Austen", "Jane Austen"},
		{"trims", "  Jane Austen\n", "Jane Austen"},
		{"newline becomes space", "Jane\nAusten", "Jane Austen"},
		{"carriage return and tab", "Jane\r\n\tAusten", "Jane Austen"},
		{"null byte", "Jane\x00Austen", "Jane Austen"},
		{"collapses spaces", "Jane     Austen", "Jane Austen"},
		{"strips tags", "<b>Jane</b> Austen", "Jane Austen"},
		{"keeps angle text that is not a tag", "a < b", "a < b"},
		{"keeps unicode", "Émile Zola", "Émile Zola"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Author(tt.input); got != tt.want {
				t.Errorf("Author(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAuthor_Truncates(t *testing.T) {
	input := strings.Repeat("é", MaxAuthorLength+20)
	got := Author(input)
	if n := utf8.RuneCountInString(got); n != MaxAuthorLength {
		t.Errorf("rune length = %d, want %d", n, MaxAuthorLength)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}
}

func TestAuthorFromFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"pride_and_prejudice.txt", "pride and prejudice"},
		{"texts/moby-dick.txt", "moby dick"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
	}
	for _, tt := range tests {
		if got := AuthorFromFileName(tt.input); got != tt.want {
			t.Errorf("AuthorFromFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
