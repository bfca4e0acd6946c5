package signature

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/stylo/internal/features"
)

func testExtractor(t *testing.T) *features.Extractor {
	t.Helper()
	list, err := features.NewFunctionWordList([]features.FunctionWord{
		{Word: "the", Weight: 1},
		{Word: "a", Weight: 1},
	})
	if err != nil {
		t.Fatalf("NewFunctionWordList failed: %v", err)
	}
	return features.NewExtractor(list, features.Options{})
}

func TestReadWriteRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		sig  Signature
	}{
		{
			name: "labeled",
			sig:  Signature{Author: "Jane Austen", Features: []float64{4.4, 21.3, 2.1, 0.12, 0.07, 0.05, 1e-05}},
		},
		{
			name: "unlabeled",
			sig:  Signature{Author: "", Features: []float64{1.0 / 3.0, 2, 0, 1, 0.5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "author.stats")
			if err := WriteFile(path, tt.sig); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile failed: %v", err)
			}
			if got.Author != tt.sig.Author {
				t.Errorf("Author = %q, want %q", got.Author, tt.sig.Author)
			}
			if len(got.Features) != len(tt.sig.Features) {
				t.Fatalf("len(Features) = %d, want %d", len(got.Features), len(tt.sig.Features))
			}
			for i := range got.Features {
				if math.Abs(got.Features[i]-tt.sig.Features[i]) > 1e-12 {
					t.Errorf("Features[%d] = %v, want %v", i, got.Features[i], tt.sig.Features[i])
				}
			}
		})
	}
}

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer
	sig := Signature{Author: "agatha christie", Features: []float64{4.5, 0.25, 3}}
	if err := Write(&buf, sig); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "agatha christie\n4.5\n0.25\n3\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sig.stats")
	if err := WriteFile(path, Signature{Author: "first", Features: []float64{1, 2, 3}}); err != nil {
		t.Fatalf("first WriteFile failed: %v", err)
	}
	if err := WriteFile(path, Signature{Author: "second", Features: []float64{9}}); err != nil {
		t.Fatalf("second WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "second\n9\n" {
		t.Errorf("file content = %q", string(data))
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("someone\n1.5\nabc\n"))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should name line 3: %v", err)
	}
}

func TestReadRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Read(strings.NewReader("someone\n1.5\n" + raw + "\n"))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Read(%q) expected ErrMalformed, got %v", raw, err)
			}
			if !strings.Contains(err.Error(), "line 3") {
				t.Errorf("error should name line 3: %v", err)
			}
		})
	}
}

func TestReadLabelIsNotParsed(t *testing.T) {
	sig, err := Read(strings.NewReader("42\n1\n2\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if sig.Author != "42" {
		t.Errorf("Author = %q, want 42", sig.Author)
	}
	if len(sig.Features) != 2 {
		t.Errorf("len(Features) = %d, want 2", len(sig.Features))
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.stats"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	write("b.stats", "bravo\n2\n")
	write("a.stats", "alpha\n1\n")
	// Hidden files are never parsed, even when malformed.
	write(".DS_Store", "\x00\x01 not a signature\nxyz\n")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}

	entries, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Signature.Author != "alpha" || entries[1].Signature.Author != "bravo" {
		t.Errorf("entries out of order: %q, %q", entries[0].Name, entries[1].Name)
	}
}

func TestReadDirMalformedAborts(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.stats"), []byte("x\nnope\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := ReadDir(dir); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestWriteFileLeavesOnlyHiddenExtras(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFile(filepath.Join(dir, "one.stats"), Signature{Author: "one", Features: []float64{1}}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	entries, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "one.stats" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestFromText(t *testing.T) {
	e := testExtractor(t)
	sig, err := FromText("The cat sat on a mat. A dog barked!", e)
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	if sig.Author != "" {
		t.Errorf("Author = %q, want empty", sig.Author)
	}
	if sig.Len() != 6+2 {
		t.Errorf("Len() = %d, want 8", sig.Len())
	}
	if got := len(sig.FunctionWordRatios()); got != 2 {
		t.Errorf("len(FunctionWordRatios()) = %d, want 2", got)
	}

	if _, err := FromText("", e); !errors.Is(err, features.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestFromFile(t *testing.T) {
	e := testExtractor(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mystery.txt")
	if err := os.WriteFile(path, []byte("It was a dark night.\nThe wind howled!\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	sig, err := FromFile(path, e)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if len(sig.Features) != e.Dimensions() {
		t.Errorf("len(Features) = %d, want %d", len(sig.Features), e.Dimensions())
	}

	if _, err := FromFile(filepath.Join(dir, "missing.txt"), e); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

type staticSource string

func (s staticSource) Text(ctx context.Context, url string) (string, error) {
	return string(s), nil
}

func TestFromURL(t *testing.T) {
	e := testExtractor(t)
	sig, err := FromURL(context.Background(), "http://example.invalid/book", staticSource("One sentence here."), e)
	if err != nil {
		t.Fatalf("FromURL failed: %v", err)
	}
	if sig.Features[1] != 3 {
		t.Errorf("average sentence length = %v, want 3", sig.Features[1])
	}
}

func TestWithAuthorCopies(t *testing.T) {
	orig := Signature{Features: []float64{1, 2}}
	labeled := orig.WithAuthor("someone")
	labeled.Features[0] = 99
	if orig.Features[0] != 1 {
		t.Error("WithAuthor should not share the feature slice")
	}
	if orig.Author != "" {
		t.Error("WithAuthor should not modify the receiver")
	}
}
