package salt_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/hasbyte1/go-password-kdf/salt"
)

func TestGenerate_Length(t *testing.T) {
	for _, n := range []int{1, 8, 16, 64} {
		b, err := salt.Generate(n)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}
		if len(b) != n {
			t.Errorf("Generate(%d) returned %d bytes", n, len(b))
		}
	}
}

func TestGenerate_InvalidLength(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := salt.Generate(n)
		if !errors.Is(err, salt.ErrInvalidLength) {
			t.Errorf("Generate(%d): expected ErrInvalidLength, got %v", n, err)
		}
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 256; i++ {
		b, err := salt.Generate(16)
		if err != nil {
			t.Fatal(err)
		}
		if seen[string(b)] {
			t.Fatal("duplicate 16-byte salt — entropy source is broken")
		}
		seen[string(b)] = true
	}
}

// failingReader errors after serving n bytes.
type failingReader struct {
	n int
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.n <= 0 {
		return 0, io.ErrUnexpectedEOF
	}
	served := min(len(p), r.n)
	r.n -= served
	return served, nil
}

func TestGenerator_SourceFailure(t *testing.T) {
	g := salt.Generator{Rand: &failingReader{}}
	_, err := g.Generate(16)
	if !errors.Is(err, salt.ErrEntropyUnavailable) {
		t.Errorf("expected ErrEntropyUnavailable, got %v", err)
	}
}

func TestGenerator_ShortRead(t *testing.T) {
	// A source that dries up mid-read must fail, not return a partial salt.
	g := salt.Generator{Rand: &failingReader{n: 8}}
	_, err := g.Generate(16)
	if !errors.Is(err, salt.ErrEntropyUnavailable) {
		t.Errorf("expected ErrEntropyUnavailable on short read, got %v", err)
	}
}

func TestGenerator_InjectedSource(t *testing.T) {
	g := salt.Generator{Rand: bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})}
	b, err := g.Generate(8)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("Generate = %v, want injected bytes", b)
	}
}
