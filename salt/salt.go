// Package salt generates cryptographically secure random salts.
//
// Both KDF families in this module consume salts from here.  A salt failure
// is always surfaced as an error — there is no fallback to a weaker random
// source, because a predictable salt silently defeats the point of salting.
package salt

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors returned by this package.  Use [errors.Is] for comparisons.
var (
	// ErrEntropyUnavailable is returned when the secure random source cannot
	// supply the requested bytes.  The call has failed outright; the caller
	// may retry but must not substitute a weaker source.
	ErrEntropyUnavailable = errors.New("salt: secure entropy source unavailable")

	// ErrInvalidLength is returned for a non-positive salt length.
	ErrInvalidLength = errors.New("salt: length must be positive")
)

// Generator draws salts from a configurable entropy source.
//
// The zero value reads from [crypto/rand.Reader] and is ready to use; the
// Rand field exists so tests can inject a deterministic or failing source.
// Generator adds no locking of its own — crypto/rand.Reader is safe for
// concurrent use, and any injected source must be too.
type Generator struct {
	// Rand is the entropy source.  Nil means [crypto/rand.Reader].
	Rand io.Reader
}

// Generate returns n cryptographically random bytes.
func (g Generator) Generate(n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, n)
	}
	r := g.Rand
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return b, nil
}

// Generate returns n cryptographically random bytes from [crypto/rand.Reader].
func Generate(n int) ([]byte, error) {
	return Generator{}.Generate(n)
}
