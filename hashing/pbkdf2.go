package hashing

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"

	"github.com/hasbyte1/go-password-kdf/pbkdf2"
	"github.com/hasbyte1/go-password-kdf/salt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

// PBKDF2Digest identifies the HMAC digest underlying a [PBKDF2Hasher].
type PBKDF2Digest string

const (
	// PBKDF2SHA256 selects HMAC-SHA-256 as the PBKDF2 pseudo-random function.
	PBKDF2SHA256 PBKDF2Digest = "sha256"
	// PBKDF2SHA512 selects HMAC-SHA-512 as the PBKDF2 pseudo-random function.
	PBKDF2SHA512 PBKDF2Digest = "sha512"
)

const (
	// DefaultPBKDF2Iterations is the default iteration count, per the OWASP
	// recommendation for PBKDF2-HMAC-SHA256.
	DefaultPBKDF2Iterations uint32 = 600_000

	// MinPBKDF2Iterations is the lowest iteration count accepted by
	// [NewPBKDF2Hasher].  The floor is policy: the algorithm is defined for
	// any count ≥ 1, but fewer iterations than this are not a credible
	// password-hashing configuration.
	MinPBKDF2Iterations uint32 = 10_000

	// DefaultPBKDF2KeyLen is the default output key length in bytes.
	DefaultPBKDF2KeyLen uint32 = 32

	// DefaultPBKDF2SaltLen is the default random salt length in bytes.
	DefaultPBKDF2SaltLen uint32 = 16
)

// PBKDF2Options configures a [PBKDF2Hasher].
//
// As with Argon2, the iteration count is encoded into the output hash string,
// so raising it only affects newly produced hashes.
type PBKDF2Options struct {
	// Iterations is the PBKDF2 iteration count.
	// Minimum: [MinPBKDF2Iterations].  Default: [DefaultPBKDF2Iterations].
	Iterations uint32

	// Digest selects the HMAC digest.
	// Default: [PBKDF2SHA256].
	Digest PBKDF2Digest

	// KeyLen is the length of the derived key in bytes.
	// Minimum: 1.  Default: [DefaultPBKDF2KeyLen] (32).
	KeyLen uint32

	// SaltLen is the length of the random salt in bytes.
	// Minimum: 8.  Default: [DefaultPBKDF2SaltLen] (16).
	SaltLen uint32
}

// DefaultPBKDF2Options returns PBKDF2Options with the recommended defaults
// (600,000 iterations of HMAC-SHA-256, 32-byte key, 16-byte salt).
func DefaultPBKDF2Options() PBKDF2Options {
	return PBKDF2Options{
		Iterations: DefaultPBKDF2Iterations,
		Digest:     PBKDF2SHA256,
		KeyLen:     DefaultPBKDF2KeyLen,
		SaltLen:    DefaultPBKDF2SaltLen,
	}
}

func validatePBKDF2Options(opts PBKDF2Options) error {
	if opts.Iterations < MinPBKDF2Iterations {
		return fmt.Errorf("%w: pbkdf2 iterations must be ≥ %d, got %d",
			ErrInvalidParams, MinPBKDF2Iterations, opts.Iterations)
	}
	if opts.KeyLen < 1 {
		return fmt.Errorf("%w: pbkdf2 key_len must be ≥ 1, got %d", ErrInvalidParams, opts.KeyLen)
	}
	if opts.SaltLen < 8 {
		return fmt.Errorf("%w: pbkdf2 salt_len must be ≥ 8, got %d", ErrInvalidParams, opts.SaltLen)
	}
	switch opts.Digest {
	case PBKDF2SHA256, PBKDF2SHA512:
		return nil
	default:
		return fmt.Errorf("%w: pbkdf2 digest must be %q or %q, got %q",
			ErrInvalidParams, PBKDF2SHA256, PBKDF2SHA512, opts.Digest)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// PBKDF2Hasher
// ──────────────────────────────────────────────────────────────────────────────

// PBKDF2Hasher hashes passwords using PBKDF2-HMAC with a configurable digest.
//
// PBKDF2 is compute-hard but not memory-hard; it remains the right choice
// when interoperating with systems that already store PBKDF2 hashes, or in
// FIPS-constrained environments.  For new stores, prefer [Argon2idHasher].
//
// Output format: $pbkdf2-sha256$v=1$i=600000$<salt>$<key> (and the
// pbkdf2-sha512 analogue).
//
// # Thread safety
//
// PBKDF2Hasher is immutable after construction and safe for concurrent use.
type PBKDF2Hasher struct {
	opts   PBKDF2Options
	name   DriverName
	digest func() hash.Hash
	salts  salt.Generator
}

// NewPBKDF2Hasher constructs a PBKDF2Hasher with the given options.
// Use [DefaultPBKDF2Options] for recommended defaults.
func NewPBKDF2Hasher(opts PBKDF2Options) (*PBKDF2Hasher, error) {
	if err := validatePBKDF2Options(opts); err != nil {
		return nil, err
	}
	h := &PBKDF2Hasher{opts: opts}
	switch opts.Digest {
	case PBKDF2SHA256:
		h.name, h.digest = DriverPBKDF2SHA256, sha256.New
	case PBKDF2SHA512:
		h.name, h.digest = DriverPBKDF2SHA512, sha512.New
	}
	return h, nil
}

// Driver returns the DriverName for the configured digest.
func (h *PBKDF2Hasher) Driver() DriverName { return h.name }

// Options returns the current PBKDF2 parameter set.
func (h *PBKDF2Hasher) Options() PBKDF2Options { return h.opts }

// Make hashes password with PBKDF2 and returns an encoded hash string.
// A fresh random salt of the configured length is generated for each call.
func (h *PBKDF2Hasher) Make(password string) (string, error) {
	s, err := h.salts.Generate(int(h.opts.SaltLen))
	if err != nil {
		return "", fmt.Errorf("hashing: pbkdf2: %w", err)
	}
	key, err := pbkdf2.Key([]byte(password), s, int(h.opts.Iterations), int(h.opts.KeyLen), h.digest)
	if err != nil {
		return "", fmt.Errorf("hashing: pbkdf2: %w", err)
	}
	return encodePBKDF2(h.name, h.opts.Iterations, s, key), nil
}

// Check verifies that password matches the encoded PBKDF2 hash.  The
// iteration count and key length are read from the hash string itself.
func (h *PBKDF2Hasher) Check(password, hash string) (bool, error) {
	p, err := h.decode(hash)
	if err != nil {
		return false, err
	}
	computed, err := pbkdf2.Key([]byte(password), p.salt, int(p.iterations), len(p.key), h.digest)
	if err != nil {
		return false, fmt.Errorf("hashing: pbkdf2: %w", err)
	}
	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

// NeedsRehash returns true if the iteration count or key length stored in
// hash differs from the hasher's current configuration.
func (h *PBKDF2Hasher) NeedsRehash(hash string) (bool, error) {
	p, err := h.decode(hash)
	if err != nil {
		return false, err
	}
	return p.iterations != h.opts.Iterations ||
		uint32(len(p.key)) != h.opts.KeyLen, nil
}

// Info parses the encoded string and returns the parameters it carries.
//
// Returned [HashInfo].Params:
//   - "version"    → int
//   - "iterations" → uint32
//   - "key_len"    → uint32
func (h *PBKDF2Hasher) Info(hash string) (HashInfo, error) {
	p, err := h.decode(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: p.driver,
		Params: map[string]any{
			"version":    int(p.version),
			"iterations": p.iterations,
			"key_len":    uint32(len(p.key)),
		},
	}, nil
}

func (h *PBKDF2Hasher) decode(hash string) (*decodedHash, error) {
	p, err := decodeHash(hash)
	if err != nil {
		return nil, err
	}
	if p.driver != h.name {
		return nil, fmt.Errorf("%w: hash is %s, not %s", ErrAlgorithmMismatch, p.driver, h.name)
	}
	if p.version != pbkdf2FormatVersion {
		return nil, fmt.Errorf("%w: pbkdf2 format version %d", ErrUnsupportedAlgorithm, p.version)
	}
	if p.iterations < 1 {
		return nil, fmt.Errorf("%w: zero iteration count", ErrMalformedHash)
	}
	return p, nil
}
