package hashing

import (
	"crypto/subtle"
	"fmt"

	"github.com/hasbyte1/go-password-kdf/argon2"
	"github.com/hasbyte1/go-password-kdf/salt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Options
// ──────────────────────────────────────────────────────────────────────────────

const (
	// DefaultArgon2Memory is the default memory cost in KiB (64 MiB).
	// OWASP ASVS Level 2 requires ≥ 19 MiB; 64 MiB is the standard production
	// recommendation for Argon2id.
	DefaultArgon2Memory uint32 = 64 * 1024

	// DefaultArgon2Time is the default number of iterations.
	DefaultArgon2Time uint32 = 3

	// DefaultArgon2Threads is the default degree of parallelism.
	DefaultArgon2Threads uint8 = 2

	// DefaultArgon2KeyLen is the default output key length in bytes.
	DefaultArgon2KeyLen uint32 = 32

	// DefaultArgon2SaltLen is the default random salt length in bytes.
	DefaultArgon2SaltLen uint32 = 16
)

// Argon2Options configures an [Argon2iHasher] or [Argon2idHasher].
//
// All parameters are directly encoded into the output hash string, so
// changing them only affects newly produced hashes; existing hashes remain
// verifiable with the parameters they carry.
type Argon2Options struct {
	// Memory is the memory cost in KiB.
	// Minimum: 8 × Threads.  Default: [DefaultArgon2Memory] (64 MiB).
	Memory uint32

	// Time is the number of passes over memory (iterations).
	// Minimum: 1.  Default: [DefaultArgon2Time] (3).
	Time uint32

	// Threads is the degree of parallelism.
	// Minimum: 1.  Default: [DefaultArgon2Threads] (2).
	Threads uint8

	// KeyLen is the length of the derived key in bytes.
	// Minimum: 4.  Default: [DefaultArgon2KeyLen] (32).
	KeyLen uint32

	// SaltLen is the length of the random salt in bytes.
	// Minimum: 8.  Default: [DefaultArgon2SaltLen] (16).
	SaltLen uint32
}

// DefaultArgon2Options returns Argon2Options with the recommended defaults.
// These exceed OWASP ASVS Level 2 requirements.
func DefaultArgon2Options() Argon2Options {
	return Argon2Options{
		Memory:  DefaultArgon2Memory,
		Time:    DefaultArgon2Time,
		Threads: DefaultArgon2Threads,
		KeyLen:  DefaultArgon2KeyLen,
		SaltLen: DefaultArgon2SaltLen,
	}
}

func (o Argon2Options) params() argon2.Params {
	return argon2.Params{
		Memory:  o.Memory,
		Time:    o.Time,
		Threads: o.Threads,
		KeyLen:  o.KeyLen,
	}
}

func validateArgon2Options(opts Argon2Options) error {
	if err := opts.params().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if opts.SaltLen < 8 {
		return fmt.Errorf("%w: argon2 salt_len must be ≥ 8, got %d", ErrInvalidParams, opts.SaltLen)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Shared driver core
// ──────────────────────────────────────────────────────────────────────────────

// argon2Hasher carries the behaviour shared by both Argon2 variants; the
// exported hasher types differ only in variant and driver name.
type argon2Hasher struct {
	variant argon2.Variant
	name    DriverName
	opts    Argon2Options
	salts   salt.Generator
}

// Driver returns the DriverName of the variant this hasher implements.
func (h *argon2Hasher) Driver() DriverName { return h.name }

// Options returns the current Argon2 parameter set.
func (h *argon2Hasher) Options() Argon2Options { return h.opts }

// Make hashes password with the hasher's Argon2 variant and returns an
// encoded hash string.  A fresh random salt of the configured length is
// generated for each call.
func (h *argon2Hasher) Make(password string) (string, error) {
	s, err := h.salts.Generate(int(h.opts.SaltLen))
	if err != nil {
		return "", fmt.Errorf("hashing: argon2: %w", err)
	}
	key, err := argon2.Key(h.variant, []byte(password), s, h.opts.params())
	if err != nil {
		return "", fmt.Errorf("hashing: argon2: %w", err)
	}
	return encodeArgon2(h.name, argon2.Version, h.opts.Memory, h.opts.Time, h.opts.Threads, s, key), nil
}

// Check verifies that password matches the encoded Argon2 hash.  The
// parameters (memory, time, threads) are read from the hash string itself,
// so verification works correctly even when the hasher's options have
// changed since the hash was produced.
func (h *argon2Hasher) Check(password, hash string) (bool, error) {
	p, err := h.decode(hash)
	if err != nil {
		return false, err
	}
	computed, err := argon2.Key(h.variant, []byte(password), p.salt, argon2.Params{
		Memory:  p.memory,
		Time:    p.time,
		Threads: p.threads,
		KeyLen:  uint32(len(p.key)),
	})
	if err != nil {
		return false, fmt.Errorf("hashing: argon2: %w", err)
	}
	return subtle.ConstantTimeCompare(computed, p.key) == 1, nil
}

// NeedsRehash returns true if any parameter stored in hash differs from the
// hasher's current configuration.
func (h *argon2Hasher) NeedsRehash(hash string) (bool, error) {
	p, err := h.decode(hash)
	if err != nil {
		return false, err
	}
	return p.memory != h.opts.Memory ||
		p.time != h.opts.Time ||
		p.threads != h.opts.Threads ||
		uint32(len(p.key)) != h.opts.KeyLen, nil
}

// Info parses the encoded string and returns the parameters it carries.
//
// Returned [HashInfo].Params:
//   - "version" → int
//   - "memory"  → uint32 (KiB)
//   - "time"    → uint32
//   - "threads" → uint8
//   - "key_len" → uint32
func (h *argon2Hasher) Info(hash string) (HashInfo, error) {
	p, err := h.decode(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Driver: p.driver,
		Params: map[string]any{
			"version": int(p.version),
			"memory":  p.memory,
			"time":    p.time,
			"threads": p.threads,
			"key_len": uint32(len(p.key)),
		},
	}, nil
}

func (h *argon2Hasher) decode(hash string) (*decodedHash, error) {
	p, err := decodeHash(hash)
	if err != nil {
		return nil, err
	}
	if p.driver != h.name {
		return nil, fmt.Errorf("%w: hash is %s, not %s", ErrAlgorithmMismatch, p.driver, h.name)
	}
	if p.version != argon2.Version {
		return nil, fmt.Errorf("%w: argon2 version %d", ErrUnsupportedAlgorithm, p.version)
	}
	return p, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Argon2iHasher / Argon2idHasher
// ──────────────────────────────────────────────────────────────────────────────

// Argon2iHasher hashes passwords using the Argon2i algorithm.
//
// Argon2i uses data-independent memory access, making it resistant to
// side-channel attacks but slightly more vulnerable to time-memory trade-off
// attacks compared to Argon2id.  For most password-hashing use cases, prefer
// [Argon2idHasher].
//
// # Thread safety
//
// Argon2iHasher is immutable after construction and safe for concurrent use.
type Argon2iHasher struct {
	argon2Hasher
}

// NewArgon2iHasher constructs an Argon2iHasher with the given options.
// Use [DefaultArgon2Options] for recommended defaults.
func NewArgon2iHasher(opts Argon2Options) (*Argon2iHasher, error) {
	if err := validateArgon2Options(opts); err != nil {
		return nil, err
	}
	return &Argon2iHasher{argon2Hasher{
		variant: argon2.Argon2i,
		name:    DriverArgon2i,
		opts:    opts,
	}}, nil
}

// Argon2idHasher hashes passwords using the Argon2id algorithm.
//
// Argon2id is a hybrid of Argon2i and Argon2d.  It provides resistance to
// both side-channel attacks (first half of the first pass) and time-memory
// trade-off attacks (everything after), making it the recommended choice for
// password hashing according to RFC 9106 and OWASP.
//
// # Thread safety
//
// Argon2idHasher is immutable after construction and safe for concurrent use.
type Argon2idHasher struct {
	argon2Hasher
}

// NewArgon2idHasher constructs an Argon2idHasher with the given options.
// Use [DefaultArgon2Options] for recommended defaults.
func NewArgon2idHasher(opts Argon2Options) (*Argon2idHasher, error) {
	if err := validateArgon2Options(opts); err != nil {
		return nil, err
	}
	return &Argon2idHasher{argon2Hasher{
		variant: argon2.Argon2id,
		name:    DriverArgon2id,
		opts:    opts,
	}}, nil
}
