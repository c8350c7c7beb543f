package hashing_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/hasbyte1/go-password-kdf/hashing"
)

// fastPBKDF2Opts returns the weakest accepted PBKDF2 parameters for unit
// tests.  Do NOT use in production.
func fastPBKDF2Opts() hashing.PBKDF2Options {
	return hashing.PBKDF2Options{
		Iterations: hashing.MinPBKDF2Iterations,
		Digest:     hashing.PBKDF2SHA256,
		KeyLen:     16,
		SaltLen:    8,
	}
}

func newTestPBKDF2Hasher(t *testing.T) *hashing.PBKDF2Hasher {
	t.Helper()
	h, err := hashing.NewPBKDF2Hasher(fastPBKDF2Opts())
	if err != nil {
		t.Fatalf("NewPBKDF2Hasher: %v", err)
	}
	return h
}

// ──────────────────────────────────────────────────────────────────────────────
// Constructor validation
// ──────────────────────────────────────────────────────────────────────────────

func TestNewPBKDF2Hasher_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts hashing.PBKDF2Options
	}{
		{"iterations=0", hashing.PBKDF2Options{Iterations: 0, Digest: hashing.PBKDF2SHA256, KeyLen: 32, SaltLen: 16}},
		{"iterations below floor", hashing.PBKDF2Options{Iterations: 9_999, Digest: hashing.PBKDF2SHA256, KeyLen: 32, SaltLen: 16}},
		{"key_len=0", hashing.PBKDF2Options{Iterations: 10_000, Digest: hashing.PBKDF2SHA256, KeyLen: 0, SaltLen: 16}},
		{"salt_len<8", hashing.PBKDF2Options{Iterations: 10_000, Digest: hashing.PBKDF2SHA256, KeyLen: 32, SaltLen: 7}},
		{"unknown digest", hashing.PBKDF2Options{Iterations: 10_000, Digest: "md5", KeyLen: 32, SaltLen: 16}},
		{"empty digest", hashing.PBKDF2Options{Iterations: 10_000, KeyLen: 32, SaltLen: 16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := hashing.NewPBKDF2Hasher(tt.opts); !errors.Is(err, hashing.ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestDefaultPBKDF2Options(t *testing.T) {
	opts := hashing.DefaultPBKDF2Options()
	if opts.Iterations != hashing.DefaultPBKDF2Iterations {
		t.Errorf("Iterations = %d, want %d", opts.Iterations, hashing.DefaultPBKDF2Iterations)
	}
	if opts.Digest != hashing.PBKDF2SHA256 {
		t.Errorf("Digest = %q, want %q", opts.Digest, hashing.PBKDF2SHA256)
	}
	if opts.KeyLen != hashing.DefaultPBKDF2KeyLen {
		t.Errorf("KeyLen = %d, want %d", opts.KeyLen, hashing.DefaultPBKDF2KeyLen)
	}
	if opts.SaltLen != hashing.DefaultPBKDF2SaltLen {
		t.Errorf("SaltLen = %d, want %d", opts.SaltLen, hashing.DefaultPBKDF2SaltLen)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Make / Check
// ──────────────────────────────────────────────────────────────────────────────

func TestPBKDF2Hasher_Make_EncodedFormat(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	hash, err := h.Make("password")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$pbkdf2-sha256$v=1$i=10000$") {
		t.Errorf("unexpected hash prefix: %q", hash)
	}
}

func TestPBKDF2Hasher_Make_SHA512Format(t *testing.T) {
	opts := fastPBKDF2Opts()
	opts.Digest = hashing.PBKDF2SHA512
	h, err := hashing.NewPBKDF2Hasher(opts)
	if err != nil {
		t.Fatal(err)
	}
	if h.Driver() != hashing.DriverPBKDF2SHA512 {
		t.Errorf("Driver = %q, want %q", h.Driver(), hashing.DriverPBKDF2SHA512)
	}
	hash, _ := h.Make("password")
	if !strings.HasPrefix(hash, "$pbkdf2-sha512$") {
		t.Errorf("hash should start with $pbkdf2-sha512$, got %q", hash)
	}
}

func TestPBKDF2Hasher_Make_UniqueHashes(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	h1, _ := h.Make("same")
	h2, _ := h.Make("same")
	if h1 == h2 {
		t.Error("two Make calls must produce different hashes (different salts)")
	}
}

func TestPBKDF2Hasher_Check_CorrectPassword(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	hash, _ := h.Make("secret")
	ok, err := h.Check("secret", hash)
	if err != nil || !ok {
		t.Fatalf("Check correct password: ok=%v err=%v", ok, err)
	}
}

func TestPBKDF2Hasher_Check_WrongPassword(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	hash, _ := h.Make("correct")
	ok, err := h.Check("wrong", hash)
	if err != nil {
		t.Fatalf("Check: unexpected error %v", err)
	}
	if ok {
		t.Error("Check returned true for wrong password")
	}
}

func TestPBKDF2Hasher_Check_NearMissPasswords(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	const password = "hunter2"
	hash, _ := h.Make(password)

	for _, miss := range []string{"hunter", "hunter3", "hunter22", "Hunter2", ""} {
		ok, err := h.Check(miss, hash)
		if err != nil {
			t.Fatalf("Check(%q): %v", miss, err)
		}
		if ok {
			t.Errorf("Check(%q) = true, want false", miss)
		}
	}
}

func TestPBKDF2Hasher_Check_EmptyPassword(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	hash, err := h.Make("")
	if err != nil {
		t.Fatalf("Make with empty password: %v", err)
	}
	ok, err := h.Check("", hash)
	if err != nil || !ok {
		t.Fatalf("empty password round-trip: ok=%v err=%v", ok, err)
	}
}

func TestPBKDF2Hasher_Check_MalformedHash(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	_, err := h.Check("pw", "not-a-valid-encoding")
	if !errors.Is(err, hashing.ErrMalformedHash) {
		t.Errorf("expected ErrMalformedHash, got %v", err)
	}
}

func TestPBKDF2Hasher_Check_WrongAlgorithm(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	a2h := newTestArgon2idHasher(t)
	hash, _ := a2h.Make("pw")
	_, err := h.Check("pw", hash)
	if !errors.Is(err, hashing.ErrAlgorithmMismatch) {
		t.Errorf("expected ErrAlgorithmMismatch, got %v", err)
	}
}

func TestPBKDF2Hasher_Check_WrongDigest(t *testing.T) {
	sha256H := newTestPBKDF2Hasher(t)
	opts := fastPBKDF2Opts()
	opts.Digest = hashing.PBKDF2SHA512
	sha512H, _ := hashing.NewPBKDF2Hasher(opts)

	hash, _ := sha512H.Make("pw")
	_, err := sha256H.Check("pw", hash)
	if !errors.Is(err, hashing.ErrAlgorithmMismatch) {
		t.Errorf("expected ErrAlgorithmMismatch across digests, got %v", err)
	}
}

func TestPBKDF2Hasher_Check_AfterOptionsChange(t *testing.T) {
	opts := fastPBKDF2Opts()
	h1, _ := hashing.NewPBKDF2Hasher(opts)
	hash, _ := h1.Make("pw")

	opts.Iterations *= 2
	h2, _ := hashing.NewPBKDF2Hasher(opts)
	ok, err := h2.Check("pw", hash)
	if err != nil || !ok {
		t.Fatalf("Check with changed options: ok=%v err=%v", ok, err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// NeedsRehash / Info
// ──────────────────────────────────────────────────────────────────────────────

func TestPBKDF2Hasher_NeedsRehash_SameParams(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	hash, _ := h.Make("pw")
	needs, err := h.NeedsRehash(hash)
	if err != nil || needs {
		t.Errorf("NeedsRehash same params: needs=%v err=%v", needs, err)
	}
}

func TestPBKDF2Hasher_NeedsRehash_DifferentIterations(t *testing.T) {
	opts := fastPBKDF2Opts()
	h1, _ := hashing.NewPBKDF2Hasher(opts)
	hash, _ := h1.Make("pw")

	opts.Iterations *= 2
	h2, _ := hashing.NewPBKDF2Hasher(opts)
	needs, err := h2.NeedsRehash(hash)
	if err != nil || !needs {
		t.Errorf("expected NeedsRehash=true when iterations differ: needs=%v err=%v", needs, err)
	}
}

func TestPBKDF2Hasher_Info(t *testing.T) {
	h := newTestPBKDF2Hasher(t)
	hash, _ := h.Make("pw")
	info, err := h.Info(hash)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Driver != hashing.DriverPBKDF2SHA256 {
		t.Errorf("Driver = %q, want %q", info.Driver, hashing.DriverPBKDF2SHA256)
	}
	if got := info.Params["iterations"].(uint32); got != hashing.MinPBKDF2Iterations {
		t.Errorf("iterations = %d, want %d", got, hashing.MinPBKDF2Iterations)
	}
	if got := info.Params["key_len"].(uint32); got != 16 {
		t.Errorf("key_len = %d, want 16", got)
	}
	if got := info.Params["version"].(int); got != 1 {
		t.Errorf("version = %d, want 1", got)
	}
}

func TestPBKDF2Hasher_SatisfiesHasherInterface(t *testing.T) {
	var _ hashing.Hasher = newTestPBKDF2Hasher(t)
}
