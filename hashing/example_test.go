package hashing_test

import (
	"fmt"
	"log"

	"github.com/hasbyte1/go-password-kdf/hashing"
)

// Example_defaultManager demonstrates the recommended out-of-the-box setup.
func Example_defaultManager() {
	// NewDefaultManager registers argon2i, argon2id, pbkdf2-sha256, and
	// pbkdf2-sha512.  The default driver is argon2id.
	m, err := hashing.NewDefaultManager()
	if err != nil {
		log.Fatal(err)
	}

	hash, err := m.Make("my-secret-password")
	if err != nil {
		log.Fatal(err)
	}

	ok, err := m.Check("my-secret-password", hash)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(ok)
	// Output: true
}

// Example_argon2idHasher demonstrates the Argon2id hasher directly.
func Example_argon2idHasher() {
	opts := hashing.Argon2Options{
		Memory:  64 * 1024, // 64 MiB
		Time:    3,
		Threads: 2,
		KeyLen:  32,
		SaltLen: 16,
	}
	h, err := hashing.NewArgon2idHasher(opts)
	if err != nil {
		log.Fatal(err)
	}

	hash, _ := h.Make("hunter2")
	ok, _ := h.Check("hunter2", hash)
	fmt.Println(ok)
	// Output: true
}

// Example_pbkdf2Hasher demonstrates the PBKDF2 hasher directly.
func Example_pbkdf2Hasher() {
	h, err := hashing.NewPBKDF2Hasher(hashing.DefaultPBKDF2Options())
	if err != nil {
		log.Fatal(err)
	}

	hash, _ := h.Make("hunter2")
	ok, _ := h.Check("hunter2", hash)
	fmt.Println(ok)
	// Output: true
}

// Example_migration demonstrates moving an existing PBKDF2 hash store to
// Argon2id without forcing password resets.
func Example_migration() {
	m, _ := hashing.NewDefaultManager() // default driver: argon2id

	// A hash produced long ago by a PBKDF2-based system.
	legacy, _ := hashing.NewPBKDF2Hasher(hashing.DefaultPBKDF2Options())
	storedHash, _ := legacy.Make("user-password")

	// On login: verify with whichever driver produced the stored hash.
	ok, _ := m.CheckWithDetect("user-password", storedHash)
	if !ok {
		log.Fatal("login rejected")
	}

	// The hash predates the current default driver, so it needs a rehash.
	needs, _ := m.NeedsRehash(storedHash)
	fmt.Println(needs)
	// Output: true
}
