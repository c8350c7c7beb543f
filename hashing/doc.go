// Package hashing provides extensible password hashing over the from-scratch
// KDF cores in this module.
//
// # Architecture
//
// The central abstraction is the [Hasher] interface. Four drivers ship with
// this package:
//
//   - [Argon2idHasher] — Argon2id (recommended for new systems; memory-hard,
//     resists both side-channel and time-memory trade-off attacks)
//   - [Argon2iHasher] — Argon2i (memory-hard; use Argon2id for new systems)
//   - [PBKDF2Hasher] with SHA-256 or SHA-512 — iterative HMAC derivation
//     (compute-hard; for interoperability and FIPS-constrained deployments)
//
// All implement [Hasher], so callers can depend on the interface rather than
// a concrete type — the strategy pattern.
//
// The [Manager] is a named driver registry and dispatcher. Register one or
// more [Hasher] implementations, designate a default driver, then delegate
// all hashing operations through the [Manager].
//
// # Quick start
//
//	m, err := hashing.NewDefaultManager() // Argon2id default, all drivers registered
//	if err != nil { log.Fatal(err) }
//
//	hash, _ := m.Make("my-secret-password")
//	ok, _   := m.Check("my-secret-password", hash) // true
//
// # Security defaults
//
//   - Argon2id / Argon2i: m=64 MiB, t=3 iterations, p=2 threads, 32-byte key,
//     16-byte salt. Exceeds OWASP ASVS Level 2 (m≥19 MiB, t≥2, p≥1).
//   - PBKDF2: 600,000 iterations (HMAC-SHA-256), 32-byte key, 16-byte salt.
//
// # Cross-driver migration
//
// Call [Manager.NeedsRehash] on every successful login. It returns true when
// the stored hash was produced by a different driver or with different
// parameters than the current default. Re-hash and persist immediately:
//
//	ok, _ := m.CheckWithDetect(password, storedHash)
//	if ok {
//	    if needs, _ := m.NeedsRehash(storedHash); needs {
//	        newHash, _ := m.Make(password)
//	        persist(userID, newHash)
//	    }
//	}
//
// # Hash format
//
// Hashes are stored as self-describing dollar-delimited strings:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<base64-salt>$<base64-key>
//	$pbkdf2-sha256$v=1$i=600000$<base64-salt>$<base64-key>
//
// All parameters are self-contained in the string, so no external
// configuration is needed to verify a previously produced hash. Verification
// failures are a boolean false, never an error; errors are reserved for
// structural problems ([ErrMalformedHash], [ErrUnsupportedAlgorithm]) and
// invalid inputs ([ErrInvalidParams]).
//
// # Choosing parameters
//
// Argon2 hashing legitimately takes tens to hundreds of milliseconds at the
// default cost — that is the point. Invoke it off any latency-sensitive path
// (a worker goroutine rather than a request handler); the hashers themselves
// impose no timeout and run each call to completion.
package hashing
