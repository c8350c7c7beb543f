// Package pbkdf2 implements PBKDF2 (RFC 8018 §5.2), the iterative HMAC-based
// key derivation function.
//
// The derivation is deterministic: identical password, salt, iteration count,
// digest, and key length always produce identical output.  No state survives
// a call, so concurrent derivations need no coordination.
//
// Unlike Argon2, PBKDF2 is compute-hard but not memory-hard; prefer the
// argon2 package in this module for new password stores and reserve PBKDF2
// for interoperability with existing ones.
//
//	key, err := pbkdf2.Key([]byte("secret"), salt, 600_000, 32, sha256.New)
package pbkdf2

import (
	"crypto/hmac"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
)

// ErrInvalidParams is returned when the iteration count, key length, or
// digest constructor is unusable.  Use [errors.Is] for comparisons.
var ErrInvalidParams = errors.New("pbkdf2: invalid parameters")

// Key derives keyLen bytes from password and salt.
//
// For each output block i (1-based), U1 = HMAC(password, salt ‖ BE32(i)) and
// Uj = HMAC(password, U(j-1)); the block is the XOR of U1..U(iterations).
// Blocks are concatenated and truncated to keyLen.
//
// iterations and keyLen must both be at least 1.  Any iteration count is
// accepted here so that published test vectors remain computable; production
// floors are policy, enforced by the hashing package's options.
func Key(password, salt []byte, iterations, keyLen int, digest func() hash.Hash) ([]byte, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be ≥ 1, got %d", ErrInvalidParams, iterations)
	}
	if keyLen < 1 {
		return nil, fmt.Errorf("%w: key length must be ≥ 1, got %d", ErrInvalidParams, keyLen)
	}
	if digest == nil {
		return nil, fmt.Errorf("%w: nil digest constructor", ErrInvalidParams)
	}

	prf := hmac.New(digest, password)
	hashLen := prf.Size()
	numBlocks := (keyLen + hashLen - 1) / hashLen

	var ctr [4]byte
	dk := make([]byte, 0, numBlocks*hashLen)
	u := make([]byte, hashLen)
	for blk := 1; blk <= numBlocks; blk++ {
		prf.Reset()
		prf.Write(salt)
		binary.BigEndian.PutUint32(ctr[:], uint32(blk))
		prf.Write(ctr[:])
		dk = prf.Sum(dk)

		// t accumulates the XOR of U1..Un in place.
		t := dk[len(dk)-hashLen:]
		copy(u, t)
		for n := 2; n <= iterations; n++ {
			prf.Reset()
			prf.Write(u)
			u = prf.Sum(u[:0])
			for i := range t {
				t[i] ^= u[i]
			}
		}
	}
	clear(u)
	return dk[:keyLen], nil
}
