package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	ok, err := hasher.Check(password, hash)
//	if errors.Is(err, hashing.ErrMalformedHash) {
//	    // hash string is structurally invalid
//	}
//
// A verification mismatch is never an error: Check returns (false, nil) when
// the password simply does not match.  Entropy failures surface as wrapped
// [github.com/hasbyte1/go-password-kdf/salt.ErrEntropyUnavailable]; an
// oversized Argon2 workspace as wrapped
// [github.com/hasbyte1/go-password-kdf/argon2.ErrWorkspaceTooLarge].
var (
	// ErrInvalidParams is returned when a constructor is called with a cost,
	// length, or digest value outside the allowed range.  Always recoverable
	// by adjusting the inputs.
	ErrInvalidParams = errors.New("hashing: invalid parameter value")

	// ErrMalformedHash is returned when a hash string cannot be parsed:
	// wrong segment count, non-numeric parameter, or invalid base64.
	ErrMalformedHash = errors.New("hashing: malformed hash string")

	// ErrUnsupportedAlgorithm is returned when a hash string carries an
	// algorithm tag or version this package does not implement.  Rejecting
	// the tag outright beats silently misinterpreting the remaining bytes.
	ErrUnsupportedAlgorithm = errors.New("hashing: unsupported algorithm tag")

	// ErrAlgorithmMismatch is returned by a [Hasher]'s Check, NeedsRehash, or
	// Info method when the hash string was produced by a different algorithm
	// than the one implemented by that hasher.
	ErrAlgorithmMismatch = errors.New("hashing: hash was produced by a different algorithm")

	// ErrDriverNotFound is returned by [Manager.Driver] or indirectly by
	// [Manager.Make] / [Manager.Check] when the requested driver has not been
	// registered.
	ErrDriverNotFound = errors.New("hashing: driver not found")

	// ErrEmptyDriverName is returned by [Manager.RegisterDriver] when the
	// supplied driver name is an empty string.
	ErrEmptyDriverName = errors.New("hashing: driver name must not be empty")

	// ErrNilHasher is returned by [Manager.RegisterDriver] when a nil [Hasher]
	// is supplied.
	ErrNilHasher = errors.New("hashing: hasher must not be nil")
)
