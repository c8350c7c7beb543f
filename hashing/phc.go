package hashing

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file implements the self-describing encoded hash format.  Both
// algorithm families share the same 6-segment, dollar-delimited shape with
// unpadded standard base64 for the binary fields ("$" is not in the base64
// alphabet, so the delimiter can never collide with encoded data):
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>
//	$pbkdf2-sha256$v=1$i=600000$<salt>$<key>
//
// Every parameter needed to recompute the key travels inside the string, so
// verification needs no external configuration.  Encoding is lossless: parse
// returns exactly the parameters, salt, and key bytes that encode received.

// pbkdf2FormatVersion is the version field written into PBKDF2 hash strings.
// It versions the string layout, not the algorithm.
const pbkdf2FormatVersion = 1

// decodedHash holds the fields parsed from an encoded hash string.  Only the
// fields for the parsed driver's family are populated.
type decodedHash struct {
	driver  DriverName
	version uint32

	// Argon2 family.
	memory  uint32
	time    uint32
	threads uint8

	// PBKDF2 family.
	iterations uint32

	salt []byte
	key  []byte
}

func encodeArgon2(driver DriverName, version, memory, time uint32, threads uint8, salt, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		string(driver),
		version,
		memory,
		time,
		threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func encodePBKDF2(driver DriverName, iterations uint32, salt, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$i=%d$%s$%s",
		string(driver),
		pbkdf2FormatVersion,
		iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// decodeHash parses an encoded hash string from either family.
//
// Structural violations return [ErrMalformedHash]; a well-delimited string
// whose algorithm tag is not implemented returns [ErrUnsupportedAlgorithm].
func decodeHash(encoded string) (*decodedHash, error) {
	// Split on "$"; the leading "$" produces an empty first element.
	parts := strings.Split(encoded, "$")
	if len(parts) < 2 || parts[0] != "" {
		return nil, fmt.Errorf("%w: missing leading %q delimiter", ErrMalformedHash, "$")
	}

	driver := DriverName(parts[1])
	switch driver {
	case DriverArgon2i, DriverArgon2id:
		return decodeArgon2Hash(driver, parts)
	case DriverPBKDF2SHA256, DriverPBKDF2SHA512:
		return decodePBKDF2Hash(driver, parts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, parts[1])
	}
}

func decodeArgon2Hash(driver DriverName, parts []string) (*decodedHash, error) {
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 5-segment argon2 string, got %d segments",
			ErrMalformedHash, len(parts)-1)
	}

	version, err := parseKV(parts[2], "v", math.MaxUint32)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	kvs, err := parseParams(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	memory, ok1 := kvs["m"]
	time, ok2 := kvs["t"]
	threads, ok3 := kvs["p"]
	if !ok1 || !ok2 || !ok3 || len(kvs) != 3 {
		return nil, fmt.Errorf("%w: expected exactly m/t/p in parameter segment %q",
			ErrMalformedHash, parts[3])
	}
	if memory > math.MaxUint32 || time > math.MaxUint32 || threads > math.MaxUint8 {
		return nil, fmt.Errorf("%w: parameter out of range in %q", ErrMalformedHash, parts[3])
	}

	salt, key, err := decodeSaltAndKey(parts[4], parts[5])
	if err != nil {
		return nil, err
	}

	return &decodedHash{
		driver:  driver,
		version: uint32(version),
		memory:  uint32(memory),
		time:    uint32(time),
		threads: uint8(threads),
		salt:    salt,
		key:     key,
	}, nil
}

func decodePBKDF2Hash(driver DriverName, parts []string) (*decodedHash, error) {
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 5-segment pbkdf2 string, got %d segments",
			ErrMalformedHash, len(parts)-1)
	}

	version, err := parseKV(parts[2], "v", math.MaxUint32)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	iterations, err := parseKV(parts[3], "i", math.MaxUint32)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}

	salt, key, err := decodeSaltAndKey(parts[4], parts[5])
	if err != nil {
		return nil, err
	}

	return &decodedHash{
		driver:     driver,
		version:    uint32(version),
		iterations: uint32(iterations),
		salt:       salt,
		key:        key,
	}, nil
}

func decodeSaltAndKey(saltSeg, keySeg string) (salt, key []byte, err error) {
	salt, err = base64.RawStdEncoding.DecodeString(saltSeg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid salt base64: %v", ErrMalformedHash, err)
	}
	key, err = base64.RawStdEncoding.DecodeString(keySeg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid key base64: %v", ErrMalformedHash, err)
	}
	return salt, key, nil
}

// parseKV parses a "key=value" segment into a uint64 no greater than maxVal.
func parseKV(s, key string, maxVal uint64) (uint64, error) {
	prefix := key + "="
	if !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("expected %q prefix in %q", prefix, s)
	}
	v, err := strconv.ParseUint(s[len(prefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value in %q: %v", s, err)
	}
	if v > maxVal {
		return 0, fmt.Errorf("value out of range in %q", s)
	}
	return v, nil
}

// parseParams splits "m=65536,t=3,p=2" into a map.
func parseParams(s string) (map[string]uint64, error) {
	out := make(map[string]uint64)
	for _, kv := range strings.Split(s, ",") {
		eq := strings.IndexByte(kv, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("malformed param %q", kv)
		}
		v, err := strconv.ParseUint(kv[eq+1:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric value in %q: %v", kv, err)
		}
		out[kv[:eq]] = v
	}
	return out, nil
}
