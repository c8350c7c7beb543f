// Package argon2 implements the Argon2 memory-hard key derivation function
// (RFC 9106) from first principles, in the Argon2i and Argon2id variants.
//
// # Construction
//
// Argon2 fills a large matrix of 1 KiB blocks, sliced into p lanes and four
// synchronisation segments per pass.  Each block is produced by compressing
// its predecessor with a pseudo-randomly referenced earlier block.  Argon2i
// picks references data-independently (side-channel resistant); Argon2id uses
// data-independent addressing for the first half of the first pass and
// data-dependent addressing thereafter, which is the variant recommended for
// password hashing.
//
// # Usage
//
// Most callers want the hashing package in this module, which wraps this core
// with salt generation and the PHC string format.  Use this package directly
// when you need raw derived keys:
//
//	key, err := argon2.IDKey([]byte("secret"), salt, argon2.Params{
//	    Memory:  64 * 1024, // KiB
//	    Time:    3,
//	    Threads: 2,
//	    KeyLen:  32,
//	})
//
// Identical inputs always produce identical keys, which is what makes later
// verification possible.  Each call allocates its own workspace, so concurrent
// calls need no coordination.  The workspace holds password-derived state and
// is zeroed before Key returns, on every exit path.
package argon2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Version is the Argon2 specification version produced and accepted by this
// package (0x13 = 19).
const Version = 0x13

const (
	syncPoints = 4

	// minKeyLen is the smallest tag length permitted by RFC 9106.
	minKeyLen = 4

	// minSaltLen is the smallest salt length permitted by RFC 9106.
	minSaltLen = 8

	// maxMemoryKiB caps the workspace at 4 GiB.  A request above the cap is
	// reported as an allocation failure before any memory is reserved, since
	// a failed allocation inside the Go runtime cannot be recovered as an
	// error value.
	maxMemoryKiB = 4 << 20
)

// Variant selects the Argon2 flavour.  The numeric values are the mode
// identifiers hashed into H0, as assigned by RFC 9106.
type Variant int

const (
	// Argon2i uses data-independent memory addressing throughout.
	Argon2i Variant = 1
	// Argon2id is the hybrid variant recommended for password hashing.
	Argon2id Variant = 2
)

// String returns the lowercase algorithm name used in encoded hash strings.
func (v Variant) String() string {
	switch v {
	case Argon2i:
		return "argon2i"
	case Argon2id:
		return "argon2id"
	default:
		return fmt.Sprintf("argon2(%d)", int(v))
	}
}

// Sentinel errors returned by this package.  Use [errors.Is] for comparisons.
var (
	// ErrInvalidParams is returned when a cost parameter, the key length, or
	// the salt length falls outside the ranges permitted by RFC 9106.
	ErrInvalidParams = errors.New("argon2: invalid parameters")

	// ErrWorkspaceTooLarge is returned when the requested memory cost exceeds
	// the largest workspace this package will attempt to allocate.
	ErrWorkspaceTooLarge = errors.New("argon2: memory workspace too large to allocate")
)

// Params holds the Argon2 cost parameters.
//
// Every field is encoded into hash strings by the hashing package, so changing
// values here only affects newly derived keys.
type Params struct {
	// Memory is the memory cost in KiB.  Minimum: 8 × Threads.
	Memory uint32

	// Time is the number of passes over the memory matrix.  Minimum: 1.
	Time uint32

	// Threads is the number of lanes (degree of parallelism).  Minimum: 1.
	Threads uint8

	// KeyLen is the derived key length in bytes.  Minimum: 4.
	KeyLen uint32
}

// Validate reports whether the parameter set is usable.  Violations return
// [ErrInvalidParams]; a memory cost beyond the workspace cap returns
// [ErrWorkspaceTooLarge].
func (p Params) Validate() error {
	if p.Time < 1 {
		return fmt.Errorf("%w: time must be ≥ 1, got %d", ErrInvalidParams, p.Time)
	}
	if p.Threads < 1 {
		return fmt.Errorf("%w: threads must be ≥ 1, got %d", ErrInvalidParams, p.Threads)
	}
	if p.Memory < 8*uint32(p.Threads) {
		return fmt.Errorf("%w: memory (%d KiB) must be ≥ 8×threads (%d KiB)",
			ErrInvalidParams, p.Memory, 8*uint32(p.Threads))
	}
	if p.Memory > maxMemoryKiB {
		return fmt.Errorf("%w: %d KiB requested, cap is %d KiB",
			ErrWorkspaceTooLarge, p.Memory, maxMemoryKiB)
	}
	if p.KeyLen < minKeyLen {
		return fmt.Errorf("%w: key length must be ≥ %d, got %d",
			ErrInvalidParams, minKeyLen, p.KeyLen)
	}
	return nil
}

// IKey derives a key from password and salt using Argon2i.
func IKey(password, salt []byte, p Params) ([]byte, error) {
	return Key(Argon2i, password, salt, p)
}

// IDKey derives a key from password and salt using Argon2id.
func IDKey(password, salt []byte, p Params) ([]byte, error) {
	return Key(Argon2id, password, salt, p)
}

// Key derives a key of p.KeyLen bytes from password and salt using the given
// Argon2 variant.  An empty password is valid input; the salt must be at
// least 8 bytes.
//
// The 1 KiB-block workspace (p.Memory KiB, rounded down to a multiple of
// 4×Threads blocks) lives only for the duration of the call and is zeroed
// before return.
func Key(variant Variant, password, salt []byte, p Params) ([]byte, error) {
	if variant != Argon2i && variant != Argon2id {
		return nil, fmt.Errorf("%w: unsupported variant %d", ErrInvalidParams, int(variant))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) < minSaltLen {
		return nil, fmt.Errorf("%w: salt must be ≥ %d bytes, got %d",
			ErrInvalidParams, minSaltLen, len(salt))
	}

	threads := uint32(p.Threads)

	// Round the block count down to a multiple of 4×threads so every lane
	// holds a whole number of equally sized segments.  Validation guarantees
	// at least two blocks per segment remain.
	memory := p.Memory / (syncPoints * threads) * (syncPoints * threads)

	h0 := initHash(variant, password, salt, p)
	B := make([]block, memory)
	defer clear(B)

	initBlocks(&h0, B, memory, threads)
	fillMemory(B, variant, p.Time, memory, threads)
	return extractKey(B, memory, threads, p.KeyLen), nil
}

// initHash computes H0, the 64-byte seed from which each lane's first two
// blocks are derived.  The trailing 8 bytes of the returned buffer are
// scratch space for the block index and lane index appended by initBlocks.
func initHash(variant Variant, password, salt []byte, p Params) [blake2b.Size + 8]byte {
	var (
		h0  [blake2b.Size + 8]byte
		tmp [4]byte
	)

	h, _ := blake2b.New512(nil)
	le32 := func(v uint32) {
		binary.LittleEndian.PutUint32(tmp[:], v)
		h.Write(tmp[:])
	}

	le32(uint32(p.Threads))
	le32(p.KeyLen)
	le32(p.Memory)
	le32(p.Time)
	le32(Version)
	le32(uint32(variant))
	le32(uint32(len(password)))
	h.Write(password)
	le32(uint32(len(salt)))
	h.Write(salt)
	le32(0) // no secret key
	le32(0) // no associated data
	h.Sum(h0[:0])
	return h0
}

// initBlocks seeds the first two blocks of every lane from
// H'(H0 ‖ LE32(blockIndex) ‖ LE32(lane)).
func initBlocks(h0 *[blake2b.Size + 8]byte, B []block, memory, threads uint32) {
	var buf [blockSize]byte
	laneLen := memory / threads
	for lane := uint32(0); lane < threads; lane++ {
		binary.LittleEndian.PutUint32(h0[blake2b.Size+4:], lane)
		for i := uint32(0); i < 2; i++ {
			binary.LittleEndian.PutUint32(h0[blake2b.Size:], i)
			varHash(buf[:], h0[:])
			B[lane*laneLen+i].fromBytes(&buf)
		}
	}
	clear(buf[:])
}

// fillMemory runs the pass/slice/lane schedule.  Lanes within a slice are
// independent and run on their own goroutines; slices are the sync points at
// which all lanes must have caught up before any lane may continue.
func fillMemory(B []block, variant Variant, time, memory, threads uint32) {
	laneLen := memory / threads
	segLen := laneLen / syncPoints

	for pass := uint32(0); pass < time; pass++ {
		for slice := uint32(0); slice < syncPoints; slice++ {
			var wg sync.WaitGroup
			for lane := uint32(0); lane < threads; lane++ {
				wg.Add(1)
				go func(lane uint32) {
					defer wg.Done()
					fillSegment(B, variant, pass, slice, lane, time, memory, laneLen, segLen, threads)
				}(lane)
			}
			wg.Wait()
		}
	}
}

// fillSegment computes one lane's share of one slice.
func fillSegment(B []block, variant Variant, pass, slice, lane, time, memory, laneLen, segLen, threads uint32) {
	var addr, in, zero block

	// Argon2i addresses every block data-independently; Argon2id does so only
	// for the first two slices of the first pass.
	dataIndependent := variant == Argon2i ||
		(variant == Argon2id && pass == 0 && slice < syncPoints/2)
	if dataIndependent {
		in[0] = uint64(pass)
		in[1] = uint64(lane)
		in[2] = uint64(slice)
		in[3] = uint64(memory)
		in[4] = uint64(time)
		in[5] = uint64(variant)
	}

	index := uint32(0)
	if pass == 0 && slice == 0 {
		// Blocks 0 and 1 of each lane were seeded from H0.
		index = 2
		if dataIndependent {
			in[6]++
			compress(&addr, &in, &zero)
			compress(&addr, &addr, &zero)
		}
	}

	offset := lane*laneLen + slice*segLen + index
	var rand uint64
	for ; index < segLen; index, offset = index+1, offset+1 {
		prev := offset - 1
		if index == 0 && slice == 0 {
			prev += laneLen // wrap to the lane's last block
		}

		if dataIndependent {
			if index%blockWords == 0 {
				in[6]++
				compress(&addr, &in, &zero)
				compress(&addr, &addr, &zero)
			}
			rand = addr[index%blockWords]
		} else {
			rand = B[prev][0]
		}

		ref := refBlockIndex(rand, laneLen, segLen, threads, pass, slice, lane, index)
		if pass == 0 {
			compress(&B[offset], &B[prev], &B[ref])
		} else {
			compressXOR(&B[offset], &B[prev], &B[ref])
		}
	}
}

// refBlockIndex maps the 64-bit pseudo-random word drawn for a block onto the
// absolute index of its reference block, per RFC 9106 §3.4: the upper 32 bits
// select the reference lane, the lower 32 bits are squashed non-uniformly
// (favouring recent blocks) over the window of blocks that are legal to
// reference from (pass, slice, index).
func refBlockIndex(rand uint64, laneLen, segLen, threads, pass, slice, lane, index uint32) uint32 {
	refLane := uint32(rand>>32) % threads
	if pass == 0 && slice == 0 {
		// The first slice may only reference its own lane.
		refLane = lane
	}

	// Size of the referenceable window and its starting offset in the lane.
	area := 3 * segLen
	start := ((slice + 1) % syncPoints) * segLen
	if lane == refLane {
		area += index
	}
	if pass == 0 {
		area = slice * segLen
		start = 0
		if slice == 0 || lane == refLane {
			area += index
		}
	}
	if index == 0 || lane == refLane {
		area-- // the previous block is never a legal reference
	}

	// x = rand_lo² / 2⁶⁴ scaled over the window, biased toward recent blocks.
	x := rand & 0xFFFFFFFF
	x = (x * x) >> 32
	x = (x * uint64(area)) >> 32
	pos := uint32((uint64(start) + uint64(area) - (x + 1)) % uint64(laneLen))
	return refLane*laneLen + pos
}

// extractKey XORs the last block of every lane and runs H' over the result to
// produce keyLen output bytes.
func extractKey(B []block, memory, threads, keyLen uint32) []byte {
	laneLen := memory / threads
	final := &B[memory-1] // last block of the last lane
	for lane := uint32(0); lane < threads-1; lane++ {
		for i, v := range B[lane*laneLen+laneLen-1] {
			final[i] ^= v
		}
	}

	var buf [blockSize]byte
	final.toBytes(&buf)
	key := make([]byte, keyLen)
	varHash(key, buf[:])
	clear(buf[:])
	return key
}
