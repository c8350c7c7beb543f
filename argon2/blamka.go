package argon2

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

const (
	// blockWords is the number of 64-bit words per memory block.
	blockWords = 128
	// blockSize is the block size in bytes (1 KiB).
	blockSize = blockWords * 8
)

// block is one 1 KiB cell of the Argon2 memory matrix.
type block [blockWords]uint64

func (b *block) fromBytes(buf *[blockSize]byte) {
	for i := range b {
		b[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
}

func (b *block) toBytes(buf *[blockSize]byte) {
	for i, v := range b {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
}

// compress computes the Argon2 compression function: out = G(in1, in2).
func compress(out, in1, in2 *block) {
	var t block
	for i := range t {
		t[i] = in1[i] ^ in2[i]
	}
	permuteBlock(&t)
	for i := range t {
		out[i] = in1[i] ^ in2[i] ^ t[i]
	}
}

// compressXOR computes out ^= G(in1, in2), used for passes after the first.
func compressXOR(out, in1, in2 *block) {
	var t block
	for i := range t {
		t[i] = in1[i] ^ in2[i]
	}
	permuteBlock(&t)
	for i := range t {
		out[i] ^= in1[i] ^ in2[i] ^ t[i]
	}
}

// permuteBlock applies the BlaMka permutation P to the block, first to each
// of the eight rows of sixteen words, then to eight columns formed from
// word pairs, per RFC 9106 §3.5.
func permuteBlock(t *block) {
	var q [16]uint64

	for i := 0; i < blockWords; i += 16 {
		copy(q[:], t[i:i+16])
		permute(&q)
		copy(t[i:i+16], q[:])
	}

	for i := 0; i < 16; i += 2 {
		for j := 0; j < 8; j++ {
			q[2*j] = t[16*j+i]
			q[2*j+1] = t[16*j+i+1]
		}
		permute(&q)
		for j := 0; j < 8; j++ {
			t[16*j+i] = q[2*j]
			t[16*j+i+1] = q[2*j+1]
		}
	}
}

// permute is one BLAKE2b round with BlaMka quarter-rounds: four column
// applications of G followed by four diagonal ones.
func permute(v *[16]uint64) {
	v[0], v[4], v[8], v[12] = blamkaG(v[0], v[4], v[8], v[12])
	v[1], v[5], v[9], v[13] = blamkaG(v[1], v[5], v[9], v[13])
	v[2], v[6], v[10], v[14] = blamkaG(v[2], v[6], v[10], v[14])
	v[3], v[7], v[11], v[15] = blamkaG(v[3], v[7], v[11], v[15])
	v[0], v[5], v[10], v[15] = blamkaG(v[0], v[5], v[10], v[15])
	v[1], v[6], v[11], v[12] = blamkaG(v[1], v[6], v[11], v[12])
	v[2], v[7], v[8], v[13] = blamkaG(v[2], v[7], v[8], v[13])
	v[3], v[4], v[9], v[14] = blamkaG(v[3], v[4], v[9], v[14])
}

// blamkaG is BLAKE2b's G function with the multiplicative twist
// a + b + 2·lo32(a)·lo32(b), which forces 64-bit multiplier latency into the
// data path and is what makes the compression function compute-hard.
func blamkaG(a, b, c, d uint64) (uint64, uint64, uint64, uint64) {
	a = a + b + 2*(a&0xFFFFFFFF)*(b&0xFFFFFFFF)
	d = bits.RotateLeft64(d^a, -32)
	c = c + d + 2*(c&0xFFFFFFFF)*(d&0xFFFFFFFF)
	b = bits.RotateLeft64(b^c, -24)
	a = a + b + 2*(a&0xFFFFFFFF)*(b&0xFFFFFFFF)
	d = bits.RotateLeft64(d^a, -16)
	c = c + d + 2*(c&0xFFFFFFFF)*(d&0xFFFFFFFF)
	b = bits.RotateLeft64(b^c, -63)
	return a, b, c, d
}

// varHash is H', the variable-length hash of RFC 9106 §3.3: plain BLAKE2b for
// outputs up to 64 bytes, otherwise a chain of BLAKE2b-512 digests emitting
// 32 bytes each with a shorter final digest.
func varHash(out, in []byte) {
	var pre [4]byte
	binary.LittleEndian.PutUint32(pre[:], uint32(len(out)))

	if len(out) <= blake2b.Size {
		h, _ := blake2b.New(len(out), nil)
		h.Write(pre[:])
		h.Write(in)
		h.Sum(out[:0])
		return
	}

	h, _ := blake2b.New512(nil)
	h.Write(pre[:])
	h.Write(in)
	var v [blake2b.Size]byte
	h.Sum(v[:0])
	copy(out, v[:32])
	out = out[32:]

	for len(out) > blake2b.Size {
		h.Reset()
		h.Write(v[:])
		h.Sum(v[:0])
		copy(out, v[:32])
		out = out[32:]
	}

	last, _ := blake2b.New(len(out), nil)
	last.Write(v[:])
	last.Sum(out[:0])
}
