// Package digest implements SHA-1 (FIPS 180-1) for manifest content hashes
// and blob names.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math/bits"
)

// Size is the length of a SHA-1 digest in bytes.
const Size = 20

// BlockSize is the SHA-1 block size in bytes.
const BlockSize = 64

const (
	init0 = 0x67452301
	init1 = 0xEFCDAB89
	init2 = 0x98BADCFE
	init3 = 0x10325476
	init4 = 0xC3D2E1F0
)

const (
	k0 = 0x5A827999
	k1 = 0x6ED9EBA1
	k2 = 0x8F1BBCDC
	k3 = 0xCA62C1D6
)

type state struct {
	h   [5]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

// New returns a streaming SHA-1 hash.
func New() hash.Hash {
	d := new(state)
	d.Reset()
	return d
}

// Sum returns the SHA-1 digest of data.
func Sum(data []byte) [Size]byte {
	var d state
	d.Reset()
	d.Write(data)
	return d.checkSum()
}

// HexDigest returns the digest of data as 40 lowercase hex characters.
func HexDigest(data []byte) string {
	sum := Sum(data)
	return hex.EncodeToString(sum[:])
}

func (d *state) Reset() {
	d.h = [5]uint32{init0, init1, init2, init3, init4}
	d.nx = 0
	d.len = 0
}

func (d *state) Size() int { return Size }

func (d *state) BlockSize() int { return BlockSize }

func (d *state) Write(p []byte) (int, error) {
	n := len(p)
	d.len += uint64(n)

	if d.nx > 0 {
		c := copy(d.x[d.nx:], p)
		d.nx += c
		p = p[c:]
		if d.nx == BlockSize {
			d.block(d.x[:])
			d.nx = 0
		}
	}
	for len(p) >= BlockSize {
		d.block(p[:BlockSize])
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return n, nil
}

// Sum appends the digest to b without changing the running state.
func (d *state) Sum(b []byte) []byte {
	dup := *d
	sum := dup.checkSum()
	return append(b, sum[:]...)
}

func (d *state) checkSum() [Size]byte {
	bitLen := d.len << 3

	// 0x80, zeros to 56 mod 64, then the 64-bit message length.
	var pad [BlockSize + 8]byte
	pad[0] = 0x80
	padLen := 56 - int(d.len%BlockSize)
	if padLen <= 0 {
		padLen += BlockSize
	}
	binary.BigEndian.PutUint64(pad[padLen:], bitLen)
	d.Write(pad[:padLen+8])

	if d.nx != 0 {
		panic("digest: padding did not end on a block boundary")
	}

	var out [Size]byte
	for i, v := range d.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func (d *state) block(p []byte) {
	var w [80]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(p[i*4:])
	}
	for i := 16; i < 80; i++ {
		w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
	}

	a, b, c, dd, e := d.h[0], d.h[1], d.h[2], d.h[3], d.h[4]
	for i := 0; i < 80; i++ {
		var f, k uint32
		switch {
		case i < 20:
			f = (b & c) | (^b & dd)
			k = k0
		case i < 40:
			f = b ^ c ^ dd
			k = k1
		case i < 60:
			f = (b & c) | (b & dd) | (c & dd)
			k = k2
		default:
			f = b ^ c ^ dd
			k = k3
		}
		t := bits.RotateLeft32(a, 5) + f + e + w[i] + k
		e = dd
		dd = c
		c = bits.RotateLeft32(b, 30)
		b = a
		a = t
	}

	d.h[0] += a
	d.h[1] += b
	d.h[2] += c
	d.h[3] += dd
	d.h[4] += e
}
