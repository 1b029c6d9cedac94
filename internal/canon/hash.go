// Package canon provides the stable content hash used to put the
// commutative-monoid operands of Or and And into a fixed, deterministic
// order during regex normalization, and to derive cache keys for compiled
// lexers. A single hash primitive is shared across both uses so that
// equal-by-value regex trees always normalize to byte-identical encodings.
package canon

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Hash is a stable 256-bit content digest.
type Hash [32]byte

// Less orders hashes lexicographically by byte value, giving Or/And operand
// lists a total, deterministic order independent of map or slice iteration.
func (h Hash) Less(o Hash) bool {
	for i := range h {
		if h[i] != o[i] {
			return h[i] < o[i]
		}
	}
	return false
}

// Builder accumulates tagged fields into a single blake2b-256 digest. Every
// Write call is length-prefixed so that e.g. writing "ab","c" cannot collide
// with writing "a","bc".
type Builder struct {
	buf []byte
}

// NewBuilder starts a fresh hash accumulation.
func NewBuilder() *Builder {
	return &Builder{}
}

// WriteTag mixes in a small integer discriminant, used to distinguish Regex
// Op variants from each other before mixing in their operands.
func (b *Builder) WriteTag(tag uint8) *Builder {
	return b.WriteBytes([]byte{tag})
}

// WriteUint64 mixes in an integer, such as a rune bound of a Class range.
func (b *Builder) WriteUint64(v uint64) *Builder {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return b.WriteBytes(buf[:])
}

// WriteString mixes in a length-prefixed string.
func (b *Builder) WriteString(s string) *Builder {
	return b.WriteBytes([]byte(s))
}

// WriteHash mixes in a previously computed sub-hash, used to combine the
// hashes of child regexes into their parent's hash without re-hashing the
// children's full structure.
func (b *Builder) WriteHash(h Hash) *Builder {
	return b.WriteBytes(h[:])
}

// WriteBytes mixes in a length-prefixed byte slice.
func (b *Builder) WriteBytes(p []byte) *Builder {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(p)))
	b.buf = append(b.buf, lenBuf[:]...)
	b.buf = append(b.buf, p...)
	return b
}

// Sum finalizes the digest.
func (b *Builder) Sum() Hash {
	return blake2b.Sum256(b.buf)
}

// Of is a convenience for hashing a single byte slice in one call.
func Of(p []byte) Hash {
	return blake2b.Sum256(p)
}
