// Package gf2 implements packed linear algebra over GF(2): bit vectors, bit
// matrices and permutations of {0, ..., n-1}.
//
// Bits are packed LSB-first into 32-bit words, word 0 first. Bits beyond
// the logical length inside the last word are always zero.
package gf2

import (
	"errors"
	"math/bits"
)

var (
	// ErrDimension reports operands whose sizes do not fit together.
	ErrDimension = errors.New("gf2: dimension mismatch")
	// ErrSingular reports a matrix that has no inverse.
	ErrSingular = errors.New("gf2: matrix is not invertible")
	// ErrEncoding reports a malformed byte encoding.
	ErrEncoding = errors.New("gf2: malformed encoding")
	// ErrNotPermutation reports an index vector that is not a bijection.
	ErrNotPermutation = errors.New("gf2: not a permutation")
)

func wordCount(n int) int {
	return (n + 31) >> 5
}

// lastMask masks the valid bits of the last word of an n-bit row.
func lastMask(n int) uint32 {
	if n&31 == 0 {
		return 0xffffffff
	}
	return (1 << uint(n&31)) - 1
}

// parity folds a word down to its XOR of bits.
func parity(w uint32) uint32 {
	w ^= w >> 16
	w ^= w >> 8
	w ^= w >> 4
	w ^= w >> 2
	w ^= w >> 1
	return w & 1
}

func getBit(words []uint32, i int) uint32 {
	return (words[i>>5] >> uint(i&31)) & 1
}

func setBit(words []uint32, i int) {
	words[i>>5] |= 1 << uint(i&31)
}

// extractBits copies n bits of src starting at bit from into a fresh slice.
func extractBits(src []uint32, from, n int) []uint32 {
	dst := make([]uint32, wordCount(n))
	q, r := from>>5, uint(from&31)
	for w := range dst {
		val := src[q+w] >> r
		if r != 0 && q+w+1 < len(src) {
			val |= src[q+w+1] << (32 - r)
		}
		dst[w] = val
	}
	if len(dst) > 0 {
		dst[len(dst)-1] &= lastMask(n)
	}
	return dst
}

// orBits ors the first n bits of src into dst starting at bit offset off.
func orBits(dst []uint32, off int, src []uint32, n int) {
	mask := lastMask(n)
	q, r := off>>5, uint(off&31)
	last := wordCount(n) - 1
	for w := 0; w <= last; w++ {
		val := src[w]
		if w == last {
			val &= mask
		}
		dst[q+w] |= val << r
		if r != 0 && q+w+1 < len(dst) {
			dst[q+w+1] |= val >> (32 - r)
		}
	}
}

func onesCount(words []uint32) int {
	n := 0
	for _, w := range words {
		n += bits.OnesCount32(w)
	}
	return n
}
