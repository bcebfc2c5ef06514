package gf2

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/ppopth/mceliece/random"
)

// Vector is a fixed-length vector over GF(2).
type Vector struct {
	length int
	words  []uint32
}

// NewVector returns the zero vector of the given length.
func NewVector(length int) *Vector {
	if length < 0 {
		panic("gf2: negative vector length")
	}
	return &Vector{length: length, words: make([]uint32, wordCount(length))}
}

// VectorFromWords builds a vector from packed words. Bits beyond length in
// the last word must be zero.
func VectorFromWords(length int, words []uint32) (*Vector, error) {
	if length < 0 || len(words) != wordCount(length) {
		return nil, fmt.Errorf("%w: %d words for %d bits", ErrDimension, len(words), length)
	}
	if len(words) > 0 && words[len(words)-1]&^lastMask(length) != 0 {
		return nil, fmt.Errorf("%w: unused bits set", ErrEncoding)
	}
	v := NewVector(length)
	copy(v.words, words)
	return v, nil
}

// NewRandomVector returns a uniformly random vector.
func NewRandomVector(length int, src random.Source) *Vector {
	v := NewVector(length)
	for i := range v.words {
		v.words[i] = uint32(src.NextLong())
	}
	v.mask()
	return v
}

// NewRandomWeightVector returns a uniformly random vector of Hamming weight
// exactly weight.
func NewRandomWeightVector(length, weight int, src random.Source) (*Vector, error) {
	if weight < 0 || weight > length {
		return nil, fmt.Errorf("%w: weight %d for length %d", ErrDimension, weight, length)
	}
	v := NewVector(length)
	pool := make([]int, length)
	for i := range pool {
		pool[i] = i
	}
	m := length
	for i := 0; i < weight; i++ {
		j := src.NextInt(m)
		v.SetBit(pool[j])
		m--
		pool[j] = pool[m]
	}
	return v, nil
}

// VectorFromBytes decodes the little-endian encoding produced by Bytes.
func VectorFromBytes(length int, enc []byte) (*Vector, error) {
	if length < 0 || len(enc) != (length+7)>>3 {
		return nil, fmt.Errorf("%w: %d bytes for %d bits", ErrEncoding, len(enc), length)
	}
	v := NewVector(length)
	for i, b := range enc {
		v.words[i>>2] |= uint32(b) << (8 * uint(i&3))
	}
	if len(v.words) > 0 && v.words[len(v.words)-1]&^lastMask(length) != 0 {
		return nil, fmt.Errorf("%w: unused bits set", ErrEncoding)
	}
	return v, nil
}

// Bytes returns the little-endian encoding of v in ceil(len/8) bytes.
func (v *Vector) Bytes() []byte {
	out := make([]byte, (v.length+7)>>3)
	for i := range out {
		out[i] = byte(v.words[i>>2] >> (8 * uint(i&3)))
	}
	return out
}

func (v *Vector) mask() {
	if len(v.words) > 0 {
		v.words[len(v.words)-1] &= lastMask(v.length)
	}
}

// Len returns the number of bits in v.
func (v *Vector) Len() int {
	return v.length
}

// Words returns a copy of the packed words.
func (v *Vector) Words() []uint32 {
	return append([]uint32(nil), v.words...)
}

// Bit returns bit i as 0 or 1.
func (v *Vector) Bit(i int) uint {
	v.checkIndex(i)
	return uint(getBit(v.words, i))
}

// SetBit sets bit i to 1.
func (v *Vector) SetBit(i int) {
	v.checkIndex(i)
	setBit(v.words, i)
}

// ClearBit sets bit i to 0.
func (v *Vector) ClearBit(i int) {
	v.checkIndex(i)
	v.words[i>>5] &^= 1 << uint(i&31)
}

// FlipBit toggles bit i.
func (v *Vector) FlipBit(i int) {
	v.checkIndex(i)
	v.words[i>>5] ^= 1 << uint(i&31)
}

func (v *Vector) checkIndex(i int) {
	if i < 0 || i >= v.length {
		panic(fmt.Sprintf("gf2: bit index %d out of range [0,%d)", i, v.length))
	}
}

// HammingWeight returns the number of set bits.
func (v *Vector) HammingWeight() int {
	return onesCount(v.words)
}

// HammingWeightRatio returns the fraction of set bits.
func (v *Vector) HammingWeightRatio() float64 {
	if v.length == 0 {
		return 0
	}
	return float64(v.HammingWeight()) / float64(v.length)
}

// IsZero reports whether every bit is zero.
func (v *Vector) IsZero() bool {
	for _, w := range v.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether v and o have the same length and bits.
func (v *Vector) Equal(o *Vector) bool {
	if o == nil || v.length != o.length {
		return false
	}
	for i := range v.words {
		if v.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of v.
func (v *Vector) Clone() *Vector {
	return &Vector{length: v.length, words: append([]uint32(nil), v.words...)}
}

// Add returns v + o.
func (v *Vector) Add(o *Vector) (*Vector, error) {
	res := v.Clone()
	if err := res.AddInPlace(o); err != nil {
		return nil, err
	}
	return res, nil
}

// AddInPlace sets v to v + o.
func (v *Vector) AddInPlace(o *Vector) error {
	if v.length != o.length {
		return fmt.Errorf("%w: adding %d-bit and %d-bit vectors", ErrDimension, v.length, o.length)
	}
	for i := range v.words {
		v.words[i] ^= o.words[i]
	}
	return nil
}

// Permute returns the vector whose bit i is bit p[i] of v.
func (v *Vector) Permute(p *Permutation) (*Vector, error) {
	if p.Len() != v.length {
		return nil, fmt.Errorf("%w: permutation of %d on %d bits", ErrDimension, p.Len(), v.length)
	}
	res := NewVector(v.length)
	for i, src := range p.perm {
		if getBit(v.words, src) != 0 {
			setBit(res.words, i)
		}
	}
	return res, nil
}

// ExtractVector returns the vector whose bit i is bit indices[i] of v.
func (v *Vector) ExtractVector(indices []int) (*Vector, error) {
	res := NewVector(len(indices))
	for i, j := range indices {
		if j < 0 || j >= v.length {
			return nil, fmt.Errorf("%w: index %d outside %d bits", ErrDimension, j, v.length)
		}
		if getBit(v.words, j) != 0 {
			setBit(res.words, i)
		}
	}
	return res, nil
}

// ExtractLeft returns the first k bits of v.
func (v *Vector) ExtractLeft(k int) (*Vector, error) {
	if k < 0 || k > v.length {
		return nil, fmt.Errorf("%w: left %d of %d bits", ErrDimension, k, v.length)
	}
	return &Vector{length: k, words: extractBits(v.words, 0, k)}, nil
}

// ExtractRight returns the last k bits of v.
func (v *Vector) ExtractRight(k int) (*Vector, error) {
	if k < 0 || k > v.length {
		return nil, fmt.Errorf("%w: right %d of %d bits", ErrDimension, k, v.length)
	}
	return &Vector{length: k, words: extractBits(v.words, v.length-k, k)}, nil
}

// Concat returns the vector v followed by o.
func (v *Vector) Concat(o *Vector) *Vector {
	res := NewVector(v.length + o.length)
	copy(res.words, v.words)
	if o.length > 0 {
		orBits(res.words, v.length, o.words, o.length)
	}
	return res
}

// SetBits calls fn with the index of every set bit in increasing order.
func (v *Vector) SetBits(fn func(i int)) {
	for q, w := range v.words {
		for w != 0 {
			fn(q<<5 + bits.TrailingZeros32(w))
			w &= w - 1
		}
	}
}

// String renders v as a string of 0s and 1s, bit 0 first.
func (v *Vector) String() string {
	var sb strings.Builder
	sb.Grow(v.length)
	for i := 0; i < v.length; i++ {
		if getBit(v.words, i) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
