// Package gf2x implements arbitrary-length polynomials over GF(2).
//
// A Polynomial keeps its coefficients packed LSB-first in 32-bit words: the
// coefficient of x^i is bit i. Its nominal length may exceed degree+1; Trim
// shrinks it to the true degree. Bits at or above the nominal length are
// always zero.
package gf2x

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"

	"github.com/ppopth/mceliece/random"
)

var (
	// ErrDivisionByZero reports a division or reduction by the zero polynomial.
	ErrDivisionByZero = errors.New("gf2x: division by zero polynomial")
	// ErrEncoding reports a malformed word or byte encoding.
	ErrEncoding = errors.New("gf2x: malformed encoding")
)

// Polynomial is a polynomial over GF(2).
type Polynomial struct {
	length int
	words  []uint32
}

func wordCount(n int) int {
	return (n + 31) >> 5
}

func lastMask(n int) uint32 {
	if n&31 == 0 {
		return 0xffffffff
	}
	return (1 << uint(n&31)) - 1
}

// New returns the zero polynomial with the given nominal length.
func New(length int) *Polynomial {
	if length < 0 {
		panic("gf2x: negative polynomial length")
	}
	return &Polynomial{length: length, words: make([]uint32, wordCount(length))}
}

// One returns the constant polynomial 1.
func One(length int) *Polynomial {
	p := New(max(length, 1))
	p.words[0] = 1
	return p
}

// X returns the polynomial x.
func X(length int) *Polynomial {
	p := New(max(length, 2))
	p.words[0] = 2
	return p
}

// AllOnes returns 1 + x + ... + x^(length-1).
func AllOnes(length int) *Polynomial {
	p := New(length)
	for i := range p.words {
		p.words[i] = 0xffffffff
	}
	p.mask()
	return p
}

// FromUint64 returns the polynomial whose coefficients are the bits of v.
func FromUint64(v uint64) *Polynomial {
	p := New(bits.Len64(v))
	for i := range p.words {
		p.words[i] = uint32(v >> (32 * uint(i)))
	}
	return p
}

// FromWords builds a polynomial from packed words.
func FromWords(length int, words []uint32) (*Polynomial, error) {
	if length < 0 || len(words) != wordCount(length) {
		return nil, fmt.Errorf("%w: %d words for length %d", ErrEncoding, len(words), length)
	}
	if len(words) > 0 && words[len(words)-1]&^lastMask(length) != 0 {
		return nil, fmt.Errorf("%w: bits set beyond length %d", ErrEncoding, length)
	}
	return &Polynomial{length: length, words: append([]uint32(nil), words...)}, nil
}

// FromBytes decodes the big-endian encoding produced by Bytes.
func FromBytes(length int, enc []byte) (*Polynomial, error) {
	if length < 0 || len(enc) != (length+7)>>3 {
		return nil, fmt.Errorf("%w: %d bytes for length %d", ErrEncoding, len(enc), length)
	}
	p := New(length)
	for i := range enc {
		b := enc[len(enc)-1-i]
		p.words[i>>2] |= uint32(b) << (8 * uint(i&3))
	}
	if len(p.words) > 0 && p.words[len(p.words)-1]&^lastMask(length) != 0 {
		return nil, fmt.Errorf("%w: bits set beyond length %d", ErrEncoding, length)
	}
	return p, nil
}

// Random returns a uniformly random polynomial of the given nominal length.
func Random(length int, src random.Source) *Polynomial {
	p := New(length)
	for i := range p.words {
		p.words[i] = uint32(src.NextLong())
	}
	p.mask()
	return p
}

// Bytes encodes p big-endian in ceil(length/8) bytes.
func (p *Polynomial) Bytes() []byte {
	out := make([]byte, (p.length+7)>>3)
	for i := range out {
		out[len(out)-1-i] = byte(p.words[i>>2] >> (8 * uint(i&3)))
	}
	return out
}

func (p *Polynomial) mask() {
	if len(p.words) > 0 {
		p.words[len(p.words)-1] &= lastMask(p.length)
	}
}

// Len returns the nominal bit length.
func (p *Polynomial) Len() int {
	return p.length
}

// Words returns a copy of the packed words.
func (p *Polynomial) Words() []uint32 {
	return append([]uint32(nil), p.words...)
}

// Bit returns the coefficient of x^i. Coefficients beyond the nominal
// length are zero.
func (p *Polynomial) Bit(i int) uint {
	if i < 0 {
		panic(fmt.Sprintf("gf2x: negative bit index %d", i))
	}
	if i >= p.length {
		return 0
	}
	return uint(p.words[i>>5]>>uint(i&31)) & 1
}

// SetBit sets the coefficient of x^i, growing p if needed.
func (p *Polynomial) SetBit(i int) {
	if i < 0 {
		panic(fmt.Sprintf("gf2x: negative bit index %d", i))
	}
	p.Expand(i + 1)
	p.words[i>>5] |= 1 << uint(i&31)
}

// ClearBit clears the coefficient of x^i.
func (p *Polynomial) ClearBit(i int) {
	if i < 0 {
		panic(fmt.Sprintf("gf2x: negative bit index %d", i))
	}
	if i < p.length {
		p.words[i>>5] &^= 1 << uint(i&31)
	}
}

// FlipBit toggles the coefficient of x^i, growing p if needed.
func (p *Polynomial) FlipBit(i int) {
	if i < 0 {
		panic(fmt.Sprintf("gf2x: negative bit index %d", i))
	}
	p.Expand(i + 1)
	p.words[i>>5] ^= 1 << uint(i&31)
}

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p *Polynomial) Degree() int {
	for i := len(p.words) - 1; i >= 0; i-- {
		if w := p.words[i]; w != 0 {
			return i<<5 + bits.Len32(w) - 1
		}
	}
	return -1
}

// Trim shrinks the nominal length of p to degree+1 and returns p.
func (p *Polynomial) Trim() *Polynomial {
	p.length = p.Degree() + 1
	p.words = p.words[:wordCount(p.length)]
	return p
}

// Expand grows the nominal length of p to at least n.
func (p *Polynomial) Expand(n int) {
	if n <= p.length {
		return
	}
	if wc := wordCount(n); wc > len(p.words) {
		words := make([]uint32, wc)
		copy(words, p.words)
		p.words = words
	}
	p.length = n
}

// Clone returns a deep copy of p.
func (p *Polynomial) Clone() *Polynomial {
	return &Polynomial{length: p.length, words: append([]uint32(nil), p.words...)}
}

// IsZero reports whether p is the zero polynomial.
func (p *Polynomial) IsZero() bool {
	for _, w := range p.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsOne reports whether p is the constant 1.
func (p *Polynomial) IsOne() bool {
	if len(p.words) == 0 || p.words[0] != 1 {
		return false
	}
	for _, w := range p.words[1:] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether p and o are the same polynomial, ignoring their
// nominal lengths.
func (p *Polynomial) Equal(o *Polynomial) bool {
	a, b := p.words, o.words
	if len(a) < len(b) {
		a, b = b, a
	}
	for i, w := range b {
		if a[i] != w {
			return false
		}
	}
	for _, w := range a[len(b):] {
		if w != 0 {
			return false
		}
	}
	return true
}

// DotProduct returns the parity of the coefficient-wise product of p and o.
func (p *Polynomial) DotProduct(o *Polynomial) uint {
	var acc uint32
	for i := 0; i < min(len(p.words), len(o.words)); i++ {
		acc ^= p.words[i] & o.words[i]
	}
	return uint(bits.OnesCount32(acc) & 1)
}

// String renders p as big-endian hex.
func (p *Polynomial) String() string {
	if p.length == 0 {
		return "0"
	}
	return hex.EncodeToString(p.Bytes())
}

// Add returns p + o with the larger of the two nominal lengths.
func (p *Polynomial) Add(o *Polynomial) *Polynomial {
	res := p.Clone()
	res.AddInPlace(o)
	return res
}

// AddInPlace sets p to p + o.
func (p *Polynomial) AddInPlace(o *Polynomial) {
	p.Expand(o.length)
	for i, w := range o.words {
		p.words[i] ^= w
	}
}

// xorWordAt adds w*x^pos to p. The caller guarantees that the result fits.
func (p *Polynomial) xorWordAt(pos int, w uint32) {
	q, r := pos>>5, uint(pos&31)
	v := uint64(w) << r
	p.words[q] ^= uint32(v)
	if hi := uint32(v >> 32); hi != 0 {
		p.words[q+1] ^= hi
	}
}

// ShiftLeftAddInPlace sets p to p + o*x^k.
func (p *Polynomial) ShiftLeftAddInPlace(o *Polynomial, k int) {
	if k < 0 {
		panic("gf2x: negative shift")
	}
	p.Expand(o.length + k)
	q := k >> 5
	for i, w := range o.words {
		if w != 0 {
			p.xorWordAt((q+i)<<5+k&31, w)
		}
	}
}

// ShiftLeftBy returns p*x^k.
func (p *Polynomial) ShiftLeftBy(k int) *Polynomial {
	res := New(p.length + k)
	res.ShiftLeftAddInPlace(p, k)
	return res
}

// ShiftLeft returns p*x.
func (p *Polynomial) ShiftLeft() *Polynomial {
	return p.ShiftLeftBy(1)
}

// ShiftLeftInPlace multiplies p by x, growing its nominal length by one.
func (p *Polynomial) ShiftLeftInPlace() {
	p.Expand(p.length + 1)
	for i := len(p.words) - 1; i > 0; i-- {
		p.words[i] = p.words[i]<<1 | p.words[i-1]>>31
	}
	if len(p.words) > 0 {
		p.words[0] <<= 1
	}
}

// ShiftRight returns p divided by x, dropping the constant coefficient.
func (p *Polynomial) ShiftRight() *Polynomial {
	if p.length <= 1 {
		return New(0)
	}
	res := New(p.length - 1)
	for i := range res.words {
		w := p.words[i] >> 1
		if i+1 < len(p.words) {
			w |= p.words[i+1] << 31
		}
		res.words[i] = w
	}
	res.mask()
	return res
}
