package gf2x

import (
	"math/bits"

	"github.com/ppopth/mceliece/internal/parallel"
)

// karatsubaThreshold is the operand size in words (512 bits) at or below
// which products are computed by the word schoolbook method.
const karatsubaThreshold = 16

// squareTable spreads the 8 bits of a byte over the even bits of a uint16.
var squareTable [256]uint16

func init() {
	for i := range squareTable {
		var s uint16
		for b := 0; b < 8; b++ {
			if i>>b&1 != 0 {
				s |= 1 << (2 * b)
			}
		}
		squareTable[i] = s
	}
}

// clmul returns the carry-less product of two words.
func clmul(x, y uint32) uint64 {
	var r uint64
	xx := uint64(x)
	for y != 0 {
		r ^= xx << uint(bits.TrailingZeros32(y))
		y &= y - 1
	}
	return r
}

func xorInto(dst, src []uint32) {
	for i, w := range src {
		dst[i] ^= w
	}
}

func schoolbook(res, a, b []uint32) {
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			v := clmul(x, y)
			res[i+j] ^= uint32(v)
			res[i+j+1] ^= uint32(v >> 32)
		}
	}
}

// mulInto adds a*b to res, which must hold len(a)+len(b) words.
func mulInto(res, a, b []uint32) {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return
	}
	if len(b) <= karatsubaThreshold {
		schoolbook(res, a, b)
		return
	}
	if len(a) > len(b) {
		for off := 0; off < len(a); off += len(b) {
			mulInto(res[off:], a[off:min(off+len(b), len(a))], b)
		}
		return
	}

	n := len(a)
	h := (n + 1) / 2
	a0, a1 := a[:h], a[h:]
	b0, b1 := b[:h], b[h:]

	z0 := make([]uint32, 2*h)
	mulInto(z0, a0, b0)
	z2 := make([]uint32, 2*(n-h))
	mulInto(z2, a1, b1)

	sa := append([]uint32(nil), a0...)
	xorInto(sa, a1)
	sb := append([]uint32(nil), b0...)
	xorInto(sb, b1)
	z1 := make([]uint32, 2*h)
	mulInto(z1, sa, sb)
	xorInto(z1, z0)
	xorInto(z1, z2)

	xorInto(res, z0)
	xorInto(res[h:], z1)
	xorInto(res[2*h:], z2)
}

func productLength(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a + b - 1
}

// Multiply returns p*o using Karatsuba multiplication above 512-bit
// operands.
func (p *Polynomial) Multiply(o *Polynomial) *Polynomial {
	res := New(productLength(p.length, o.length))
	if p.IsZero() || o.IsZero() {
		return res
	}
	full := make([]uint32, len(p.words)+len(o.words))
	mulInto(full, p.words, o.words)
	copy(res.words, full)
	return res
}

// MultiplyClassic returns p*o by shift-and-add over the set bits of o.
func (p *Polynomial) MultiplyClassic(o *Polynomial) *Polynomial {
	res := New(productLength(p.length, o.length))
	if p.IsZero() {
		return res
	}
	for q, w := range o.words {
		for w != 0 {
			res.ShiftLeftAddInPlace(p, q<<5+bits.TrailingZeros32(w))
			w &= w - 1
		}
	}
	return res
}

// SquareBitwise returns p^2 by moving every set bit i to 2i.
func (p *Polynomial) SquareBitwise() *Polynomial {
	res := New(productLength(p.length, p.length))
	for q, w := range p.words {
		for w != 0 {
			i := q<<5 + bits.TrailingZeros32(w)
			res.words[(2*i)>>5] |= 1 << uint((2*i)&31)
			w &= w - 1
		}
	}
	return res
}

// SquareTable returns p^2 using a byte spreading table.
func (p *Polynomial) SquareTable() *Polynomial {
	res := New(productLength(p.length, p.length))
	if p.IsZero() {
		return res
	}
	for i, w := range p.words {
		lo := uint32(squareTable[w&0xff]) | uint32(squareTable[w>>8&0xff])<<16
		hi := uint32(squareTable[w>>16&0xff]) | uint32(squareTable[w>>24])<<16
		if 2*i < len(res.words) {
			res.words[2*i] = lo
		}
		if 2*i+1 < len(res.words) {
			res.words[2*i+1] = hi
		}
	}
	return res
}

// SquareMatrix returns the vector whose bit j is the dot product of p with
// rows[j]. With rows[j] holding bit j of x^(2i) mod f in position i, this is
// p^2 mod f for a polynomial p of degree below len(rows).
func (p *Polynomial) SquareMatrix(rows []*Polynomial) *Polynomial {
	res := New(len(rows))
	for j, row := range rows {
		if p.DotProduct(row) != 0 {
			res.words[j>>5] |= 1 << uint(j&31)
		}
	}
	return res
}

// DivMod returns the quotient and remainder of p divided by d. Both results
// are trimmed.
func (p *Polynomial) DivMod(d *Polynomial) (q, r *Polynomial, err error) {
	dd := d.Degree()
	if dd < 0 {
		return nil, nil, ErrDivisionByZero
	}
	div := d.Clone().Trim()
	r = p.Clone()
	q = New(max(p.Degree()-dd+1, 0))
	for {
		rd := r.Degree()
		if rd < dd {
			break
		}
		s := rd - dd
		q.words[s>>5] |= 1 << uint(s&31)
		r.ShiftLeftAddInPlace(div, s)
	}
	return q.Trim(), r.Trim(), nil
}

// Remainder returns p mod d.
func (p *Polynomial) Remainder(d *Polynomial) (*Polynomial, error) {
	_, r, err := p.DivMod(d)
	return r, err
}

// Quotient returns p div d.
func (p *Polynomial) Quotient(d *Polynomial) (*Polynomial, error) {
	q, _, err := p.DivMod(d)
	return q, err
}

// GCD returns the greatest common divisor of p and o. It is zero only when
// both are zero.
func (p *Polynomial) GCD(o *Polynomial) *Polynomial {
	a, b := p.Clone(), o.Clone()
	for !b.IsZero() {
		r, _ := a.Remainder(b)
		a, b = b, r
	}
	return a.Trim()
}

// IsIrreducible reports whether p is irreducible over GF(2). It checks
// gcd(x^(2^i) - x, p) = 1 for every i up to deg(p)/2; the squarings run in
// order and the gcd checks fan out to worker goroutines.
func (p *Polynomial) IsIrreducible() bool {
	f := p.Clone().Trim()
	d := f.Degree()
	if d < 1 {
		return false
	}
	x := X(2)
	u := X(2)
	reducible := parallel.Pipeline(d>>1, 0,
		func(int) *Polynomial {
			u = u.SquareTable()
			u, _ = u.Remainder(f)
			return u.Add(x)
		},
		func(g *Polynomial) bool {
			return g.IsZero() || !f.GCD(g).IsOne()
		})
	return !reducible
}
