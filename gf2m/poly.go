package gf2m

import (
	"fmt"
	"strings"

	"github.com/ppopth/mceliece/internal/parallel"
	"github.com/ppopth/mceliece/random"
)

// karatsubaThreshold is the operand length at or below which polynomial
// products use the schoolbook method.
const karatsubaThreshold = 8

// maxIrreducibleAttempts bounds the coefficient resampling in
// RandomIrreduciblePoly.
const maxIrreducibleAttempts = 1 << 16

// Poly is a polynomial over a small field GF(2^m). Coefficient i multiplies
// X^i. The coefficient slice never has trailing zeros, so the zero
// polynomial has no coefficients and degree -1.
type Poly struct {
	field  *Field
	coeffs []int
}

func newPoly(f *Field, coeffs []int) *Poly {
	n := len(coeffs)
	for n > 0 && coeffs[n-1] == 0 {
		n--
	}
	return &Poly{field: f, coeffs: coeffs[:n]}
}

// NewPoly returns the polynomial with the given coefficients, lowest degree
// first. Every coefficient must be an element of f.
func NewPoly(f *Field, coeffs []int) (*Poly, error) {
	for i, c := range coeffs {
		if !f.Contains(c) {
			return nil, fmt.Errorf("%w: coefficient %d = %d", ErrNotInField, i, c)
		}
	}
	return newPoly(f, append([]int(nil), coeffs...)), nil
}

// ZeroPoly returns the zero polynomial over f.
func ZeroPoly(f *Field) *Poly {
	return &Poly{field: f}
}

// MonomialPoly returns X^degree over f.
func MonomialPoly(f *Field, degree int) *Poly {
	c := make([]int, degree+1)
	c[degree] = 1
	return &Poly{field: f, coeffs: c}
}

// ConstantPoly returns the constant polynomial c.
func ConstantPoly(f *Field, c int) *Poly {
	return newPoly(f, []int{c})
}

// PolyFromVector returns the polynomial whose coefficients are the entries
// of v.
func PolyFromVector(v *Vector) *Poly {
	return newPoly(v.field, append([]int(nil), v.elems...))
}

// PolyFromBytes decodes the encoding produced by Bytes: every coefficient
// in ceil(m/8) little-endian bytes, lowest degree first.
func PolyFromBytes(f *Field, enc []byte) (*Poly, error) {
	coeffs, err := decodeElements(f, enc)
	if err != nil {
		return nil, err
	}
	if len(coeffs) > 0 && coeffs[len(coeffs)-1] == 0 {
		return nil, fmt.Errorf("%w: zero head coefficient", ErrEncoding)
	}
	return &Poly{field: f, coeffs: coeffs}, nil
}

// RandomIrreduciblePoly returns a random monic irreducible polynomial of
// the given degree over f. Starting from a random monic polynomial with a
// non-zero constant term, one random non-leading coefficient is redrawn
// until the polynomial is irreducible.
func RandomIrreduciblePoly(f *Field, degree int, src random.Source) (*Poly, error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: irreducible polynomial of degree %d", ErrDegree, degree)
	}
	c := make([]int, degree+1)
	c[degree] = 1
	c[0] = f.RandomNonZeroElement(src)
	for i := 1; i < degree; i++ {
		c[i] = f.RandomElement(src)
	}
	p := &Poly{field: f, coeffs: c}
	for attempt := 1; attempt <= maxIrreducibleAttempts; attempt++ {
		if p.IsIrreducible() {
			log.Debugf("irreducible polynomial of degree %d over GF(2^%d) after %d attempts", degree, f.degree, attempt)
			return p, nil
		}
		if j := src.NextInt(degree); j == 0 {
			c[0] = f.RandomNonZeroElement(src)
		} else {
			c[j] = f.RandomElement(src)
		}
	}
	log.Warnf("no irreducible polynomial of degree %d after %d attempts", degree, maxIrreducibleAttempts)
	return nil, fmt.Errorf("%w: no irreducible polynomial of degree %d found", ErrReducible, degree)
}

// Field returns the coefficient field.
func (p *Poly) Field() *Field { return p.field }

// Degree returns the degree of p, -1 for the zero polynomial.
func (p *Poly) Degree() int { return len(p.coeffs) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p *Poly) IsZero() bool { return len(p.coeffs) == 0 }

// HeadCoefficient returns the leading coefficient, 0 for the zero polynomial.
func (p *Poly) HeadCoefficient() int {
	if len(p.coeffs) == 0 {
		return 0
	}
	return p.coeffs[len(p.coeffs)-1]
}

// Coefficient returns the coefficient of X^i.
func (p *Poly) Coefficient(i int) int {
	if i < 0 || i >= len(p.coeffs) {
		return 0
	}
	return p.coeffs[i]
}

// Coefficients returns a copy of the coefficients, lowest degree first.
func (p *Poly) Coefficients() []int {
	return append([]int(nil), p.coeffs...)
}

// Bytes encodes every coefficient in ceil(m/8) little-endian bytes, lowest
// degree first.
func (p *Poly) Bytes() []byte {
	return encodeElements(p.field, p.coeffs)
}

// Equal reports whether p and o are the same polynomial over the same field.
func (p *Poly) Equal(o *Poly) bool {
	if o == nil || !p.field.Equal(o.field) || len(p.coeffs) != len(o.coeffs) {
		return false
	}
	for i, c := range p.coeffs {
		if o.coeffs[i] != c {
			return false
		}
	}
	return true
}

// Evaluate returns p(e) by Horner's rule. e must satisfy Contains.
func (p *Poly) Evaluate(e int) int {
	res := 0
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		res = p.field.Mult(res, e) ^ p.coeffs[i]
	}
	return res
}

func addCoeffs(a, b []int) []int {
	if len(a) < len(b) {
		a, b = b, a
	}
	res := append([]int(nil), a...)
	for i, c := range b {
		res[i] ^= c
	}
	return res
}

// Add returns p + o.
func (p *Poly) Add(o *Poly) *Poly {
	return newPoly(p.field, addCoeffs(p.coeffs, o.coeffs))
}

// AddMonomial returns p + X^k.
func (p *Poly) AddMonomial(k int) *Poly {
	return p.Add(MonomialPoly(p.field, k))
}

// MultElement returns a*p, or ErrNotInField when a is not a field element.
func (p *Poly) MultElement(a int) (*Poly, error) {
	if !p.field.Contains(a) {
		return nil, fmt.Errorf("%w: scalar %d", ErrNotInField, a)
	}
	return p.scale(a), nil
}

func (p *Poly) scale(a int) *Poly {
	return newPoly(p.field, p.field.multCoeffs(p.coeffs, a))
}

func (f *Field) multCoeffs(c []int, a int) []int {
	res := make([]int, len(c))
	if a == 0 {
		return res
	}
	for i, x := range c {
		res[i] = f.Mult(x, a)
	}
	return res
}

// MultMonomial returns X^k * p.
func (p *Poly) MultMonomial(k int) *Poly {
	if p.IsZero() {
		return p
	}
	c := make([]int, len(p.coeffs)+k)
	copy(c[k:], p.coeffs)
	return &Poly{field: p.field, coeffs: c}
}

// mulInto adds a*b to res, which must hold len(a)+len(b)-1 entries.
func (f *Field) mulInto(res, a, b []int) {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return
	}
	if len(b) <= karatsubaThreshold {
		for i, x := range a {
			if x == 0 {
				continue
			}
			for j, y := range b {
				res[i+j] ^= f.Mult(x, y)
			}
		}
		return
	}
	if len(a) > len(b) {
		for off := 0; off < len(a); off += len(b) {
			f.mulInto(res[off:], a[off:min(off+len(b), len(a))], b)
		}
		return
	}

	n := len(a)
	h := (n + 1) / 2
	a0, a1 := a[:h], a[h:]
	b0, b1 := b[:h], b[h:]
	z0 := make([]int, 2*h-1)
	f.mulInto(z0, a0, b0)
	z2 := make([]int, 2*(n-h)-1)
	f.mulInto(z2, a1, b1)
	z1 := make([]int, 2*h-1)
	f.mulInto(z1, addCoeffs(a0, a1), addCoeffs(b0, b1))
	for i, c := range z0 {
		z1[i] ^= c
	}
	for i, c := range z2 {
		z1[i] ^= c
	}
	for i, c := range z0 {
		res[i] ^= c
	}
	for i, c := range z1 {
		res[h+i] ^= c
	}
	for i, c := range z2 {
		res[2*h+i] ^= c
	}
}

// Multiply returns p*o using Karatsuba multiplication for long operands.
func (p *Poly) Multiply(o *Poly) *Poly {
	if p.IsZero() || o.IsZero() {
		return ZeroPoly(p.field)
	}
	res := make([]int, len(p.coeffs)+len(o.coeffs)-1)
	p.field.mulInto(res, p.coeffs, o.coeffs)
	return newPoly(p.field, res)
}

// DivMod returns the quotient and remainder of p divided by d.
func (p *Poly) DivMod(d *Poly) (q, r *Poly, err error) {
	if d.IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	f := p.field
	dd := d.Degree()
	hinv := f.inv(d.HeadCoefficient())
	rem := append([]int(nil), p.coeffs...)
	quo := make([]int, max(len(rem)-dd, 0))
	for i := len(rem) - 1; i >= dd; i-- {
		c := rem[i]
		if c == 0 {
			continue
		}
		s := f.Mult(c, hinv)
		quo[i-dd] = s
		for j, x := range d.coeffs {
			rem[i-dd+j] ^= f.Mult(x, s)
		}
	}
	return newPoly(f, quo), newPoly(f, rem[:min(len(rem), dd)]), nil
}

// Mod returns p mod g.
func (p *Poly) Mod(g *Poly) (*Poly, error) {
	_, r, err := p.DivMod(g)
	return r, err
}

// mod is Mod for a modulus already known to be non-zero.
func (p *Poly) mod(g *Poly) *Poly {
	_, r, err := p.DivMod(g)
	if err != nil {
		panic(err)
	}
	return r
}

// Monic returns p divided by its head coefficient.
func (p *Poly) Monic() *Poly {
	hc := p.HeadCoefficient()
	if hc == 0 || hc == 1 {
		return p
	}
	return p.scale(p.field.inv(hc))
}

// GCD returns the monic greatest common divisor of p and o.
func (p *Poly) GCD(o *Poly) *Poly {
	a, b := p, o
	for !b.IsZero() {
		a, b = b, a.mod(b)
	}
	return a.Monic()
}

// ModMultiply returns p*o mod g.
func (p *Poly) ModMultiply(o, g *Poly) (*Poly, error) {
	if g.IsZero() {
		return nil, ErrDivisionByZero
	}
	return p.Multiply(o).mod(g), nil
}

// ModDiv returns p/b mod g, computed with the extended Euclidean algorithm.
// b must be invertible modulo g.
func (p *Poly) ModDiv(b, g *Poly) (*Poly, error) {
	if g.IsZero() {
		return nil, ErrDivisionByZero
	}
	// s_i * b = r_i * p (mod g) holds for both rows throughout
	r0, r1 := g, b.mod(g)
	s0, s1 := ZeroPoly(p.field), p.mod(g)
	for !r1.IsZero() {
		q, r, _ := r0.DivMod(r1)
		r0, r1 = r1, r
		s0, s1 = s1, s0.Add(q.Multiply(s1).mod(g))
	}
	if r0.Degree() != 0 {
		return nil, fmt.Errorf("%w: divisor not invertible modulo %s", ErrDivisionByZero, g)
	}
	return s0.scale(p.field.inv(r0.HeadCoefficient())), nil
}

// ModInverse returns p^-1 mod g.
func (p *Poly) ModInverse(g *Poly) (*Poly, error) {
	return ConstantPoly(p.field, 1).ModDiv(p, g)
}

// ModSquareMatrix returns p^2 mod g where matrix[j] = X^(2j) mod g and
// len(matrix) = deg(g).
func (p *Poly) ModSquareMatrix(matrix []*Poly) (*Poly, error) {
	t := len(matrix)
	if p.Degree() >= t {
		return nil, fmt.Errorf("%w: degree %d not reduced modulo a degree %d polynomial", ErrDegree, p.Degree(), t)
	}
	f := p.field
	res := make([]int, t)
	for j, c := range p.coeffs {
		if c == 0 {
			continue
		}
		sq := f.Square(c)
		for i, m := range matrix[j].coeffs {
			res[i] ^= f.Mult(m, sq)
		}
	}
	return newPoly(f, res), nil
}

// ModSquareRootMatrix returns the square root of p mod g where matrix is
// the inverse of the squaring matrix of g.
func (p *Poly) ModSquareRootMatrix(matrix []*Poly) (*Poly, error) {
	t := len(matrix)
	if p.Degree() >= t {
		return nil, fmt.Errorf("%w: degree %d not reduced modulo a degree %d polynomial", ErrDegree, p.Degree(), t)
	}
	f := p.field
	res := make([]int, t)
	for j, c := range p.coeffs {
		if c == 0 {
			continue
		}
		for i, m := range matrix[j].coeffs {
			res[i] ^= f.Mult(m, c)
		}
	}
	for i, c := range res {
		res[i] = f.SqRoot(c)
	}
	return newPoly(f, res), nil
}

// ModSquareRoot returns the square root of p mod g by squaring until the
// original polynomial comes back. g must be irreducible.
func (p *Poly) ModSquareRoot(g *Poly) (*Poly, error) {
	if g.IsZero() {
		return nil, ErrDivisionByZero
	}
	a := p.mod(g)
	cur := a
	// squaring permutes GF(2^m)[X]/g, a field of 2^(m*deg g) elements
	for i := 0; i <= p.field.degree*g.Degree(); i++ {
		next := cur.Multiply(cur).mod(g)
		if next.Equal(a) {
			return cur, nil
		}
		cur = next
	}
	return nil, fmt.Errorf("%w: %s is not irreducible", ErrReducible, g)
}

// ModPolynomialToFraction returns (a, b) with a = b*p mod g and
// deg(a) <= deg(g)/2, running the Euclidean algorithm on (g, p) only until
// the remainder is small enough.
func (p *Poly) ModPolynomialToFraction(g *Poly) (a, b *Poly, err error) {
	if g.IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	half := g.Degree() >> 1
	a0, a1 := g, p.mod(g)
	b0, b1 := ZeroPoly(p.field), ConstantPoly(p.field, 1)
	for a1.Degree() > half {
		q, r, _ := a0.DivMod(a1)
		a0, a1 = a1, r
		b0, b1 = b1, b0.Add(q.Multiply(b1).mod(g))
	}
	return a1, b1, nil
}

// IsIrreducible reports whether p is irreducible over its field. With
// q = 2^m, it checks gcd(X^(q^i) - X, p) = 1 for i up to deg(p)/2; the
// Frobenius powers are produced in order and the gcd checks fan out.
func (p *Poly) IsIrreducible() bool {
	d := p.Degree()
	if d < 1 {
		return false
	}
	if p.coeffs[0] == 0 {
		return d == 1
	}
	x := MonomialPoly(p.field, 1)
	u := x
	reducible := parallel.Pipeline(d>>1, 0,
		func(int) *Poly {
			for j := 0; j < p.field.degree; j++ {
				u = u.Multiply(u).mod(p)
			}
			return u.Add(x)
		},
		func(g *Poly) bool {
			return g.IsZero() || p.GCD(g).Degree() != 0
		})
	return !reducible
}

func (p *Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var terms []string
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		c := p.coeffs[i]
		if c == 0 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, fmt.Sprintf("%#x", c))
		case 1:
			terms = append(terms, fmt.Sprintf("%#x*X", c))
		default:
			terms = append(terms, fmt.Sprintf("%#x*X^%d", c, i))
		}
	}
	return strings.Join(terms, " + ")
}
