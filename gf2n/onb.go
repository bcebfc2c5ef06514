package gf2n

import (
	"fmt"

	"github.com/ppopth/mceliece/gf2x"
	"github.com/ppopth/mceliece/random"
)

// ONBField is GF(2^n) in a Gaussian optimal normal basis
// {b, b^2, b^4, ..., b^(2^(n-1))} of type 1 or 2. Squaring is a cyclic
// shift of the coordinates.
type ONBField struct {
	fieldBase

	typ int
	// mult[i] lists the j with b^(2^i) * b^(2^j) having a non-zero
	// coefficient at b; -1 marks an empty slot.
	mult [][2]int
}

// NewONBField returns GF(2^degree) in an optimal normal basis. Type 2 is
// preferred when both types exist. Degrees without a type 1 or 2 basis,
// among them every multiple of 8, fail with ErrUnsupportedDegree.
func NewONBField(degree int, opts ...Option) (*ONBField, error) {
	if degree < 2 || degree%8 == 0 {
		return nil, fmt.Errorf("%w: no optimal normal basis of degree %d", ErrUnsupportedDegree, degree)
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	typ := 0
	switch {
	case gaussianType(degree, 2):
		typ = 2
	case gaussianType(degree, 1):
		typ = 1
	default:
		return nil, fmt.Errorf("%w: degree %d has no optimal normal basis of type 1 or 2", ErrUnsupportedDegree, degree)
	}

	f := &ONBField{
		fieldBase: fieldBase{degree: degree, opts: o},
		typ:       typ,
		mult:      multiplicationTable(degree, typ),
	}
	f.poly = onbPolynomial(degree, typ)
	log.Debugf("GF(2^%d): type %d normal basis, minimal polynomial %s", degree, typ, f.poly)
	return f, nil
}

// gaussianType reports whether a Gaussian normal basis of type t exists for
// degree n: p = t*n + 1 is prime and gcd(t*n/ord_p(2), n) = 1.
func gaussianType(n, t int) bool {
	p := t*n + 1
	if !isPrime(p) {
		return false
	}
	k := 1
	for x := 2 % p; x != 1; x = x * 2 % p {
		k++
	}
	return gcd(t*n/k, n) == 1
}

func isPrime(p int) bool {
	if p < 2 {
		return false
	}
	for d := 2; d*d <= p; d++ {
		if p%d == 0 {
			return false
		}
	}
	return true
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// multiplicationTable derives the coefficient of b in b^(2^i) * b^(2^j)
// from the Gauss periods over the p-th roots of unity.
func multiplicationTable(n, typ int) [][2]int {
	p := typ*n + 1
	pow := make([]int, n)
	pow[0] = 1
	for i := 1; i < n; i++ {
		pow[i] = pow[i-1] * 2 % p
	}
	unit := func(e int) int {
		e = ((e % p) + p) % p
		if typ == 1 {
			if e == 0 || e == 1 {
				return 1
			}
			return 0
		}
		if e == 1 || e == p-1 {
			return 1
		}
		return 0
	}

	table := make([][2]int, n)
	for i := 0; i < n; i++ {
		table[i] = [2]int{-1, -1}
		slot := 0
		for j := 0; j < n; j++ {
			c := unit(pow[i] + pow[j])
			if typ == 2 {
				c ^= unit(pow[i] - pow[j])
			}
			if c == 0 {
				continue
			}
			if slot == 2 {
				panic(fmt.Sprintf("gf2n: type %d normal basis row %d has more than two entries", typ, i))
			}
			table[i][slot] = j
			slot++
		}
	}
	return table
}

// onbPolynomial returns the minimal polynomial of the normal element: the
// all-ones polynomial of degree n for type 1, and p_n of the recurrence
// p_(i+1) = x*p_i + p_(i-1), p_0 = 1, p_1 = x + 1 for type 2.
func onbPolynomial(n, typ int) *gf2x.Polynomial {
	if typ == 1 {
		return gf2x.AllOnes(n + 1)
	}
	prev, cur := gf2x.One(1), gf2x.FromUint64(3)
	for i := 1; i < n; i++ {
		next := cur.ShiftLeft()
		next.AddInPlace(prev)
		prev, cur = cur, next
	}
	return cur.Trim()
}

func (f *ONBField) base() *fieldBase { return &f.fieldBase }

func (f *ONBField) wrap(bits *gf2x.Polynomial) Element {
	return &ONBElement{field: f, v: bits}
}

// Degree returns n.
func (f *ONBField) Degree() int { return f.degree }

// Type returns the Gaussian type of the basis, 1 or 2.
func (f *ONBField) Type() int { return f.typ }

// FieldPolynomial returns the minimal polynomial of the normal element.
func (f *ONBField) FieldPolynomial() *gf2x.Polynomial { return f.poly.Clone() }

// Zero returns the additive identity.
func (f *ONBField) Zero() Element { return f.wrap(gf2x.New(f.degree)) }

// One returns the multiplicative identity, the sum of all basis elements.
func (f *ONBField) One() Element { return f.wrap(gf2x.AllOnes(f.degree)) }

// Random returns a uniformly random element.
func (f *ONBField) Random(src random.Source) Element {
	return f.wrap(gf2x.Random(f.degree, src))
}

// ElementFromBytes decodes an element written by Bytes.
func (f *ONBField) ElementFromBytes(enc []byte) (Element, error) {
	p, err := decodeBits(f.degree, enc)
	if err != nil {
		return nil, err
	}
	return f.wrap(p), nil
}

func (f *ONBField) String() string {
	return fmt.Sprintf("GF(2^%d) type %d normal basis", f.degree, f.typ)
}

// doubled returns the words of v followed by v again, 2n bits in all, with
// one spare word so rotations can read past the end.
func doubled(v *gf2x.Polynomial, n int) []uint32 {
	d := v.Clone()
	d.ShiftLeftAddInPlace(v, n)
	return append(d.Words(), 0)
}

// rotation returns the n bits of src starting at bit s.
func rotation(src []uint32, s, n int) []uint32 {
	out := make([]uint32, (n+31)>>5)
	q, r := s>>5, uint(s&31)
	for i := range out {
		w := src[q+i] >> r
		if r != 0 {
			w |= src[q+i+1] << (32 - r)
		}
		out[i] = w
	}
	if n&31 != 0 {
		out[len(out)-1] &= 1<<uint(n&31) - 1
	}
	return out
}

// multiply returns a*b. Coordinate k of the product is
// sum_i a_(i+k) * (b_(j1(i)+k) + b_(j2(i)+k)), evaluated for all k at once
// on rotated copies of the operands.
func (f *ONBField) multiply(a, b *gf2x.Polynomial) *gf2x.Polynomial {
	n := f.degree
	da, db := doubled(a, n), doubled(b, n)
	res := make([]uint32, (n+31)>>5)
	for i, m := range f.mult {
		if m[0] < 0 {
			continue
		}
		ra := rotation(da, i, n)
		rb := rotation(db, m[0], n)
		if m[1] >= 0 {
			for w, x := range rotation(db, m[1], n) {
				rb[w] ^= x
			}
		}
		for w := range res {
			res[w] ^= ra[w] & rb[w]
		}
	}
	p, _ := gf2x.FromWords(n, res)
	return p
}

// rotate returns the coordinates of a moved up by s positions, cyclically.
func (f *ONBField) rotate(a *gf2x.Polynomial, s int) *gf2x.Polynomial {
	n := f.degree
	s = ((s % n) + n) % n
	p, _ := gf2x.FromWords(n, rotation(doubled(a, n), (n-s)%n, n))
	return p
}

// ONBElement is an element of an ONBField. Bit i is the coordinate of
// b^(2^i).
type ONBElement struct {
	field *ONBField
	v     *gf2x.Polynomial
}

func (e *ONBElement) bits() *gf2x.Polynomial { return e.v }

// Field returns the field of e.
func (e *ONBElement) Field() Field { return e.field }

// Add returns e + o.
func (e *ONBElement) Add(o Element) (Element, error) {
	r := e.Clone()
	if err := r.AddInPlace(o); err != nil {
		return nil, err
	}
	return r, nil
}

// AddInPlace sets e to e + o.
func (e *ONBElement) AddInPlace(o Element) error {
	if err := checkField(e, o); err != nil {
		return err
	}
	e.v.AddInPlace(o.bits())
	return nil
}

// Multiply returns e * o using the multiplication table of the field.
func (e *ONBElement) Multiply(o Element) (Element, error) {
	r := e.Clone()
	if err := r.MultiplyInPlace(o); err != nil {
		return nil, err
	}
	return r, nil
}

// MultiplyInPlace sets e to e * o.
func (e *ONBElement) MultiplyInPlace(o Element) error {
	if err := checkField(e, o); err != nil {
		return err
	}
	e.v = e.field.multiply(e.v, o.bits())
	return nil
}

// Square returns e^2.
func (e *ONBElement) Square() Element {
	r := e.Clone()
	r.SquareInPlace()
	return r
}

// SquareInPlace shifts the coordinates cyclically up by one.
func (e *ONBElement) SquareInPlace() {
	e.v = e.field.rotate(e.v, 1)
}

// SquareRoot returns the unique square root of e.
func (e *ONBElement) SquareRoot() Element {
	r := e.Clone()
	r.SquareRootInPlace()
	return r
}

// SquareRootInPlace shifts the coordinates cyclically down by one.
func (e *ONBElement) SquareRootInPlace() {
	e.v = e.field.rotate(e.v, -1)
}

// Invert returns e^(2^n - 2) = e^-1.
func (e *ONBElement) Invert() (Element, error) {
	if e.IsZero() {
		return nil, ErrZeroInverse
	}
	t := e.field.rotate(e.v, 1)
	res := t
	for i := 2; i < e.field.degree; i++ {
		t = e.field.rotate(t, 1)
		res = e.field.multiply(res, t)
	}
	return e.field.wrap(res), nil
}

// Trace returns the parity of the coordinates.
func (e *ONBElement) Trace() uint {
	var t uint
	for i := 0; i < e.field.degree; i++ {
		t ^= e.v.Bit(i)
	}
	return t
}

// SolveQuadratic returns the root z of z^2 + z = e with z_0 = 0.
func (e *ONBElement) SolveQuadratic() (Element, error) {
	if e.Trace() != 0 {
		return nil, ErrNoSolution
	}
	n := e.field.degree
	z := gf2x.New(n)
	var prev uint
	for i := 1; i < n; i++ {
		prev ^= e.v.Bit(i)
		if prev != 0 {
			z.SetBit(i)
		}
	}
	return e.field.wrap(z), nil
}

// IsZero reports whether e is zero.
func (e *ONBElement) IsZero() bool { return e.v.IsZero() }

// IsOne reports whether every coordinate of e is set.
func (e *ONBElement) IsOne() bool { return e.v.Equal(gf2x.AllOnes(e.field.degree)) }

// Equal reports whether o is the same element of the same field.
func (e *ONBElement) Equal(o Element) bool {
	return o != nil && sameField(e.field, o.Field()) && e.v.Equal(o.bits())
}

// Clone returns a deep copy of e.
func (e *ONBElement) Clone() Element {
	return &ONBElement{field: e.field, v: e.v.Clone()}
}

// Bytes encodes e big-endian in ceil(n/8) bytes.
func (e *ONBElement) Bytes() []byte { return e.v.Bytes() }

// Bit returns the coordinate of b^(2^i).
func (e *ONBElement) Bit(i int) uint { return e.v.Bit(i) }

// String returns the hex form of the coordinates.
func (e *ONBElement) String() string { return e.v.String() }
