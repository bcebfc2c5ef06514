// Package gf2m implements the small binary field GF(2^m) for 1 < m < 32,
// polynomials over it, and the matrix and vector types the Goppa code layer
// needs. Field elements are bare ints in [0, 2^m); bit i is the coefficient
// of x^i in the polynomial basis.
package gf2m

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/ppopth/mceliece/random"
)

var log = logging.Logger("gf2m")

var (
	// ErrDegree reports a field or polynomial degree outside the supported range.
	ErrDegree = errors.New("gf2m: bad degree")
	// ErrReducible reports a field polynomial that is not irreducible.
	ErrReducible = errors.New("gf2m: polynomial is reducible")
	// ErrNotInField reports an integer that is not an element of the field.
	ErrNotInField = errors.New("gf2m: element not in field")
	// ErrDivisionByZero reports inversion of zero or division by a zero polynomial.
	ErrDivisionByZero = errors.New("gf2m: division by zero")
	// ErrSingular reports a matrix that has no inverse.
	ErrSingular = errors.New("gf2m: matrix is not invertible")
	// ErrEncoding reports a malformed byte encoding.
	ErrEncoding = errors.New("gf2m: malformed encoding")
	// ErrNotSupported reports an operation the restricted matrix type does not offer.
	ErrNotSupported = errors.New("gf2m: operation not supported")
	// ErrDimension reports operands whose sizes do not fit together.
	ErrDimension = errors.New("gf2m: dimension mismatch")
)

// MaxDegree is the largest supported extension degree.
const MaxDegree = 31

// Field is GF(2^m) in polynomial basis.
type Field struct {
	degree int
	poly   int
}

// NewField returns GF(2^degree) defined by the least irreducible polynomial
// of that degree.
func NewField(degree int) (*Field, error) {
	if degree <= 1 || degree > MaxDegree {
		return nil, fmt.Errorf("%w: field degree %d outside [2,%d]", ErrDegree, degree, MaxDegree)
	}
	p := IrreduciblePoly(degree)
	log.Debugf("GF(2^%d): selected field polynomial %#x", degree, p)
	return &Field{degree: degree, poly: p}, nil
}

// NewFieldWithPoly returns GF(2^degree) defined by poly, which must be
// irreducible and of the given degree.
func NewFieldWithPoly(degree, poly int) (*Field, error) {
	if degree <= 1 || degree > MaxDegree {
		return nil, fmt.Errorf("%w: field degree %d outside [2,%d]", ErrDegree, degree, MaxDegree)
	}
	if d := PolyDegree(poly); d != degree {
		return nil, fmt.Errorf("%w: polynomial %#x has degree %d, want %d", ErrDegree, poly, d, degree)
	}
	if !IsIrreduciblePoly(poly) {
		return nil, fmt.Errorf("%w: %#x", ErrReducible, poly)
	}
	return &Field{degree: degree, poly: poly}, nil
}

// FieldFromBytes decodes the 4-byte little-endian field polynomial produced
// by Bytes. The degree is derived from the polynomial.
func FieldFromBytes(enc []byte) (*Field, error) {
	if len(enc) != 4 {
		return nil, fmt.Errorf("%w: field encoding of %d bytes", ErrEncoding, len(enc))
	}
	p := int(binary.LittleEndian.Uint32(enc))
	return NewFieldWithPoly(PolyDegree(p), p)
}

// Bytes encodes the field polynomial in 4 little-endian bytes.
func (f *Field) Bytes() []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(f.poly))
	return out
}

// Degree returns m.
func (f *Field) Degree() int { return f.degree }

// Poly returns the field polynomial.
func (f *Field) Poly() int { return f.poly }

// Size returns 2^m.
func (f *Field) Size() int { return 1 << uint(f.degree) }

// Equal reports whether f and o define the same field.
func (f *Field) Equal(o *Field) bool {
	return o != nil && f.degree == o.degree && f.poly == o.poly
}

// Add returns a + b.
func (f *Field) Add(a, b int) int {
	return a ^ b
}

// Mult returns a * b. Both operands must satisfy Contains; Mult sits on
// every hot loop and does not check.
func (f *Field) Mult(a, b int) int {
	return PolyMulMod(a, b, f.poly)
}

// Square returns a^2. a must satisfy Contains.
func (f *Field) Square(a int) int {
	return PolyMulMod(a, a, f.poly)
}

// inv returns a^-1 for a non-zero a.
func (f *Field) inv(a int) int {
	// a^(2^m - 2) = a^(2 + 4 + ... + 2^(m-1))
	b := f.Square(a)
	res := b
	for i := 2; i < f.degree; i++ {
		b = f.Square(b)
		res = f.Mult(res, b)
	}
	return res
}

// Inverse returns a^-1.
func (f *Field) Inverse(a int) (int, error) {
	if !f.Contains(a) {
		return 0, fmt.Errorf("%w: %d in %s", ErrNotInField, a, f)
	}
	if a == 0 {
		return 0, fmt.Errorf("%w: inverse of zero", ErrDivisionByZero)
	}
	return f.inv(a), nil
}

// Exp returns a^k. A negative exponent inverts a first.
func (f *Field) Exp(a, k int) (int, error) {
	if !f.Contains(a) {
		return 0, fmt.Errorf("%w: %d in %s", ErrNotInField, a, f)
	}
	if k == 0 {
		return 1, nil
	}
	if a == 0 {
		if k < 0 {
			return 0, fmt.Errorf("%w: zero to a negative power", ErrDivisionByZero)
		}
		return 0, nil
	}
	if a == 1 {
		return 1, nil
	}
	if k < 0 {
		a = f.inv(a)
		k = -k
	}
	res := 1
	for k != 0 {
		if k&1 == 1 {
			res = f.Mult(res, a)
		}
		a = f.Square(a)
		k >>= 1
	}
	return res, nil
}

// SqRoot returns the square root of a, a^(2^(m-1)). a must satisfy Contains.
func (f *Field) SqRoot(a int) int {
	for i := 1; i < f.degree; i++ {
		a = f.Square(a)
	}
	return a
}

// RandomElement returns a uniformly random element.
func (f *Field) RandomElement(src random.Source) int {
	return src.NextInt(f.Size())
}

// RandomNonZeroElement returns a uniformly random non-zero element.
func (f *Field) RandomNonZeroElement(src random.Source) int {
	return 1 + src.NextInt(f.Size()-1)
}

// Contains reports whether a is an element of f.
func (f *Field) Contains(a int) bool {
	return a >= 0 && a < f.Size()
}

// ElementString renders a as m binary digits, most significant first.
func (f *Field) ElementString(a int) string {
	var sb strings.Builder
	for i := f.degree - 1; i >= 0; i-- {
		sb.WriteByte('0' + byte(a>>uint(i)&1))
	}
	return sb.String()
}

func (f *Field) String() string {
	return fmt.Sprintf("GF(2^%d) mod %s", f.degree, PolyString(f.poly))
}

// PolyDegree returns the degree of the binary polynomial p, -1 for zero.
func PolyDegree(p int) int {
	return bits.Len64(uint64(p)) - 1
}

// PolyRemainder returns a mod p for binary polynomials packed in ints.
func PolyRemainder(a, p int) int {
	dp := PolyDegree(p)
	if dp < 0 {
		panic("gf2m: remainder by zero polynomial")
	}
	for d := PolyDegree(a); d >= dp; d = PolyDegree(a) {
		a ^= p << uint(d-dp)
	}
	return a
}

// PolyMulMod returns a*b mod p by shift-and-reduce.
func PolyMulMod(a, b, p int) int {
	a = PolyRemainder(a, p)
	b = PolyRemainder(b, p)
	if b == 0 {
		return 0
	}
	top := 1 << uint(PolyDegree(p))
	res := 0
	for a != 0 {
		if a&1 == 1 {
			res ^= b
		}
		a >>= 1
		b <<= 1
		if b&top != 0 {
			b ^= p
		}
	}
	return res
}

// PolyGCD returns gcd(a, b) for binary polynomials packed in ints.
func PolyGCD(a, b int) int {
	for b != 0 {
		a, b = b, PolyRemainder(a, b)
	}
	return a
}

// IsIrreduciblePoly reports whether the binary polynomial p is irreducible,
// by checking gcd(x^(2^i) - x, p) = 1 for i up to deg(p)/2.
func IsIrreduciblePoly(p int) bool {
	d := PolyDegree(p)
	if d < 1 {
		return false
	}
	u := 2
	for i := 0; i < d>>1; i++ {
		u = PolyMulMod(u, u, p)
		if PolyGCD(u^2, p) != 1 {
			return false
		}
	}
	return true
}

// IrreduciblePoly returns the least irreducible binary polynomial of the
// given degree.
func IrreduciblePoly(deg int) int {
	if deg < 1 || deg > MaxDegree {
		panic(fmt.Sprintf("gf2m: no irreducible polynomial search for degree %d", deg))
	}
	for p := 1<<uint(deg) | 1; p < 1<<uint(deg+1); p += 2 {
		if IsIrreduciblePoly(p) {
			return p
		}
	}
	panic("unreachable")
}

// PolyString renders a binary polynomial as a sum of powers of x.
func PolyString(p int) string {
	if p == 0 {
		return "0"
	}
	var terms []string
	for i := PolyDegree(p); i >= 0; i-- {
		if p>>uint(i)&1 == 0 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, "1")
		case 1:
			terms = append(terms, "x")
		default:
			terms = append(terms, fmt.Sprintf("x^%d", i))
		}
	}
	return strings.Join(terms, " + ")
}
