package gf2

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/ppopth/mceliece/random"
)

// Permutation is a bijection on {0, ..., n-1}. Entry i names the source
// index that lands at position i when the permutation is applied to a
// vector, or to the rows or columns of a matrix.
type Permutation struct {
	perm []int
}

// IdentityPermutation returns the identity on n points.
func IdentityPermutation(n int) *Permutation {
	p := &Permutation{perm: make([]int, n)}
	for i := range p.perm {
		p.perm[i] = i
	}
	return p
}

// RandomPermutation draws a uniform permutation of n points by sampling
// without replacement.
func RandomPermutation(n int, src random.Source) *Permutation {
	p := &Permutation{perm: make([]int, n)}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	k := n
	for j := 0; j < n; j++ {
		i := src.NextInt(k)
		k--
		p.perm[j] = pool[i]
		pool[i] = pool[k]
	}
	return p
}

// NewPermutation validates vec and wraps a copy of it.
func NewPermutation(vec []int) (*Permutation, error) {
	if err := checkPermutation(vec); err != nil {
		return nil, err
	}
	return &Permutation{perm: append([]int(nil), vec...)}, nil
}

func checkPermutation(vec []int) error {
	n := len(vec)
	seen := bitset.New(uint(n))
	for i, v := range vec {
		if v < 0 || v >= n {
			return fmt.Errorf("%w: entry %d = %d outside [0,%d)", ErrNotPermutation, i, v, n)
		}
		if seen.Test(uint(v)) {
			return fmt.Errorf("%w: value %d repeated", ErrNotPermutation, v)
		}
		seen.Set(uint(v))
	}
	return nil
}

// elementSize is the number of bytes needed to hold any index below n.
func elementSize(n int) int {
	size := 1
	for d := n - 1; d > 0xff; d >>= 8 {
		size++
	}
	return size
}

// PermutationFromBytes decodes the encoding produced by Bytes.
func PermutationFromBytes(enc []byte) (*Permutation, error) {
	if len(enc) < 4 {
		return nil, fmt.Errorf("%w: permutation header truncated", ErrEncoding)
	}
	n64 := int64(binary.LittleEndian.Uint32(enc))
	if n64 > 1<<30 {
		return nil, fmt.Errorf("%w: permutation length %d", ErrEncoding, n64)
	}
	n := int(n64)
	size := elementSize(n)
	if int64(len(enc)) != 4+int64(n)*int64(size) {
		return nil, fmt.Errorf("%w: %d bytes for permutation of %d", ErrEncoding, len(enc), n)
	}
	vec := make([]int, n)
	off := 4
	for i := range vec {
		v := 0
		for b := size - 1; b >= 0; b-- {
			v = v<<8 | int(enc[off+b])
		}
		vec[i] = v
		off += size
	}
	if err := checkPermutation(vec); err != nil {
		return nil, err
	}
	return &Permutation{perm: vec}, nil
}

// Bytes encodes p as [n:4 LE] followed by n little-endian entries of
// ceil(log256(n)) bytes each (at least one byte).
func (p *Permutation) Bytes() []byte {
	n := len(p.perm)
	size := elementSize(n)
	out := make([]byte, 4+n*size)
	binary.LittleEndian.PutUint32(out, uint32(n))
	off := 4
	for _, v := range p.perm {
		for b := 0; b < size; b++ {
			out[off+b] = byte(v >> (8 * uint(b)))
		}
		off += size
	}
	return out
}

// Len returns the number of points.
func (p *Permutation) Len() int {
	return len(p.perm)
}

// At returns entry i.
func (p *Permutation) At(i int) int {
	return p.perm[i]
}

// Vector returns a copy of the index vector.
func (p *Permutation) Vector() []int {
	return append([]int(nil), p.perm...)
}

// Inverse returns p^-1, so that p.Compose(p.Inverse()) is the identity.
func (p *Permutation) Inverse() *Permutation {
	inv := &Permutation{perm: make([]int, len(p.perm))}
	for i, v := range p.perm {
		inv.perm[v] = i
	}
	return inv
}

// Compose returns the permutation r with r[i] = p[q[i]]. Applying r to a
// vector equals applying p first and then q.
func (p *Permutation) Compose(q *Permutation) (*Permutation, error) {
	if len(p.perm) != len(q.perm) {
		return nil, fmt.Errorf("%w: composing permutations of %d and %d", ErrDimension, len(p.perm), len(q.perm))
	}
	r := &Permutation{perm: make([]int, len(p.perm))}
	for i, v := range q.perm {
		r.perm[i] = p.perm[v]
	}
	return r, nil
}

// IsIdentity reports whether p fixes every point.
func (p *Permutation) IsIdentity() bool {
	for i, v := range p.perm {
		if i != v {
			return false
		}
	}
	return true
}

// Equal reports whether p and q are the same permutation.
func (p *Permutation) Equal(q *Permutation) bool {
	if q == nil || len(p.perm) != len(q.perm) {
		return false
	}
	for i := range p.perm {
		if p.perm[i] != q.perm[i] {
			return false
		}
	}
	return true
}

func (p *Permutation) String() string {
	return fmt.Sprint(p.perm)
}
