package gf2m

import (
	"fmt"

	"github.com/ppopth/mceliece/gf2"
)

// Vector is a vector over GF(2^m).
type Vector struct {
	field *Field
	elems []int
}

// NewVector returns a vector over f holding a copy of elems.
func NewVector(f *Field, elems []int) (*Vector, error) {
	for i, e := range elems {
		if !f.Contains(e) {
			return nil, fmt.Errorf("%w: entry %d = %d", ErrNotInField, i, e)
		}
	}
	return &Vector{field: f, elems: append([]int(nil), elems...)}, nil
}

// VectorFromBits groups the bits of v into elements of f. The bit stream is
// read from position 0 upward, filling elements from the last one down and
// each element from its most significant bit down. The length of v must be
// a multiple of m.
func VectorFromBits(f *Field, v *gf2.Vector) (*Vector, error) {
	m := f.degree
	if v.Len()%m != 0 {
		return nil, fmt.Errorf("%w: %d bits do not split into %d-bit elements", ErrDimension, v.Len(), m)
	}
	t := v.Len() / m
	elems := make([]int, t)
	count := 0
	for i := t - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if v.Bit(count) != 0 {
				elems[i] |= 1 << uint(j)
			}
			count++
		}
	}
	return &Vector{field: f, elems: elems}, nil
}

// VectorFromBytes decodes the encoding produced by Bytes.
func VectorFromBytes(f *Field, enc []byte) (*Vector, error) {
	elems, err := decodeElements(f, enc)
	if err != nil {
		return nil, err
	}
	return &Vector{field: f, elems: elems}, nil
}

// Bits is the inverse of VectorFromBits.
func (v *Vector) Bits() *gf2.Vector {
	m := v.field.degree
	res := gf2.NewVector(len(v.elems) * m)
	count := 0
	for i := len(v.elems) - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if v.elems[i]>>uint(j)&1 != 0 {
				res.SetBit(count)
			}
			count++
		}
	}
	return res
}

// Bytes encodes every entry in ceil(m/8) little-endian bytes.
func (v *Vector) Bytes() []byte {
	return encodeElements(v.field, v.elems)
}

// Field returns the field of the entries.
func (v *Vector) Field() *Field { return v.field }

// Len returns the number of entries.
func (v *Vector) Len() int { return len(v.elems) }

// At returns entry i.
func (v *Vector) At(i int) int { return v.elems[i] }

// Elements returns a copy of the entries.
func (v *Vector) Elements() []int {
	return append([]int(nil), v.elems...)
}

// IsZero reports whether every entry is zero.
func (v *Vector) IsZero() bool {
	for _, e := range v.elems {
		if e != 0 {
			return false
		}
	}
	return true
}

// Permute returns the vector whose entry i is entry p[i] of v.
func (v *Vector) Permute(p *gf2.Permutation) (*Vector, error) {
	if p.Len() != len(v.elems) {
		return nil, fmt.Errorf("%w: permutation of %d on %d entries", ErrDimension, p.Len(), len(v.elems))
	}
	res := make([]int, len(v.elems))
	for i := range res {
		res[i] = v.elems[p.At(i)]
	}
	return &Vector{field: v.field, elems: res}, nil
}

// Equal reports whether v and o hold the same entries over the same field.
func (v *Vector) Equal(o *Vector) bool {
	if o == nil || !v.field.Equal(o.field) || len(v.elems) != len(o.elems) {
		return false
	}
	for i, e := range v.elems {
		if o.elems[i] != e {
			return false
		}
	}
	return true
}
