package gf2m

import (
	"encoding/binary"
	"fmt"
)

// Matrix is a square matrix over GF(2^m). It offers only inversion and
// matrix-vector products; the other products report ErrNotSupported.
type Matrix struct {
	field *Field
	n     int
	data  [][]int
}

// NewMatrix returns the square matrix with the given rows.
func NewMatrix(f *Field, rows [][]int) (*Matrix, error) {
	n := len(rows)
	m := &Matrix{field: f, n: n, data: make([][]int, n)}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrDimension, i, len(row), n)
		}
		for j, e := range row {
			if !f.Contains(e) {
				return nil, fmt.Errorf("%w: entry (%d,%d) = %d", ErrNotInField, i, j, e)
			}
		}
		m.data[i] = append([]int(nil), row...)
	}
	return m, nil
}

// IdentityMatrix returns the n x n identity over f.
func IdentityMatrix(f *Field, n int) *Matrix {
	m := &Matrix{field: f, n: n, data: make([][]int, n)}
	for i := range m.data {
		m.data[i] = make([]int, n)
		m.data[i][i] = 1
	}
	return m
}

// MatrixFromBytes decodes the encoding produced by Bytes.
func MatrixFromBytes(f *Field, enc []byte) (*Matrix, error) {
	if len(enc) < 4 {
		return nil, fmt.Errorf("%w: matrix header truncated", ErrEncoding)
	}
	n := int(binary.LittleEndian.Uint32(enc))
	elems, err := decodeElements(f, enc[4:])
	if err != nil {
		return nil, err
	}
	if int64(len(elems)) != int64(n)*int64(n) {
		return nil, fmt.Errorf("%w: %d entries for a %dx%d matrix", ErrEncoding, len(elems), n, n)
	}
	m := &Matrix{field: f, n: n, data: make([][]int, n)}
	for i := range m.data {
		m.data[i] = elems[i*n : (i+1)*n : (i+1)*n]
	}
	return m, nil
}

// Bytes encodes m as [n:4 LE] followed by the entries row-major, each in
// ceil(m/8) little-endian bytes.
func (m *Matrix) Bytes() []byte {
	out := make([]byte, 4, 4+m.n*m.n*m.field.elementSize())
	binary.LittleEndian.PutUint32(out, uint32(m.n))
	for _, row := range m.data {
		out = append(out, encodeElements(m.field, row)...)
	}
	return out
}

// Size returns the number of rows, which equals the number of columns.
func (m *Matrix) Size() int { return m.n }

// Field returns the field of the entries.
func (m *Matrix) Field() *Field { return m.field }

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) int { return m.data[i][j] }

// Equal reports whether m and o have the same entries over the same field.
func (m *Matrix) Equal(o *Matrix) bool {
	if o == nil || !m.field.Equal(o.field) || m.n != o.n {
		return false
	}
	for i := range m.data {
		for j, e := range m.data[i] {
			if o.data[i][j] != e {
				return false
			}
		}
	}
	return true
}

// Inverse returns the inverse of m by Gauss-Jordan elimination, or
// ErrSingular.
func (m *Matrix) Inverse() (*Matrix, error) {
	f := m.field
	n := m.n
	tmp := make([][]int, n)
	for i := range tmp {
		tmp[i] = append([]int(nil), m.data[i]...)
	}
	inv := IdentityMatrix(f, n).data

	for i := 0; i < n; i++ {
		if tmp[i][i] == 0 {
			pivot := -1
			for j := i + 1; j < n; j++ {
				if tmp[j][i] != 0 {
					pivot = j
					break
				}
			}
			if pivot < 0 {
				return nil, ErrSingular
			}
			tmp[i], tmp[pivot] = tmp[pivot], tmp[i]
			inv[i], inv[pivot] = inv[pivot], inv[i]
		}
		c := f.inv(tmp[i][i])
		tmp[i] = f.multCoeffs(tmp[i], c)
		inv[i] = f.multCoeffs(inv[i], c)
		for j := 0; j < n; j++ {
			e := tmp[j][i]
			if j == i || e == 0 {
				continue
			}
			for k := i; k < n; k++ {
				tmp[j][k] ^= f.Mult(tmp[i][k], e)
			}
			for k := 0; k < n; k++ {
				inv[j][k] ^= f.Mult(inv[i][k], e)
			}
		}
	}
	return &Matrix{field: f, n: n, data: inv}, nil
}

// MultiplyVector returns m*v for a column vector v.
func (m *Matrix) MultiplyVector(v *Vector) (*Vector, error) {
	if v.Len() != m.n || !v.field.Equal(m.field) {
		return nil, fmt.Errorf("%w: %dx%d matrix times %d-entry vector", ErrDimension, m.n, m.n, v.Len())
	}
	res := make([]int, m.n)
	for i, row := range m.data {
		acc := 0
		for j, e := range row {
			acc ^= m.field.Mult(e, v.elems[j])
		}
		res[i] = acc
	}
	return &Vector{field: m.field, elems: res}, nil
}

// Multiply is not offered by this matrix type.
func (m *Matrix) Multiply(*Matrix) (*Matrix, error) {
	return nil, fmt.Errorf("%w: matrix product", ErrNotSupported)
}

// VectorMultiply is not offered by this matrix type.
func (m *Matrix) VectorMultiply(*Vector) (*Vector, error) {
	return nil, fmt.Errorf("%w: row vector times matrix", ErrNotSupported)
}
