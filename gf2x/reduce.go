package gf2x

import "fmt"

// ReduceTrinomial reduces p in place modulo x^m + x^k + 1, leaving a
// nominal length of m.
func (p *Polynomial) ReduceTrinomial(m, k int) {
	if k <= 0 || k >= m {
		panic(fmt.Sprintf("gf2x: bad trinomial x^%d + x^%d + 1", m, k))
	}
	p.reduceSparse(m, []int{k, 0})
}

// ReducePentanomial reduces p in place modulo
// x^m + x^k3 + x^k2 + x^k1 + 1 with 0 < k1 < k2 < k3 < m, leaving a nominal
// length of m.
func (p *Polynomial) ReducePentanomial(m, k1, k2, k3 int) {
	if k1 <= 0 || k1 >= k2 || k2 >= k3 || k3 >= m {
		panic(fmt.Sprintf("gf2x: bad pentanomial x^%d + x^%d + x^%d + x^%d + 1", m, k3, k2, k1))
	}
	p.reduceSparse(m, []int{k3, k2, k1, 0})
}

// reduceSparse folds every word holding coefficients of degree m or more
// back onto the low exponents of x^m + sum x^e. Each fold strictly lowers
// the degree, so the loop ends once the degree drops below m.
func (p *Polynomial) reduceSparse(m int, low []int) {
	for {
		d := p.Degree()
		if d < m {
			break
		}
		q := d >> 5
		base := q << 5
		var w uint32
		off := 0
		if base >= m {
			w = p.words[q]
			p.words[q] = 0
			off = base - m
		} else {
			s := uint(m - base)
			w = p.words[q] >> s
			p.words[q] &= 1<<s - 1
		}
		for _, e := range low {
			p.xorWordAt(off+e, w)
		}
	}
	p.Expand(m)
	p.length = m
	p.words = p.words[:wordCount(m)]
}
