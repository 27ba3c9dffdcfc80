package grad

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

/*
Sparsemax projects every row onto the probability simplex producing
sparse distributions, the entmax family member with a closed-form
solution and Jacobian.
*/
func (t *Tape) Sparsemax(a *Var) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, c, nil)
	support := make([][]bool, r)
	for i := 0; i < r; i++ {
		z := make([]float64, c)
		mat.Row(z, i, a.Value)
		p, sup := sparsemaxRow(z)
		support[i] = sup
		for j := 0; j < c; j++ {
			v.Set(i, j, p[j])
		}
	}
	out := t.node(v)
	t.record(func() {
		if a.Grad == nil {
			return
		}
		// dz_j = dp_j - mean(dp over support) on the support, 0 elsewhere
		for i := 0; i < r; i++ {
			s, n := 0.0, 0
			for j := 0; j < c; j++ {
				if support[i][j] {
					s += out.Grad.At(i, j)
					n++
				}
			}
			if n == 0 {
				continue
			}
			m := s / float64(n)
			for j := 0; j < c; j++ {
				if support[i][j] {
					a.Grad.Set(i, j, a.Grad.At(i, j)+out.Grad.At(i, j)-m)
				}
			}
		}
	})
	return out
}

func sparsemaxRow(z []float64) (p []float64, support []bool) {
	c := len(z)
	sorted := make([]float64, c)
	copy(sorted, z)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	cum, k, kcum := 0.0, 1, sorted[0]
	for j := 0; j < c; j++ {
		cum += sorted[j]
		if 1+float64(j+1)*sorted[j] > cum {
			k = j + 1
			kcum = cum
		}
	}
	tau := (kcum - 1) / float64(k)
	p = make([]float64, c)
	support = make([]bool, c)
	for j := 0; j < c; j++ {
		if z[j] > tau {
			p[j] = z[j] - tau
			support[j] = true
		}
	}
	return
}
