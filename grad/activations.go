package grad

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
ReLU is the elementwise max(0, x) activation
*/
func (t *Tape) ReLU(a *Var) *Var {
	return t.apply(a, func(x float64) (float64, float64) {
		if x > 0 {
			return x, 1
		}
		return 0, 0
	})
}

/*
LeakyReLU keeps a small alpha slope on the negative side
*/
func (t *Tape) LeakyReLU(a *Var, alpha float64) *Var {
	return t.apply(a, func(x float64) (float64, float64) {
		if x > 0 {
			return x, 1
		}
		return alpha * x, alpha
	})
}

/*
Sigmoid is the elementwise logistic activation
*/
func (t *Tape) Sigmoid(a *Var) *Var {
	return t.apply(a, func(x float64) (float64, float64) {
		y := 1 / (1 + math.Exp(-x))
		return y, y * (1 - y)
	})
}

/*
Softmax normalizes every row into a probability distribution
*/
func (t *Tape) Softmax(a *Var) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		max := a.Value.At(i, 0)
		for j := 1; j < c; j++ {
			if a.Value.At(i, j) > max {
				max = a.Value.At(i, j)
			}
		}
		s := 0.0
		for j := 0; j < c; j++ {
			e := math.Exp(a.Value.At(i, j) - max)
			v.Set(i, j, e)
			s += e
		}
		for j := 0; j < c; j++ {
			v.Set(i, j, v.At(i, j)/s)
		}
	}
	out := t.node(v)
	t.record(func() {
		if a.Grad == nil {
			return
		}
		// dz = p ⊙ (dp - <dp,p>) per row
		for i := 0; i < r; i++ {
			dot := 0.0
			for j := 0; j < c; j++ {
				dot += out.Grad.At(i, j) * v.At(i, j)
			}
			for j := 0; j < c; j++ {
				g := v.At(i, j) * (out.Grad.At(i, j) - dot)
				a.Grad.Set(i, j, a.Grad.At(i, j)+g)
			}
		}
	})
	return out
}
