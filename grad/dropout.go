package grad

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

/*
Dropout zeroes every element with probability rate while training,
scaling the kept elements by 1/(1-rate) so the expectation is
unchanged. Inference passes the input through.
*/
func (t *Tape) Dropout(a *Var, rate float64, rng *rand.Rand, training bool) *Var {
	if !training || rate <= 0 {
		return a
	}
	r, c := a.Value.Dims()
	keep := 1 - rate
	mask := mat.NewDense(r, c, nil)
	v := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if rng.Float64() < keep {
				mask.Set(i, j, 1/keep)
				v.Set(i, j, a.Value.At(i, j)/keep)
			}
		}
	}
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			var g mat.Dense
			g.MulElem(out.Grad, mask)
			a.Grad.Add(a.Grad, &g)
		}
	})
	return out
}
