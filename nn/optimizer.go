package nn

import (
	"math"

	"go-ml.dev/pkg/diabetes/grad"
	"gonum.org/v1/gonum/mat"
)

/*
Adam is the adaptive moment estimation optimizer
*/
type Adam struct {
	Beta1   float64 // first moment decay, 0.9 if unset
	Beta2   float64 // second moment decay, 0.999 if unset
	Epsilon float64 // denominator fuzz, 1e-8 if unset

	m, v []*mat.Dense
	t    int
}

/*
Step applies one update to every parameter from its accumulated
gradient and zeroes the gradients
*/
func (o *Adam) Step(params []*grad.Var, lr float64) {
	b1, b2, eps := o.Beta1, o.Beta2, o.Epsilon
	if b1 == 0 {
		b1 = 0.9
	}
	if b2 == 0 {
		b2 = 0.999
	}
	if eps == 0 {
		eps = 1e-8
	}
	if o.m == nil {
		o.m = make([]*mat.Dense, len(params))
		o.v = make([]*mat.Dense, len(params))
		for i, p := range params {
			r, c := p.Value.Dims()
			o.m[i] = mat.NewDense(r, c, nil)
			o.v[i] = mat.NewDense(r, c, nil)
		}
	}
	o.t++
	c1 := 1 - math.Pow(b1, float64(o.t))
	c2 := 1 - math.Pow(b2, float64(o.t))
	for i, p := range params {
		r, c := p.Value.Dims()
		for row := 0; row < r; row++ {
			for col := 0; col < c; col++ {
				g := p.Grad.At(row, col)
				m := b1*o.m[i].At(row, col) + (1-b1)*g
				v := b2*o.v[i].At(row, col) + (1-b2)*g*g
				o.m[i].Set(row, col, m)
				o.v[i].Set(row, col, v)
				update := lr * (m / c1) / (math.Sqrt(v/c2) + eps)
				p.Value.Set(row, col, p.Value.At(row, col)-update)
			}
		}
		p.Zero()
	}
}
