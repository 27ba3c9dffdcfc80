package grad

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const epsLog = 1e-7

/*
MatMul multiplies two matrices, C = A @ B
*/
func (t *Tape) MatMul(a, b *Var) *Var {
	ar, _ := a.Value.Dims()
	_, bc := b.Value.Dims()
	v := mat.NewDense(ar, bc, nil)
	v.Mul(a.Value, b.Value)
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			var g mat.Dense
			g.Mul(out.Grad, b.Value.T())
			a.Grad.Add(a.Grad, &g)
		}
		if b.Grad != nil {
			var g mat.Dense
			g.Mul(a.Value.T(), out.Grad)
			b.Grad.Add(b.Grad, &g)
		}
	})
	return out
}

/*
AddRow adds a 1×c bias row to every row of a
*/
func (t *Tape) AddRow(a, bias *Var) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v.Set(i, j, a.Value.At(i, j)+bias.Value.At(0, j))
		}
	}
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			a.Grad.Add(a.Grad, out.Grad)
		}
		if bias.Grad != nil {
			for j := 0; j < c; j++ {
				s := bias.Grad.At(0, j)
				for i := 0; i < r; i++ {
					s += out.Grad.At(i, j)
				}
				bias.Grad.Set(0, j, s)
			}
		}
	})
	return out
}

/*
Add sums two same-shaped matrices
*/
func (t *Tape) Add(a, b *Var) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, c, nil)
	v.Add(a.Value, b.Value)
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			a.Grad.Add(a.Grad, out.Grad)
		}
		if b.Grad != nil {
			b.Grad.Add(b.Grad, out.Grad)
		}
	})
	return out
}

/*
Sub subtracts two same-shaped matrices
*/
func (t *Tape) Sub(a, b *Var) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, c, nil)
	v.Sub(a.Value, b.Value)
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			a.Grad.Add(a.Grad, out.Grad)
		}
		if b.Grad != nil {
			var g mat.Dense
			g.Scale(-1, out.Grad)
			b.Grad.Add(b.Grad, &g)
		}
	})
	return out
}

/*
MulElem multiplies two same-shaped matrices elementwise
*/
func (t *Tape) MulElem(a, b *Var) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, c, nil)
	v.MulElem(a.Value, b.Value)
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			var g mat.Dense
			g.MulElem(out.Grad, b.Value)
			a.Grad.Add(a.Grad, &g)
		}
		if b.Grad != nil {
			var g mat.Dense
			g.MulElem(out.Grad, a.Value)
			b.Grad.Add(b.Grad, &g)
		}
	})
	return out
}

/*
Scale multiplies a matrix by a scalar
*/
func (t *Tape) Scale(a *Var, k float64) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, c, nil)
	v.Scale(k, a.Value)
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			var g mat.Dense
			g.Scale(k, out.Grad)
			a.Grad.Add(a.Grad, &g)
		}
	})
	return out
}

/*
AddConst adds a scalar to every element
*/
func (t *Tape) AddConst(a *Var, k float64) *Var {
	out := t.apply(a, func(x float64) (float64, float64) { return x + k, 1 })
	return out
}

/*
ConstSub computes k - a elementwise
*/
func (t *Tape) ConstSub(k float64, a *Var) *Var {
	return t.apply(a, func(x float64) (float64, float64) { return k - x, -1 })
}

/*
PowConst raises every element to a constant power,
elements are expected to be non-negative
*/
func (t *Tape) PowConst(a *Var, p float64) *Var {
	return t.apply(a, func(x float64) (float64, float64) {
		if x <= 0 {
			return 0, 0
		}
		return math.Pow(x, p), p * math.Pow(x, p-1)
	})
}

/*
LogEps computes log(a + eps) elementwise
*/
func (t *Tape) LogEps(a *Var) *Var {
	return t.apply(a, func(x float64) (float64, float64) {
		return math.Log(x + epsLog), 1 / (x + epsLog)
	})
}

// apply records an elementwise op given value and local derivative
func (t *Tape) apply(a *Var, f func(float64) (float64, float64)) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, c, nil)
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			y, dy := f(a.Value.At(i, j))
			v.Set(i, j, y)
			d.Set(i, j, dy)
		}
	}
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			var g mat.Dense
			g.MulElem(out.Grad, d)
			a.Grad.Add(a.Grad, &g)
		}
	})
	return out
}

/*
RowSum sums every row into an n×1 column
*/
func (t *Tape) RowSum(a *Var) *Var {
	r, c := a.Value.Dims()
	v := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		s := 0.0
		for j := 0; j < c; j++ {
			s += a.Value.At(i, j)
		}
		v.Set(i, 0, s)
	}
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			for i := 0; i < r; i++ {
				g := out.Grad.At(i, 0)
				for j := 0; j < c; j++ {
					a.Grad.Set(i, j, a.Grad.At(i, j)+g)
				}
			}
		}
	})
	return out
}

/*
Mean reduces a matrix to its 1×1 mean
*/
func (t *Tape) Mean(a *Var) *Var {
	r, c := a.Value.Dims()
	n := float64(r * c)
	s := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			s += a.Value.At(i, j)
		}
	}
	out := t.node(mat.NewDense(1, 1, []float64{s / n}))
	t.record(func() {
		if a.Grad != nil {
			g := out.Grad.At(0, 0) / n
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					a.Grad.Set(i, j, a.Grad.At(i, j)+g)
				}
			}
		}
	})
	return out
}

/*
SliceCols takes the [from,to) column range
*/
func (t *Tape) SliceCols(a *Var, from, to int) *Var {
	r, _ := a.Value.Dims()
	v := mat.NewDense(r, to-from, nil)
	for i := 0; i < r; i++ {
		for j := from; j < to; j++ {
			v.Set(i, j-from, a.Value.At(i, j))
		}
	}
	out := t.node(v)
	t.record(func() {
		if a.Grad != nil {
			for i := 0; i < r; i++ {
				for j := from; j < to; j++ {
					a.Grad.Set(i, j, a.Grad.At(i, j)+out.Grad.At(i, j-from))
				}
			}
		}
	})
	return out
}
