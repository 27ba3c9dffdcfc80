package grad

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

/*
Package grad is a small reverse-mode automatic differentiation engine
over gonum dense matrices. A Tape records one forward computation and
replays it backwards to accumulate gradients into every participating
Var. Parameters live across tapes, intermediates die with the tape.
*/

/*
Var is a matrix node of the computation graph.
A Var with a nil Grad is a constant, no gradient flows into it.
*/
type Var struct {
	Value *mat.Dense
	Grad  *mat.Dense
}

/*
Param wraps a matrix into a trainable Var with an allocated gradient
*/
func Param(v *mat.Dense) *Var {
	r, c := v.Dims()
	return &Var{Value: v, Grad: mat.NewDense(r, c, nil)}
}

/*
Const wraps a matrix into a constant Var
*/
func Const(v *mat.Dense) *Var {
	return &Var{Value: v}
}

/*
Zero resets the accumulated gradient
*/
func (v *Var) Zero() {
	if v.Grad != nil {
		v.Grad.Zero()
	}
}

/*
Tape records backward closures of one forward pass
*/
type Tape struct {
	ops []func()
}

func NewTape() *Tape {
	return &Tape{}
}

func (t *Tape) record(f func()) {
	t.ops = append(t.ops, f)
}

func (t *Tape) node(v *mat.Dense) *Var {
	r, c := v.Dims()
	return &Var{Value: v, Grad: mat.NewDense(r, c, nil)}
}

/*
Backward seeds the scalar loss gradient with 1 and replays the tape
in reverse accumulating gradients of all participating Vars
*/
func (t *Tape) Backward(loss *Var) {
	loss.Grad.Set(0, 0, 1)
	for i := len(t.ops) - 1; i >= 0; i-- {
		t.ops[i]()
	}
}

/*
Xavier creates a parameter matrix initialized with the uniform
Glorot scheme
*/
func Xavier(rows, cols int, rng *rand.Rand) *Var {
	limit := math.Sqrt(6.0 / float64(rows+cols))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return Param(mat.NewDense(rows, cols, data))
}

/*
Zeros creates a zero-initialized parameter matrix
*/
func Zeros(rows, cols int) *Var {
	return Param(mat.NewDense(rows, cols, nil))
}

/*
Ones creates a one-initialized parameter matrix
*/
func Ones(rows, cols int) *Var {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 1
	}
	return Param(mat.NewDense(rows, cols, data))
}
