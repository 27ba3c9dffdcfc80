package grad

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const epsNorm = 1e-5

/*
BNStats are the running batch normalization statistics kept by a layer
*/
type BNStats struct {
	Mean, Var []float64
	set       bool
}

/*
BatchNorm normalizes every column over the whole batch with learnable
1×c scale gamma and shift beta, updating the running statistics while
training and using them for inference
*/
func (t *Tape) BatchNorm(a, gamma, beta *Var, stats *BNStats, momentum float64, training bool) *Var {
	return t.GhostBatchNorm(a, gamma, beta, stats, momentum, 0, training)
}

/*
GhostBatchNorm is batch normalization computed over virtual batches,
consecutive row chunks of at most vbs rows normalized independently
while sharing gamma/beta and the running statistics
*/
func (t *Tape) GhostBatchNorm(a, gamma, beta *Var, stats *BNStats, momentum float64, vbs int, training bool) *Var {
	r, c := a.Value.Dims()
	if vbs <= 0 || vbs > r {
		vbs = r
	}
	v := mat.NewDense(r, c, nil)

	type chunk struct {
		i0, i1 int
		xhat   *mat.Dense
		invstd []float64
	}
	var chunks []chunk

	if training {
		if stats.Mean == nil {
			stats.Mean = make([]float64, c)
			stats.Var = make([]float64, c)
		}
		for i0 := 0; i0 < r; i0 += vbs {
			i1 := i0 + vbs
			if i1 > r {
				i1 = r
			}
			n := float64(i1 - i0)
			xhat := mat.NewDense(i1-i0, c, nil)
			invstd := make([]float64, c)
			for j := 0; j < c; j++ {
				mean, vr := 0.0, 0.0
				for i := i0; i < i1; i++ {
					mean += a.Value.At(i, j)
				}
				mean /= n
				for i := i0; i < i1; i++ {
					d := a.Value.At(i, j) - mean
					vr += d * d
				}
				vr /= n
				invstd[j] = 1 / math.Sqrt(vr+epsNorm)
				for i := i0; i < i1; i++ {
					xh := (a.Value.At(i, j) - mean) * invstd[j]
					xhat.Set(i-i0, j, xh)
					v.Set(i, j, gamma.Value.At(0, j)*xh+beta.Value.At(0, j))
				}
				if !stats.set {
					stats.Mean[j] = mean
					stats.Var[j] = vr
				} else {
					stats.Mean[j] = momentum*stats.Mean[j] + (1-momentum)*mean
					stats.Var[j] = momentum*stats.Var[j] + (1-momentum)*vr
				}
			}
			stats.set = true
			chunks = append(chunks, chunk{i0, i1, xhat, invstd})
		}
	} else {
		for j := 0; j < c; j++ {
			mean, vr := 0.0, 1.0
			if stats.set {
				mean, vr = stats.Mean[j], stats.Var[j]
			}
			invstd := 1 / math.Sqrt(vr+epsNorm)
			for i := 0; i < r; i++ {
				xh := (a.Value.At(i, j) - mean) * invstd
				v.Set(i, j, gamma.Value.At(0, j)*xh+beta.Value.At(0, j))
			}
		}
	}

	out := t.node(v)
	t.record(func() {
		if !training {
			return
		}
		for _, ch := range chunks {
			n := float64(ch.i1 - ch.i0)
			for j := 0; j < c; j++ {
				sdy, sdyx := 0.0, 0.0
				for i := ch.i0; i < ch.i1; i++ {
					dy := out.Grad.At(i, j)
					sdy += dy
					sdyx += dy * ch.xhat.At(i-ch.i0, j)
				}
				if gamma.Grad != nil {
					gamma.Grad.Set(0, j, gamma.Grad.At(0, j)+sdyx)
				}
				if beta.Grad != nil {
					beta.Grad.Set(0, j, beta.Grad.At(0, j)+sdy)
				}
				if a.Grad != nil {
					g := gamma.Value.At(0, j)
					for i := ch.i0; i < ch.i1; i++ {
						dy := out.Grad.At(i, j)
						xh := ch.xhat.At(i-ch.i0, j)
						dx := g * ch.invstd[j] / n * (n*dy - sdy - xh*sdyx)
						a.Grad.Set(i, j, a.Grad.At(i, j)+dx)
					}
				}
			}
		}
	})
	return out
}
