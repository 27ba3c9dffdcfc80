package nn

import (
	"go-ml.dev/pkg/diabetes/grad"
)

/*
BlendedFocal is a weighted blend of categorical cross-entropy and
focal loss. Focal loss down-weights well-classified samples by
(1-p_t)^Gamma focusing the gradient on the hard ones.

	loss = (1-Weight)·CE + Weight·FL,  FL = -Alpha·(1-p_t)^Gamma·log(p_t)
*/
type BlendedFocal struct {
	Alpha  float64 // focal scale, 0.25 if unset
	Gamma  float64 // focusing exponent, 2 if unset
	Weight float64 // focal share of the blend, 0.5 if unset
}

/*
Build computes the per-batch scalar loss of softmax probabilities
against one-hot labels, weighted per sample
*/
func (l BlendedFocal) Build(t *grad.Tape, probs, onehot, sampleWeights *grad.Var) *grad.Var {
	alpha, gamma, weight := l.Alpha, l.Gamma, l.Weight
	if alpha == 0 {
		alpha = 0.25
	}
	if gamma == 0 {
		gamma = 2
	}
	if weight == 0 {
		weight = 0.5
	}
	// ce_i = -Σ_c y·log(p)
	ce := t.Scale(t.RowSum(t.MulElem(onehot, t.LogEps(probs))), -1)
	// fl_i = -alpha·(1-p_t)^gamma·log(p_t)
	pt := t.RowSum(t.MulElem(onehot, probs))
	fl := t.Scale(t.MulElem(t.PowConst(t.ConstSub(1, pt), gamma), t.LogEps(pt)), -alpha)
	blend := t.Add(t.Scale(ce, 1-weight), t.Scale(fl, weight))
	return t.Mean(t.MulElem(blend, sampleWeights))
}
