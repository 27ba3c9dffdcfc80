package tabnet

import (
	"math/rand"

	"go-ml.dev/pkg/diabetes/grad"
)

const residualScale = 0.70710678118 // sqrt(1/2), keeps residual variance

/*
gluBlock is one gated linear unit block of a feature transformer:
linear (no bias) → ghost batch norm → GLU gating
*/
type gluBlock struct {
	w            *grad.Var
	gamma, beta  *grad.Var
	stats        grad.BNStats
	in, out, vbs int
}

func newGLUBlock(in, out, vbs int, rng *rand.Rand) *gluBlock {
	return &gluBlock{
		w:     grad.Xavier(in, 2*out, rng),
		gamma: grad.Ones(1, 2*out),
		beta:  grad.Zeros(1, 2*out),
		in:    in, out: out, vbs: vbs,
	}
}

func (b *gluBlock) params() []*grad.Var {
	return []*grad.Var{b.w, b.gamma, b.beta}
}

func (b *gluBlock) forward(t *grad.Tape, x *grad.Var, momentum float64, training bool) *grad.Var {
	z := t.GhostBatchNorm(t.MatMul(x, b.w), b.gamma, b.beta, &b.stats, momentum, b.vbs, training)
	return t.MulElem(t.SliceCols(z, 0, b.out), t.Sigmoid(t.SliceCols(z, b.out, 2*b.out)))
}

/*
featureTransformer chains the shared GLU blocks with one step-specific
stack, residual-connected with a sqrt(1/2) scale
*/
type featureTransformer struct {
	shared []*gluBlock // common to all decision steps
	step   []*gluBlock // specific to one step
}

func (f *featureTransformer) forward(t *grad.Tape, x *grad.Var, momentum float64, training bool) *grad.Var {
	h := x
	for k, blk := range f.shared {
		g := blk.forward(t, h, momentum, training)
		if k == 0 {
			h = g
		} else {
			h = t.Scale(t.Add(h, g), residualScale)
		}
	}
	for _, blk := range f.step {
		h = t.Scale(t.Add(h, blk.forward(t, h, momentum, training)), residualScale)
	}
	return h
}

/*
attentiveTransformer maps the attention half of the previous step to a
feature mask logit, scaled by the remaining prior before sparsemax
*/
type attentiveTransformer struct {
	w           *grad.Var
	gamma, beta *grad.Var
	stats       grad.BNStats
	vbs         int
}

func newAttentiveTransformer(attention, features, vbs int, rng *rand.Rand) *attentiveTransformer {
	return &attentiveTransformer{
		w:     grad.Xavier(attention, features, rng),
		gamma: grad.Ones(1, features),
		beta:  grad.Zeros(1, features),
		vbs:   vbs,
	}
}

func (a *attentiveTransformer) params() []*grad.Var {
	return []*grad.Var{a.w, a.gamma, a.beta}
}

func (a *attentiveTransformer) forward(t *grad.Tape, att, prior *grad.Var, momentum float64, training bool) *grad.Var {
	z := t.GhostBatchNorm(t.MatMul(att, a.w), a.gamma, a.beta, &a.stats, momentum, a.vbs, training)
	return t.Sparsemax(t.MulElem(prior, z))
}
