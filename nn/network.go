package nn

import (
	"math/rand"

	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/diabetes/grad"
	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/preprocess"
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/mat"
)

const bnMomentum = 0.99

/*
FeedForward is a small dense softmax classifier over 2 classes.
Every hidden layer is linear → batch norm → leaky ReLU → dropout,
the linear kernels carry an L2 penalty. It fits with Adam under an
epoch-indexed learning rate schedule.
*/
type FeedForward struct {
	Hidden       []int              // hidden widths, {16, 32} if unset
	L2           float64            // kernel penalty, 1e-4 if unset
	DropRate     float64            // dropout rate, 0.3 if unset
	LeakyAlpha   float64            // negative side slope, 0.3 if unset
	Loss         BlendedFocal       // cross-entropy/focal blend
	ClassWeights preprocess.Weights // per-class loss multipliers
	BatchSize    int                // 128 if unset
	Schedule     Schedule           // ConstantThenExponential if unset
	Seed         int64

	features []string
	layers   []*ffLayer
	outW     *grad.Var
	outB     *grad.Var
	params   []*grad.Var
	fitted   bool
}

type ffLayer struct {
	w, b, gamma, beta *grad.Var
	stats             grad.BNStats
}

func (m *FeedForward) build(inputs int, rng *rand.Rand) {
	hidden := m.Hidden
	if len(hidden) == 0 {
		hidden = []int{16, 32}
	}
	in := inputs
	for _, h := range hidden {
		l := &ffLayer{
			w:     grad.Xavier(in, h, rng),
			b:     grad.Zeros(1, h),
			gamma: grad.Ones(1, h),
			beta:  grad.Zeros(1, h),
		}
		m.layers = append(m.layers, l)
		m.params = append(m.params, l.w, l.b, l.gamma, l.beta)
		in = h
	}
	m.outW = grad.Xavier(in, 2, rng)
	m.outB = grad.Zeros(1, 2)
	m.params = append(m.params, m.outW, m.outB)
}

func (m *FeedForward) forward(t *grad.Tape, x *grad.Var, rng *rand.Rand, training bool) *grad.Var {
	alpha := m.LeakyAlpha
	if alpha == 0 {
		alpha = 0.3
	}
	droprate := m.DropRate
	if droprate == 0 {
		droprate = 0.3
	}
	h := x
	for _, l := range m.layers {
		h = t.AddRow(t.MatMul(h, l.w), l.b)
		h = t.BatchNorm(h, l.gamma, l.beta, &l.stats, bnMomentum, training)
		h = t.LeakyReLU(h, alpha)
		h = t.Dropout(h, droprate, rng, training)
	}
	return t.AddRow(t.MatMul(h, m.outW), m.outB)
}

// penalty adds the L2 kernel terms to the scalar loss
func (m *FeedForward) penalty(t *grad.Tape, loss *grad.Var) *grad.Var {
	l2 := m.L2
	if l2 == 0 {
		l2 = 1e-4
	}
	kernels := make([]*grad.Var, 0, len(m.layers)+1)
	for _, l := range m.layers {
		kernels = append(kernels, l.w)
	}
	kernels = append(kernels, m.outW)
	for _, w := range kernels {
		r, c := w.Value.Dims()
		loss = t.Add(loss, t.Scale(t.Mean(t.MulElem(w, w)), l2*float64(r*c)))
	}
	return loss
}

/*
Feed bounds the model to a dataset returning the training function
*/
func (m *FeedForward) Feed(ds model.Dataset, parts model.Partitions) model.FatModel {
	return func(w model.Workout) (*model.Report, error) {
		m.features = ds.Features
		rng := rand.New(rand.NewSource(m.Seed))
		xtr := parts.Train.Matrix(ds.Features)
		ytr := parts.Train.Labels(ds.Label)
		xva := parts.Validation.Matrix(ds.Features)
		yva := parts.Validation.Labels(ds.Label)
		m.layers, m.params = nil, nil
		m.build(len(ds.Features), rng)

		batch := fu.Fnzi(m.BatchSize, 128)
		sched := m.Schedule
		if sched == nil {
			sched = ConstantThenExponential{}
		}
		opt := &Adam{}
		n := len(ytr)

		for {
			lr := sched.Rate(w.Iteration())
			perm := rng.Perm(n)
			upd := w.TrainMetrics()
			for i0 := 0; i0 < n; i0 += batch {
				idx := perm[i0:fu.Mini(i0+batch, n)]
				x := grad.Const(TakeRows(xtr, idx))
				labels := TakeLabels(ytr, idx)
				y := grad.Const(OneHot(labels, 2))
				sw := grad.Const(SampleWeights(labels, m.ClassWeights))
				tape := grad.NewTape()
				probs := tape.Softmax(m.forward(tape, x, rng, true))
				loss := m.penalty(tape, m.Loss.Build(tape, probs, y, sw))
				tape.Backward(loss)
				opt.Step(m.params, lr)
				upd.Batch(loss.Value.At(0, 0), PositiveColumn(probs.Value), labels)
			}
			tst := w.TestMetrics()
			m.evaluate(xva, yva, batch, tst)
			report, done, err := w.Complete(upd.Complete(), tst.Complete(), false)
			if err != nil {
				return nil, zorros.Trace(err)
			}
			if done {
				m.fitted = true
				return report, nil
			}
			if w = w.Next(); w == nil {
				return nil, zorros.Errorf("training iteration lost")
			}
		}
	}
}

func (m *FeedForward) evaluate(x *mat.Dense, labels []int, batch int, upd model.MetricsUpdater) {
	n := len(labels)
	for i0 := 0; i0 < n; i0 += batch {
		idx := make([]int, 0, batch)
		for i := i0; i < fu.Mini(i0+batch, n); i++ {
			idx = append(idx, i)
		}
		sub := TakeLabels(labels, idx)
		tape := grad.NewTape()
		probs := tape.Softmax(m.forward(tape, grad.Const(TakeRows(x, idx)), nil, false))
		loss := m.Loss.Build(tape, probs, grad.Const(OneHot(sub, 2)), grad.Const(SampleWeights(sub, nil)))
		upd.Batch(loss.Value.At(0, 0), PositiveColumn(probs.Value), sub)
	}
}

/*
Features returns the feature names the model was fed with
*/
func (m *FeedForward) Features() []string { return m.features }

/*
PredictProba returns the predicted positive class probability per row
*/
func (m *FeedForward) PredictProba(t *tables.Table) []float64 {
	if !m.fitted {
		panic(zorros.Panic(zorros.Errorf("model is not fitted")))
	}
	x := t.Matrix(m.features)
	tape := grad.NewTape()
	probs := tape.Softmax(m.forward(tape, grad.Const(x), nil, false))
	return PositiveColumn(probs.Value)
}
