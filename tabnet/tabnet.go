package tabnet

import (
	"math/rand"

	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/diabetes/grad"
	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/nn"
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/mat"
)

/*
TabNet is an attention-based tabular classifier. Every decision step
masks the input features with a sparsemax attentive transformer and
feeds the masked features through shared and step-specific GLU feature
transformer blocks; the ReLU decision halves are summed into the final
linear head. The mask entropy is penalized so steps attend to few
features, and the aggregated masks yield per-feature importances.
*/
type TabNet struct {
	Width        int     // decision and attention width, 16 if unset
	Steps        int     // decision steps, 5 if unset
	Relaxation   float64 // feature reuse relaxation gamma, 1.5 if unset
	Sparsity     float64 // mask entropy penalty, 0.001 if unset
	SharedBlocks int     // shared GLU blocks, 2 if unset
	StepBlocks   int     // step-specific GLU blocks, 2 if unset
	Momentum     float64 // batch norm running decay, 0.98 if unset
	BatchSize    int     // 1024 if unset
	VirtualBatch int     // ghost batch norm size, 256 if unset
	Schedule     nn.Schedule
	Seed         int64

	features []string
	inGamma  *grad.Var
	inBeta   *grad.Var
	inStats  grad.BNStats
	initial  *featureTransformer
	steps    []*tnStep
	headW    *grad.Var
	headB    *grad.Var
	params   []*grad.Var
	imp      []float64
	fitted   bool
}

type tnStep struct {
	attentive *attentiveTransformer
	transform *featureTransformer
}

type tnForward struct {
	logits   *grad.Var
	sparsity *grad.Var
	masks    []*grad.Var
	decision []*grad.Var
}

func (m *TabNet) width() int  { return fu.Fnzi(m.Width, 16) }
func (m *TabNet) nsteps() int { return fu.Fnzi(m.Steps, 5) }
func (m *TabNet) vbs() int    { return fu.Fnzi(m.VirtualBatch, 256) }
func (m *TabNet) momentum() float64 {
	if m.Momentum == 0 {
		return 0.98
	}
	return m.Momentum
}
func (m *TabNet) relaxation() float64 {
	if m.Relaxation == 0 {
		return 1.5
	}
	return m.Relaxation
}
func (m *TabNet) sparsity() float64 {
	if m.Sparsity == 0 {
		return 0.001
	}
	return m.Sparsity
}

func (m *TabNet) build(features int, rng *rand.Rand) {
	width, vbs := m.width(), m.vbs()
	tw := 2 * width // decision + attention halves
	nshared := fu.Fnzi(m.SharedBlocks, 2)
	nstep := fu.Fnzi(m.StepBlocks, 2)

	m.inGamma, m.inBeta, m.inStats = grad.Ones(1, features), grad.Zeros(1, features), grad.BNStats{}
	m.params = append(m.params, m.inGamma, m.inBeta)

	shared := make([]*gluBlock, nshared)
	for k := range shared {
		in := tw
		if k == 0 {
			in = features
		}
		shared[k] = newGLUBlock(in, tw, vbs, rng)
		m.params = append(m.params, shared[k].params()...)
	}
	newFT := func() *featureTransformer {
		step := make([]*gluBlock, nstep)
		for k := range step {
			step[k] = newGLUBlock(tw, tw, vbs, rng)
			m.params = append(m.params, step[k].params()...)
		}
		return &featureTransformer{shared: shared, step: step}
	}
	m.initial = newFT()
	m.steps = nil
	for i := 0; i < m.nsteps(); i++ {
		s := &tnStep{
			attentive: newAttentiveTransformer(width, features, vbs, rng),
			transform: newFT(),
		}
		m.params = append(m.params, s.attentive.params()...)
		m.steps = append(m.steps, s)
	}
	m.headW = grad.Xavier(width, 2, rng)
	m.headB = grad.Zeros(1, 2)
	m.params = append(m.params, m.headW, m.headB)
}

func (m *TabNet) forward(t *grad.Tape, x *grad.Var, training bool) tnForward {
	width, momentum := m.width(), m.momentum()
	r, _ := x.Value.Dims()
	bn := t.BatchNorm(x, m.inGamma, m.inBeta, &m.inStats, momentum, training)

	h := m.initial.forward(t, bn, momentum, training)
	att := t.SliceCols(h, width, 2*width)

	prior := grad.Const(ones(r, len(m.features)))
	var out, sparsity *grad.Var
	fwd := tnForward{}
	for _, s := range m.steps {
		mask := s.attentive.forward(t, att, prior, momentum, training)
		fwd.masks = append(fwd.masks, mask)
		// entropy of the mask keeps every step attending to few features
		ent := t.Mean(t.Scale(t.RowSum(t.MulElem(mask, t.LogEps(mask))), -1))
		if sparsity == nil {
			sparsity = ent
		} else {
			sparsity = t.Add(sparsity, ent)
		}
		prior = t.MulElem(prior, t.ConstSub(m.relaxation(), mask))
		h = s.transform.forward(t, t.MulElem(mask, bn), momentum, training)
		d := t.ReLU(t.SliceCols(h, 0, width))
		fwd.decision = append(fwd.decision, d)
		if out == nil {
			out = d
		} else {
			out = t.Add(out, d)
		}
		att = t.SliceCols(h, width, 2*width)
	}
	fwd.logits = t.AddRow(t.MatMul(out, m.headW), m.headB)
	fwd.sparsity = t.Scale(sparsity, 1/float64(len(m.steps)))
	return fwd
}

/*
Feed bounds the model to a dataset returning the training function
*/
func (m *TabNet) Feed(ds model.Dataset, parts model.Partitions) model.FatModel {
	return func(w model.Workout) (*model.Report, error) {
		m.features = ds.Features
		rng := rand.New(rand.NewSource(m.Seed))
		xtr := parts.Train.Matrix(ds.Features)
		ytr := parts.Train.Labels(ds.Label)
		xva := parts.Validation.Matrix(ds.Features)
		yva := parts.Validation.Labels(ds.Label)
		m.params, m.imp = nil, nil
		m.build(len(ds.Features), rng)

		batch := fu.Fnzi(m.BatchSize, 1024)
		sched := m.Schedule
		if sched == nil {
			sched = nn.StepDecay{}
		}
		opt := &nn.Adam{}
		n := len(ytr)

		for {
			lr := sched.Rate(w.Iteration())
			perm := rng.Perm(n)
			upd := w.TrainMetrics()
			for i0 := 0; i0 < n; i0 += batch {
				idx := perm[i0:fu.Mini(i0+batch, n)]
				labels := nn.TakeLabels(ytr, idx)
				tape := grad.NewTape()
				fwd := m.forward(tape, grad.Const(nn.TakeRows(xtr, idx)), true)
				probs := tape.Softmax(fwd.logits)
				loss := m.loss(tape, probs, fwd.sparsity, labels)
				tape.Backward(loss)
				opt.Step(m.params, lr)
				upd.Batch(loss.Value.At(0, 0), nn.PositiveColumn(probs.Value), labels)
			}
			tst := w.TestMetrics()
			m.evaluate(xva, yva, batch, tst)
			report, done, err := w.Complete(upd.Complete(), tst.Complete(), false)
			if err != nil {
				return nil, zorros.Trace(err)
			}
			if done {
				m.fitted = true
				m.imp = m.importances(xtr)
				return report, nil
			}
			if w = w.Next(); w == nil {
				return nil, zorros.Errorf("training iteration lost")
			}
		}
	}
}

// loss is cross-entropy plus the sparsity penalty
func (m *TabNet) loss(t *grad.Tape, probs *grad.Var, sparsity *grad.Var, labels []int) *grad.Var {
	y := grad.Const(nn.OneHot(labels, 2))
	ce := t.Mean(t.Scale(t.RowSum(t.MulElem(y, t.LogEps(probs))), -1))
	return t.Add(ce, t.Scale(sparsity, m.sparsity()))
}

func (m *TabNet) evaluate(x *mat.Dense, labels []int, batch int, upd model.MetricsUpdater) {
	n := len(labels)
	for i0 := 0; i0 < n; i0 += batch {
		idx := make([]int, 0, batch)
		for i := i0; i < fu.Mini(i0+batch, n); i++ {
			idx = append(idx, i)
		}
		sub := nn.TakeLabels(labels, idx)
		tape := grad.NewTape()
		fwd := m.forward(tape, grad.Const(nn.TakeRows(x, idx)), false)
		probs := tape.Softmax(fwd.logits)
		loss := m.loss(tape, probs, fwd.sparsity, sub)
		upd.Batch(loss.Value.At(0, 0), nn.PositiveColumn(probs.Value), sub)
	}
}

/*
Features returns the feature names the model was fed with
*/
func (m *TabNet) Features() []string { return m.features }

/*
PredictProba returns the predicted positive class probability per row
*/
func (m *TabNet) PredictProba(t *tables.Table) []float64 {
	if !m.fitted {
		panic(zorros.Panic(zorros.Errorf("model is not fitted")))
	}
	x := t.Matrix(m.features)
	tape := grad.NewTape()
	fwd := m.forward(tape, grad.Const(x), false)
	probs := tape.Softmax(fwd.logits)
	return nn.PositiveColumn(probs.Value)
}

func ones(r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = 1
	}
	return mat.NewDense(r, c, data)
}
