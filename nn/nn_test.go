package nn

import (
	"math"
	"math/rand"
	"testing"

	"go-ml.dev/pkg/diabetes/grad"
	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/preprocess"
	"go-ml.dev/pkg/diabetes/tables"
	"gonum.org/v1/gonum/mat"
	"gotest.tools/assert"
)

func TestOneHot(t *testing.T) {
	y := OneHot([]int{0, 1, 1}, 2)
	assert.Assert(t, y.At(0, 0) == 1 && y.At(0, 1) == 0)
	assert.Assert(t, y.At(1, 0) == 0 && y.At(1, 1) == 1)
	assert.Assert(t, y.At(2, 1) == 1)
}

func TestSampleWeights(t *testing.T) {
	w := SampleWeights([]int{0, 1}, preprocess.Weights{0: 0.75, 1: 1.25})
	assert.Assert(t, w.At(0, 0) == 0.75 && w.At(1, 0) == 1.25)
	w = SampleWeights([]int{0, 1}, nil)
	assert.Assert(t, w.At(0, 0) == 1 && w.At(1, 0) == 1)
}

func TestTakeRows(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	s := TakeRows(x, []int{2, 0})
	assert.Assert(t, s.At(0, 0) == 5 && s.At(1, 1) == 2)
	assert.DeepEqual(t, TakeLabels([]int{7, 8, 9}, []int{2, 0}), []int{9, 7})
}

func TestPositiveColumn(t *testing.T) {
	p := mat.NewDense(2, 2, []float64{0.7, 0.3, 0.1, 0.9})
	assert.DeepEqual(t, PositiveColumn(p), []float64{0.3, 0.9})
}

func TestSchedules(t *testing.T) {
	assert.Assert(t, Constant(0.01).Rate(0) == 0.01)
	assert.Assert(t, Constant(0.01).Rate(99) == 0.01)

	s := ConstantThenExponential{}
	assert.Assert(t, s.Rate(0) == 0.001)
	assert.Assert(t, s.Rate(9) == 0.001)
	assert.Assert(t, math.Abs(s.Rate(10)-0.001) < 1e-12)
	assert.Assert(t, s.Rate(11) < s.Rate(10))
	assert.Assert(t, math.Abs(s.Rate(11)-0.001*math.Exp(-0.1)) < 1e-12)

	d := StepDecay{}
	assert.Assert(t, d.Rate(0) == 0.02)
	assert.Assert(t, d.Rate(9) == 0.02)
	assert.Assert(t, math.Abs(d.Rate(10)-0.018) < 1e-12)
	assert.Assert(t, math.Abs(d.Rate(20)-0.02*0.81) < 1e-12)
}

func TestBlendedFocal(t *testing.T) {
	tape := grad.NewTape()
	good := grad.Const(mat.NewDense(1, 2, []float64{0.05, 0.95}))
	bad := grad.Const(mat.NewDense(1, 2, []float64{0.95, 0.05}))
	y := grad.Const(mat.NewDense(1, 2, []float64{0, 1}))
	sw := grad.Const(mat.NewDense(1, 1, []float64{1}))
	l := BlendedFocal{}
	lossGood := l.Build(tape, good, y, sw).Value.At(0, 0)
	lossBad := l.Build(tape, bad, y, sw).Value.At(0, 0)
	assert.Assert(t, lossGood > 0)
	assert.Assert(t, lossBad > lossGood)

	// ce = -log(0.95), fl = -0.25·0.05²·log(0.95)
	ce := -math.Log(0.95 + 1e-7)
	fl := -0.25 * math.Pow(0.05, 2) * math.Log(0.95+1e-7)
	assert.Assert(t, math.Abs(lossGood-(0.5*ce+0.5*fl)) < 1e-9)

	// sample weight scales the loss linearly
	sw2 := grad.Const(mat.NewDense(1, 1, []float64{2}))
	assert.Assert(t, math.Abs(l.Build(tape, good, y, sw2).Value.At(0, 0)-2*lossGood) < 1e-12)
}

func TestAdamStep(t *testing.T) {
	v := grad.Param(mat.NewDense(1, 1, []float64{1}))
	v.Grad.Set(0, 0, 0.5)
	opt := &Adam{}
	opt.Step([]*grad.Var{v}, 0.1)
	// the first bias-corrected step moves by about the learning rate
	assert.Assert(t, math.Abs(v.Value.At(0, 0)-0.9) < 1e-6)
	// gradients are reset after the step
	assert.Assert(t, v.Grad.At(0, 0) == 0)
}

// blobs makes a linearly separable 2d binary table
func blobs(n int, seed int64) *tables.Table {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float32, n)
	for i := range rows {
		label := float32(i % 2)
		rows[i] = []float32{
			label*3 + float32(rng.NormFloat64())*0.5,
			label*3 + float32(rng.NormFloat64())*0.5,
			label,
		}
	}
	return tables.LuckyFromRows([]string{"X1", "X2", "Label"}, rows)
}

func TestFeedForwardFit(t *testing.T) {
	ds := model.Dataset{Source: blobs(300, 1), Label: "Label", Features: []string{"X1", "X2"}}
	parts := preprocess.Partition(ds, 0.25, 0.25, 1)
	m := &FeedForward{
		Hidden:    []int{8},
		BatchSize: 32,
		Schedule:  Constant(0.01),
		Seed:      1,
	}
	report := m.Feed(ds, parts).LuckyTrain(model.Training{Epochs: 20, ScoreHistory: 20})
	assert.Assert(t, report.Test.Float(model.Accuracy) > 0.9,
		"test accuracy %v", report.Test.Float(model.Accuracy))
	assert.Assert(t, !math.IsNaN(report.Train.Float(model.Loss)))

	probs := m.PredictProba(parts.Test)
	assert.Assert(t, len(probs) == parts.Test.Len())
	correct := 0
	for i, y := range parts.Test.Labels("Label") {
		if (probs[i] > 0.5) == (y == 1) {
			correct++
		}
	}
	assert.Assert(t, float64(correct)/float64(len(probs)) > 0.9)
	assert.DeepEqual(t, m.Features(), []string{"X1", "X2"})
}

func TestPredictUnfitted(t *testing.T) {
	defer func() {
		assert.Assert(t, recover() != nil)
	}()
	(&FeedForward{}).PredictProba(blobs(4, 1))
}
