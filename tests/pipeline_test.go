package tests

import (
	"math"
	"math/rand"
	"testing"

	"go-ml.dev/pkg/diabetes/metrics"
	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/nn"
	"go-ml.dev/pkg/diabetes/preprocess"
	"go-ml.dev/pkg/diabetes/tables"
	"gotest.tools/assert"
)

// survey makes a balanced binary table resembling a health survey cut:
// ten numeric features where the first three carry a moderate risk
// signal, so the ranking is good but not perfect
func survey(n int, seed int64) *tables.Table {
	rng := rand.New(rand.NewSource(seed))
	names := []string{"F0", "F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "Diabetes"}
	rows := make([][]float32, n)
	for i := range rows {
		label := float32(i % 2)
		row := make([]float32, len(names))
		for j := 0; j < 10; j++ {
			v := rng.NormFloat64()
			if j < 3 {
				v += float64(label)
			}
			row[j] = float32(v)
		}
		row[10] = label
		rows[i] = row
	}
	return tables.LuckyFromRows(names, rows)
}

func TestClassifierPipeline(t *testing.T) {
	source := survey(500, 1)
	features := source.Except("Diabetes").Names()

	// scale all features on the whole table, then split
	scaler := (&preprocess.MinMaxScaler{Features: features}).Fit(source)
	scaled := scaler.LuckyTransform(source)
	for _, name := range features {
		for _, v := range scaled.Col(name).Floats() {
			assert.Assert(t, v >= 0 && v <= 1)
		}
	}

	ds := model.Dataset{Source: scaled, Label: "Diabetes", Features: features}
	parts := preprocess.Partition(ds, 0.25, 0.25, 1)
	assert.Assert(t, parts.Train.Len()+parts.Validation.Len()+parts.Test.Len() == 500)

	weights := preprocess.BalancedWeights(parts.Train.Labels(ds.Label)).
		Scale(0, 1.5).
		Scale(1, 0.5)
	assert.Assert(t, weights[0] > 0 && weights[1] > 0)

	resampled := preprocess.SMOTETomek{Seed: 1}.LuckyResample(parts.Train, ds.Label, features)
	classes := resampled.Classes(ds.Label)
	assert.Assert(t, classes[0] > 0 && classes[1] > 0)
	parts.Train = resampled

	m := &nn.FeedForward{
		Hidden:       []int{16, 32},
		ClassWeights: weights,
		BatchSize:    64,
		Schedule:     nn.Constant(0.01),
		Seed:         1,
	}
	report := m.Feed(ds, parts).LuckyTrain(model.Training{
		Epochs:       15,
		ScoreHistory: 15,
		Monitors: []model.Monitor{
			{Metric: model.Recall, Patience: 5},
			{Metric: model.Loss, Patience: 5, Less: true},
			{Metric: model.Accuracy, Patience: 5},
		},
	})

	assert.Assert(t, !math.IsNaN(report.Train.Float(model.Loss)))
	assert.Assert(t, !math.IsNaN(report.Test.Float(model.Loss)))
	assert.Assert(t, report.History.Len() > 0)

	probs := m.PredictProba(parts.Test)
	assert.Assert(t, len(probs) == parts.Test.Len())
	for _, p := range probs {
		assert.Assert(t, p >= 0 && p <= 1)
	}

	labels := parts.Test.Labels(ds.Label)
	_, _, auc := metrics.ROC(labels, probs)
	assert.Assert(t, auc > 0 && auc < 1, "auc %v", auc)
	assert.Assert(t, auc > 0.7, "auc %v", auc)
	_, _, ap := metrics.PrecisionRecall(labels, probs)
	assert.Assert(t, ap > 0 && ap <= 1)

	for _, cutoff := range []float64{0.6, 0.7, 0.8} {
		r := metrics.Report(labels, probs, cutoff)
		assert.Assert(t, r.Support == parts.Test.Len())
		predicted := metrics.Labels(probs, cutoff)
		// the report's implicit labeling matches the strict comparison
		tp := 0
		for i := range labels {
			if predicted[i] == 1 && labels[i] == 1 {
				tp++
			}
		}
		if tp > 0 {
			assert.Assert(t, math.Abs(r.Classes[1].Recall-float64(tp)/float64(classCount(labels, 1))) < 1e-9)
		}
		assert.Assert(t, !math.IsNaN(r.Accuracy))
		for _, c := range r.Classes {
			assert.Assert(t, !math.IsNaN(c.Precision) && !math.IsNaN(c.Recall))
		}
	}
}

func classCount(labels []int, class int) int {
	n := 0
	for _, c := range labels {
		if c == class {
			n++
		}
	}
	return n
}
