package preprocess

import (
	"math"
	"math/rand"
	"testing"

	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/tables"
	"gotest.tools/assert"
)

func TestMinMaxScaler(t *testing.T) {
	q := tables.LuckyNew(
		[]string{"A", "B", "Label"},
		[][]float32{{10, 20, 30}, {5, 5, 5}, {0, 1, 1}})
	s := (&MinMaxScaler{Features: []string{"A", "B"}}).Fit(q)
	x := s.LuckyTransform(q)
	assert.DeepEqual(t, x.Col("A").Floats(), []float32{0, 0.5, 1})
	// constant column maps to 0
	assert.DeepEqual(t, x.Col("B").Floats(), []float32{0, 0, 0})
	// unfitted columns stay untouched
	assert.DeepEqual(t, x.Col("Label").Floats(), []float32{0, 1, 1})
}

func TestMinMaxScalerUnfitted(t *testing.T) {
	q := tables.LuckyNew([]string{"A"}, [][]float32{{1, 2}})
	_, err := (&MinMaxScaler{Features: []string{"A"}}).Transform(q)
	assert.Assert(t, err != nil)
}

// synthetic imbalanced binary set of n rows with the given positive ratio
func synthetic(n int, positive float64, seed int64) *tables.Table {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float32, n)
	for i := range rows {
		label := float32(0)
		if float64(i) < positive*float64(n) {
			label = 1
		}
		rows[i] = []float32{
			label*2 + float32(rng.NormFloat64()),
			label*2 + float32(rng.NormFloat64()),
			label,
		}
	}
	return tables.LuckyFromRows([]string{"X1", "X2", "Label"}, rows)
}

func TestStratifiedSplit(t *testing.T) {
	q := synthetic(400, 0.25, 1)
	rest, held := StratifiedSplit(q, "Label", 0.25, 1)
	assert.Assert(t, rest.Len() == 300)
	assert.Assert(t, held.Len() == 100)
	// both parts keep the class proportion
	assert.Assert(t, rest.Classes("Label")[1] == 75)
	assert.Assert(t, held.Classes("Label")[1] == 25)
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	q := synthetic(100, 0.3, 2)
	_, a := StratifiedSplit(q, "Label", 0.25, 7)
	_, b := StratifiedSplit(q, "Label", 0.25, 7)
	assert.DeepEqual(t, a.Col("X1").Floats(), b.Col("X1").Floats())
}

func TestPartition(t *testing.T) {
	q := synthetic(800, 0.25, 3)
	ds := model.Dataset{Source: q, Label: "Label", Features: []string{"X1", "X2"}}
	parts := Partition(ds, 0.25, 0.25, 1)
	assert.Assert(t, parts.Test.Len() == 200)
	// holdout counts round half up per class
	assert.Assert(t, parts.Validation.Len() == 151)
	assert.Assert(t, parts.Train.Len() == 449)
	// stratification holds through both stages
	assert.Assert(t, parts.Train.Classes("Label")[1] == 112)
}

func TestPartitionProportions(t *testing.T) {
	q := synthetic(1000, 0.5, 5)
	ds := model.Dataset{Source: q, Label: "Label", Features: []string{"X1", "X2"}}
	parts := Partition(ds, 0.25, 0.25, 1)
	for _, part := range []*tables.Table{parts.Train, parts.Validation, parts.Test} {
		fraction := float64(part.Classes("Label")[1]) / float64(part.Len())
		assert.Assert(t, math.Abs(fraction-0.5) < 0.02, "positive fraction %v", fraction)
	}
}

func TestSMOTETomek(t *testing.T) {
	q := synthetic(200, 0.2, 4)
	r := SMOTETomek{Seed: 1}.LuckyResample(q, "Label", []string{"X1", "X2"})
	classes := r.Classes("Label")
	// oversampling reaches parity, cleaning only drops majority rows
	assert.Assert(t, classes[1] == 160, "minority count %v", classes[1])
	assert.Assert(t, classes[0] <= 160 && classes[0] > 0)
	assert.DeepEqual(t, r.Names(), []string{"X1", "X2", "Label"})
	// feature values stay finite
	for _, v := range r.Col("X1").Floats() {
		assert.Assert(t, !math.IsNaN(float64(v)))
	}
}

func TestSMOTETomekLoneMinority(t *testing.T) {
	// a single minority row is duplicated up to parity
	q := tables.LuckyFromRows([]string{"X1", "X2", "Label"}, [][]float32{
		{0, 0, 0}, {4, 0, 0}, {0, 4, 0}, {4, 4, 0}, {10, 10, 1},
	})
	r := SMOTETomek{Seed: 1}.LuckyResample(q, "Label", []string{"X1", "X2"})
	classes := r.Classes("Label")
	assert.Assert(t, classes[1] == 4, "minority count %v", classes[1])
	assert.Assert(t, classes[0] == 4)
	for i, v := range r.Col("X1").Floats() {
		if r.Col("Label").Float(i) == 1 {
			assert.Assert(t, v == 10)
		}
	}
}

func TestSMOTETomekClasses(t *testing.T) {
	q := tables.LuckyFromRows([]string{"X", "Label"}, [][]float32{{1, 0}, {2, 0}, {3, 0}})
	_, err := SMOTETomek{}.Resample(q, "Label", []string{"X"})
	assert.Assert(t, err != nil)
}

func TestBalancedWeights(t *testing.T) {
	w := BalancedWeights([]int{0, 0, 0, 1})
	assert.Assert(t, math.Abs(w[0]-0.5) < 1e-9)
	assert.Assert(t, math.Abs(w[1]-2) < 1e-9)
	s := w.Scale(0, 1.5).Scale(1, 0.5)
	assert.Assert(t, math.Abs(s[0]-0.75) < 1e-9)
	assert.Assert(t, math.Abs(s[1]-1) < 1e-9)
	// the original is unchanged
	assert.Assert(t, w[0] == 0.5 && w[1] == 2)
}
