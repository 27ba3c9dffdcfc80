package model

import (
	"math"
	"testing"

	"gotest.tools/assert"
)

func TestRow(t *testing.T) {
	r := Row{Names: []string{Loss, Accuracy}, Values: []float64{0.3, 0.9}}
	assert.Assert(t, r.Float(Accuracy) == 0.9)
	assert.Assert(t, r.Has(Loss) && !r.Has(Recall))
	defer func() {
		assert.Assert(t, recover() != nil)
	}()
	r.Float(Recall)
}

func TestClassificationMetrics(t *testing.T) {
	u := Classification{Cutoff: 0.5}.New(3, TestSubset)
	// tp=2 fp=1 tn=2 fn=1
	u.Batch(0.4, []float64{0.9, 0.8, 0.6}, []int{1, 1, 0})
	u.Batch(0.2, []float64{0.2, 0.1, 0.3}, []int{0, 0, 1})
	r := u.Complete()
	assert.Assert(t, r.Float(Iteration) == 3)
	assert.Assert(t, r.Float(Subset) == 1)
	assert.Assert(t, math.Abs(r.Float(Loss)-0.3) < 1e-9)
	assert.Assert(t, math.Abs(r.Float(Accuracy)-4.0/6) < 1e-9)
	assert.Assert(t, math.Abs(r.Float(Precision)-2.0/3) < 1e-9)
	assert.Assert(t, math.Abs(r.Float(Recall)-2.0/3) < 1e-9)
	assert.Assert(t, math.Abs(r.Float(F1)-2.0/3) < 1e-9)
}

func TestClassificationCutoff(t *testing.T) {
	u := Classification{Cutoff: 0.7}.New(0, TrainSubset)
	// 0.7 is not strictly above the cutoff
	u.Batch(0.1, []float64{0.7, 0.71}, []int{1, 1})
	r := u.Complete()
	assert.Assert(t, r.Float(Subset) == 0)
	assert.Assert(t, math.Abs(r.Float(Recall)-0.5) < 1e-9)
}

func metricsRow(iteration int, subset float64, loss, accuracy float64) Row {
	return Row{
		Names:  Classification{}.Names(),
		Values: []float64{float64(iteration), subset, loss, accuracy, accuracy, accuracy, accuracy},
	}
}

// run feeds a sequence of test accuracies through a workout loop and
// returns the final report
func run(t *testing.T, training Training, accuracy []float64) *Report {
	t.Helper()
	w := training.Workout()
	for i, a := range accuracy {
		train := metricsRow(i, 0, 1-a, a)
		test := metricsRow(i, 1, 1-a, a)
		report, done, err := w.Complete(train, test, false)
		assert.NilError(t, err)
		if done {
			return report
		}
		w = w.Next()
		assert.Assert(t, w != nil)
	}
	t.Fatal("training did not complete")
	return nil
}

func TestTrainingMaxEpochs(t *testing.T) {
	report := run(t, Training{Epochs: 3}, []float64{0.5, 0.6, 0.7})
	assert.Assert(t, report.TheBest == 2)
	assert.Assert(t, report.Score == 0.7)
	assert.Assert(t, report.History.Len() == 6) // train and test row per iteration
	assert.Assert(t, report.Test.Float(Accuracy) == 0.7)
}

func TestTrainingMonitor(t *testing.T) {
	m := Monitor{Metric: Accuracy, Patience: 2}
	accuracy := []float64{0.5, 0.8, 0.6, 0.6, 0.7, 0.9}
	report := run(t, Training{Epochs: 100, ScoreHistory: 100, Monitors: []Monitor{m}}, accuracy)
	// accuracy peaked at iteration 1 and did not improve for 2 iterations
	assert.Assert(t, report.TheBest == 1)
	assert.Assert(t, report.Score == 0.8)
	assert.Assert(t, report.History.Len() == 8)
}

func TestTrainingLossMonitor(t *testing.T) {
	m := Monitor{Metric: Loss, Patience: 2, Less: true}
	accuracy := []float64{0.5, 0.8, 0.6, 0.6, 0.7, 0.9}
	report := run(t, Training{Epochs: 100, ScoreHistory: 100, Monitors: []Monitor{m}}, accuracy)
	assert.Assert(t, report.TheBest == 1)
}

func TestTrainingMonitorFullPatience(t *testing.T) {
	// a plateau after the first epoch must not trip the default
	// score-history window while a patient monitor is configured
	accuracy := make([]float64, 50)
	accuracy[0] = 0.8
	for i := 1; i < len(accuracy); i++ {
		accuracy[i] = 0.7
	}
	m := Monitor{Metric: Accuracy, Patience: 10}
	report := run(t, Training{Epochs: 50, Monitors: []Monitor{m}}, accuracy)
	// the monitor saw all 10 stale epochs before stopping
	assert.Assert(t, report.History.Len() == 22, "history rows %v", report.History.Len())
	assert.Assert(t, report.TheBest == 0)
	assert.Assert(t, report.Score == 0.8)
}

func TestTrainingScoreHistory(t *testing.T) {
	// score declines from the start, the default history window stops it
	accuracy := []float64{0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3}
	report := run(t, Training{Epochs: 100}, accuracy)
	assert.Assert(t, report.Score >= 0.5)
	assert.Assert(t, report.History.Len() < 14)
}

func TestTrainingMetricsDone(t *testing.T) {
	w := Training{Epochs: 10}.Workout()
	report, done, err := w.Complete(metricsRow(0, 0, 0.1, 0.9), metricsRow(0, 1, 0.1, 0.9), true)
	assert.NilError(t, err)
	assert.Assert(t, done)
	assert.Assert(t, report.TheBest == 0)
	assert.Assert(t, w.Next() == nil)
}

func TestAccuracyScore(t *testing.T) {
	train := metricsRow(0, 0, 0.1, 0.9)
	test := metricsRow(0, 1, 0.2, 0.8)
	assert.Assert(t, AccuracyScore(train, test) == 0.8)
}
