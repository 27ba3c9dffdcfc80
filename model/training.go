package model

import (
	"fmt"
	"reflect"

	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/zorros/zlog"
)

/*
Monitor is an independent early stopping condition watching one
test metric. Training completes when the metric has not improved
for Patience iterations in a row. Less selects the direction, a
loss-like metric improves by getting smaller.

Configured monitors replace the default score-history stop, so a
patient monitor is never preempted by a short score plateau.
*/
type Monitor struct {
	Metric   string
	Patience int
	Less     bool
}

/*
Training is the default implementation of unified training interface
*/
type Training struct {
	Epochs       int         // maximum iterations
	Metrics      Metrics     // evaluating metrics
	Score        Score       // score function
	ScoreHistory int         // possible count of forehead training with lower score
	Monitors     []Monitor   // independent early stopping conditions
	Verbose      interface{} // print function func(string)
}

type training struct {
	Training
	done bool
}

type workout struct {
	iteration int
	training  *training
	perflog   [][2]Row
	scorlog   []float64
}

const DefaultScoreHistory = 3

func (t Training) Workout() Workout {
	if t.Metrics == nil {
		t.Metrics = Classification{}
	}
	if t.Score == nil {
		t.Score = AccuracyScore
	}
	return &workout{iteration: 0, training: &training{Training: t}}
}

func (w *workout) Iteration() int {
	return w.iteration
}

func (w *workout) TrainMetrics() MetricsUpdater {
	return w.training.Metrics.New(w.iteration, TrainSubset)
}

func (w *workout) TestMetrics() MetricsUpdater {
	return w.training.Metrics.New(w.iteration, TestSubset)
}

func (w *workout) report(j int) *Report {
	report := &Report{}
	histlen := fu.Fnzi(w.training.ScoreHistory, DefaultScoreHistory)
	if len(w.perflog) > 0 {
		names := w.training.Metrics.Names()
		rows := make([][]float32, 0, len(w.perflog)*2)
		for _, p := range w.perflog {
			rows = append(rows, fu.Floats32(p[0].Values), fu.Floats32(p[1].Values))
		}
		report.History = tables.LuckyFromRows(names, rows)
		if j < 0 {
			l := fu.Mini(len(w.scorlog), histlen)
			lj := len(w.scorlog) - l
			j = fu.Indmaxd(w.scorlog[lj:]) + lj
		}
		report.TheBest = j
		report.Train = w.perflog[j][0]
		report.Test = w.perflog[j][1]
		report.Score = w.scorlog[j]
	} else {
		report.History = tables.NewEmpty(w.training.Metrics.Names())
	}
	return report
}

// monitored reports whether any early stopping monitor is exhausted
func (w *workout) monitored() bool {
	for _, m := range w.training.Monitors {
		if m.Patience <= 0 || len(w.perflog) <= m.Patience {
			continue
		}
		values := make([]float64, len(w.perflog))
		for i, p := range w.perflog {
			values[i] = p[1].Float(m.Metric)
		}
		best := fu.Indmaxd(values)
		if m.Less {
			best = fu.Indmind(values)
		}
		if best <= len(values)-1-m.Patience {
			return true
		}
	}
	return false
}

func (w *workout) Complete(train, test Row, metricsDone bool) (report *Report, done bool, err error) {
	histlen := fu.Fnzi(w.training.ScoreHistory, DefaultScoreHistory)
	maxiter := fu.Maxi(w.training.Epochs, 1)
	score := w.training.Score(train, test)
	w.scorlog = append(w.scorlog, score)
	w.perflog = append(w.perflog, [2]Row{train, test})
	if metricsDone {
		w.training.done = true
		done = true
		report = w.report(w.iteration)
	} else if w.monitored() {
		w.training.done = true
		done = true
		report = w.report(fu.Indmaxd(w.scorlog))
	} else if w.iteration == maxiter-1 ||
		// the score-history window stop applies only when no monitors
		// are configured, configured monitors own early stopping
		(len(w.training.Monitors) == 0 &&
			w.iteration > histlen && fu.Indmaxd(w.scorlog[len(w.scorlog)-histlen:]) == 0) {
		w.training.done = true
		done = true
		report = w.report(-1)
	}
	if w.training.Verbose != nil {
		w.Verbose(fmt.Sprintf(
			"[%3d] loss: %.5f/%.5f, error: %.5f/%.5f, score: %.5f",
			w.Iteration(),
			train.Float(Loss), test.Float(Loss),
			1-train.Float(Accuracy), 1-test.Float(Accuracy),
			score))
	}
	return
}

func (w *workout) Verbose(s string) {
	if w.training.Verbose != nil {
		vf := reflect.ValueOf(w.training.Verbose)
		vf.Call([]reflect.Value{reflect.ValueOf(s)})
	}
}

func (w *workout) Next() Workout {
	if w.training.done {
		zlog.Warning("training is already done")
		return nil
	}
	return &workout{
		iteration: w.iteration + 1,
		training:  w.training,
		scorlog:   w.scorlog,
		perflog:   w.perflog,
	}
}
