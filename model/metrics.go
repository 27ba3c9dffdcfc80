package model

import (
	"go-ml.dev/pkg/zorros"
)

// history column/metric names
const (
	Iteration = "iteration"
	Subset    = "subset"
	Loss      = "loss"
	Accuracy  = "accuracy"
	Precision = "precision"
	Recall    = "recall"
	F1        = "f1"
)

const (
	TrainSubset = "train"
	TestSubset  = "test"
)

/*
Row is a set of named metric values of a single training iteration/subset
*/
type Row struct {
	Names  []string
	Values []float64
}

/*
Float returns the named value, it panics if the row does not have it
*/
func (r Row) Float(name string) float64 {
	for i, n := range r.Names {
		if n == name {
			return r.Values[i]
		}
	}
	panic(zorros.Panic(zorros.Errorf("metrics row does not have value `%v`", name)))
}

/*
Has reports whether the row contains the named value
*/
func (r Row) Has(name string) bool {
	for _, n := range r.Names {
		if n == name {
			return true
		}
	}
	return false
}

/*
Metrics is a factory of per-iteration metrics collectors
*/
type Metrics interface {
	New(iteration int, subset string) MetricsUpdater
	Names() []string
}

/*
MetricsUpdater collects evaluation batches of one iteration/subset
*/
type MetricsUpdater interface {
	// Batch accumulates one evaluated batch: the mean batch loss,
	// the predicted positive class probabilities and the true labels
	Batch(loss float64, probs []float64, labels []int)
	Complete() Row
}

/*
Classification is the default epoch metrics of a binary classifier.
Predictions count as positive when the probability exceeds Cutoff (0.5 if unset).
*/
type Classification struct {
	Cutoff float64
}

func (Classification) Names() []string {
	return []string{Iteration, Subset, Loss, Accuracy, Precision, Recall, F1}
}

func (m Classification) New(iteration int, subset string) MetricsUpdater {
	cutoff := m.Cutoff
	if cutoff == 0 {
		cutoff = 0.5
	}
	s := 0.0
	if subset == TestSubset {
		s = 1
	}
	return &clupdater{iteration: iteration, subset: s, cutoff: cutoff, names: m.Names()}
}

type clupdater struct {
	iteration      int
	subset         float64
	cutoff         float64
	names          []string
	count          int
	lossSum        float64
	tp, fp, tn, fn int
}

func (u *clupdater) Batch(loss float64, probs []float64, labels []int) {
	u.lossSum += loss * float64(len(probs))
	u.count += len(probs)
	for i, p := range probs {
		positive := p > u.cutoff
		switch {
		case positive && labels[i] == 1:
			u.tp++
		case positive && labels[i] != 1:
			u.fp++
		case !positive && labels[i] == 1:
			u.fn++
		default:
			u.tn++
		}
	}
}

func (u *clupdater) Complete() Row {
	loss, accuracy, precision, recall, f1 := 0.0, 0.0, 0.0, 0.0, 0.0
	if u.count > 0 {
		loss = u.lossSum / float64(u.count)
		accuracy = float64(u.tp+u.tn) / float64(u.count)
	}
	if u.tp+u.fp > 0 {
		precision = float64(u.tp) / float64(u.tp+u.fp)
	}
	if u.tp+u.fn > 0 {
		recall = float64(u.tp) / float64(u.tp+u.fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return Row{
		Names:  u.names,
		Values: []float64{float64(u.iteration), u.subset, loss, accuracy, precision, recall, f1},
	}
}
