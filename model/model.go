package model

import (
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/zorros"
	"io"
)

/*
HungryModel is an ML algorithm grows from a data to predict something.
Needs to be fattened by Feed method to fit.
*/
type HungryModel interface {
	Feed(Dataset, Partitions) FatModel
}

/*
Report is an ML training report
*/
type Report struct {
	History     *tables.Table // all iterations history
	TheBest     int           // the best iteration
	Train, Test Row           // the best iteration metrics
	Score       float64       // the best score
}

/*
Workout is a training iteration abstraction
*/
type Workout interface {
	Iteration() int
	TrainMetrics() MetricsUpdater
	TestMetrics() MetricsUpdater
	Complete(train, test Row, metricsDone bool) (*Report, bool, error)
	Next() Workout
	Verbose(string)
}

/*
UnifiedTraining is an interface allowing to write any logging/staging backend for ML training
*/
type UnifiedTraining interface {
	// Workout returns the first iteration workout
	Workout() Workout
}

/*
FatModel is fattened model (a training function of model instance bounded to a dataset)
*/
type FatModel func(workout Workout) (*Report, error)

/*
Train a fattened (Fat) model
*/
func (f FatModel) Train(training UnifiedTraining) (*Report, error) {
	w := training.Workout()
	if c, ok := w.(io.Closer); ok {
		defer c.Close()
	}
	return f(w)
}

/*
LuckyTrain trains fattened (Fat) model and trows any occurred errors as a panic
*/
func (f FatModel) LuckyTrain(training UnifiedTraining) *Report {
	m, err := f.Train(training)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return m
}

/*
PredictionModel is a predictor interface
*/
type PredictionModel interface {
	// Features model uses when maps features
	// the same as Features in the training dataset
	Features() []string
	// PredictProba returns the predicted positive class probability per row
	PredictProba(t *tables.Table) []float64
}

/*
Score is a function to compute the training score from one iteration metrics
*/
type Score func(train, test Row) float64

/*
AccuracyScore scores an iteration by its test subset accuracy
*/
func AccuracyScore(train, test Row) float64 {
	return test.Float(Accuracy)
}
