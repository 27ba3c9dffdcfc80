package model

import (
	"go-ml.dev/pkg/diabetes/tables"
)

/*
Dataset is an abstraction of some source of a data to feed hungry models
*/
type Dataset struct {
	Source   *tables.Table // the whole labeled table
	Label    string        // name of the column containing the class label
	Features []string      // feature column names to train model or predict
}

/*
Partitions are the named train/validation/test cuts of a dataset.
Every stage receives the cut it needs explicitly, partitions are
never rebound or mutated in place.
*/
type Partitions struct {
	Train      *tables.Table
	Validation *tables.Table
	Test       *tables.Table
}

/*
Select returns the dataset restricted to the given feature names,
keeping the label column and the original row order
*/
func (ds Dataset) Select(features []string) Dataset {
	return Dataset{Source: ds.Source, Label: ds.Label, Features: features}
}
