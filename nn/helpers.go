package nn

import (
	"go-ml.dev/pkg/diabetes/preprocess"
	"gonum.org/v1/gonum/mat"
)

/*
OneHot encodes integer class labels into an n×classes indicator matrix
*/
func OneHot(labels []int, classes int) *mat.Dense {
	v := mat.NewDense(len(labels), classes, nil)
	for i, c := range labels {
		v.Set(i, c, 1)
	}
	return v
}

/*
SampleWeights maps labels to an n×1 column of per-sample class weights,
every weight is 1 when the mapping is nil
*/
func SampleWeights(labels []int, w preprocess.Weights) *mat.Dense {
	v := mat.NewDense(len(labels), 1, nil)
	for i, c := range labels {
		q := 1.0
		if w != nil {
			if x, ok := w[c]; ok {
				q = x
			}
		}
		v.Set(i, 0, q)
	}
	return v
}

/*
TakeRows assembles a new matrix from the indexed rows
*/
func TakeRows(x *mat.Dense, index []int) *mat.Dense {
	_, c := x.Dims()
	v := mat.NewDense(len(index), c, nil)
	for i, k := range index {
		for j := 0; j < c; j++ {
			v.Set(i, j, x.At(k, j))
		}
	}
	return v
}

/*
TakeLabels assembles a new label slice from the indexed values
*/
func TakeLabels(labels []int, index []int) []int {
	r := make([]int, len(index))
	for i, k := range index {
		r[i] = labels[k]
	}
	return r
}

/*
PositiveColumn extracts the predicted probability of class 1
*/
func PositiveColumn(probs *mat.Dense) []float64 {
	r, _ := probs.Dims()
	v := make([]float64, r)
	for i := range v {
		v[i] = probs.At(i, 1)
	}
	return v
}
