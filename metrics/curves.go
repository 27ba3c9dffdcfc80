package metrics

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

/*
ROC computes the receiver operating characteristic over the whole
probability spectrum and its area under the curve. The curve does not
depend on any decision cutoff.
*/
func ROC(labels []int, probs []float64) (fpr, tpr []float64, auc float64) {
	n := len(probs)
	y := make([]float64, n)
	classes := make([]bool, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return probs[order[a]] < probs[order[b]] })
	for i, k := range order {
		y[i] = probs[k]
		classes[i] = labels[k] == 1
	}
	tpr, fpr, _ = stat.ROC(nil, y, classes, nil)
	auc = integrate.Trapezoidal(fpr, tpr)
	return fpr, tpr, auc
}

/*
PrecisionRecall computes the precision-recall curve over the whole
probability spectrum and the average precision, the step-wise area
under the curve
*/
func PrecisionRecall(labels []int, probs []float64) (precision, recall []float64, ap float64) {
	n := len(probs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return probs[order[a]] > probs[order[b]] })
	positives := 0
	for _, c := range labels {
		if c == 1 {
			positives++
		}
	}
	precision = append(precision, 1)
	recall = append(recall, 0)
	tp, fp, prevRecall := 0, 0, 0.0
	for i := 0; i < n; {
		// take all predictions of the same probability at once
		j := i
		for j < n && probs[order[j]] == probs[order[i]] {
			if labels[order[j]] == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		i = j
		p := float64(tp) / float64(tp+fp)
		r := 0.0
		if positives > 0 {
			r = float64(tp) / float64(positives)
		}
		precision = append(precision, p)
		recall = append(recall, r)
		ap += (r - prevRecall) * p
		prevRecall = r
	}
	return precision, recall, ap
}
