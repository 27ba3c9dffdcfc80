package metrics

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

/*
Labels converts predicted positive class probabilities to hard labels,
a prediction is positive when the probability is strictly greater
than the cutoff
*/
func Labels(probs []float64, cutoff float64) []int {
	r := make([]int, len(probs))
	for i, p := range probs {
		if p > cutoff {
			r[i] = 1
		}
	}
	return r
}

/*
ClassMetrics are the precision/recall/f1/support of one class
*/
type ClassMetrics struct {
	Class     int
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

/*
ClassReport is a per-class classification report at a fixed cutoff
*/
type ClassReport struct {
	Cutoff   float64
	Classes  []ClassMetrics
	Accuracy float64
	Support  int
}

/*
Report evaluates hard labels at the cutoff against the true ones
*/
func Report(labels []int, probs []float64, cutoff float64) ClassReport {
	predicted := Labels(probs, cutoff)
	r := ClassReport{Cutoff: cutoff, Support: len(labels)}
	correct := 0
	for i := range labels {
		if labels[i] == predicted[i] {
			correct++
		}
	}
	if len(labels) > 0 {
		r.Accuracy = float64(correct) / float64(len(labels))
	}
	for _, c := range []int{0, 1} {
		tp, fp, fn, support := 0, 0, 0, 0
		for i := range labels {
			if labels[i] == c {
				support++
				if predicted[i] == c {
					tp++
				} else {
					fn++
				}
			} else if predicted[i] == c {
				fp++
			}
		}
		m := ClassMetrics{Class: c, Support: support}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.Classes = append(r.Classes, m)
	}
	return r
}

/*
Render prints the report as a console table
*/
func (r ClassReport) Render(w io.Writer) {
	fmt.Fprintf(w, "classification report, cutoff %.2f\n", r.Cutoff)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"class", "precision", "recall", "f1", "support"})
	for _, c := range r.Classes {
		table.Append([]string{
			fmt.Sprintf("%d", c.Class),
			fmt.Sprintf("%.4f", c.Precision),
			fmt.Sprintf("%.4f", c.Recall),
			fmt.Sprintf("%.4f", c.F1),
			fmt.Sprintf("%d", c.Support),
		})
	}
	table.Append([]string{
		"accuracy", "", "",
		fmt.Sprintf("%.4f", r.Accuracy),
		fmt.Sprintf("%d", r.Support),
	})
	table.Render()
}
