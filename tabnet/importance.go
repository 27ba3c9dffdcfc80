package tabnet

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/diabetes/grad"
	"go-ml.dev/pkg/diabetes/nn"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/mat"
)

/*
Importance is one entry of the learned feature importance ranking
*/
type Importance struct {
	Feature string
	Score   float64
}

// importances aggregates the attentive masks over the given rows,
// each step weighted by its decision magnitude, normalized to sum 1
func (m *TabNet) importances(x *mat.Dense) []float64 {
	n, f := x.Dims()
	agg := make([]float64, f)
	batch := fu.Fnzi(m.BatchSize, 1024)
	for i0 := 0; i0 < n; i0 += batch {
		idx := make([]int, 0, batch)
		for i := i0; i < fu.Mini(i0+batch, n); i++ {
			idx = append(idx, i)
		}
		tape := grad.NewTape()
		fwd := m.forward(tape, grad.Const(nn.TakeRows(x, idx)), false)
		for s, mask := range fwd.masks {
			d := fwd.decision[s].Value
			r, w := d.Dims()
			for i := 0; i < r; i++ {
				eta := 0.0
				for j := 0; j < w; j++ {
					eta += d.At(i, j)
				}
				for j := 0; j < f; j++ {
					agg[j] += eta * mask.Value.At(i, j)
				}
			}
		}
	}
	total := 0.0
	for _, v := range agg {
		total += v
	}
	if total > 0 {
		for j := range agg {
			agg[j] /= total
		}
	}
	return agg
}

/*
Importances returns the learned feature importance ranking,
the most important feature first
*/
func (m *TabNet) Importances() []Importance {
	if !m.fitted {
		panic(zorros.Panic(zorros.Errorf("model is not fitted")))
	}
	r := make([]Importance, len(m.features))
	for i, name := range m.features {
		r[i] = Importance{Feature: name, Score: m.imp[i]}
	}
	sort.SliceStable(r, func(a, b int) bool { return r[a].Score > r[b].Score })
	return r
}

/*
RenderRanking prints a feature importance ranking as a console table
*/
func RenderRanking(w io.Writer, ranking []Importance) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"feature", "importance"})
	for _, r := range ranking {
		table.Append([]string{r.Feature, fmt.Sprintf("%.4f", r.Score)})
	}
	table.Render()
}

/*
TopFeatures selects the first k feature names of a ranking
*/
func TopFeatures(ranking []Importance, k int) []string {
	if k > len(ranking) {
		k = len(ranking)
	}
	r := make([]string, k)
	for i := 0; i < k; i++ {
		r[i] = ranking[i].Feature
	}
	return r
}
