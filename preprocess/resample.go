package preprocess

import (
	"math/rand"
	"sort"

	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/floats"
)

/*
SMOTETomek rebalances a binary training set by synthetic minority
oversampling followed by Tomek link cleaning.

Oversampling interpolates new minority rows between a random minority
row and one of its K nearest minority neighbours until both classes
have the same count. Cleaning then removes the original-majority member
of every Tomek link (a pair of opposite-class rows that are each
other's nearest neighbour).

The minority row count never decreases.
*/
type SMOTETomek struct {
	K    int // nearest neighbours to interpolate with, 5 if unset
	Seed int64
}

/*
Resample returns a new rebalanced table of the feature and label columns
*/
func (s SMOTETomek) Resample(t *tables.Table, label string, features []string) (*tables.Table, error) {
	k := fu.Fnzi(s.K, 5)
	labels := t.Labels(label)
	counts := map[int]int{}
	for _, c := range labels {
		counts[c]++
	}
	if len(counts) != 2 {
		return nil, zorros.Errorf("resampling requires exactly 2 classes, got %v", len(counts))
	}
	classes := []int{}
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	minority, majority := classes[0], classes[1]
	if counts[classes[1]] < counts[classes[0]] {
		minority, majority = classes[1], classes[0]
	}

	rows := make([][]float64, t.Len())
	for i := range rows {
		rows[i] = fu.Floats64(t.Row(i, features))
	}
	var minIdx []int
	for i, c := range labels {
		if c == minority {
			minIdx = append(minIdx, i)
		}
	}

	// synthesize minority rows up to the majority count
	rng := rand.New(rand.NewSource(s.Seed))
	synth := make([][]float64, 0, counts[majority]-counts[minority])
	neighbours := map[int][]int{}
	for len(synth)+counts[minority] < counts[majority] {
		base := minIdx[rng.Intn(len(minIdx))]
		nn, ok := neighbours[base]
		if !ok {
			nn = nearest(rows, minIdx, base, k)
			neighbours[base] = nn
		}
		// a lone minority row has no neighbours to interpolate with,
		// it is duplicated so the loop always progresses
		pair := base
		if len(nn) > 0 {
			pair = nn[rng.Intn(len(nn))]
		}
		u := rng.Float64()
		row := make([]float64, len(features))
		for j := range row {
			row[j] = rows[base][j] + u*(rows[pair][j]-rows[base][j])
		}
		synth = append(synth, row)
	}

	all := append(rows, synth...)
	allLabels := append([]int{}, labels...)
	for range synth {
		allLabels = append(allLabels, minority)
	}

	// drop the original-majority member of every Tomek link
	drop := tomekLinks(all, allLabels, majority)
	out := make([][]float32, 0, len(all)-len(drop))
	names := append(append([]string{}, features...), label)
	for i, row := range all {
		if drop[i] {
			continue
		}
		r := fu.Floats32(row)
		out = append(out, append(r, float32(allLabels[i])))
	}
	return tables.FromRows(names, out)
}

func (s SMOTETomek) LuckyResample(t *tables.Table, label string, features []string) *tables.Table {
	x, err := s.Resample(t, label, features)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return x
}

// nearest returns up to k nearest rows of the pool, the base row excluded
func nearest(rows [][]float64, pool []int, base int, k int) []int {
	type nd struct {
		i int
		d float64
	}
	ds := make([]nd, 0, len(pool))
	for _, i := range pool {
		if i == base {
			continue
		}
		ds = append(ds, nd{i, floats.Distance(rows[base], rows[i], 2)})
	}
	sort.Slice(ds, func(a, b int) bool { return ds[a].d < ds[b].d })
	nn := make([]int, 0, k)
	for i := 0; i < len(ds) && i < k; i++ {
		nn = append(nn, ds[i].i)
	}
	return nn
}

func tomekLinks(rows [][]float64, labels []int, majority int) map[int]bool {
	nn := make([]int, len(rows))
	for i := range rows {
		best, bestd := -1, 0.0
		for j := range rows {
			if i == j {
				continue
			}
			d := floats.Distance(rows[i], rows[j], 2)
			if best < 0 || d < bestd {
				best, bestd = j, d
			}
		}
		nn[i] = best
	}
	drop := map[int]bool{}
	for i, j := range nn {
		if j >= 0 && nn[j] == i && labels[i] != labels[j] {
			if labels[i] == majority {
				drop[i] = true
			} else {
				drop[j] = true
			}
		}
	}
	return drop
}
