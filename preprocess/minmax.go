package preprocess

import (
	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/zorros"
)

/*
MinMaxScaler rescales every fitted feature column into [0,1] linearly,
the observed column minimum maps to 0 and the maximum to 1.
A constant column maps to 0.
*/
type MinMaxScaler struct {
	Features []string
	min, max []float32
}

/*
Fit computes per-column minimum and maximum on the given table
*/
func (s *MinMaxScaler) Fit(t *tables.Table) *MinMaxScaler {
	s.min = make([]float32, len(s.Features))
	s.max = make([]float32, len(s.Features))
	for i, name := range s.Features {
		s.min[i], s.max[i] = fu.Minmax(t.Col(name).Floats())
	}
	return s
}

/*
Transform returns a new table with the fitted feature columns rescaled,
all other columns are kept as is
*/
func (s *MinMaxScaler) Transform(t *tables.Table) (*tables.Table, error) {
	if s.min == nil {
		return nil, zorros.Errorf("min-max scaler is not fitted")
	}
	fitted := map[string]int{}
	for i, name := range s.Features {
		fitted[name] = i
	}
	names := t.Names()
	columns := make([][]float32, len(names))
	for j, name := range names {
		col := t.Col(name).Floats()
		if i, ok := fitted[name]; ok {
			d := s.max[i] - s.min[i]
			for k, v := range col {
				if d > 0 {
					col[k] = (v - s.min[i]) / d
				} else {
					col[k] = 0
				}
			}
		}
		columns[j] = col
	}
	return tables.New(names, columns)
}

/*
LuckyTransform transforms a table and throws errors as a panic
*/
func (s *MinMaxScaler) LuckyTransform(t *tables.Table) *tables.Table {
	x, err := s.Transform(t)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return x
}
