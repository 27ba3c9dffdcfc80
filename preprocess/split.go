package preprocess

import (
	"math/rand"
	"sort"

	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/tables"
)

/*
StratifiedSplit partitions table rows into a remainder and a holdout of
the given ratio. The split is stratified on the label column, every
class keeps its proportion in both parts. The shuffle is deterministic
for a fixed seed.
*/
func StratifiedSplit(t *tables.Table, label string, holdout float64, seed int64) (rest, held *tables.Table) {
	byClass := map[int][]int{}
	for i, c := range t.Labels(label) {
		byClass[c] = append(byClass[c], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	rng := rand.New(rand.NewSource(seed))
	var restIdx, heldIdx []int
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		n := int(holdout*float64(len(idx)) + 0.5)
		heldIdx = append(heldIdx, idx[:n]...)
		restIdx = append(restIdx, idx[n:]...)
	}
	sort.Ints(restIdx)
	sort.Ints(heldIdx)
	return t.Take(restIdx), t.Take(heldIdx)
}

/*
Partition cuts a dataset into train/validation/test in two stages:
the test holdout first, then the validation holdout carved out of the
remainder. Both stages are stratified on the dataset label.
*/
func Partition(ds model.Dataset, testRatio, validationRatio float64, seed int64) model.Partitions {
	rest, test := StratifiedSplit(ds.Source, ds.Label, testRatio, seed)
	train, validation := StratifiedSplit(rest, ds.Label, validationRatio, seed)
	return model.Partitions{Train: train, Validation: validation, Test: test}
}
