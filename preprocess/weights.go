package preprocess

/*
Weights is a per-class loss multiplier mapping
*/
type Weights map[int]float64

/*
BalancedWeights computes inverse-frequency class weights,
n / (classes * count) per class
*/
func BalancedWeights(labels []int) Weights {
	counts := map[int]int{}
	for _, c := range labels {
		counts[c]++
	}
	w := Weights{}
	for c, n := range counts {
		w[c] = float64(len(labels)) / (float64(len(counts)) * float64(n))
	}
	return w
}

/*
Scale returns a copy of the weights with one class weight multiplied
*/
func (w Weights) Scale(class int, m float64) Weights {
	r := Weights{}
	for c, v := range w {
		r[c] = v
	}
	r[class] *= m
	return r
}
