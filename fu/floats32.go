package fu

func Flatnr(a [][]float32) []float32 {
	n := 0
	for _, x := range a {
		n += len(x)
	}
	r := make([]float32, n)
	i := 0
	for _, x := range a {
		copy(r[i:i+len(x)], x)
		i += len(x)
	}
	return r
}

func Minmax(a []float32) (min, max float32) {
	if len(a) == 0 {
		return 0, 0
	}
	min, max = a[0], a[0]
	for _, x := range a[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return
}

func Floats64(a []float32) []float64 {
	r := make([]float64, len(a))
	for i, x := range a {
		r[i] = float64(x)
	}
	return r
}

func Floats32(a []float64) []float32 {
	r := make([]float32, len(a))
	for i, x := range a {
		r[i] = float32(x)
	}
	return r
}
