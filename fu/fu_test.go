package fu

import (
	"testing"

	"gotest.tools/assert"
)

func TestFlatnr(t *testing.T) {
	f := Flatnr([][]float32{{1, 2}, {3, 4}, {5, 6}})
	assert.DeepEqual(t, f, []float32{1, 2, 3, 4, 5, 6})
	assert.Assert(t, len(Flatnr(nil)) == 0)
}

func TestMinmax(t *testing.T) {
	min, max := Minmax([]float32{3, -1, 7, 0})
	assert.Assert(t, min == -1 && max == 7)
	min, max = Minmax([]float32{5})
	assert.Assert(t, min == 5 && max == 5)
}

func TestFloatsRoundtrip(t *testing.T) {
	a := []float32{0.5, 1.5, -2}
	assert.DeepEqual(t, Floats32(Floats64(a)), a)
}

func TestFnzi(t *testing.T) {
	assert.Assert(t, Fnzi(0, 0, 3, 5) == 3)
	assert.Assert(t, Fnzi(2, 3) == 2)
	assert.Assert(t, Fnzi(0, 0) == 0)
}

func TestMinMaxi(t *testing.T) {
	assert.Assert(t, Maxi(2, 5) == 5)
	assert.Assert(t, Mini(2, 5) == 2)
}

func TestIndmax(t *testing.T) {
	assert.Assert(t, Indmaxd([]float64{0.1, 0.9, 0.3}) == 1)
	assert.Assert(t, Indmind([]float64{0.1, 0.9, 0.3}) == 0)
	assert.Assert(t, Indmaxd([]float64{0.3, 0.3}) == 0)
}
