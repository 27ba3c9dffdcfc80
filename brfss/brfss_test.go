package brfss

import (
	"io/ioutil"
	"os"
	"testing"

	"gotest.tools/assert"
)

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "brfss")
	assert.NilError(t, err)
	defer os.RemoveAll(dir)
	wd, err := os.Getwd()
	assert.NilError(t, err)
	assert.NilError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	csv := "Diabetes_binary,HighBP,BMI\n0,1,28\n1,1,32\n0,0,24\n"
	assert.NilError(t, ioutil.WriteFile(File, []byte(csv), 0644))

	q, err := Load()
	assert.NilError(t, err)
	assert.Assert(t, q.Len() == 3)
	// the label column is renamed on load
	assert.DeepEqual(t, q.Names(), []string{Label, "HighBP", "BMI"})
	assert.DeepEqual(t, q.Col(Label).Floats(), []float32{0, 1, 0})
}
