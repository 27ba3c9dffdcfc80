package journal

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"go-ml.dev/pkg/diabetes/tables"
	"gotest.tools/assert"
)

func history() *tables.Table {
	return tables.LuckyFromRows(
		[]string{"iteration", "subset", "loss", "accuracy"},
		[][]float32{
			{0, 0, 0.7, 0.5},
			{0, 1, 0.8, 0.4},
			{1, 0, 0.4, 0.8},
			{1, 1, 0.5, 0.7},
		})
}

func TestJournal(t *testing.T) {
	dir, err := ioutil.TempDir("", "journal")
	assert.NilError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "runs.db")

	j, err := Open(path)
	assert.NilError(t, err)
	assert.NilError(t, j.LogHistory("densenet", history()))

	// two metric columns over four history rows
	n, err := j.Count("densenet")
	assert.NilError(t, err)
	assert.Assert(t, n == 8)
	n, err = j.Count("unknown")
	assert.NilError(t, err)
	assert.Assert(t, n == 0)
	assert.NilError(t, j.Close())

	// a reopened journal keeps the runs and appends to them
	j, err = Open(path)
	assert.NilError(t, err)
	defer j.Close()
	assert.NilError(t, j.LogHistory("densenet", history()))
	n, err = j.Count("densenet")
	assert.NilError(t, err)
	assert.Assert(t, n == 16)
}
