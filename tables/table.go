package tables

import (
	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/mat"
)

/*
Table is an in-memory column-oriented table of float32 values.
It's the only data structure the pipelines operate on: every
partition, resampled cut and training history is a Table.

A Table is immutable; transforming methods return a new Table
sharing unchanged columns.
*/
type Table struct {
	names   []string
	columns [][]float32
}

/*
Column is a single named column view
*/
type Column struct {
	data []float32
}

/*
New creates a table from named columns, all columns must have the same length
*/
func New(names []string, columns [][]float32) (*Table, error) {
	if len(names) != len(columns) {
		return nil, zorros.Errorf("got %v column names for %v columns", len(names), len(columns))
	}
	for i := 1; i < len(columns); i++ {
		if len(columns[i]) != len(columns[0]) {
			return nil, zorros.Errorf("column `%v` has length %v, expected %v",
				names[i], len(columns[i]), len(columns[0]))
		}
	}
	return &Table{names: names, columns: columns}, nil
}

/*
LuckyNew creates a table from named columns and throws errors as a panic
*/
func LuckyNew(names []string, columns [][]float32) *Table {
	t, err := New(names, columns)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return t
}

/*
NewEmpty creates a table with the given column names and no rows
*/
func NewEmpty(names []string) *Table {
	columns := make([][]float32, len(names))
	for i := range columns {
		columns[i] = []float32{}
	}
	return &Table{names: names, columns: columns}
}

/*
FromRows creates a table from row-major values
*/
func FromRows(names []string, rows [][]float32) (*Table, error) {
	columns := make([][]float32, len(names))
	for j := range columns {
		columns[j] = make([]float32, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, zorros.Errorf("row %v has %v values, expected %v", i, len(row), len(names))
		}
		for j, v := range row {
			columns[j][i] = v
		}
	}
	return &Table{names: names, columns: columns}, nil
}

func LuckyFromRows(names []string, rows [][]float32) *Table {
	t, err := FromRows(names, rows)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return t
}

/*
Len returns the number of rows
*/
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

/*
Names returns a copy of the column names in table order
*/
func (t *Table) Names() []string {
	r := make([]string, len(t.names))
	copy(r, t.names)
	return r
}

func (t *Table) index(name string) int {
	for i, n := range t.names {
		if n == name {
			return i
		}
	}
	return -1
}

/*
Col returns the named column, it panics if the column does not exist
*/
func (t *Table) Col(name string) *Column {
	i := t.index(name)
	if i < 0 {
		panic(zorros.Panic(zorros.Errorf("table does not have column `%v`", name)))
	}
	return &Column{data: t.columns[i]}
}

func (c *Column) Len() int { return len(c.data) }

func (c *Column) Float(i int) float32 { return c.data[i] }

/*
Floats returns a copy of the column values
*/
func (c *Column) Floats() []float32 {
	r := make([]float32, len(c.data))
	copy(r, c.data)
	return r
}

/*
Rename returns a new table with the column `old` renamed to `new`.
It fails if the table has no column `old`.
*/
func (t *Table) Rename(old, new string) (*Table, error) {
	i := t.index(old)
	if i < 0 {
		return nil, zorros.Errorf("table does not have column `%v`", old)
	}
	names := t.Names()
	names[i] = new
	return &Table{names: names, columns: t.columns}, nil
}

func (t *Table) LuckyRename(old, new string) *Table {
	x, err := t.Rename(old, new)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return x
}

/*
Except returns a new table without the named columns
*/
func (t *Table) Except(names ...string) *Table {
	drop := map[string]bool{}
	for _, n := range names {
		drop[n] = true
	}
	var rn []string
	var rc [][]float32
	for i, n := range t.names {
		if !drop[n] {
			rn = append(rn, n)
			rc = append(rc, t.columns[i])
		}
	}
	return &Table{names: rn, columns: rc}
}

/*
With returns a new table with one column appended
*/
func (t *Table) With(c *Column, name string) *Table {
	names := append(t.Names(), name)
	columns := make([][]float32, len(t.columns), len(t.columns)+1)
	copy(columns, t.columns)
	columns = append(columns, c.data)
	return &Table{names: names, columns: columns}
}

/*
Col creates an unbound column from a slice of numbers
*/
func Col(v interface{}) *Column {
	switch x := v.(type) {
	case []float32:
		return &Column{data: x}
	case []float64:
		return &Column{data: fu.Floats32(x)}
	case []int:
		data := make([]float32, len(x))
		for i, q := range x {
			data[i] = float32(q)
		}
		return &Column{data: data}
	}
	panic(zorros.Panic(zorros.Errorf("unsupported column value type %T", v)))
}

/*
Take returns a new table assembled from the given row indexes
*/
func (t *Table) Take(index []int) *Table {
	columns := make([][]float32, len(t.columns))
	for j, col := range t.columns {
		c := make([]float32, len(index))
		for i, k := range index {
			c[i] = col[k]
		}
		columns[j] = c
	}
	return &Table{names: t.Names(), columns: columns}
}

/*
Row returns one row restricted to the given columns
*/
func (t *Table) Row(i int, names []string) []float32 {
	r := make([]float32, len(names))
	for j, n := range names {
		r[j] = t.Col(n).Float(i)
	}
	return r
}

/*
Matrix returns the named columns as a dense row-major gonum matrix,
it panics on a table without rows
*/
func (t *Table) Matrix(names []string) *mat.Dense {
	if t.Len() == 0 {
		panic(zorros.Panic(zorros.Errorf("cannot make a matrix of an empty table")))
	}
	rows := make([][]float32, t.Len())
	for i := range rows {
		rows[i] = t.Row(i, names)
	}
	return mat.NewDense(t.Len(), len(names), fu.Floats64(fu.Flatnr(rows)))
}

/*
Labels returns the named column as integer class labels
*/
func (t *Table) Labels(name string) []int {
	col := t.Col(name)
	r := make([]int, col.Len())
	for i := range r {
		r[i] = int(col.Float(i) + 0.5)
	}
	return r
}

/*
Classes returns per-class row counts of the label column
*/
func (t *Table) Classes(label string) map[int]int {
	r := map[int]int{}
	for _, c := range t.Labels(label) {
		r[c]++
	}
	return r
}
