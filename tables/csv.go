package tables

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
	"go-ml.dev/pkg/zorros"
)

/*
ReadCSV reads a table from CSV with a required header row.
All values must be numeric.
*/
func ReadCSV(source io.Reader) (*Table, error) {
	rd := csv.NewReader(source)
	header, err := rd.Read()
	if err != nil {
		return nil, zorros.Wrapf(err, "failed to read csv header: %v", err.Error())
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	columns := make([][]float32, len(names))
	line := 1
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, zorros.Wrapf(err, "failed to read csv line %v: %v", line, err.Error())
		}
		line++
		if len(rec) != len(names) {
			return nil, zorros.Errorf("csv line %v has %v values, expected %v", line, len(rec), len(names))
		}
		for j, s := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
			if err != nil {
				return nil, zorros.Wrapf(err, "csv line %v column `%v`: %v", line, names[j], err.Error())
			}
			columns[j] = append(columns[j], float32(v))
		}
	}
	return New(names, columns)
}

/*
ReadCSVFile reads a table from a CSV file.
Files with the `.xz` suffix are decompressed transparently.
*/
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zorros.Wrapf(err, "failed to open `%v`: %v", path, err.Error())
	}
	defer f.Close()
	var source io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		if source, err = xz.NewReader(f); err != nil {
			return nil, zorros.Wrapf(err, "failed to decompress `%v`: %v", path, err.Error())
		}
	}
	return ReadCSV(source)
}

/*
LuckyReadCSVFile reads a table from a CSV file and throws errors as a panic
*/
func LuckyReadCSVFile(path string) *Table {
	t, err := ReadCSVFile(path)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return t
}
