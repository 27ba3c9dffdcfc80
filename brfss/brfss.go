package brfss

import (
	"os"

	"go-ml.dev/pkg/diabetes/fu"
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/zorros"
)

/*
Package brfss locates and loads the CDC BRFSS-2015 diabetes health
indicators survey. Every row is one survey respondent: binary flags
(high blood pressure, smoker, ...), ordinal categories (age group,
education, income) and continuous measures (BMI), with a binary
diabetes status label.
*/

// File is the expected dataset file name, optionally xz-compressed
const File = "diabetes_binary_health_indicators_BRFSS2015.csv"

// Label is the class column name after loading
const Label = "Diabetes"

// sourceLabel is the class column name inside the file
const sourceLabel = "Diabetes_binary"

/*
Load reads the survey from the working directory or the cache
directory, accepting a plain or an xz-compressed file, and renames
the label column
*/
func Load() (*tables.Table, error) {
	for _, path := range []string{
		File, File + ".xz",
		fu.CachePath(File), fu.CachePath(File + ".xz"),
	} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		t, err := tables.ReadCSVFile(path)
		if err != nil {
			return nil, err
		}
		return t.Rename(sourceLabel, Label)
	}
	return nil, zorros.Errorf("dataset `%v` not found in the working or cache directory", File)
}

/*
LuckyLoad loads the survey and throws errors as a panic
*/
func LuckyLoad() *tables.Table {
	t, err := Load()
	if err != nil {
		panic(zorros.Panic(err))
	}
	return t
}
