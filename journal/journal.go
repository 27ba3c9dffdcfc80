package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"go-ml.dev/pkg/diabetes/model"
	"go-ml.dev/pkg/diabetes/tables"
	"go-ml.dev/pkg/zorros"
)

/*
Journal is a SQLite experiment journal. Every training run appends its
per-epoch history in long form (run, iteration, subset, metric, value),
so runs can be compared later without re-training.
*/
type Journal struct {
	db *sql.DB
}

const schema = `
create table if not exists history (
	run       text not null,
	iteration integer not null,
	subset    text not null,
	metric    text not null,
	value     real not null
)`

/*
Open opens or creates a journal database file
*/
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zorros.Wrapf(err, "failed to open journal `%v`: %v", path, err.Error())
	}
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, zorros.Wrapf(err, "failed to init journal `%v`: %v", path, err.Error())
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

/*
LogHistory appends the whole training history of one run
*/
func (j *Journal) LogHistory(run string, history *tables.Table) error {
	tx, err := j.db.Begin()
	if err != nil {
		return zorros.Trace(err)
	}
	stmt, err := tx.Prepare("insert into history (run, iteration, subset, metric, value) values (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return zorros.Trace(err)
	}
	defer stmt.Close()
	iteration := history.Col(model.Iteration)
	subset := history.Col(model.Subset)
	for _, metric := range history.Names() {
		if metric == model.Iteration || metric == model.Subset {
			continue
		}
		values := history.Col(metric)
		for i := 0; i < history.Len(); i++ {
			name := model.TrainSubset
			if subset.Float(i) != 0 {
				name = model.TestSubset
			}
			if _, err = stmt.Exec(run, int(iteration.Float(i)), name, metric, float64(values.Float(i))); err != nil {
				tx.Rollback()
				return zorros.Trace(err)
			}
		}
	}
	return tx.Commit()
}

/*
Count returns the recorded history row count of one run
*/
func (j *Journal) Count(run string) (int, error) {
	var n int
	err := j.db.QueryRow("select count(*) from history where run = ?", run).Scan(&n)
	if err != nil {
		return 0, zorros.Trace(err)
	}
	return n, nil
}
