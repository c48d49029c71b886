/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/pbanos/sapling/dataset/sqldataset"
)

// Dialect holds the SQLite3 statements used by the adapter.
var Dialect = sqldataset.Dialect{
	IDColumnDefinition: "INTEGER PRIMARY KEY AUTOINCREMENT",
	ListColumnsQuery:   "SELECT name FROM pragma_table_info(?) ORDER BY cid",
}

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite3 database %s", path)
	}
	return sqldataset.NewAdapter(db, Dialect), nil
}
