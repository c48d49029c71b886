/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/pbanos/sapling/dataset/sqldataset"
)

// Dialect holds the PostgreSQL statements used by the adapter.
var Dialect = sqldataset.Dialect{
	IDColumnDefinition: "SERIAL PRIMARY KEY",
	ListColumnsQuery:   "SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position",
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres database")
	}
	return sqldataset.NewAdapter(db, Dialect), nil
}
