package seed

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jask/treegrid/internal/treestore"
)

var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// openReadOnly opens an existing sqlite file; the seed is never written back.
func openReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	return db, nil
}

// loadSQLite reads id, parent and label columns from table in row order.
// Integer columns become numeric ids, text columns string ids.
func loadSQLite(ctx context.Context, path, table string) ([]treestore.Item, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRE.MatchString(table) {
		return nil, errors.Newf("invalid table name %q", table)
	}
	db, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, parent, label FROM `+table)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", table)
	}
	defer rows.Close()

	var raw []rawItem
	for rows.Next() {
		var r rawItem
		var label sql.NullString
		if err := rows.Scan(&r.ID, &r.Parent, &label); err != nil {
			return nil, err
		}
		r.Label = label.String
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return convert(raw)
}
