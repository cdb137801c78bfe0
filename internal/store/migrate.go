package store

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

//go:embed schema.sql
var schemaSQL string

// migrate creates missing tables and upgrades databases written before
// words carried a tag.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to apply schema")
		}
	}

	columns, err := tableColumns(ctx, db, "words")
	if err != nil {
		return err
	}
	if !lo.Contains(columns, "tag") {
		if _, err := db.ExecContext(ctx, `ALTER TABLE words ADD COLUMN tag TEXT NOT NULL DEFAULT 'none'`); err != nil {
			return errors.Wrap(err, "failed to add tag column")
		}
	}

	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_words_tag ON words(tag)`); err != nil {
		return errors.Wrap(err, "failed to create tag index")
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to inspect table %s", table)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan column name")
		}
		columns = append(columns, name)
	}
	return columns, errors.Wrap(rows.Err(), "failed to read columns")
}
