package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

const insertBatch = 50

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var sqliteTypes = map[schema.FieldType]string{
	schema.String: "TEXT",
	schema.Int:    "INTEGER",
	schema.Float:  "REAL",
	schema.Date:   "TEXT",
	schema.Bool:   "INTEGER",
}

// writeSQLite creates a fresh database with one table per entity, parents
// before children.
func writeSQLite(path string, tables []*table.Table) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to create SQLite database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, t := range tables {
		if err := createAndFill(ctx, db, t); err != nil {
			return fmt.Errorf("table %s: %w", t.Name(), err)
		}
	}
	return nil
}

func createAndFill(ctx context.Context, db *sql.DB, t *table.Table) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL(t)); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	columns := t.Columns()
	for start := 0; start < t.Len(); start += insertBatch {
		end := min(start+insertBatch, t.Len())
		insert := qb.Insert(quoteIdent(t.Name())).Columns(quoteAll(columns)...)
		for i := start; i < end; i++ {
			insert = insert.Values(sqliteValues(t.Row(i))...)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d: %w", start, end-1, err)
		}
	}
	return tx.Commit()
}

func createTableSQL(t *table.Table) string {
	contract, _ := schema.Lookup(t.Name())
	defs := make([]string, 0, len(t.Columns())+1)
	for _, col := range t.Columns() {
		typ := "TEXT"
		notNull := ""
		if contract != nil {
			if f, ok := contract.Field(col); ok {
				typ = sqliteTypes[f.Type]
				if f.Mandatory {
					notNull = " NOT NULL"
				}
			}
		}
		defs = append(defs, fmt.Sprintf("%s %s%s", quoteIdent(col), typ, notNull))
	}
	if contract != nil {
		for _, fk := range contract.ForeignKeys {
			defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
				strings.Join(quoteAll(fk.Columns), ", "), quoteIdent(fk.RefTable), strings.Join(quoteAll(fk.RefColumns), ", ")))
		}
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(t.Name()), strings.Join(defs, ", "))
}

func sqliteValues(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case time.Time:
			out[i] = x.Format(config.DateLayout)
		case bool:
			if x {
				out[i] = 1
			} else {
				out[i] = 0
			}
		default:
			out[i] = v
		}
	}
	return out
}

func readSQLite(path string) (map[string]*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	existing, err := sqliteTableNames(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*table.Table)
	for _, name := range schema.Names() {
		if !existing[name] {
			continue
		}
		t, err := readSQLiteTable(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func sqliteTableNames(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	query, args, err := qb.Select("name").From("sqlite_master").Where(squirrel.Eq{"type": "table"}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names[name] = true
	}
	return names, rows.Err()
}

func readSQLiteTable(ctx context.Context, db *sql.DB, name string) (*table.Table, error) {
	query, args, err := qb.Select("*").From(quoteIdent(name)).OrderBy("rowid").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	conv := newConverter(name, columns)
	b := table.NewBuilder(name, columns...)
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range raw {
			raw[i] = conv.value(i, v)
		}
		if err := b.Append(raw...); err != nil {
			return nil, err
		}
	}
	return b.Build(), rows.Err()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = quoteIdent(c)
	}
	return out
}
