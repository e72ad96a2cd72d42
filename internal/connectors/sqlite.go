package connectors

import (
	"context"
	"database/sql"
	"math"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/peekknuf/govdataqa/internal/table"
)

// maxExactInt is the largest integer a float64 holds without rounding.
const maxExactInt = 1 << 53

// LoadSQLite runs query against the database at path and returns the result
// set as a table.
func LoadSQLite(ctx context.Context, path, query string) (*table.Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: open %s", path)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: columns")
	}
	t := table.New(columns)

	raw := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan")
		}
		row := make([]table.Value, len(columns))
		for i, v := range raw {
			row[i] = sqliteValue(v)
		}
		if err := t.AppendRow(row); err != nil {
			return nil, eris.Wrap(err, "sqlite: append row")
		}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate")
	}
	return t, nil
}

// sqliteValue maps driver values to cells. Integers too large for a float64
// keep their exact digits as text.
func sqliteValue(v any) table.Value {
	switch x := v.(type) {
	case int64:
		if x > maxExactInt || x < -maxExactInt {
			return table.String(strconv.FormatInt(x, 10))
		}
		return table.Number(float64(x))
	case float64:
		if math.IsInf(x, 0) {
			return table.String(strconv.FormatFloat(x, 'g', -1, 64))
		}
	case time.Time:
		return table.String(x.Format(time.RFC3339))
	}
	return table.FromAny(v)
}
