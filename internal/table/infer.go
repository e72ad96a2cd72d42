package table

import "strings"

// InferTypes returns a copy of t where each column whose non-null values are
// all numeric strings becomes a Number column, and each column of only
// "true"/"false" strings becomes a Bool column. Other columns are kept as is.
// Sources that deliver every field as text (CSV, the SODA JSON API) rely on
// this to expose numeric columns.
func InferTypes(t *Table) *Table {
	if t == nil {
		return nil
	}
	out := &Table{columns: t.Columns(), rows: make([][]Value, len(t.rows))}
	for r, row := range t.rows {
		out.rows[r] = append([]Value(nil), row...)
	}
	for c := range t.columns {
		switch inferColumn(t, c) {
		case KindNumber:
			for _, row := range out.rows {
				if f, ok := row[c].Float(); ok && row[c].kind == KindString {
					row[c] = Number(f)
				}
			}
		case KindBool:
			for _, row := range out.rows {
				if row[c].kind == KindString {
					row[c] = Bool(strings.EqualFold(strings.TrimSpace(row[c].str), "true"))
				}
			}
		}
	}
	return out
}

func inferColumn(t *Table, c int) Kind {
	numeric, boolean, seen := true, true, false
	for _, row := range t.rows {
		v := row[c]
		switch v.kind {
		case KindNull:
			continue
		case KindNumber:
			boolean = false
		case KindBool:
			numeric = false
		case KindString:
			s := strings.TrimSpace(v.str)
			if s == "" {
				return KindString
			}
			if _, ok := v.Float(); !ok {
				numeric = false
			}
			if !strings.EqualFold(s, "true") && !strings.EqualFold(s, "false") {
				boolean = false
			}
		default:
			return v.kind
		}
		seen = true
		if !numeric && !boolean {
			return KindString
		}
	}
	switch {
	case !seen:
		return KindNull
	case numeric:
		return KindNumber
	case boolean:
		return KindBool
	}
	return KindString
}
