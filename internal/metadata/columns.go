package metadata

import "strings"

// Column describes one column as declared by the metadata.
type Column struct {
	Name        string
	FieldName   string
	Description string
}

// Label is the name used for keyword matching: the display name, or the
// field name when the display name is missing.
func (c Column) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.FieldName
}

// Columns reads the "columns" list. Entries may be maps or plain strings.
func (d Document) Columns() []Column {
	n, ok := d.Lookup("columns")
	if !ok || n.Kind() != KindList {
		return nil
	}
	out := make([]Column, 0, n.Len())
	for _, item := range n.Items() {
		switch item.Kind() {
		case KindMap:
			out = append(out, Column{
				Name:        childText(item, "name"),
				FieldName:   childText(item, "fieldName"),
				Description: firstNonEmpty(childText(item, "description"), childText(item, "comment")),
			})
		default:
			if s, ok := item.Text(); ok {
				out = append(out, Column{Name: s})
			}
		}
	}
	return out
}

// ColumnDescription finds the description of a table column, checking the
// "columnas" map first and then the "columns" list by field or display name.
func (d Document) ColumnDescription(column string) string {
	if n, ok := d.Lookup("columnas", column, "descripcion"); ok {
		if s, ok := n.Text(); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	for _, c := range d.Columns() {
		if c.FieldName == column || c.Name == column {
			return c.Description
		}
	}
	return ""
}

func childText(n Node, key string) string {
	c, ok := n.Get(key)
	if !ok {
		return ""
	}
	s, _ := c.Text()
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
