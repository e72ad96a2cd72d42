package metadata

import (
	"math"
	"strings"
	"time"
)

// Field names a logical metadata attribute and the ordered paths it may be
// stored under. The first path holding a present value wins.
type Field struct {
	Name  string
	Paths [][]string
}

const customInfo = "Información de Datos"

var (
	Title       = Field{"titulo", [][]string{{"titulo"}, {"name"}}}
	Description = Field{"descripcion", [][]string{{"descripcion"}, {"description"}}}
	Source      = Field{"fuente", [][]string{{"fuente"}, {"attribution"}}}
	Publisher   = Field{"publicador", [][]string{{"publicador"}, {"owner", "displayName"}}}
	License     = Field{"licencia", [][]string{{"licencia"}, {"license", "name"}, {"licenseId"}}}
	Updated     = Field{"fecha_actualizacion", [][]string{{"fecha_actualizacion"}, {"rowsUpdatedAt"}, {"rows_updated_at"}}}
	FreqDays    = Field{"frecuencia_actualizacion_dias", [][]string{{"frecuencia_actualizacion_dias"}}}
	FreqLabel   = Field{"frecuencia_actualizacion", [][]string{
		{"metadata", "custom_fields", customInfo, "Frecuencia de Actualización"},
		{"updateFrequency"},
		{"frecuencia_actualizacion"},
		{"frecuencia"},
	}}
	RowLabel = Field{"etiqueta_fila", [][]string{{"etiqueta_fila"}, {"metadata", "rowLabel"}, {"rowLabel"}}}
	Tags     = Field{"tags", [][]string{{"tags"}}}
	Links    = Field{"attribution_links", [][]string{
		{"attribution_links"},
		{"attributionLink"},
		{"metadata", "custom_fields", customInfo, "URL Documentación"},
		{"metadata", "custom_fields", customInfo, "URL Normativa"},
	}}
	Formats = Field{"formatos", [][]string{
		{"formatos"},
		{"formats"},
		{"distribution", "[]", "format"},
		{"resources", "[]", "format"},
	}}
)

// Resolve returns the first present value of f.
func (d Document) Resolve(f Field) (Node, bool) {
	for _, p := range f.Paths {
		for _, n := range d.LookupAll(p...) {
			if n.Present() {
				return n, true
			}
		}
	}
	return Node{}, false
}

// Has reports whether f is filled in.
func (d Document) Has(f Field) bool {
	_, ok := d.Resolve(f)
	return ok
}

// Text returns f as a string, or "" when absent or not scalar.
func (d Document) Text(f Field) string {
	n, ok := d.Resolve(f)
	if !ok {
		return ""
	}
	s, _ := n.Text()
	return s
}

// Collect gathers every present scalar across all paths of f, flattening
// lists. Used for multi-valued attributes such as links and formats.
func (d Document) Collect(f Field) []string {
	var out []string
	for _, p := range f.Paths {
		for _, n := range d.LookupAll(p...) {
			out = append(out, scalars(n)...)
		}
	}
	return out
}

func scalars(n Node) []string {
	if n.Kind() == KindList {
		var out []string
		for _, item := range n.Items() {
			out = append(out, scalars(item)...)
		}
		return out
	}
	if !n.Present() {
		return nil
	}
	if s, ok := n.Text(); ok {
		return []string{s}
	}
	return nil
}

// Count returns how many of fields are filled in.
func (d Document) Count(fields ...Field) int {
	n := 0
	for _, f := range fields {
		if d.Has(f) {
			n++
		}
	}
	return n
}

var updatedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UpdatedAt resolves the last update timestamp: an ISO-8601 date string, or
// a Unix timestamp in seconds or milliseconds.
func (d Document) UpdatedAt() (time.Time, bool) {
	for _, p := range Updated.Paths {
		n, ok := d.Lookup(p...)
		if !ok || !n.Present() {
			continue
		}
		if t, ok := parseTimestamp(n); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimestamp(n Node) (time.Time, bool) {
	if n.Kind() == KindString {
		s := strings.TrimSpace(mustText(n))
		for _, layout := range updatedLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	f, ok := n.Float()
	if !ok || f <= 0 || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	if f > 1e12 {
		f /= 1000
	}
	return time.Unix(int64(f), 0), true
}

func mustText(n Node) string {
	s, _ := n.Text()
	return s
}
