package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const socrataView = `{
  "name": "Contratos 2023",
  "description": "Contratos firmados por la entidad",
  "attribution": "Ministerio",
  "rowsUpdatedAt": 1700000000,
  "tags": ["contratos", "compras"],
  "columns": [
    {"name": "Departamento", "fieldName": "departamento", "description": "Departamento de ejecución"},
    {"name": "Valor", "fieldName": "valor"},
    "correo"
  ],
  "metadata": {
    "custom_fields": {
      "Información de Datos": {
        "Frecuencia de Actualización": "Mensual",
        "URL Documentación": "https://example.org/doc"
      }
    }
  },
  "distribution": [{"format": "CSV"}, {"format": "XLSX"}]
}`

func TestLookupMissingPathsAreSafe(t *testing.T) {
	doc, err := Parse([]byte(socrataView))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if _, ok := doc.Lookup("metadata", "custom_fields", "nope", "deeper"); ok {
		t.Errorf("Expected missing path to report false")
	}
	if _, ok := doc.Lookup("tags", "0"); ok {
		t.Errorf("Expected map navigation into a list to report false")
	}

	var empty Document
	if _, ok := empty.Lookup("anything"); ok {
		t.Errorf("Expected empty document lookup to report false")
	}
	if empty.Has(Title) {
		t.Errorf("Expected empty document to have no title")
	}
}

func TestFieldAliases(t *testing.T) {
	doc, err := Parse([]byte(socrataView))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if got := doc.Text(Title); got != "Contratos 2023" {
		t.Errorf("Expected title from name, got %q", got)
	}
	if got := doc.Text(FreqLabel); got != "Mensual" {
		t.Errorf("Expected frequency from custom fields, got %q", got)
	}
	if got := doc.Collect(Links); len(got) != 1 || got[0] != "https://example.org/doc" {
		t.Errorf("Expected documentation link, got %v", got)
	}
	if got := doc.Collect(Formats); len(got) != 2 {
		t.Errorf("Expected 2 formats, got %v", got)
	}
	if doc.Has(License) {
		t.Errorf("Expected license to be absent")
	}
	if got := doc.Count(Title, Description, Source, Publisher); got != 3 {
		t.Errorf("Expected 3 filled fields, got %d", got)
	}
}

func TestSpanishKeysTakePrecedence(t *testing.T) {
	doc := FromMap(map[string]any{
		"titulo": "Titulo propio",
		"name":   "Socrata name",
		"fuente": "",
	})
	if got := doc.Text(Title); got != "Titulo propio" {
		t.Errorf("Expected Spanish title, got %q", got)
	}
	if doc.Has(Source) {
		t.Errorf("Expected blank source to count as absent")
	}
}

func TestUpdatedAt(t *testing.T) {
	doc, _ := Parse([]byte(socrataView))
	got, ok := doc.UpdatedAt()
	if !ok || got.Unix() != 1700000000 {
		t.Errorf("Expected rowsUpdatedAt timestamp, got %v (%v)", got, ok)
	}

	ms := FromMap(map[string]any{"rowsUpdatedAt": 1700000000000.0})
	if got, _ := ms.UpdatedAt(); got.Unix() != 1700000000 {
		t.Errorf("Expected millisecond timestamp to be scaled, got %v", got)
	}

	iso := FromMap(map[string]any{"fecha_actualizacion": "2025-11-01"})
	want := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	if got, ok := iso.UpdatedAt(); !ok || !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	bad := FromMap(map[string]any{"fecha_actualizacion": "ayer"})
	if _, ok := bad.UpdatedAt(); ok {
		t.Errorf("Expected unparsable date to be absent")
	}
}

func TestColumns(t *testing.T) {
	doc, _ := Parse([]byte(socrataView))
	cols := doc.Columns()
	if len(cols) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(cols))
	}
	if cols[2].Label() != "correo" {
		t.Errorf("Expected plain string column, got %+v", cols[2])
	}
	if got := doc.ColumnDescription("departamento"); got != "Departamento de ejecución" {
		t.Errorf("Expected description by field name, got %q", got)
	}

	local := FromMap(map[string]any{
		"columnas": map[string]any{"id": map[string]any{"descripcion": "Identificador"}},
	})
	if got := local.ColumnDescription("id"); got != "Identificador" {
		t.Errorf("Expected description from columnas map, got %q", got)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.yaml")
	content := "titulo: Prueba\ntags:\n  - a\nfrecuencia_actualizacion_dias: 30\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	n, ok := doc.Resolve(FreqDays)
	if !ok {
		t.Fatalf("Expected frequency days")
	}
	if f, _ := n.Float(); f != 30 {
		t.Errorf("Expected 30, got %v", f)
	}
}
