package conformity

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"

	"github.com/peekknuf/govdataqa/internal/metadata"
	"github.com/peekknuf/govdataqa/internal/reference"
	"github.com/peekknuf/govdataqa/internal/table"
)

func TestDetectRole(t *testing.T) {
	cases := []struct {
		name string
		want Role
	}{
		{"Departamento", RoleDepartment},
		{"cod_depto", RoleDepartment},
		{"Municipio", RoleMunicipality},
		{"ciudad_residencia", RoleMunicipality},
		{"AÑO", RoleYear},
		{"anio_corte", RoleYear},
		{"Latitud", RoleLatitude},
		{"longitude", RoleLongitude},
		{"correo_electronico", RoleEmail},
		{"email", RoleEmail},
		{"valor", RoleNone},
		{"", RoleNone},
		// departamento is checked before municipio
		{"municipio_departamento", RoleDepartment},
	}
	for _, c := range cases {
		if got := DetectRole(c.name); got != c.want {
			t.Errorf("DetectRole(%q): expected %s, got %s", c.name, c.want, got)
		}
	}
}

func TestValueValidators(t *testing.T) {
	cases := []struct {
		name  string
		check func(table.Value) bool
		value table.Value
		want  bool
	}{
		{"year number", ValidYear, table.Number(2020), true},
		{"year string", ValidYear, table.String(" 1999 "), true},
		{"year fraction", ValidYear, table.Number(2020.5), false},
		{"year too old", ValidYear, table.Number(1899), false},
		{"year future", ValidYear, table.Number(2026), false},
		{"year text", ValidYear, table.String("dos mil"), false},
		{"latitude", ValidLatitude, table.String("6.25"), true},
		{"latitude south", ValidLatitude, table.Number(-4.2), false},
		{"longitude", ValidLongitude, table.Number(-75.56), true},
		{"longitude east", ValidLongitude, table.Number(-60), false},
		{"email", ValidEmail, table.String("datos@mintic.gov.co"), true},
		{"email no tld", ValidEmail, table.String("datos@mintic"), false},
		{"email number", ValidEmail, table.Number(3), false},
	}
	for _, c := range cases {
		if got := c.check(c.value); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func newTable(t *testing.T, records []map[string]any) *table.Table {
	t.Helper()
	return table.FromRecords(records)
}

func TestNoRelevantColumnsIsPerfect(t *testing.T) {
	tbl := newTable(t, []map[string]any{{"valor": 1.0, "nombre": "x"}})
	rep := New(nil).Validate(tbl, metadata.Document{})
	if rep.Outcome != NoRelevantColumns {
		t.Errorf("Expected NoRelevantColumns, got %s", rep.Outcome)
	}
	if rep.Score != 1.0 {
		t.Errorf("Expected score 1.0, got %f", rep.Score)
	}
}

func TestAllNullRoleColumnIsUnvalidatable(t *testing.T) {
	tbl := newTable(t, []map[string]any{{"año": nil, "valor": 1.0}})
	rep := New(nil).Validate(tbl, metadata.Document{})
	if rep.Outcome != Unvalidatable || rep.Score != 0 {
		t.Errorf("Expected Unvalidatable with 0.0, got %s with %f", rep.Outcome, rep.Score)
	}
}

func TestScoredOutcome(t *testing.T) {
	tbl := newTable(t, []map[string]any{
		{"departamento": "Antioquia", "año": 2020.0},
		{"departamento": "ANTIOQUIA ", "año": 2021.0},
		{"departamento": "Atlantis", "año": 1800.0},
		{"departamento": "Nariño", "año": 2019.0},
	})
	rep := New(nil).Validate(tbl, metadata.Document{})
	if rep.Outcome != Scored {
		t.Fatalf("Expected Scored, got %s", rep.Outcome)
	}
	if rep.Validated != 8 || rep.Invalid != 2 {
		t.Errorf("Expected 8 validated and 2 invalid, got %d and %d", rep.Validated, rep.Invalid)
	}
	want := math.Exp(-5 * 2.0 / 8.0)
	if math.Abs(rep.Score-want) > 1e-12 {
		t.Errorf("Expected %f, got %f", want, rep.Score)
	}
	for _, c := range rep.Columns {
		if c.Role != "departamento" {
			continue
		}
		if len(c.Samples) != 1 || c.Samples[0] != "Atlantis" {
			t.Errorf("Expected sample [Atlantis], got %v", c.Samples)
		}
	}
}

func TestUnavailableMunicipalitiesAreExcluded(t *testing.T) {
	tbl := newTable(t, []map[string]any{
		{"municipio": "Nowhere", "latitud": 6.2},
	})
	unavailable := func() (*reference.Set, error) {
		return nil, eris.Wrap(reference.ErrUnavailable, "municipios: no source")
	}
	rep := New(reference.NewCached(nil, unavailable)).Validate(tbl, metadata.Document{})
	if rep.Validated != 1 || rep.Invalid != 0 {
		t.Errorf("Expected only latitude validated, got %d validated %d invalid", rep.Validated, rep.Invalid)
	}
	if rep.Score != 1.0 {
		t.Errorf("Expected 1.0, got %f", rep.Score)
	}
	var skipped bool
	for _, c := range rep.Columns {
		if c.Role == "municipio" && c.Skipped != "" {
			skipped = true
		}
	}
	if !skipped {
		t.Errorf("Expected municipio column to be reported as skipped")
	}
}

func TestMunicipalityOnlyTableWithDefaultProvider(t *testing.T) {
	tbl := newTable(t, []map[string]any{{"municipio": "Medellín"}, {"municipio": "Cali"}})
	rep := New(reference.NewCached(nil, nil)).Validate(tbl, metadata.Document{})
	if rep.Outcome != Scored {
		t.Fatalf("Expected scored outcome, got %s", rep.Outcome)
	}
	if rep.Validated != 2 || rep.Invalid != 0 {
		t.Errorf("Expected 2 validated and 0 invalid, got %d and %d", rep.Validated, rep.Invalid)
	}
	if rep.Score != 1.0 {
		t.Errorf("Expected 1.0, got %f", rep.Score)
	}
}

func TestMunicipalitiesFromProvider(t *testing.T) {
	refs := reference.NewCached(nil, reference.Names("municipios", "Medellín", "Cali"))
	tbl := newTable(t, []map[string]any{{"municipio": "medellin"}, {"municipio": "Gotham"}})
	rep := New(refs).Validate(tbl, metadata.Document{})
	if rep.Validated != 2 || rep.Invalid != 1 {
		t.Errorf("Expected 2 validated and 1 invalid, got %d and %d", rep.Validated, rep.Invalid)
	}
}

func TestRolesFromMetadataColumns(t *testing.T) {
	doc := metadata.FromMap(map[string]any{
		"columns": []any{
			map[string]any{"name": "Correo de contacto", "fieldName": "contacto"},
			map[string]any{"name": "Valor", "fieldName": "valor"},
		},
	})
	tbl := newTable(t, []map[string]any{
		{"contacto": "a@b.co", "valor": 1.0},
		{"contacto": "roto", "valor": 2.0},
	})
	rep := New(nil).Validate(tbl, doc)
	if len(rep.Columns) != 1 || rep.Columns[0].Column != "contacto" {
		t.Fatalf("Expected the contacto column to be detected, got %+v", rep.Columns)
	}
	if rep.Invalid != 1 {
		t.Errorf("Expected 1 invalid value, got %d", rep.Invalid)
	}
}

func TestMetadataColumnMissingFromTable(t *testing.T) {
	doc := metadata.FromMap(map[string]any{
		"columns": []any{map[string]any{"name": "Año", "fieldName": "ano"}},
	})
	tbl := newTable(t, []map[string]any{{"otra": 1.0}})
	rep := New(nil).Validate(tbl, doc)
	if rep.Outcome != Unvalidatable {
		t.Errorf("Expected Unvalidatable, got %s", rep.Outcome)
	}
}
