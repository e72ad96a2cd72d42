package table

import (
	"errors"
	"math"
	"testing"
)

func TestFromRecordsFillsMissingKeysWithNull(t *testing.T) {
	tbl := FromRecords([]map[string]any{
		{"b": "x", "a": 1.0},
		{"a": 2.0, "c": true},
	})

	if tbl.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", tbl.RowCount())
	}
	want := []string{"a", "b", "c"}
	got := tbl.Columns()
	if len(got) != len(want) {
		t.Fatalf("Expected columns %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected column %d to be %s, got %s", i, want[i], got[i])
		}
	}

	if !tbl.Cell(1, tbl.ColumnIndex("b")).IsNull() {
		t.Errorf("Expected missing key to become null")
	}
	if !tbl.Cell(0, tbl.ColumnIndex("c")).IsNull() {
		t.Errorf("Expected missing key to become null")
	}
	if tbl.Cell(1, tbl.ColumnIndex("c")).Kind() != KindBool {
		t.Errorf("Expected bool cell, got %s", tbl.Cell(1, 2).Kind())
	}
}

func TestAppendRowRejectsWidthMismatch(t *testing.T) {
	tbl := New([]string{"a", "b"})
	err := tbl.AppendRow([]Value{String("x")})
	if !errors.Is(err, ErrRowWidth) {
		t.Errorf("Expected ErrRowWidth, got %v", err)
	}
}

func TestNilTableIsEmpty(t *testing.T) {
	var tbl *Table
	if !tbl.Empty() {
		t.Errorf("Expected nil table to be empty")
	}
	if tbl.RowCount() != 0 || tbl.ColumnCount() != 0 {
		t.Errorf("Expected zero counts on nil table")
	}
}

func TestCanonicalDistinguishesKinds(t *testing.T) {
	cases := []struct {
		a, b  Value
		equal bool
	}{
		{Null(), Null(), true},
		{String("1"), Number(1), false},
		{Number(1), Number(1.0), true},
		{Number(math.Copysign(0, -1)), Number(0), true},
		{String(""), Null(), false},
		{Bool(true), String("true"), false},
		{Nested(map[string]any{"x": 1, "y": 2}), Nested(map[string]any{"y": 2, "x": 1}), true},
		{Nested([]any{1, 2}), Nested([]any{2, 1}), false},
	}
	for i, c := range cases {
		if got := c.a.Canonical() == c.b.Canonical(); got != c.equal {
			t.Errorf("case %d: Expected equal=%v for %q vs %q", i, c.equal, c.a.Canonical(), c.b.Canonical())
		}
	}
}

func TestCanonicalDoesNotPanicOnUnencodable(t *testing.T) {
	v := Nested(map[any]any{1: make(chan int)})
	if v.Canonical() == "" {
		t.Errorf("Expected a non-empty canonical form")
	}
}

func TestValueFloat(t *testing.T) {
	if f, ok := String(" 4.5 ").Float(); !ok || f != 4.5 {
		t.Errorf("Expected 4.5, got %v (%v)", f, ok)
	}
	if _, ok := String("abc").Float(); ok {
		t.Errorf("Expected parse failure for abc")
	}
	if _, ok := Null().Float(); ok {
		t.Errorf("Expected null to have no float reading")
	}
}

func TestInferTypes(t *testing.T) {
	src := FromRecords([]map[string]any{
		{"codigo": "05001", "valor": "1.5", "activo": "TRUE", "nombre": "Medellín"},
		{"codigo": "76001", "valor": nil, "activo": "false", "nombre": "12"},
	})
	out := InferTypes(src)

	if got := out.Cell(0, out.ColumnIndex("codigo")); got.Kind() != KindNumber {
		t.Errorf("Expected codigo to become numeric, got %s", got.Kind())
	}
	if got := out.Cell(1, out.ColumnIndex("valor")); !got.IsNull() {
		t.Errorf("Expected nulls to stay null, got %s", got.Kind())
	}
	if got := out.Cell(0, out.ColumnIndex("activo")); got.Kind() != KindBool || got.Text() != "true" {
		t.Errorf("Expected activo to become bool true, got %s %q", got.Kind(), got.Text())
	}
	if got := out.Cell(1, out.ColumnIndex("nombre")); got.Kind() != KindString {
		t.Errorf("Expected nombre to stay text, got %s", got.Kind())
	}
	if src.Cell(0, 0).Kind() != KindString {
		t.Errorf("Expected source table to be left untouched")
	}
}
