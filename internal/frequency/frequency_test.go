package frequency

import (
	"math"
	"testing"
)

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		in   any
		kind Kind
		days float64
		rule Rule
	}{
		{nil, Days, 365, RuleAbsent},
		{"Mensual", Days, 30, RuleLabel},
		{"  MENSUAL ", Days, 30, RuleLabel},
		{"Nunca", Never, 0, RuleLabel},
		{"No aplica", Indeterminate, 0, RuleLabel},
		{"N/A", Indeterminate, 0, RuleLabel},
		{"Más de tres años", Days, 1460, RuleLabel},
		{"MAS DE TRES ANOS", Days, 1460, RuleLabel},
		{"Solo una vez", Days, 3650, RuleLabel},
		{"Trimestral", Days, 90, RuleLabel},
		{"weekly", Days, 7, RuleLabel},
		{30, Days, 30, RuleNumeric},
		{12.7, Days, 12, RuleNumeric},
		{"45", Days, 45, RuleNumeric},
		{"P1Y", Days, 365, RuleISO},
		{"P2M", Days, 60, RuleISO},
		{"P10D", Days, 10, RuleISO},
		{"cada 15 días", Days, 15, RulePattern},
		{"Cuando se requiera", Days, 365, RuleFallback},
		{"", Days, 365, RuleAbsent},
		{-3, Days, 365, RuleFallback},
		{math.NaN(), Days, 365, RuleFallback},
		{0.5, Days, 365, RuleFallback},
		{float32(0.99), Days, 365, RuleFallback},
		{1.5, Days, 1, RuleNumeric},
	}

	for _, tt := range tests {
		got := Normalize(tt.in)
		if got.Kind != tt.kind {
			t.Errorf("Normalize(%v): expected kind %s, got %s", tt.in, tt.kind, got.Kind)
			continue
		}
		if got.Kind == Days && got.Days != tt.days {
			t.Errorf("Normalize(%v): expected %v days, got %v", tt.in, tt.days, got.Days)
		}
		if got.Rule != tt.rule {
			t.Errorf("Normalize(%v): expected rule %s, got %s", tt.in, tt.rule, got.Rule)
		}
	}
}

func TestSpecialLabels(t *testing.T) {
	for _, l := range []string{"Más de tres años", "más de tres años", "MAS DE TRES ANOS", "MÁS DE TRES AÑOS"} {
		if !IsMoreThanThreeYears(l) {
			t.Errorf("Expected %q to be recognised", l)
		}
	}
	if IsMoreThanThreeYears("Mensual") {
		t.Errorf("Expected Mensual not to be recognised")
	}
	if !IsOnce("Solo una vez DNP") {
		t.Errorf("Expected Solo una vez DNP to be recognised")
	}
	if IsOnce("Anual") {
		t.Errorf("Expected Anual not to be recognised")
	}
}
