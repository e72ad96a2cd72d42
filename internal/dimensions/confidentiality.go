package dimensions

import (
	"strings"
	"unicode"

	"github.com/peekknuf/govdataqa/internal/textnorm"
)

// riskTier groups keywords that mark a column as sensitive.
type riskTier struct {
	level    string
	weight   int
	keywords []string
}

// MaxRisk is the weight of the highest tier.
const MaxRisk = 3

// Tiers for table column names. Evaluated in order, first match wins.
var columnTiers = []riskTier{
	{"alto", 3, []string{"cedula", "cc", "dni", "pasaporte", "password", "contrasena", "tarjeta", "cuenta_bancaria"}},
	{"medio", 2, []string{"telefono", "celular", "direccion", "email", "correo"}},
	{"bajo", 1, []string{"nombre", "apellido", "edad", "genero"}},
}

// Tiers for column names declared in metadata.
var metadataTiers = []riskTier{
	{"alto", 3, []string{
		"documento", "documento de identidad", "pasaporte", "cuenta bancaria", "cuenta", "banco",
		"tarjeta", "historial", "historial medico", "diagnostico", "password", "contraseña",
		"cedula", "dni",
	}},
	{"medio", 2, []string{"direccion", "telefono", "celular", "correo", "email", "mail"}},
	{"bajo", 1, []string{"fecha de nacimiento", "nacimiento", "sexo", "edad", "nombre", "apellido"}},
}

// shortKeyword is the length up to which a keyword must match a whole
// token; "cc" would otherwise match "direccion".
const shortKeyword = 3

type sensitiveColumn struct {
	Column  string `json:"column"`
	Level   string `json:"level"`
	Weight  int    `json:"weight"`
	Keyword string `json:"keyword"`
}

func classify(name string, tiers []riskTier) (sensitiveColumn, bool) {
	folded := textnorm.Fold(name)
	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tier := range tiers {
		for _, kw := range tier.keywords {
			k := textnorm.Fold(kw)
			if matchKeyword(folded, tokens, k) {
				return sensitiveColumn{Column: name, Level: tier.level, Weight: tier.weight, Keyword: kw}, true
			}
		}
	}
	return sensitiveColumn{}, false
}

func matchKeyword(folded string, tokens []string, kw string) bool {
	if len(kw) > shortKeyword {
		return strings.Contains(folded, kw)
	}
	for _, t := range tokens {
		if t == kw {
			return true
		}
	}
	return false
}

// CalculateConfidentiality penalizes sensitive columns. When the metadata
// declares columns their names are scored with 10 - prop·totalRisk;
// otherwise table column names are scored with 10 - prop·(total/(n·3))·10.
func CalculateConfidentiality(in Input) Result {
	if cols := in.Meta.Columns(); len(cols) > 0 {
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.Label()
		}
		found, total := detectSensitive(names, metadataTiers)
		if len(found) == 0 {
			return result(Confidentiality, 10, map[string]any{"variant": "metadata", "sensitive": found})
		}
		prop := ratio(len(found), len(names))
		return result(Confidentiality, 10-prop*float64(total), map[string]any{
			"variant":    "metadata",
			"sensitive":  found,
			"total_risk": total,
		})
	}

	names := in.Table.Columns()
	if len(names) == 0 {
		return neutral(Confidentiality, "no columns to inspect")
	}
	found, total := detectSensitive(names, columnTiers)
	if len(found) == 0 {
		return result(Confidentiality, 10, map[string]any{"variant": "table", "sensitive": found})
	}
	prop := ratio(len(found), len(names))
	avgRisk := float64(total) / float64(len(found)*MaxRisk)
	return result(Confidentiality, 10-prop*avgRisk*10, map[string]any{
		"variant":    "table",
		"sensitive":  found,
		"total_risk": total,
	})
}

func detectSensitive(names []string, tiers []riskTier) ([]sensitiveColumn, int) {
	found := []sensitiveColumn{}
	total := 0
	for _, n := range names {
		if c, ok := classify(n, tiers); ok {
			found = append(found, c)
			total += c.Weight
		}
	}
	return found, total
}
