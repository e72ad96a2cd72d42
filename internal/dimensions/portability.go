package dimensions

import (
	"math"
	"path"
	"sort"
	"strings"

	"github.com/peekknuf/govdataqa/internal/metadata"
)

// Portability weights per format tier.
const (
	VeryPortable   = 1.0
	MediumPortable = 0.6
	NonPortable    = 0.1
)

var formatTiers = map[string]float64{
	"csv": VeryPortable, "tsv": VeryPortable, "json": VeryPortable, "geojson": VeryPortable,
	"xml": VeryPortable, "rdf": VeryPortable, "txt": VeryPortable, "ods": VeryPortable,
	"odt": VeryPortable, "parquet": VeryPortable,

	"xlsx": MediumPortable, "xls": MediumPortable, "docx": MediumPortable, "kml": MediumPortable,
	"kmz": MediumPortable, "shp": MediumPortable, "zip": MediumPortable, "pdf": MediumPortable,
}

// exportFormats are offered for every tabular dataset by the portal.
var exportFormats = []string{"csv", "json"}

// IncompleteMetadataFactor scales portability when description or license
// is missing.
const IncompleteMetadataFactor = 0.9

// FormatWeight classifies a declared format. It accepts bare extensions,
// dotted extensions and media types ("text/csv").
func FormatWeight(format string) float64 {
	f := normalizeFormat(format)
	if w, ok := formatTiers[f]; ok {
		return w
	}
	return NonPortable
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if i := strings.LastIndex(f, "/"); i >= 0 {
		f = f[i+1:]
	}
	if ext := path.Ext(f); ext != "" {
		f = ext
	}
	f = strings.TrimPrefix(f, ".")
	if i := strings.Index(f, "+"); i >= 0 {
		f = f[i+1:]
	}
	return f
}

// CalculatePortability is 10·(1-(1-raw)^1.2)·k where raw is the mean format
// weight and k drops to 0.9 when description or license is missing.
func CalculatePortability(in Input) Result {
	declared := in.Meta.Collect(metadata.Formats)
	formats := make([]string, 0, len(declared))
	seen := map[string]struct{}{}
	for _, f := range declared {
		n := normalizeFormat(f)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		formats = append(formats, n)
	}

	inferred := false
	if len(formats) == 0 {
		if in.Table.Empty() {
			return neutral(Portability, "no formats declared and no data loaded")
		}
		formats = append(formats, exportFormats...)
		inferred = true
	}
	sort.Strings(formats)

	weights := make([]float64, len(formats))
	for i, f := range formats {
		weights[i] = FormatWeight(f)
	}
	raw := mean(weights...)

	k := 1.0
	if !in.Meta.Has(metadata.Description) || !in.Meta.Has(metadata.License) {
		k = IncompleteMetadataFactor
	}
	score := 10 * (1 - math.Pow(1-raw, 1.2)) * k
	return result(Portability, score, map[string]any{
		"formats":  formats,
		"inferred": inferred,
		"raw":      raw,
		"factor":   k,
	})
}
