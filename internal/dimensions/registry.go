package dimensions

// Spec describes a registered dimension.
type Spec struct {
	Name        Name
	Max         float64
	Description string
	Calculate   Calculator
}

// registry lists the dimensions in the order the score set is reported.
var registry = []Spec{
	{Confidentiality, 10, "sensitive columns weighted by risk tier", CalculateConfidentiality},
	{Relevance, 10, "category weight and row count adequacy", CalculateRelevance},
	{Timeliness, 10, "days since last update against the declared frequency", CalculateTimeliness},
	{Traceability, 10, "required and audited metadata, undated title", CalculateTraceability},
	{Conformity, 10, "negative numbers and blank strings", CalculateConformity},
	{SyntacticAccuracy, 10, "columns with near-duplicate category values", CalculateSyntacticAccuracy},
	{SemanticAccuracy, 10, "columns whose content does not match their name and description", CalculateSemanticAccuracy},
	{Completeness, 10, "null cells, mostly-null columns, documented columns", CalculateCompleteness},
	{Consistency, 10, "syntactic accuracy, value length spread, repeated column names", CalculateConsistency},
	{Precision, 10, "columns with enough variance or cardinality", CalculatePrecision},
	{Portability, 10, "openness of the published formats", CalculatePortability},
	{Credibility, 10, "source metadata, publisher and column descriptions", CalculateCredibility},
	{Comprehensibility, 10, "description and row label length", CalculateComprehensibility},
	{Accessibility, 10, "tags and documentation links", CalculateAccessibility},
	{Uniqueness, 10, "duplicate rows and duplicate columns", CalculateUniqueness},
	{Efficiency, 10, "completeness, duplicate rows and duplicate columns", CalculateEfficiency},
	{Recoverability, 10, "accessibility, source metadata and audited metadata", CalculateRecoverability},
	{Availability, 10, "accessibility and timeliness", CalculateAvailability},
	{AdvancedConformity, 1, "reference data and range checks on role-bearing columns", CalculateAdvancedConformity},
}

// All returns every registered dimension.
func All() []Spec {
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

// Names lists the registered dimension names in report order.
func Names() []Name {
	out := make([]Name, len(registry))
	for i, s := range registry {
		out[i] = s.Name
	}
	return out
}

func Lookup(name Name) (Spec, bool) {
	for _, s := range registry {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}
