package dimensions

import (
	"github.com/peekknuf/govdataqa/internal/conformity"
)

// CalculateAdvancedConformity validates role-bearing columns against
// reference data and ranges. The score lies in [0,1]: 1 when no column
// carries a role, 0 when role-bearing columns hold nothing that could be
// validated, exp(-5·E/V) otherwise. Without data it returns 0.5.
func CalculateAdvancedConformity(in Input) Result {
	if in.Table.Empty() {
		return Result{
			Name:    AdvancedConformity,
			Score:   Neutral / 10,
			Max:     1,
			Details: map[string]any{"reason": "no data loaded"},
		}
	}
	rep := conformity.New(in.Refs).Validate(in.Table, in.Meta)
	return Result{
		Name:  AdvancedConformity,
		Score: clamp(rep.Score, 0, 1),
		Max:   1,
		Details: map[string]any{
			"outcome": rep.Outcome.String(),
			"report":  rep,
		},
	}
}
