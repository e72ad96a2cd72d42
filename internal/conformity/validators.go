package conformity

import (
	"math"
	"regexp"
	"strings"

	"fortio.org/safecast"

	"github.com/peekknuf/govdataqa/internal/reference"
	"github.com/peekknuf/govdataqa/internal/table"
)

const (
	MinYear = 1900
	MaxYear = 2025

	MinLatitude  = 0.0
	MaxLatitude  = 13.0
	MinLongitude = -81.0
	MaxLongitude = -66.0
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// check reports whether a non-null value satisfies a role.
type check func(v table.Value) bool

// ValidYear accepts whole numbers in [MinYear, MaxYear]. Numeric strings
// are parsed.
func ValidYear(v table.Value) bool {
	f, ok := v.Float()
	if !ok {
		return false
	}
	year, err := safecast.Convert[int](f)
	if err != nil {
		return false
	}
	return year >= MinYear && year <= MaxYear
}

func ValidLatitude(v table.Value) bool {
	return inRange(v, MinLatitude, MaxLatitude)
}

func ValidLongitude(v table.Value) bool {
	return inRange(v, MinLongitude, MaxLongitude)
}

func ValidEmail(v table.Value) bool {
	if v.Kind() != table.KindString {
		return false
	}
	return emailPattern.MatchString(strings.TrimSpace(v.Text()))
}

func inRange(v table.Value, lo, hi float64) bool {
	f, ok := v.Float()
	if !ok || math.IsNaN(f) {
		return false
	}
	return f >= lo && f <= hi
}

func memberOf(set *reference.Set) check {
	return func(v table.Value) bool {
		if v.Kind() != table.KindString {
			return false
		}
		return set.Contains(v.Text())
	}
}

// checkFor resolves the validator for a role. A non-nil error means the
// reference data the role needs is unavailable.
func checkFor(role Role, refs reference.Provider) (check, error) {
	switch role {
	case RoleDepartment:
		set, err := refs.Departments()
		if err != nil {
			return nil, err
		}
		return memberOf(set), nil
	case RoleMunicipality:
		set, err := refs.Municipalities()
		if err != nil {
			return nil, err
		}
		return memberOf(set), nil
	case RoleYear:
		return ValidYear, nil
	case RoleLatitude:
		return ValidLatitude, nil
	case RoleLongitude:
		return ValidLongitude, nil
	case RoleEmail:
		return ValidEmail, nil
	}
	return nil, nil
}
