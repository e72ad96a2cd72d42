package conformity

import (
	"github.com/peekknuf/govdataqa/internal/textnorm"
)

// Role tags a column with the kind of value it should hold.
type Role int

const (
	RoleNone Role = iota
	RoleDepartment
	RoleMunicipality
	RoleYear
	RoleLatitude
	RoleLongitude
	RoleEmail
)

func (r Role) String() string {
	switch r {
	case RoleDepartment:
		return "departamento"
	case RoleMunicipality:
		return "municipio"
	case RoleYear:
		return "año"
	case RoleLatitude:
		return "latitud"
	case RoleLongitude:
		return "longitud"
	case RoleEmail:
		return "correo"
	}
	return "none"
}

type roleRule struct {
	role     Role
	keywords []string
}

// Evaluated in order; the first rule with a keyword contained in the
// folded column name wins.
var roleRules = []roleRule{
	{RoleDepartment, []string{"departamento", "depto", "department"}},
	{RoleMunicipality, []string{"municipio", "ciudad", "city", "municipality"}},
	{RoleYear, []string{"año", "year", "anio", "ano"}},
	{RoleLatitude, []string{"latitud", "latitude", "lat"}},
	{RoleLongitude, []string{"longitud", "longitude", "lon", "long"}},
	{RoleEmail, []string{"correo", "email", "mail"}},
}

// DetectRole infers a role from a column name by keyword substring match.
func DetectRole(name string) Role {
	folded := textnorm.Fold(name)
	if folded == "" {
		return RoleNone
	}
	for _, rule := range roleRules {
		if _, ok := textnorm.ContainsAny(folded, rule.keywords); ok {
			return rule.role
		}
	}
	return RoleNone
}
