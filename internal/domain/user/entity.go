package user

// Role is carried in the "role" claim of the access token.
type Role string

const (
	RoleAdmin          Role = "admin"           // HR administrator - full access
	RolePlantManager   Role = "plant_manager"   // Rosters, attendance and leave for the plants they run
	RolePayrollOfficer Role = "payroll_officer" // Salaries, deductions and exports
	RoleViewer         Role = "viewer"          // Read-only
)

var Roles = []Role{RoleAdmin, RolePlantManager, RolePayrollOfficer, RoleViewer}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}
