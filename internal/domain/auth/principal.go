package auth

import "slices"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

var validRoles = []Role{RoleAdmin, RoleEmployee}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return slices.Contains(validRoles, r)
}

// Principal is the caller identified by an access token.
type Principal struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ScopeEmployee returns the employee id a request may act on. Admins act on
// requested; everyone else is pinned to their own employee id.
func (p Principal) ScopeEmployee(requested string) (string, error) {
	if p.IsAdmin() {
		return requested, nil
	}
	if p.EmployeeID == nil || *p.EmployeeID == "" {
		return "", ErrEmployeeIDRequired
	}
	return *p.EmployeeID, nil
}

// CanAccess reports whether the caller may read records of employeeID.
func (p Principal) CanAccess(employeeID string) bool {
	return p.IsAdmin() || (p.EmployeeID != nil && *p.EmployeeID == employeeID)
}
