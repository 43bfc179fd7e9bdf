package domain

import (
	"fmt"
	"strings"
)

// Role grants capabilities. Admins act across departments; lead roles are
// bound to the department on their profile.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleProjectLead Role = "project_lead"
	RoleTechLead    Role = "tech_lead"
	RoleFinanceLead Role = "finance_lead"
	RoleDesignLead  Role = "design_lead"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProjectLead, RoleTechLead, RoleFinanceLead, RoleDesignLead:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// IsLead reports whether the role is one of the department-scoped lead roles.
func (r Role) IsLead() bool {
	switch r {
	case RoleProjectLead, RoleTechLead, RoleFinanceLead, RoleDesignLead:
		return true
	}
	return false
}

// LeadDepartment returns the department a specialised lead role belongs to.
// project_lead and admin have no fixed department; their profile decides.
func (r Role) LeadDepartment() (Department, bool) {
	switch r {
	case RoleTechLead:
		return DepartmentTech, true
	case RoleFinanceLead:
		return DepartmentFinance, true
	case RoleDesignLead:
		return DepartmentDesign, true
	}
	return "", false
}

func ParseRoleFromString(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: invalid role %q", ErrValidation, s)
	}
	return r, nil
}
