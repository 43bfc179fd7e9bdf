package domain

import (
	"fmt"
	"strings"
)

// Department partitions batches, webhook configs, and profiles. Leads are
// scoped to exactly one department; admins cross all of them.
type Department string

const (
	DepartmentMarketing Department = "marketing"
	DepartmentTech      Department = "tech"
	DepartmentFinance   Department = "finance"
	DepartmentDesign    Department = "design"
)

func (d Department) String() string { return string(d) }

func (d Department) IsValid() bool {
	switch d {
	case DepartmentMarketing, DepartmentTech, DepartmentFinance, DepartmentDesign:
		return true
	}
	return false
}

func ParseDepartmentFromString(s string) (Department, error) {
	d := Department(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: invalid department %q", ErrValidation, s)
	}
	return d, nil
}

// Departments returns all known departments in a stable order.
func Departments() []Department {
	return []Department{DepartmentMarketing, DepartmentTech, DepartmentFinance, DepartmentDesign}
}
