// Package policy is the single source of truth for role and department
// authorization. Every mutating entry point consults it; capability checks are
// never duplicated inline elsewhere.
package policy

import (
	"fmt"

	"github.com/coursehq/batchboard/internal/domain"
)

// Capabilities is the set of actions a (role, department) pair may perform.
// Department scoping for leads is enforced separately by the CanMutate
// helpers; these booleans answer "may this role perform the action at all".
type Capabilities struct {
	ManageBatches  bool
	ManageWebhooks bool
	ManageUsers    bool
}

// For returns the capability set for a role. Unrecognized roles grant nothing.
func For(role domain.Role) Capabilities {
	switch {
	case role.IsAdmin():
		return Capabilities{ManageBatches: true, ManageWebhooks: true, ManageUsers: true}
	case role.IsLead():
		return Capabilities{ManageBatches: true, ManageWebhooks: true}
	default:
		return Capabilities{}
	}
}

func CanManageBatches(role domain.Role) bool  { return For(role).ManageBatches }
func CanManageWebhooks(role domain.Role) bool { return For(role).ManageWebhooks }
func IsAdmin(role domain.Role) bool           { return role.IsAdmin() }

// CanMutateBatch reports whether the profile may mutate a batch in the given
// department. Admins are unrestricted; leads only act within their own
// department.
func CanMutateBatch(profile *domain.Profile, department domain.Department) bool {
	return canMutateScoped(profile, department, func(c Capabilities) bool { return c.ManageBatches })
}

// CanMutateWebhook reports whether the profile may mutate a webhook config in
// the given department.
func CanMutateWebhook(profile *domain.Profile, department domain.Department) bool {
	return canMutateScoped(profile, department, func(c Capabilities) bool { return c.ManageWebhooks })
}

// CanManageUsers reports whether the profile may administer user profiles.
func CanManageUsers(profile *domain.Profile) bool {
	if profile == nil || !profile.IsActive {
		return false
	}
	return For(profile.Role).ManageUsers
}

func canMutateScoped(profile *domain.Profile, department domain.Department, allowed func(Capabilities) bool) bool {
	if profile == nil || !profile.IsActive {
		return false
	}
	if !allowed(For(profile.Role)) {
		return false
	}
	if profile.Role.IsAdmin() {
		return true
	}
	return profile.Department == department
}

// AuthorizeBatchMutation returns ErrUnauthorized when the profile may not
// mutate batches in the given department.
func AuthorizeBatchMutation(profile *domain.Profile, department domain.Department) error {
	if !CanMutateBatch(profile, department) {
		return fmt.Errorf("%w: role %q may not manage batches in department %q",
			domain.ErrUnauthorized, profileRole(profile), department)
	}
	return nil
}

// AuthorizeWebhookMutation returns ErrUnauthorized when the profile may not
// mutate webhook configs in the given department.
func AuthorizeWebhookMutation(profile *domain.Profile, department domain.Department) error {
	if !CanMutateWebhook(profile, department) {
		return fmt.Errorf("%w: role %q may not manage webhooks in department %q",
			domain.ErrUnauthorized, profileRole(profile), department)
	}
	return nil
}

// AuthorizeUserManagement returns ErrUnauthorized when the profile may not
// administer users.
func AuthorizeUserManagement(profile *domain.Profile) error {
	if !CanManageUsers(profile) {
		return fmt.Errorf("%w: role %q may not manage users", domain.ErrUnauthorized, profileRole(profile))
	}
	return nil
}

func profileRole(profile *domain.Profile) domain.Role {
	if profile == nil {
		return ""
	}
	return profile.Role
}
