package policy

import (
	"errors"
	"testing"

	"github.com/coursehq/batchboard/internal/domain"
)

func activeProfile(role domain.Role, department domain.Department) *domain.Profile {
	return &domain.Profile{
		ID:         "profile-1",
		Email:      "lead@example.com",
		FullName:   "Test Lead",
		Role:       role,
		Department: department,
		IsActive:   true,
	}
}

func TestCapabilitiesMatrix(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		role domain.Role
		want Capabilities
	}{
		{role: domain.RoleAdmin, want: Capabilities{ManageBatches: true, ManageWebhooks: true, ManageUsers: true}},
		{role: domain.RoleProjectLead, want: Capabilities{ManageBatches: true, ManageWebhooks: true}},
		{role: domain.RoleTechLead, want: Capabilities{ManageBatches: true, ManageWebhooks: true}},
		{role: domain.RoleFinanceLead, want: Capabilities{ManageBatches: true, ManageWebhooks: true}},
		{role: domain.RoleDesignLead, want: Capabilities{ManageBatches: true, ManageWebhooks: true}},
		{role: domain.Role("intern"), want: Capabilities{}},
		{role: domain.Role(""), want: Capabilities{}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(string(tc.role), func(t *testing.T) {
			t.Parallel()

			if got := For(tc.role); got != tc.want {
				t.Fatalf("For(%q) = %+v, want %+v", tc.role, got, tc.want)
			}
		})
	}
}

func TestDesignLeadManagesOwnDepartment(t *testing.T) {
	t.Parallel()

	p := activeProfile(domain.RoleDesignLead, domain.DepartmentDesign)

	if !CanMutateBatch(p, domain.DepartmentDesign) {
		t.Fatal("design_lead should manage batches in design")
	}
	if err := AuthorizeBatchMutation(p, domain.DepartmentDesign); err != nil {
		t.Fatalf("AuthorizeBatchMutation() error = %v", err)
	}
}

func TestCrossDepartmentDenial(t *testing.T) {
	t.Parallel()

	p := activeProfile(domain.RoleDesignLead, domain.DepartmentDesign)

	if CanMutateBatch(p, domain.DepartmentFinance) {
		t.Fatal("design_lead should not manage batches in finance")
	}
	if CanMutateWebhook(p, domain.DepartmentTech) {
		t.Fatal("design_lead should not manage webhooks in tech")
	}

	err := AuthorizeBatchMutation(p, domain.DepartmentFinance)
	if err == nil {
		t.Fatal("AuthorizeBatchMutation() expected error, got nil")
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("AuthorizeBatchMutation() error = %v, want ErrUnauthorized", err)
	}
}

func TestAdminUnrestricted(t *testing.T) {
	t.Parallel()

	p := activeProfile(domain.RoleAdmin, domain.DepartmentMarketing)

	for _, dept := range domain.Departments() {
		if !CanMutateBatch(p, dept) {
			t.Fatalf("admin should manage batches in %s", dept)
		}
		if !CanMutateWebhook(p, dept) {
			t.Fatalf("admin should manage webhooks in %s", dept)
		}
	}
	if !CanManageUsers(p) {
		t.Fatal("admin should manage users")
	}
}

func TestFailsClosed(t *testing.T) {
	t.Parallel()

	t.Run("nil profile", func(t *testing.T) {
		t.Parallel()
		if CanMutateBatch(nil, domain.DepartmentTech) {
			t.Fatal("nil profile should grant nothing")
		}
		if CanManageUsers(nil) {
			t.Fatal("nil profile should grant nothing")
		}
	})

	t.Run("inactive profile", func(t *testing.T) {
		t.Parallel()
		p := activeProfile(domain.RoleAdmin, domain.DepartmentTech)
		p.IsActive = false
		if CanMutateBatch(p, domain.DepartmentTech) {
			t.Fatal("inactive profile should grant nothing")
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		p := activeProfile(domain.Role("viewer"), domain.DepartmentTech)
		if CanMutateBatch(p, domain.DepartmentTech) {
			t.Fatal("unknown role should grant nothing")
		}
		if CanManageUsers(p) {
			t.Fatal("unknown role should grant nothing")
		}
	})

	t.Run("lead may not manage users", func(t *testing.T) {
		t.Parallel()
		p := activeProfile(domain.RoleProjectLead, domain.DepartmentTech)
		if CanManageUsers(p) {
			t.Fatal("project_lead should not manage users")
		}
		if err := AuthorizeUserManagement(p); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("AuthorizeUserManagement() error = %v, want ErrUnauthorized", err)
		}
	})
}
