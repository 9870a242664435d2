package model

import "testing"

func TestRoleTable(t *testing.T) {
	table := NewRoleTable(map[string]string{
		" Admin@InSync.id ": "admin",
		"cash@insync.id":    "Finance",
		"bogus@insync.id":   "owner",
	})

	tests := []struct {
		email string
		want  string
	}{
		{"admin@insync.id", RoleAdmin},
		{"ADMIN@INSYNC.ID", RoleAdmin},
		{"cash@insync.id", RoleFinance},
		{"bogus@insync.id", RoleStaff},
		{"nobody@insync.id", RoleStaff},
	}
	for _, tt := range tests {
		if got := table.RoleFor(tt.email); got != tt.want {
			t.Errorf("RoleFor(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestReminderTargets(t *testing.T) {
	all := Reminder{TargetRole: RoleAll}
	for _, r := range Roles {
		if !all.Targets(r) {
			t.Errorf("reminder for all roles does not target %q", r)
		}
	}

	managers := Reminder{TargetRole: RoleManager}
	if !managers.Targets(RoleManager) {
		t.Error("manager reminder does not target managers")
	}
	if managers.Targets(RoleStaff) {
		t.Error("manager reminder targets staff")
	}
}
