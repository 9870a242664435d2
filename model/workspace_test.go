package model

import "testing"

func TestInWorkspace(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		caller string
		want   bool
	}{
		{"same workspace", WorkspaceMedia, WorkspaceMedia, true},
		{"other workspace", WorkspaceMedia, WorkspaceLabs, false},
		{"legacy record seen from legacy workspace", "", LegacyWorkspace, true},
		{"legacy record hidden from other workspace", "", WorkspaceMedia, false},
		{"tagged legacy workspace record", WorkspaceInSync, WorkspaceInSync, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InWorkspace(tt.stored, tt.caller); got != tt.want {
				t.Errorf("InWorkspace(%q, %q) = %v, want %v", tt.stored, tt.caller, got, tt.want)
			}
		})
	}
}

func TestIsWorkspace(t *testing.T) {
	for _, w := range Workspaces {
		if !IsWorkspace(w) {
			t.Errorf("IsWorkspace(%q) = false", w)
		}
	}
	for _, w := range []string{"", "insync-other", "INSYNC"} {
		if IsWorkspace(w) {
			t.Errorf("IsWorkspace(%q) = true", w)
		}
	}
}

func TestMembership(t *testing.T) {
	var u UserProfile
	u.Join(WorkspaceInSync)
	u.Join(WorkspaceMedia)
	u.Join(WorkspaceInSync)

	if u.WorkspaceID != WorkspaceInSync {
		t.Errorf("active workspace = %q", u.WorkspaceID)
	}
	if len(u.Workspaces) != 2 {
		t.Errorf("Workspaces = %v", u.Workspaces)
	}
	if !u.MemberOf(WorkspaceMedia) || !u.MemberOf(WorkspaceInSync) || u.MemberOf(WorkspaceLabs) {
		t.Errorf("unexpected membership for %+v", u)
	}

	legacy := UserProfile{}
	if !legacy.MemberOf(LegacyWorkspace) || legacy.MemberOf(WorkspaceMedia) {
		t.Error("profile without workspace should only belong to the legacy workspace")
	}
}
