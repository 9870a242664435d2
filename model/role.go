package model

import "strings"

const (
	RoleAdmin   = "admin"
	RoleFinance = "finance"
	RoleManager = "manager"
	RoleStaff   = "staff"

	// RoleAll targets every role in a reminder.
	RoleAll = "all"
)

var Roles = []string{RoleAdmin, RoleFinance, RoleManager, RoleStaff}

func IsRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleTable is the static email -> role lookup. Keys are lower-cased.
type RoleTable map[string]string

func NewRoleTable(entries map[string]string) RoleTable {
	t := make(RoleTable, len(entries))
	for email, role := range entries {
		role = strings.ToLower(strings.TrimSpace(role))
		if !IsRole(role) {
			continue
		}
		t[strings.ToLower(strings.TrimSpace(email))] = role
	}
	return t
}

// RoleFor returns the role assigned to email, RoleStaff when unlisted.
func (t RoleTable) RoleFor(email string) string {
	if role, ok := t[strings.ToLower(strings.TrimSpace(email))]; ok {
		return role
	}
	return RoleStaff
}

// HasRole reports whether role is one of allowed.
func HasRole(role string, allowed ...string) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
