package services

import (
	"time"

	"insynchub/model"
)

var jakarta = mustLoad("Asia/Jakarta")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sessionFor(uid, role, workspace string) model.Session {
	return model.Session{UserID: uid, Email: uid + "@insync.id", Role: role, WorkspaceID: workspace}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
