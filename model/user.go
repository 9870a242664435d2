package model

import "time"

type UserProfile struct {
	UID         string    `firestore:"uid" bson:"_id" json:"uid"`
	Email       string    `firestore:"email" bson:"email" json:"email"`
	DisplayName string    `firestore:"displayName,omitempty" bson:"displayName,omitempty" json:"displayName"`
	Role        string    `firestore:"role" bson:"role" json:"role"`
	WorkspaceID string    `firestore:"workspaceId,omitempty" bson:"workspaceId,omitempty" json:"workspaceId"`
	Workspaces  []string  `firestore:"workspaces,omitempty" bson:"workspaces,omitempty" json:"workspaces"`
	PhotoURL    string    `firestore:"photoURL,omitempty" bson:"photoURL,omitempty" json:"photoURL"`
	Phone       string    `firestore:"phone,omitempty" bson:"phone,omitempty" json:"phone"`
	CreatedAt   time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	LastLoginAt time.Time `firestore:"lastLoginAt,omitempty" bson:"lastLoginAt,omitempty" json:"lastLoginAt"`
}

// MemberOf reports whether u has ever signed in to workspace. WorkspaceID is
// only the tenant the user is working in right now.
func (u UserProfile) MemberOf(workspace string) bool {
	if InWorkspace(u.WorkspaceID, workspace) {
		return true
	}
	for _, w := range u.Workspaces {
		if w == workspace {
			return true
		}
	}
	return false
}

// Join records membership of workspace and makes it the active one.
func (u *UserProfile) Join(workspace string) {
	u.Workspaces = appendUnique(u.Workspaces, workspace)
	u.WorkspaceID = workspace
}

func appendUnique(ws []string, w string) []string {
	for _, have := range ws {
		if have == w {
			return ws
		}
	}
	return append(ws, w)
}
