package model

// Tenant partitions. Records written before workspaces existed carry no
// workspaceId and belong to LegacyWorkspace.
const (
	WorkspaceInSync = "insync"
	WorkspaceMedia  = "insync-media"
	WorkspaceLabs   = "insync-labs"

	LegacyWorkspace = WorkspaceInSync
)

var Workspaces = []string{WorkspaceInSync, WorkspaceMedia, WorkspaceLabs}

func IsWorkspace(id string) bool {
	for _, w := range Workspaces {
		if w == id {
			return true
		}
	}
	return false
}

// InWorkspace reports whether a record stored under stored is visible to, and
// may be mutated by, a caller working in caller. Records without a workspace
// fall back to LegacyWorkspace until they are backfilled.
func InWorkspace(stored, caller string) bool {
	if stored == caller {
		return true
	}
	return stored == "" && caller == LegacyWorkspace
}

// Session is the authenticated caller of a service operation. It is built
// from the access token on every request.
type Session struct {
	UserID      string
	Email       string
	Role        string
	WorkspaceID string
}
