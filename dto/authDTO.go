package dto

// SessionRequest exchanges a Firebase ID token for API tokens scoped to one
// workspace.
type SessionRequest struct {
	IDToken     string `json:"idToken" binding:"required"`
	WorkspaceID string `json:"workspaceId" binding:"required"`
}

type SwitchWorkspaceRequest struct {
	WorkspaceID string `json:"workspaceId" binding:"required"`
}

type CaptchaRequest struct {
	Token  string `json:"token" binding:"required"`
	Action string `json:"action"`
}

type AssessmentResult struct {
	Score   float32
	Action  string
	Reasons []string
}
