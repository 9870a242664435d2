package model

import "github.com/golang-jwt/jwt/v5"

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // access token lifetime in seconds
}

type AccessClaims struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	WorkspaceID string `json:"workspaceId"`
	jwt.RegisteredClaims
}

// Session converts verified claims into the caller passed to services.
func (c AccessClaims) Session() Session {
	return Session{
		UserID:      c.UserID,
		Email:       c.Email,
		Role:        c.Role,
		WorkspaceID: c.WorkspaceID,
	}
}

type AccessRefresh struct {
	UserID  string `json:"userId"`
	TokenID string `json:"tokenId"` // For refresh token tracking
	jwt.RegisteredClaims
}
