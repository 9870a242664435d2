package services

import (
	"context"
	"fmt"

	"insynchub/model"

	"firebase.google.com/go/auth"
)

// IDTokenVerifier is satisfied by the Firebase Auth client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthService struct {
	verifier IDTokenVerifier
	users    *UserService
	tokens   *TokenService
}

func NewAuthService(verifier IDTokenVerifier, users *UserService, tokens *TokenService) *AuthService {
	return &AuthService{verifier: verifier, users: users, tokens: tokens}
}

// CreateSession signs in the holder of a Firebase ID token to workspaceID.
func (s *AuthService) CreateSession(ctx context.Context, idToken, workspaceID string) (model.TokenResponse, *model.UserProfile, error) {
	tok, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return model.TokenResponse{}, nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	id := Identity{
		UID:         tok.UID,
		Email:       claimString(tok.Claims, "email"),
		DisplayName: claimString(tok.Claims, "name"),
		PhotoURL:    claimString(tok.Claims, "picture"),
	}
	if id.Email == "" {
		return model.TokenResponse{}, nil, fmt.Errorf("%w: token carries no email", ErrUnauthorized)
	}

	profile, err := s.users.SignIn(ctx, id, workspaceID)
	if err != nil {
		return model.TokenResponse{}, nil, err
	}
	pair, err := s.tokens.Issue(ctx, *profile)
	if err != nil {
		return model.TokenResponse{}, nil, err
	}
	return pair, profile, nil
}

// Refresh rotates a refresh token. The role is re-read from the profile so
// role table changes apply without signing in again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenResponse, *model.UserProfile, error) {
	rec, err := s.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		return model.TokenResponse{}, nil, err
	}
	profile, err := s.users.Get(ctx, rec.UserID)
	if err != nil {
		return model.TokenResponse{}, nil, err
	}
	profile.Role = s.users.roles.RoleFor(profile.Email)
	profile.WorkspaceID = rec.WorkspaceID

	pair, err := s.tokens.Issue(ctx, *profile)
	if err != nil {
		return model.TokenResponse{}, nil, err
	}
	return pair, profile, nil
}

func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// SwitchWorkspace moves the caller to another tenant and issues tokens
// scoped to it.
func (s *AuthService) SwitchWorkspace(ctx context.Context, sess model.Session, workspaceID string) (model.TokenResponse, *model.UserProfile, error) {
	profile, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		return model.TokenResponse{}, nil, err
	}
	profile, err = s.users.SignIn(ctx, Identity{
		UID:         profile.UID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PhotoURL,
	}, workspaceID)
	if err != nil {
		return model.TokenResponse{}, nil, err
	}
	pair, err := s.tokens.Issue(ctx, *profile)
	if err != nil {
		return model.TokenResponse{}, nil, err
	}
	return pair, profile, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
