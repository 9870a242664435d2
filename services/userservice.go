package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"insynchub/dto"
	"insynchub/model"
	"insynchub/repository"
)

// Identity is what the authentication provider tells us about a user.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

type UserService struct {
	users repository.UserRepository
	roles model.RoleTable
	now   func() time.Time
}

func NewUserService(users repository.UserRepository, roles model.RoleTable) *UserService {
	return &UserService{users: users, roles: roles, now: time.Now}
}

// SignIn creates or refreshes the profile of id working in workspaceID. The
// role is always re-derived from the role table.
func (s *UserService) SignIn(ctx context.Context, id Identity, workspaceID string) (*model.UserProfile, error) {
	if !model.IsWorkspace(workspaceID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkspace, workspaceID)
	}
	if id.UID == "" || id.Email == "" {
		return nil, invalid("identity without uid or email")
	}

	now := s.now()
	profile, err := s.users.Get(ctx, id.UID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		profile = &model.UserProfile{UID: id.UID, CreatedAt: now}
	case err != nil:
		return nil, fmt.Errorf("get user %s: %w", id.UID, err)
	case profile.WorkspaceID == "":
		// Profiles from before workspaces belong to the legacy one.
		profile.Join(model.LegacyWorkspace)
	}

	profile.Email = id.Email
	profile.Role = s.roles.RoleFor(id.Email)
	profile.Join(workspaceID)
	profile.LastLoginAt = now
	if id.DisplayName != "" {
		profile.DisplayName = id.DisplayName
	}
	if profile.DisplayName == "" {
		profile.DisplayName = strings.SplitN(id.Email, "@", 2)[0]
	}
	if id.PhotoURL != "" {
		profile.PhotoURL = id.PhotoURL
	}

	if err := s.users.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("save user %s: %w", id.UID, err)
	}
	return profile, nil
}

func (s *UserService) Get(ctx context.Context, uid string) (*model.UserProfile, error) {
	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	return u, nil
}

// ListTeam returns the members of the caller's workspace ordered by display
// name.
func (s *UserService) ListTeam(ctx context.Context, sess model.Session) ([]model.UserProfile, error) {
	users, err := s.users.ListMembers(ctx, sess.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("list team: %w", err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].DisplayName) < strings.ToLower(users[j].DisplayName)
	})
	return users, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, sess model.Session, req dto.UpdateProfileRequest) (*model.UserProfile, error) {
	if req.DisplayName == nil && req.Phone == nil && req.PhotoURL == nil {
		return nil, invalid("no data to update")
	}
	u, err := s.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if len(name) < 2 || len(name) > 100 {
			return nil, invalid("display name must be between 2 and 100 characters")
		}
		u.DisplayName = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && len(NormalizePhone(phone, "")) < 8 {
			return nil, invalid("phone number %q is too short", phone)
		}
		u.Phone = phone
	}
	if req.PhotoURL != nil {
		u.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}

	if err := s.users.Upsert(ctx, u); err != nil {
		return nil, fmt.Errorf("save user %s: %w", u.UID, err)
	}
	return u, nil
}
