package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"insynchub/dto"
	"insynchub/model"
	"insynchub/repository"
	"insynchub/session"

	"firebase.google.com/go/auth"
)

type fakeVerifier map[string]*auth.Token

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	tok, ok := f[idToken]
	if !ok {
		return nil, errors.New("ID token has invalid signature")
	}
	return tok, nil
}

type authFixture struct {
	auth     *AuthService
	tokens   *TokenService
	users    *UserService
	store    *repository.Store
	sessions *session.MemoryStore
}

func newAuthFixture() authFixture {
	store := repository.NewMemoryStore()
	sessions := session.NewMemoryStore()
	users := NewUserService(store.Users, model.NewRoleTable(map[string]string{"boss@insync.id": "admin"}))
	tokens := NewTokenService("access-secret", "refresh-secret", sessions)
	verifier := fakeVerifier{
		"boss-token": {UID: "boss", Claims: map[string]interface{}{"email": "boss@insync.id", "name": "The Boss"}},
		"sam-token":  {UID: "sam", Claims: map[string]interface{}{"email": "sam@insync.id"}},
		"anon-token": {UID: "anon", Claims: map[string]interface{}{}},
	}
	return authFixture{
		auth:     NewAuthService(verifier, users, tokens),
		tokens:   tokens,
		users:    users,
		store:    store,
		sessions: sessions,
	}
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	pair, profile, err := f.auth.CreateSession(ctx, "boss-token", model.WorkspaceMedia)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if profile.Role != model.RoleAdmin || profile.WorkspaceID != model.WorkspaceMedia || profile.DisplayName != "The Boss" {
		t.Errorf("unexpected profile %+v", profile)
	}

	claims, err := f.tokens.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	sess := claims.Session()
	if sess.UserID != "boss" || sess.Role != model.RoleAdmin || sess.WorkspaceID != model.WorkspaceMedia || sess.Email != "boss@insync.id" {
		t.Errorf("unexpected session %+v", sess)
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d", pair.ExpiresIn)
	}

	_, staff, err := f.auth.CreateSession(ctx, "sam-token", model.WorkspaceInSync)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if staff.Role != model.RoleStaff || staff.DisplayName != "sam" {
		t.Errorf("unexpected profile %+v", staff)
	}
}

func TestCreateSessionRejections(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	if _, _, err := f.auth.CreateSession(ctx, "forged", model.WorkspaceInSync); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("forged token: expected ErrUnauthorized, got %v", err)
	}
	if _, _, err := f.auth.CreateSession(ctx, "anon-token", model.WorkspaceInSync); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("no email: expected ErrUnauthorized, got %v", err)
	}
	if _, _, err := f.auth.CreateSession(ctx, "sam-token", "insync-secret"); !errors.Is(err, ErrUnknownWorkspace) {
		t.Errorf("unknown workspace: expected ErrUnknownWorkspace, got %v", err)
	}
	if _, err := f.store.Users.Get(ctx, "sam"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("rejected sign in created a profile: %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	first, _, err := f.auth.CreateSession(ctx, "sam-token", model.WorkspaceLabs)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	second, profile, err := f.auth.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if profile.WorkspaceID != model.WorkspaceLabs {
		t.Errorf("refresh lost the workspace: %+v", profile)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	if _, _, err := f.auth.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("reused refresh token: expected ErrUnauthorized, got %v", err)
	}

	if err := f.auth.SignOut(ctx, second.RefreshToken); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if _, _, err := f.auth.Refresh(ctx, second.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("signed out refresh token: expected ErrUnauthorized, got %v", err)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	pair, _, _ := f.auth.CreateSession(ctx, "sam-token", model.WorkspaceInSync)

	if _, err := f.tokens.ParseAccessToken(pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, _, err := f.auth.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	f := newAuthFixture()
	issued := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	f.tokens.now = fixedClock(issued)

	token, err := f.tokens.CreateAccessToken(model.UserProfile{UID: "u", Role: model.RoleStaff, WorkspaceID: model.WorkspaceInSync})
	if err != nil {
		t.Fatalf("CreateAccessToken failed: %v", err)
	}
	f.tokens.now = fixedClock(issued.Add(59 * time.Minute))
	if _, err := f.tokens.ParseAccessToken(token); err != nil {
		t.Errorf("token rejected before expiry: %v", err)
	}
	f.tokens.now = fixedClock(issued.Add(61 * time.Minute))
	if _, err := f.tokens.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestSwitchWorkspace(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	pair, _, _ := f.auth.CreateSession(ctx, "boss-token", model.WorkspaceInSync)
	claims, _ := f.tokens.ParseAccessToken(pair.AccessToken)

	next, profile, err := f.auth.SwitchWorkspace(ctx, claims.Session(), model.WorkspaceMedia)
	if err != nil {
		t.Fatalf("SwitchWorkspace failed: %v", err)
	}
	if profile.WorkspaceID != model.WorkspaceMedia {
		t.Errorf("profile workspace = %q", profile.WorkspaceID)
	}
	nextClaims, _ := f.tokens.ParseAccessToken(next.AccessToken)
	if nextClaims.WorkspaceID != model.WorkspaceMedia || nextClaims.Role != model.RoleAdmin {
		t.Errorf("unexpected claims %+v", nextClaims)
	}

	if _, _, err := f.auth.SwitchWorkspace(ctx, claims.Session(), "elsewhere"); !errors.Is(err, ErrUnknownWorkspace) {
		t.Errorf("expected ErrUnknownWorkspace, got %v", err)
	}
}

func TestHashRefreshToken(t *testing.T) {
	long := string(make([]byte, 200))
	hash, err := HashRefreshToken(long)
	if err != nil {
		t.Fatalf("HashRefreshToken failed: %v", err)
	}
	if err := compareRefreshToken(hash, long); err != nil {
		t.Errorf("hash does not match its token: %v", err)
	}
	if err := compareRefreshToken(hash, long+"x"); err == nil {
		t.Error("hash matches a different token")
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, profile, _ := f.auth.CreateSession(ctx, "sam-token", model.WorkspaceInSync)
	sess := sessionFor(profile.UID, profile.Role, profile.WorkspaceID)

	if _, err := f.users.UpdateProfile(ctx, sess, dto.UpdateProfileRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty update: expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.users.UpdateProfile(ctx, sess, dto.UpdateProfileRequest{Phone: strPtr("123")}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short phone: expected ErrInvalidInput, got %v", err)
	}

	u, err := f.users.UpdateProfile(ctx, sess, dto.UpdateProfileRequest{Phone: strPtr(" 0812-3456-7890 "), DisplayName: strPtr("Sam S")})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if u.Phone != "0812-3456-7890" || u.DisplayName != "Sam S" {
		t.Errorf("unexpected profile %+v", u)
	}

	// Signing in again keeps the phone and the chosen display name.
	_, again, _ := f.auth.CreateSession(ctx, "sam-token", model.WorkspaceInSync)
	if again.Phone != "0812-3456-7890" || again.DisplayName != "Sam S" {
		t.Errorf("sign in overwrote profile: %+v", again)
	}
}

func TestListTeamSorted(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	for _, u := range []model.UserProfile{
		{UID: "1", DisplayName: "zoe", WorkspaceID: model.WorkspaceMedia},
		{UID: "2", DisplayName: "Adam", WorkspaceID: model.WorkspaceMedia},
		{UID: "3", DisplayName: "mark", WorkspaceID: model.WorkspaceMedia},
		{UID: "4", DisplayName: "Bea", WorkspaceID: model.WorkspaceLabs},
	} {
		u := u
		_ = f.store.Users.Upsert(ctx, &u)
	}
	team, err := f.users.ListTeam(ctx, sessionFor("x", model.RoleStaff, model.WorkspaceMedia))
	if err != nil {
		t.Fatalf("ListTeam failed: %v", err)
	}
	if len(team) != 3 || team[0].DisplayName != "Adam" || team[1].DisplayName != "mark" || team[2].DisplayName != "zoe" {
		t.Errorf("unexpected team %+v", team)
	}
}
