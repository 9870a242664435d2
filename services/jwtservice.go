package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"insynchub/model"
	"insynchub/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer     = "insynchub"
	accessTokenTTL  = 60 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// TokenService issues and verifies the API's own access and refresh tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	sessions      session.Store
	now           func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, sessions session.Store) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		sessions:      sessions,
		now:           time.Now,
	}
}

func (s *TokenService) CreateAccessToken(p model.UserProfile) (string, error) {
	now := s.now()
	claims := &model.AccessClaims{
		UserID:      p.UID,
		Email:       p.Email,
		Role:        p.Role,
		WorkspaceID: p.WorkspaceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   p.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.accessSecret)
}

func (s *TokenService) CreateRefreshToken(userID, tokenID string, expiresAt time.Time) (string, error) {
	claims := &model.AccessRefresh{
		UserID:  userID,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.refreshSecret)
}

// HashRefreshToken hashes the SHA-256 digest of token with bcrypt. The
// digest keeps the input under bcrypt's 72 byte limit.
func HashRefreshToken(token string) (string, error) {
	hash := sha256.Sum256([]byte(token))
	hashedToken, err := bcrypt.GenerateFromPassword(hash[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedToken), nil
}

func compareRefreshToken(hashed, token string) error {
	hash := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hashed), hash[:])
}

// Issue creates an access/refresh pair for p and records the refresh
// session.
func (s *TokenService) Issue(ctx context.Context, p model.UserProfile) (model.TokenResponse, error) {
	access, err := s.CreateAccessToken(p)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("create access token: %w", err)
	}

	tokenID := uuid.New().String()
	expiresAt := s.now().Add(refreshTokenTTL)
	refresh, err := s.CreateRefreshToken(p.UID, tokenID, expiresAt)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("create refresh token: %w", err)
	}
	hashed, err := HashRefreshToken(refresh)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("hash refresh token: %w", err)
	}

	rec := session.Record{
		UserID:      p.UID,
		WorkspaceID: p.WorkspaceID,
		Hash:        hashed,
		CreatedAt:   s.now(),
	}
	if err := s.sessions.Save(ctx, tokenID, rec, expiresAt); err != nil {
		return model.TokenResponse{}, fmt.Errorf("store refresh session: %w", err)
	}

	return model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *TokenService) ParseAccessToken(tokenString string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc(s.accessSecret),
		jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

func (s *TokenService) ParseRefreshToken(tokenString string) (*model.AccessRefresh, error) {
	claims := &model.AccessRefresh{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc(s.refreshSecret),
		jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.TokenID == "" {
		return nil, fmt.Errorf("%w: refresh token without id", ErrUnauthorized)
	}
	return claims, nil
}

func (s *TokenService) keyFunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
}

// Rotate verifies refreshToken against its stored session and revokes it.
// The returned record carries the user and workspace to issue a new pair
// for.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (session.Record, error) {
	claims, err := s.ParseRefreshToken(refreshToken)
	if err != nil {
		return session.Record{}, err
	}
	rec, err := s.sessions.Lookup(ctx, claims.TokenID)
	if errors.Is(err, session.ErrNotFound) {
		return session.Record{}, fmt.Errorf("%w: refresh session revoked or expired", ErrUnauthorized)
	}
	if err != nil {
		return session.Record{}, err
	}
	if rec.UserID != claims.UserID || compareRefreshToken(rec.Hash, refreshToken) != nil {
		return session.Record{}, fmt.Errorf("%w: refresh token does not match session", ErrUnauthorized)
	}
	if err := s.sessions.Revoke(ctx, claims.TokenID); err != nil {
		return session.Record{}, err
	}
	return rec, nil
}

func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.ParseRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return s.sessions.Revoke(ctx, claims.TokenID)
}
