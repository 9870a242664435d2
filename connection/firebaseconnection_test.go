package connection

import (
	"context"
	"errors"
	"testing"

	"insynchub/model"
	"insynchub/repository"
	"insynchub/services"
	"insynchub/session"

	"go.uber.org/zap"
)

func TestMemoryRunWithoutIdentityProvider(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.UsesFirebase() {
		t.Fatal("default config should not need firebase")
	}

	cause := errors.New("could not find default credentials")
	svc, err := NewServices(cfg, repository.NewMemoryStore(), nil, session.NewMemoryStore(),
		noIdentityProvider{cause: cause}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}

	_, _, err = svc.Auth.CreateSession(context.Background(), "id-token", model.WorkspaceInSync)
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
