package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"insynchub/services"

	"github.com/gin-gonic/gin"
)

func TestErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("get project p1: %w", services.ErrNotFound), http.StatusNotFound},
		{services.ErrWorkspaceMismatch, http.StatusForbidden},
		{services.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: expired", services.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("%w: amount must be positive", services.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: \"nope\"", services.ErrUnknownWorkspace), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, tt.err)
		if w.Code != tt.want {
			t.Errorf("Error(%v) = %d, want %d", tt.err, w.Code, tt.want)
		}
		if tt.want == http.StatusInternalServerError && len(c.Errors) != 1 {
			t.Errorf("internal error not attached to context")
		}
	}
}

func TestSessionMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if _, ok := Session(c); ok {
		t.Fatal("expected no session")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
