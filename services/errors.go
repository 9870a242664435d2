package services

import (
	"errors"
	"fmt"
	"time"

	"insynchub/repository"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrWorkspaceMismatch = errors.New("record belongs to another workspace")
	ErrForbidden         = errors.New("insufficient role")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownWorkspace  = errors.New("unknown workspace")
	ErrUnauthorized      = errors.New("invalid credentials")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// parseDate accepts RFC 3339 timestamps and YYYY-MM-DD days, the latter at
// midnight in loc. An empty string means no date.
func parseDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, invalid("date %q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	return &t, nil
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
