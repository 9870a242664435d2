package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. "local" gets the human readable
// development encoder, every other environment JSON.
func New(env string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if env == "local" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l
}
