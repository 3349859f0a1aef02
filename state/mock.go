package state

import (
	"context"
	"io"
	"log/slog"
)

// MockEnv returns a quiet Env for tests.
func MockEnv() *Env {
	ctx, cancel := context.WithCancelCause(context.Background())
	return &Env{
		Context: ctx,
		Cancel:  cancel,
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Cfg:     DefaultSimCfg(),
	}
}
