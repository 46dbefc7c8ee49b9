// Package commands implements the tablectl subcommands.
package commands

import (
	"context"
	"errors"

	"github.com/JonMunkholm/datatable/internal/core"
)

// serviceKey is used to store the loaded service in context.
type serviceKey struct{}

// WithService stores svc in ctx for subcommands.
func WithService(ctx context.Context, svc *core.Service) context.Context {
	return context.WithValue(ctx, serviceKey{}, svc)
}

// ServiceFrom retrieves the loaded service from ctx.
func ServiceFrom(ctx context.Context) (*core.Service, error) {
	if svc, ok := ctx.Value(serviceKey{}).(*core.Service); ok {
		return svc, nil
	}
	return nil, errors.New("table not loaded")
}
