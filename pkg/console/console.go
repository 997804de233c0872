// Package console re-exports the component types applications embed.
package console

import (
	core "github.com/velocitysales/admin-console/components/console"
)

// Service exposes the underlying components/console.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Controller re-export for convenience.
type Controller = core.Controller

// ControllerOptions re-export for convenience.
type ControllerOptions = core.ControllerOptions

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewController proxies to the internal constructor.
func NewController(opts ControllerOptions) (*Controller, error) {
	return core.NewController(opts)
}
