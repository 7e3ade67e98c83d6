// Package di provides dependency injection configuration for the weddingwise binaries.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/weddingwise/weddingwise-client/internal/booking"
	"github.com/weddingwise/weddingwise-client/internal/budget"
	"github.com/weddingwise/weddingwise-client/internal/config"
	"github.com/weddingwise/weddingwise-client/internal/di/providers"
	"github.com/weddingwise/weddingwise-client/internal/fakeapi"
	"github.com/weddingwise/weddingwise-client/internal/logger"
)

// NewClientContainer creates the container behind the weddingwise CLI.
func NewClientContainer(o config.Overrides) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, o)

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Persistence and transport
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideGateway)

	// Domain
	do.Provide(injector, providers.ProvideManager)
	do.Provide(injector, providers.ProvideBudget)

	return injector
}

// Client holds the services a CLI command works with.
type Client struct {
	Logger  *logger.Logger
	Manager *booking.Manager
	Budget  *budget.Tracker
}

// BootstrapClient initializes the client services. The session is hydrated
// before it returns.
func BootstrapClient(injector *do.RootScope) (*Client, error) {
	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		return nil, err
	}
	manager, err := do.Invoke[*booking.Manager](injector)
	if err != nil {
		return nil, err
	}
	tracker, err := do.Invoke[*budget.Tracker](injector)
	if err != nil {
		return nil, err
	}
	return &Client{Logger: log, Manager: manager, Budget: tracker}, nil
}

// NewFakeAPIContainer creates the container behind the fakeapi binary.
func NewFakeAPIContainer(o config.Overrides) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, o)

	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Auth layer
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePasswordHasher)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideFakeAPI)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// BootstrapFakeAPI starts the fake API server and returns it for seeding.
func BootstrapFakeAPI(injector *do.RootScope) (*fakeapi.Server, error) {
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return nil, err
	}
	api, err := do.Invoke[*fakeapi.Server](injector)
	if err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return nil, err
	}
	return api, nil
}

// Shutdown stops every service the container started, logging failures.
func Shutdown(injector *do.RootScope, log *logger.Logger) {
	report := injector.ShutdownWithContext(context.Background())
	if report != nil && !report.Succeed && log != nil {
		log.Warn("Shutdown reported errors", "error", report.Error())
	}
}
