package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/weddingwise/weddingwise-client/internal/booking"
	"github.com/weddingwise/weddingwise-client/internal/budget"
	"github.com/weddingwise/weddingwise-client/internal/config"
	"github.com/weddingwise/weddingwise-client/internal/gateway"
	"github.com/weddingwise/weddingwise-client/internal/logger"
	"github.com/weddingwise/weddingwise-client/internal/validation"
)

// GatewayHandle wraps the gateway client so its limiter is stopped on shutdown.
type GatewayHandle struct {
	*gateway.Client
}

// Shutdown implements do.Shutdowner.
func (h *GatewayHandle) Shutdown() {
	h.Close()
}

// ProvideGateway provides the client for the remote booking API.
func ProvideGateway(i do.Injector) (*GatewayHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client, err := gateway.New(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		RPS:     cfg.API.RPS,
		Burst:   cfg.API.Burst,
	}, log.Logger)
	if err != nil {
		return nil, err
	}
	return &GatewayHandle{Client: client}, nil
}

// ProvideManager provides the booking manager, hydrated from the session store.
func ProvideManager(i do.Injector) (*booking.Manager, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	gw := do.MustInvoke[*GatewayHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	m := booking.New(gw.Client, storeHandle.Store, v, log.Logger)
	if err := m.Hydrate(context.Background()); err != nil {
		return nil, err
	}
	return m, nil
}

// ProvideBudget provides the budget tracker loaded from the session store.
func ProvideBudget(i do.Injector) (*budget.Tracker, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	t := budget.New(storeHandle.Store, v, log.Logger)
	if err := t.Load(context.Background()); err != nil {
		return nil, err
	}
	return t, nil
}
