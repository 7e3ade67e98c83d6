package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/weddingwise/weddingwise-client/internal/auth"
	"github.com/weddingwise/weddingwise-client/internal/config"
	"github.com/weddingwise/weddingwise-client/internal/fakeapi"
	"github.com/weddingwise/weddingwise-client/internal/logger"
	"github.com/weddingwise/weddingwise-client/internal/ratelimit"
)

// RateLimiterHandle wraps the inbound limiter so its cleanup loop stops on shutdown.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdowner.
func (h *RateLimiterHandle) Shutdown() {
	h.Stop()
}

// ProvideRateLimiter provides the per-IP limiter of the fake API.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &RateLimiterHandle{KeyedRateLimiter: ratelimit.New(cfg.FakeAPI.RPS, cfg.FakeAPI.Burst)}, nil
}

// ProvideFakeAPI provides the in-memory booking API.
func ProvideFakeAPI(i do.Injector) (*fakeapi.Server, error) {
	log := do.MustInvoke[*logger.Logger](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	hasher := do.MustInvoke[*auth.PasswordHasher](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	return fakeapi.New(fakeapi.Options{
		Tokens:  tokens,
		Hasher:  hasher,
		Limiter: limiter.KeyedRateLimiter,
		Logger:  log.Logger,
	}), nil
}

// HTTPServerHandle wraps http.Server with shutdown capability.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.ShutdownerWithError.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer starts the fake API's HTTP server in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	api := do.MustInvoke[*fakeapi.Server](i)

	srv := &http.Server{
		Addr:              cfg.FakeAPI.Addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Fake API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Fake API server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
