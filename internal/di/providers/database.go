package providers

import (
	"github.com/samber/do/v2"

	"github.com/weddingwise/weddingwise-client/internal/config"
	"github.com/weddingwise/weddingwise-client/internal/logger"
	"github.com/weddingwise/weddingwise-client/internal/store"
)

// StoreHandle wraps the session store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.ShutdownerWithError.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the persistent session store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Session.InMemory {
		s, err := store.OpenInMemory(log.Logger)
		if err != nil {
			return nil, err
		}
		log.Debug("Session store opened in memory")
		return &StoreHandle{Store: s}, nil
	}

	s, err := store.Open(cfg.Session.Path, log.Logger)
	if err != nil {
		return nil, err
	}
	log.Debug("Session store opened", "path", cfg.Session.Path)
	return &StoreHandle{Store: s}, nil
}
