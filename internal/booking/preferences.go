package booking

import (
	"context"

	"github.com/weddingwise/weddingwise-client/internal/store"
)

// DarkMode reports whether the dark theme is on.
func (m *Manager) DarkMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.darkMode
}

// SetDarkMode switches the theme and persists the choice. It survives logout.
func (m *Manager) SetDarkMode(ctx context.Context, on bool) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	return m.setDarkMode(ctx, on)
}

// ToggleDarkMode flips the theme and returns the new setting.
func (m *Manager) ToggleDarkMode(ctx context.Context) (bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	on := !m.DarkMode()
	if err := m.setDarkMode(ctx, on); err != nil {
		return !on, err
	}
	return on, nil
}

func (m *Manager) setDarkMode(ctx context.Context, on bool) error {
	gen, err := m.begin()
	if err != nil {
		return err
	}
	return m.commit(gen, func() error {
		if err := m.persist(ctx, store.KeyDarkMode, on); err != nil {
			return err
		}
		m.darkMode = on
		return nil
	})
}
