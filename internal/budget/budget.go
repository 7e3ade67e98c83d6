// Package budget tracks the wedding budget: a list of named costs with a running total.
package budget

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/store"
	"github.com/weddingwise/weddingwise-client/internal/validation"
)

// Store is the persistence the tracker needs. *store.Store satisfies it.
type Store interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Save(ctx context.Context, key store.Key, value any) error
}

// Defaults returns the starting budget.
func Defaults() []domain.BudgetItem {
	return []domain.BudgetItem{
		{ID: 1, Name: "Wedding Ceremony", Cost: 2000},
		{ID: 2, Name: "Reception", Cost: 3000},
		{ID: 3, Name: "Engagement Party", Cost: 1000},
		{ID: 4, Name: "Bridal Shower", Cost: 800},
		{ID: 5, Name: "ABC Catering", Cost: 1500},
		{ID: 6, Name: "XYZ Photography", Cost: 1200},
		{ID: 7, Name: "Elegant Florists", Cost: 700},
		{ID: 8, Name: "Classic Musicians", Cost: 600},
		{ID: 9, Name: "Luxurious Transportation", Cost: 500},
	}
}

// Tracker holds the budget items in display order.
type Tracker struct {
	store     Store
	validator *validation.Validator
	logger    *slog.Logger

	mu    sync.RWMutex
	items []domain.BudgetItem
}

// New creates a tracker holding the default items. Call Load to read the
// persisted budget.
func New(s Store, v *validation.Validator, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		store:     s,
		validator: v,
		logger:    logger.With("component", "budget"),
		items:     Defaults(),
	}
}

// Load replaces the items with the persisted budget, if there is one.
func (t *Tracker) Load(ctx context.Context) error {
	snap, err := t.store.Load(ctx)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "load budget")
	}
	if snap.Budget == nil {
		return nil
	}

	t.mu.Lock()
	t.items = snap.Budget
	t.mu.Unlock()
	return nil
}

// Items returns a copy of the budget items.
func (t *Tracker) Items() []domain.BudgetItem {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.items)
}

// Total returns the sum of every item's cost.
func (t *Tracker) Total() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var total float64
	for _, item := range t.items {
		total += item.Cost
	}
	return total
}

// Add appends an item. Its ID is one more than the last item's, or 1 when
// the budget is empty.
func (t *Tracker) Add(ctx context.Context, name string, cost float64) (domain.BudgetItem, error) {
	item := domain.BudgetItem{Name: strings.TrimSpace(name), Cost: cost}
	if err := t.validator.Validate(item); err != nil {
		return domain.BudgetItem{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	item.ID = 1
	if n := len(t.items); n > 0 {
		item.ID = t.items[n-1].ID + 1
	}

	next := append(slices.Clone(t.items), item)
	if err := t.save(ctx, next); err != nil {
		return domain.BudgetItem{}, err
	}
	t.items = next

	t.logger.Debug("budget item added", "id", item.ID, "name", item.Name)
	return item, nil
}

// Remove deletes the item with the given ID.
func (t *Tracker) Remove(ctx context.Context, id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(t.items), func(item domain.BudgetItem) bool {
		return item.ID == id
	})
	if len(next) == len(t.items) {
		return domainerrors.NotFoundf("budget item %d not found", id)
	}
	if err := t.save(ctx, next); err != nil {
		return err
	}
	t.items = next
	return nil
}

// Reset restores the default items.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := Defaults()
	if err := t.save(ctx, items); err != nil {
		return err
	}
	t.items = items
	return nil
}

func (t *Tracker) save(ctx context.Context, items []domain.BudgetItem) error {
	if err := t.store.Save(ctx, store.KeyBudget, items); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "save budget")
	}
	return nil
}
