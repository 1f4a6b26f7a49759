package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"mangabook/catalog-api/internal/kvstore"
)

// Seeder supplies the initial product list when the store has none.
type Seeder interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// Inventory is the only writer of the product list. Every mutation rewrites
// the whole list.
type Inventory struct {
	store kvstore.Store
	seed  Seeder
	log   *slog.Logger

	mu            sync.Mutex
	seedAttempted bool
}

func NewInventory(store kvstore.Store, seed Seeder, logger *slog.Logger) *Inventory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inventory{store: store, seed: seed, log: logger}
}

func (inv *Inventory) load(ctx context.Context) ([]Product, bool, error) {
	var list []Product
	found, err := kvstore.GetJSON(ctx, inv.store, kvstore.KeyProducts, &list)
	if errors.Is(err, kvstore.ErrCorrupt) {
		inv.log.Warn("product list is corrupt, treating as empty", "key", kvstore.KeyProducts, "error", err)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load products: %w", err)
	}
	if list == nil {
		list = []Product{}
	}
	return list, found, nil
}

func (inv *Inventory) save(ctx context.Context, list []Product) error {
	if err := kvstore.SetJSON(ctx, inv.store, kvstore.KeyProducts, list); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

// LoadOrSeed returns the stored list. With nothing stored it fetches the seed
// once per process; a failed fetch is logged and leaves the store empty.
func (inv *Inventory) LoadOrSeed(ctx context.Context) ([]Product, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	list, found, err := inv.load(ctx)
	if err != nil {
		return nil, err
	}
	if found || inv.seedAttempted || inv.seed == nil {
		return nonNil(list), nil
	}
	inv.seedAttempted = true

	seeded, err := inv.seed.FetchProducts(ctx)
	if err != nil {
		inv.log.Error("product seed fetch failed", "error", err)
		return []Product{}, nil
	}
	seeded = nonNil(seeded)
	if err := inv.save(ctx, seeded); err != nil {
		return nil, err
	}
	inv.log.Info("product list seeded", "count", len(seeded))
	return cloneProducts(seeded), nil
}

// List returns the stored products without seeding.
func (inv *Inventory) List(ctx context.Context) ([]Product, error) {
	list, _, err := inv.load(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(list), nil
}

func (inv *Inventory) Get(ctx context.Context, id int) (Product, error) {
	list, _, err := inv.load(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

// Add assigns the next id and puts p at the front of the list.
func (inv *Inventory) Add(ctx context.Context, p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	list, _, err := inv.load(ctx)
	if err != nil {
		return Product{}, err
	}
	p.ID = nextID(list)
	list = append([]Product{p}, list...)
	if err := inv.save(ctx, list); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Update replaces the product with p.ID.
func (inv *Inventory) Update(ctx context.Context, p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	list, _, err := inv.load(ctx)
	if err != nil {
		return Product{}, err
	}
	i := indexOf(list, p.ID)
	if i < 0 {
		return Product{}, ErrProductNotFound
	}
	list[i] = p
	if err := inv.save(ctx, list); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (inv *Inventory) Delete(ctx context.Context, id int) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	list, _, err := inv.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(list, id)
	if i < 0 {
		return ErrProductNotFound
	}
	list = append(list[:i], list[i+1:]...)
	return inv.save(ctx, list)
}

// nextID is max(id)+1, or 1 for an empty list. Deleting the highest id
// makes it available again.
func nextID(list []Product) int {
	highest := 0
	for _, p := range list {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}

func indexOf(list []Product, id int) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func nonNil(list []Product) []Product {
	if list == nil {
		return []Product{}
	}
	return list
}
