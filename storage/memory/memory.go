// Package memory provides an in-memory product catalog. It behaves like the
// catalog API (auto-increment ids, id ordering, NotFound errors) and is used
// for tests and offline work with `--backend memory`.
package memory

import (
	"context"
	"fmt"
	"sync"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
)

// Store is a mutex-guarded map of products keyed by id.
type Store struct {
	mu     sync.RWMutex
	items  map[int]*storev1alpha1.Product
	nextID int
}

var _ catalog.Client = &Store{}

// NewStore creates a store holding copies of the given products. Products
// without an id are numbered after the highest id seen.
func NewStore(seed ...storev1alpha1.Product) *Store {
	s := &Store{
		items:  make(map[int]*storev1alpha1.Product, len(seed)),
		nextID: 1,
	}
	for i := range seed {
		if seed[i].ID >= s.nextID {
			s.nextID = seed[i].ID + 1
		}
	}
	for i := range seed {
		p := seed[i].DeepCopy()
		if p.ID == 0 {
			p.ID = s.nextID
			s.nextID++
		}
		s.items[p.ID] = p
	}
	return s
}

// Name implements catalog.Client.
func (s *Store) Name() string {
	return "memory"
}

// List implements catalog.Reader.
func (s *Store) List(ctx context.Context, opts catalog.ListOptions) (*storev1alpha1.ProductList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &storev1alpha1.ProductList{
		Items: catalog.ApplyListOptions(s.snapshot(), opts),
	}, nil
}

// Get implements catalog.Reader.
func (s *Store) Get(ctx context.Context, id int) (*storev1alpha1.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.items[id]
	if !ok {
		return nil, catalog.NewNotFound(id)
	}
	return p.DeepCopy(), nil
}

// Categories implements catalog.Reader.
func (s *Store) Categories(ctx context.Context) (*storev1alpha1.CategoryList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return storev1alpha1.CategoryListFromNames(catalog.CategoriesOf(s.snapshot())), nil
}

// Create implements catalog.Writer. The id of the given product is ignored.
func (s *Store) Create(ctx context.Context, product *storev1alpha1.Product) (*storev1alpha1.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := product.DeepCopy()
	p.ID = s.nextID
	s.nextID++
	s.items[p.ID] = p

	return p.DeepCopy(), nil
}

// Update implements catalog.Writer.
func (s *Store) Update(ctx context.Context, id int, product *storev1alpha1.Product) (*storev1alpha1.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return nil, catalog.NewNotFound(id)
	}

	p := product.DeepCopy()
	p.ID = id
	s.items[id] = p

	return p.DeepCopy(), nil
}

// Delete implements catalog.Writer.
func (s *Store) Delete(ctx context.Context, id int) (*storev1alpha1.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	if !ok {
		return nil, catalog.NewNotFound(id)
	}
	delete(s.items, id)

	return p, nil
}

// Len returns the number of stored products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) snapshot() []storev1alpha1.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]storev1alpha1.Product, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, *p)
	}
	return out
}
