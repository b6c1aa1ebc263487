// Package pebble provides a persistent product catalog backed by PebbleDB.
//
// Products are stored as JSON under `products/<zero-padded id>` so that a
// prefix scan returns them in id order. The next id lives under `meta/next-id`.
package pebble

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	pebbledb "github.com/cockroachdb/pebble/v2"
	"go.uber.org/zap"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
)

const (
	productPrefix = "products/"
	nextIDKey     = "meta/next-id"
)

// DefaultPath is used when no database path is configured.
var DefaultPath = filepath.Join(".", "data", "pebble")

// Store implements catalog.Client on top of PebbleDB.
type Store struct {
	path   string
	logger *zap.Logger

	// db is opened lazily by Start or the first operation
	db *pebbledb.DB

	// mu guards db and serializes writes that touch the id counter
	mu sync.Mutex

	closed atomic.Bool
}

var _ catalog.Client = &Store{}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store and by PebbleDB itself.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store for the database at path. The database is not opened until Start.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{
		path:   path,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements catalog.Client.
func (s *Store) Name() string {
	return "pebble"
}

// Path returns the database directory.
func (s *Store) Path() string {
	return s.path
}

// Start opens the database.
func (s *Store) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.openLocked()
	return err
}

// Close closes the database. The store cannot be used afterwards.
func (s *Store) Close() error {
	s.closed.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close pebble database: %w", err)
		}
		s.db = nil
		s.logger.Debug("closed pebble database", zap.String("path", s.path))
	}
	return nil
}

// openLocked initializes the PebbleDB instance if not already initialized. s.mu must be held.
func (s *Store) openLocked() (*pebbledb.DB, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("storage is closed")
	}
	if s.db != nil {
		return s.db, nil
	}

	opts := &pebbledb.Options{
		Logger: s.logger.Named("pebble").Sugar(),
	}

	db, err := pebbledb.Open(s.path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble database at %s: %w", s.path, err)
	}

	s.logger.Debug("opened pebble database", zap.String("path", s.path))
	s.db = db
	return db, nil
}

func (s *Store) database() (*pebbledb.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked()
}

// List implements catalog.Reader.
func (s *Store) List(ctx context.Context, opts catalog.ListOptions) (*storev1alpha1.ProductList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	products, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	return &storev1alpha1.ProductList{Items: catalog.ApplyListOptions(products, opts)}, nil
}

// Get implements catalog.Reader.
func (s *Store) Get(ctx context.Context, id int) (*storev1alpha1.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := s.database()
	if err != nil {
		return nil, err
	}
	return s.get(db, id)
}

// Categories implements catalog.Reader.
func (s *Store) Categories(ctx context.Context) (*storev1alpha1.CategoryList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	return storev1alpha1.CategoryListFromNames(catalog.CategoriesOf(products)), nil
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

	db, err := s.openLocked()
	if err != nil {
		return nil, err
	}

	id, err := s.nextID(db)
	if err != nil {
		return nil, err
	}

	p := product.DeepCopy()
	p.ID = id
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize product: %w", err)
	}

	batch := db.NewBatch()
	defer batch.Close()

	if err := batch.Set(productKey(id), data, nil); err != nil {
		return nil, fmt.Errorf("failed to set product in batch: %w", err)
	}
	if err := batch.Set([]byte(nextIDKey), []byte(strconv.Itoa(id+1)), nil); err != nil {
		return nil, fmt.Errorf("failed to set id counter in batch: %w", err)
	}
	if err := batch.Commit(pebbledb.Sync); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}

	s.logger.Debug("created product", zap.Int("id", id))
	return p, nil
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

	db, err := s.openLocked()
	if err != nil {
		return nil, err
	}
	if _, err := s.get(db, id); err != nil {
		return nil, err
	}

	p := product.DeepCopy()
	p.ID = id
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize product: %w", err)
	}
	if err := db.Set(productKey(id), data, pebbledb.Sync); err != nil {
		return nil, fmt.Errorf("failed to store product %d: %w", id, err)
	}

	s.logger.Debug("updated product", zap.Int("id", id))
	return p, nil
}

// Delete implements catalog.Writer.
func (s *Store) Delete(ctx context.Context, id int) (*storev1alpha1.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.openLocked()
	if err != nil {
		return nil, err
	}

	p, err := s.get(db, id)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(productKey(id), pebbledb.Sync); err != nil {
		return nil, fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	s.logger.Debug("deleted product", zap.Int("id", id))
	return p, nil
}

func (s *Store) get(db *pebbledb.DB, id int) (*storev1alpha1.Product, error) {
	data, closer, err := db.Get(productKey(id))
	if errors.Is(err, pebbledb.ErrNotFound) {
		return nil, catalog.NewNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product %d: %w", id, err)
	}
	defer closer.Close()

	p := &storev1alpha1.Product{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to decode product %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) scan(ctx context.Context) ([]storev1alpha1.Product, error) {
	db, err := s.database()
	if err != nil {
		return nil, err
	}

	iter, err := db.NewIter(&pebbledb.IterOptions{
		LowerBound: []byte(productPrefix),
		UpperBound: prefixEnd(productPrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var products []storev1alpha1.Product
	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var p storev1alpha1.Product
		if err := json.Unmarshal(iter.Value(), &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", iter.Key(), err)
		}
		products = append(products, p)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}
	return products, nil
}

func (s *Store) nextID(db *pebbledb.DB) (int, error) {
	data, closer, err := db.Get([]byte(nextIDKey))
	if errors.Is(err, pebbledb.ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read id counter: %w", err)
	}
	defer closer.Close()

	id, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("corrupt id counter %q: %w", data, err)
	}
	return id, nil
}

func productKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", productPrefix, id))
}

// prefixEnd returns the smallest key greater than every key with the given prefix.
func prefixEnd(prefix string) []byte {
	end := []byte(prefix)
	end[len(end)-1]++
	return end
}
