package runtime

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/internal/logging"
	memorystorage "github.com/dtomasi/storectl/storage/memory"
	pebblestorage "github.com/dtomasi/storectl/storage/pebble"
)

// RuntimeType selects the catalog backend
type RuntimeType string

const (
	// RuntimeTypeRemote forwards every operation to the catalog API
	RuntimeTypeRemote RuntimeType = "remote"
	// RuntimeTypeMemory uses in-memory storage (no persistence)
	RuntimeTypeMemory RuntimeType = "memory"
	// RuntimeTypePebble uses PebbleDB storage (persistent)
	RuntimeTypePebble RuntimeType = "pebble"
)

// SimpleRuntimeConfig contains basic configuration for creating a runtime
type SimpleRuntimeConfig struct {
	Type    RuntimeType
	APIURL  string
	DBPath  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewRuntimeWithRemote creates a runtime forwarding to the catalog API at apiURL.
func NewRuntimeWithRemote(apiURL string, timeout time.Duration, logger *zap.Logger) (Runtime, error) {
	remote, err := catalog.NewRemote(apiURL, catalog.WithTimeout(timeout), catalog.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create remote catalog: %w", err)
	}
	return NewRuntime(remote, WithLogger(logger))
}

// NewRuntimeWithMemoryStorage creates a runtime with in-memory storage.
// Good for development, testing, and demos that don't need persistence.
func NewRuntimeWithMemoryStorage(logger *zap.Logger) (Runtime, error) {
	return NewRuntime(memorystorage.NewStore(), WithLogger(logger))
}

// NewRuntimeWithPebbleStorage creates a runtime with PebbleDB storage.
func NewRuntimeWithPebbleStorage(dbPath string, logger *zap.Logger) (Runtime, error) {
	if dbPath == "" {
		dbPath = pebblestorage.DefaultPath
	}

	absPath, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path %s: %w", dbPath, err)
	}

	logger = logging.OrNop(logger)
	store := pebblestorage.NewStore(absPath, pebblestorage.WithLogger(logger))
	logger.Debug("using pebble storage", zap.String("path", store.Path()))
	return NewRuntime(store, WithLogger(logger))
}

// NewRuntimeFromConfig creates a runtime from simple configuration.
func NewRuntimeFromConfig(config SimpleRuntimeConfig) (Runtime, error) {
	switch config.Type {
	case RuntimeTypeRemote, "":
		return NewRuntimeWithRemote(config.APIURL, config.Timeout, config.Logger)
	case RuntimeTypeMemory:
		return NewRuntimeWithMemoryStorage(config.Logger)
	case RuntimeTypePebble:
		return NewRuntimeWithPebbleStorage(config.DBPath, config.Logger)
	default:
		return nil, fmt.Errorf("unsupported runtime type: %s", config.Type)
	}
}
