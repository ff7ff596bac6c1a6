package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("storage: not found")
	ErrUnknownDriver = errors.New("storage: unknown driver")
)

// Op is one write in an atomic batch. Delete takes precedence over Value.
type Op struct {
	Key    string
	Value  []byte
	Delete bool
}

// Store is a string-keyed value store. Values are opaque bytes; the gateway
// keeps JSON documents in them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Apply(ctx context.Context, ops []Op) error
	Close() error
}

type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverGorm   Driver = "gorm"
	DriverMemory Driver = "memory"
)

// Open returns the store for driver rooted at path.
// Recoverer is implemented by stores that can start over after finding
// their backing document unreadable.
type Recoverer interface {
	Recovered() (string, bool)
}

// RecoveredFrom reports where s moved an unreadable document at open.
func RecoveredFrom(s Store) (string, bool) {
	r, ok := s.(Recoverer)
	if !ok {
		return "", false
	}
	return r.Recovered()
}

func Open(driver Driver, path string, opts ...Option) (Store, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	switch Driver(strings.ToLower(string(driver))) {
	case DriverFile, "":
		return OpenFile(path)
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverGorm:
		return OpenGorm(path, o.gormLogger)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
