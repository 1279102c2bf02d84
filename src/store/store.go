// Package store provides the record source for channel lookups.
package store

import (
	"context"
	"errors"
	"fmt"

	"findchannel/src/config"
	"findchannel/src/contracts"
	"findchannel/src/registry"
)

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("store is closed")

// Store hands out per-invocation handles to the channels table.
type Store interface {
	// Acquire returns a handle that must be released on every exit path.
	Acquire(ctx context.Context) (Handle, error)

	// Close closes the store connection
	Close() error
}

// Handle is a data-source handle scoped to one command invocation.
type Handle interface {
	// LocalRecords returns the channels owned by hostname in creation order.
	LocalRecords(ctx context.Context, hostname string) ([]contracts.Row, error)

	// Release returns the handle to the store.
	Release() error
}

// Writer mutates the channel state mirrored by a store.
// Fixtures and the channel event consumer write through it.
type Writer interface {
	SaveChannel(ctx context.Context, rec contracts.ChannelRecord) error
	DeleteChannel(ctx context.Context, id string) error
	SetVariable(ctx context.Context, id, name, value string) error
	UnsetVariable(ctx context.Context, id, name string) error
}

// Backend is a store that can also locate sessions and accept writes.
type Backend interface {
	Store
	Writer
	registry.Registry
}

// Open creates the backend selected by driver.
// SQL backends get their schema created if missing.
func Open(ctx context.Context, driver, dsn string) (Backend, error) {
	switch driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		s, err := NewSQLiteStore(dsn)
		if err != nil {
			return nil, err
		}
		return ensure(ctx, s)
	case config.DriverPostgres:
		s, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, err
		}
		return ensure(ctx, s)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func ensure(ctx context.Context, s *SQLStore) (Backend, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// recordValues lays a record out in ChannelColumns order.
func recordValues(rec contracts.ChannelRecord) []string {
	values := make([]string, len(contracts.ChannelColumns))
	for i, col := range contracts.ChannelColumns {
		switch col {
		case "uuid":
			values[i] = rec.ID
		case "hostname":
			values[i] = rec.Hostname
		case "created_epoch":
			values[i] = fmt.Sprintf("%d", rec.CreatedEpoch)
		default:
			values[i] = rec.Fields[col]
		}
	}
	return values
}
