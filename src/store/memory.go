package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"findchannel/src/contracts"
	"findchannel/src/registry"
)

// MemoryStore is a thread-safe in-memory channels table.
// Used by the memory driver, the event-fed agent and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	channels map[string]*memoryChannel
	seq      uint64
	closed   bool
}

type memoryChannel struct {
	rec contracts.ChannelRecord
	seq uint64 // insertion order, breaks created_epoch ties
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		channels: make(map[string]*memoryChannel),
	}
}

// Acquire returns a handle over the current table contents.
func (s *MemoryStore) Acquire(ctx context.Context) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	return &memoryHandle{store: s}, nil
}

type memoryHandle struct {
	store *MemoryStore
}

func (h *memoryHandle) LocalRecords(ctx context.Context, hostname string) ([]contracts.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.store.mu.RLock()
	matched := make([]*memoryChannel, 0, len(h.store.channels))
	for _, ch := range h.store.channels {
		if ch.rec.Hostname == hostname {
			matched = append(matched, ch)
		}
	}
	h.store.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].rec.CreatedEpoch != matched[j].rec.CreatedEpoch {
			return matched[i].rec.CreatedEpoch < matched[j].rec.CreatedEpoch
		}
		return matched[i].seq < matched[j].seq
	})

	rows := make([]contracts.Row, len(matched))
	for i, ch := range matched {
		rows[i] = contracts.Row{
			Columns: contracts.ChannelColumns,
			Values:  recordValues(ch.rec),
		}
	}
	return rows, nil
}

func (h *memoryHandle) Release() error {
	return nil
}

// Locate implements registry.Registry.
func (s *MemoryStore) Locate(ctx context.Context, id string) (registry.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.channels[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return registry.NewSnapshot(id, ch.rec.Variables), nil
}

// SaveChannel inserts or replaces a channel.
func (s *MemoryStore) SaveChannel(ctx context.Context, rec contracts.ChannelRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("channel uuid is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyRecord(rec)
	if existing, ok := s.channels[rec.ID]; ok {
		existing.rec = stored
		return nil
	}
	s.seq++
	s.channels[rec.ID] = &memoryChannel{rec: stored, seq: s.seq}
	return nil
}

// DeleteChannel removes a channel. Removing an unknown id is a no-op.
func (s *MemoryStore) DeleteChannel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.channels, id)
	return nil
}

// SetVariable sets a channel variable.
func (s *MemoryStore) SetVariable(ctx context.Context, id, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[id]
	if !ok {
		return fmt.Errorf("set %s on %s: %w", name, id, registry.ErrNotFound)
	}
	if ch.rec.Variables == nil {
		ch.rec.Variables = make(map[string]string)
	}
	ch.rec.Variables[name] = value
	return nil
}

// UnsetVariable removes a channel variable.
func (s *MemoryStore) UnsetVariable(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[id]
	if !ok {
		return fmt.Errorf("unset %s on %s: %w", name, id, registry.ErrNotFound)
	}
	delete(ch.rec.Variables, name)
	return nil
}

// Len returns the number of channels held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

// Close makes later Acquire calls fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func copyRecord(rec contracts.ChannelRecord) contracts.ChannelRecord {
	out := rec
	out.Fields = make(map[string]string, len(rec.Fields))
	for k, v := range rec.Fields {
		out.Fields[k] = v
	}
	out.Variables = make(map[string]string, len(rec.Variables))
	for k, v := range rec.Variables {
		out.Variables[k] = v
	}
	return out
}
