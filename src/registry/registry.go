// Package registry defines how the lookup service reaches live sessions.
// The switch owns sessions; this package only describes the read side.
package registry

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session id can no longer be located.
// Callers scanning a record list treat it as "channel hung up" and move on.
var ErrNotFound = errors.New("session not found")

// Session is a located channel.
type Session interface {
	ID() string
	// Variable returns the channel variable and whether it is set.
	Variable(name string) (string, bool)
}

// Registry locates live sessions by id.
type Registry interface {
	Locate(ctx context.Context, id string) (Session, error)
}

// Snapshot is an immutable copy of a session's variables.
type Snapshot struct {
	id   string
	vars map[string]string
}

// NewSnapshot copies vars so later writes to the source do not leak in.
func NewSnapshot(id string, vars map[string]string) *Snapshot {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return &Snapshot{id: id, vars: copied}
}

func (s *Snapshot) ID() string { return s.id }

func (s *Snapshot) Variable(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Variables returns a copy of every variable on the session.
func (s *Snapshot) Variables() map[string]string {
	out := make(map[string]string, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// Func adapts a plain function to Registry.
type Func func(ctx context.Context, id string) (Session, error)

func (f Func) Locate(ctx context.Context, id string) (Session, error) {
	return f(ctx, id)
}

// Inspector is implemented by sessions that can list every variable.
// Snapshot implements it.
type Inspector interface {
	Variables() map[string]string
}
