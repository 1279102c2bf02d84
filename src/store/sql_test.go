package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findchannel/src/config"
	"findchannel/src/contracts"
	"findchannel/src/registry"
)

func openTestSQLite(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "core.db"))
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStore_LocalRecords(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveChannel(ctx, testChannel("late", "sw1", 200, nil)))
	require.NoError(t, s.SaveChannel(ctx, testChannel("early", "sw1", 100, nil)))
	require.NoError(t, s.SaveChannel(ctx, testChannel("remote", "sw2", 50, nil)))

	h, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer h.Release()

	rows, err := h.LocalRecords(ctx, "sw1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "early", rows[0].ID())
	assert.Equal(t, "late", rows[1].ID())
	assert.Equal(t, contracts.ChannelColumns, rows[0].Columns)
	assert.Equal(t, "100", rows[0].Values[3])
	assert.Equal(t, "sofia/internal/early", rows[0].Values[4])
	// Unset fields come back empty rather than NULL
	assert.Equal(t, "", rows[0].Values[6])
}

func TestSQLStore_EnsureSchemaIdempotent(t *testing.T) {
	s := openTestSQLite(t)
	assert.NoError(t, s.EnsureSchema(context.Background()))
}

func TestSQLStore_LocateVariables(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveChannel(ctx, testChannel("a", "sw1", 1, map[string]string{
		"call_state":    "Ready",
		"sip_from_user": "1000",
	})))

	sess, err := s.Locate(ctx, "a")
	require.NoError(t, err)
	v, ok := sess.Variable("call_state")
	assert.True(t, ok)
	assert.Equal(t, "Ready", v)

	require.NoError(t, s.SetVariable(ctx, "a", "call_state", "Busy"))
	require.NoError(t, s.UnsetVariable(ctx, "a", "sip_from_user"))

	sess, err = s.Locate(ctx, "a")
	require.NoError(t, err)
	v, _ = sess.Variable("call_state")
	assert.Equal(t, "Busy", v)
	_, ok = sess.Variable("sip_from_user")
	assert.False(t, ok)

	assert.ErrorIs(t, s.SetVariable(ctx, "nope", "x", "y"), registry.ErrNotFound)

	require.NoError(t, s.DeleteChannel(ctx, "a"))
	_, err = s.Locate(ctx, "a")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestSQLStore_QueryErrorAfterDrop(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, "DROP TABLE channels")
	require.NoError(t, err)

	h, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer h.Release()

	_, err = h.LocalRecords(ctx, "sw1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestOpen_Memory(t *testing.T) {
	b, err := Open(context.Background(), config.DriverMemory, "")
	require.NoError(t, err)
	defer b.Close()

	_, ok := b.(*MemoryStore)
	assert.True(t, ok)
}

func TestOpen_SQLite(t *testing.T) {
	b, err := Open(context.Background(), config.DriverSQLite, filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer b.Close()

	h, err := b.Acquire(context.Background())
	require.NoError(t, err)
	rows, err := h.LocalRecords(context.Background(), "sw1")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, h.Release())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)
}
