package store

import (
	"context"
	"errors"
	"testing"

	"findchannel/src/contracts"
	"findchannel/src/registry"
)

func testChannel(id, host string, epoch int64, vars map[string]string) contracts.ChannelRecord {
	return contracts.ChannelRecord{
		ID:           id,
		Hostname:     host,
		CreatedEpoch: epoch,
		Fields: map[string]string{
			"direction": "inbound",
			"name":      "sofia/internal/" + id,
			"state":     "CS_EXECUTE",
		},
		Variables: vars,
	}
}

func TestMemoryStore_LocalRecordsOrderAndScope(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	store.SaveChannel(ctx, testChannel("c", "sw1", 30, nil))
	store.SaveChannel(ctx, testChannel("a", "sw1", 10, nil))
	store.SaveChannel(ctx, testChannel("other", "sw2", 5, nil))
	store.SaveChannel(ctx, testChannel("b", "sw1", 10, nil))

	h, err := store.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer h.Release()

	rows, err := h.LocalRecords(ctx, "sw1")
	if err != nil {
		t.Fatalf("LocalRecords failed: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i, id := range want {
		if rows[i].ID() != id {
			t.Errorf("Row %d: expected id %s, got %s", i, id, rows[i].ID())
		}
		if len(rows[i].Values) != len(contracts.ChannelColumns) {
			t.Errorf("Row %d: expected %d values, got %d", i, len(contracts.ChannelColumns), len(rows[i].Values))
		}
	}
	if rows[0].Values[len(rows[0].Values)-1] != "sw1" {
		t.Errorf("Expected hostname as last column, got %q", rows[0].Values[len(rows[0].Values)-1])
	}
}

func TestMemoryStore_LocateAndVariables(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.SaveChannel(ctx, testChannel("a", "sw1", 1, map[string]string{"queue": "sales"}))

	sess, err := store.Locate(ctx, "a")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if v, ok := sess.Variable("queue"); !ok || v != "sales" {
		t.Errorf("Expected queue=sales, got %q (present=%v)", v, ok)
	}

	if err := store.SetVariable(ctx, "a", "queue", "support"); err != nil {
		t.Fatalf("SetVariable failed: %v", err)
	}
	// Earlier snapshot is unaffected
	if v, _ := sess.Variable("queue"); v != "sales" {
		t.Errorf("Expected snapshot to keep sales, got %q", v)
	}

	sess, _ = store.Locate(ctx, "a")
	if v, _ := sess.Variable("queue"); v != "support" {
		t.Errorf("Expected queue=support, got %q", v)
	}

	if err := store.UnsetVariable(ctx, "a", "queue"); err != nil {
		t.Fatalf("UnsetVariable failed: %v", err)
	}
	sess, _ = store.Locate(ctx, "a")
	if _, ok := sess.Variable("queue"); ok {
		t.Error("Expected queue to be unset")
	}

	if err := store.SetVariable(ctx, "missing", "x", "y"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown channel, got %v", err)
	}

	store.DeleteChannel(ctx, "a")
	if _, err := store.Locate(ctx, "a"); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
}

func TestMemoryStore_SaveCopiesInput(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	vars := map[string]string{"k": "v1"}
	store.SaveChannel(ctx, testChannel("a", "sw1", 1, vars))
	vars["k"] = "v2"

	sess, _ := store.Locate(ctx, "a")
	if v, _ := sess.Variable("k"); v != "v1" {
		t.Errorf("Expected stored copy v1, got %q", v)
	}
}

func TestMemoryStore_AcquireAfterClose(t *testing.T) {
	store := NewMemoryStore()
	store.Close()

	if _, err := store.Acquire(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestMemoryStore_SaveRequiresID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveChannel(context.Background(), contracts.ChannelRecord{}); err == nil {
		t.Error("Expected error for empty uuid")
	}
}
