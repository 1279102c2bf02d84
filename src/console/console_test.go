package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findchannel/src/command"
	"findchannel/src/contracts"
	"findchannel/src/format"
	"findchannel/src/logger"
	"findchannel/src/store"
)

func newTestConsole(t *testing.T, load bool) (*Console, *bytes.Buffer) {
	t.Helper()
	ms := store.NewMemoryStore()
	require.NoError(t, ms.SaveChannel(context.Background(), contracts.ChannelRecord{
		ID: "uuid-1", Hostname: "sw1", CreatedEpoch: 10,
		Fields:    map[string]string{"direction": "inbound"},
		Variables: map[string]string{"queue": "sales"},
	}))

	h := command.NewHandler(ms, ms, command.Settings{Hostname: "sw1", QueryTimeout: time.Second}, logger.NewSilentLogger())
	mod := command.NewModule(h, logger.NewSilentLogger())
	if load {
		require.NoError(t, mod.Load())
	}

	var out bytes.Buffer
	return New(mod, &out, format.KindText, false, nil), &out
}

func TestDispatch_RunsModuleCommand(t *testing.T) {
	c, out := newTestConsole(t, true)

	quit := c.Dispatch(context.Background(), "find_channel queue SALES")
	assert.False(t, quit)
	assert.True(t, strings.HasPrefix(out.String(), "uuid-1,inbound,"), "got %q", out.String())
}

func TestDispatch_Usage(t *testing.T) {
	c, out := newTestConsole(t, true)

	c.Dispatch(context.Background(), "find_channel")
	assert.Equal(t, "-USAGE: find_channel <variable_name> <variable_value>\n", out.String())
}

func TestDispatch_UnknownCommand(t *testing.T) {
	c, out := newTestConsole(t, true)

	c.Dispatch(context.Background(), "show channels")
	assert.Contains(t, out.String(), "-ERR")
	assert.Contains(t, out.String(), "'show'")
}

func TestDispatch_NotLoaded(t *testing.T) {
	c, out := newTestConsole(t, false)

	c.Dispatch(context.Background(), "find_channel queue sales")
	assert.Equal(t, "-ERR module not loaded\n", out.String())
}

func TestDispatch_FormatAndVerbose(t *testing.T) {
	c, out := newTestConsole(t, true)
	ctx := context.Background()

	c.Dispatch(ctx, "/format count")
	c.Dispatch(ctx, "/verbose on")
	out.Reset()

	c.Dispatch(ctx, "find_channel queue sales")
	assert.Equal(t, "Compare: queue = sales ? sales\n1 total.\n", out.String())

	out.Reset()
	c.Dispatch(ctx, "/format xml")
	assert.True(t, strings.HasPrefix(out.String(), "-ERR"))
	assert.Equal(t, format.KindCount, c.format)
}

func TestDispatch_Help(t *testing.T) {
	c, out := newTestConsole(t, true)

	c.Dispatch(context.Background(), "help")
	assert.Contains(t, out.String(), command.Syntax)
	assert.Contains(t, out.String(), command.Description)
	assert.Contains(t, out.String(), "/format")

	require.Len(t, builtins, 4)
	for _, h := range builtins {
		assert.Contains(t, out.String(), h.Mnemonic)
	}
}

func TestDispatch_Exit(t *testing.T) {
	c, _ := newTestConsole(t, true)

	for _, line := range []string{"exit", "QUIT", "..."} {
		assert.True(t, c.Dispatch(context.Background(), line), line)
	}
	assert.False(t, c.Dispatch(context.Background(), "   "))
}
