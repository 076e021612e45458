package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/blackjack/internal/cli"
	"github.com/aretw0/blackjack/internal/config"
	"github.com/aretw0/blackjack/internal/logging"
	"github.com/aretw0/blackjack/pkg/adapters/file"
	"github.com/aretw0/blackjack/pkg/adapters/memory"
	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryManagerBackend(t *testing.T) *cli.Backend {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	b, err := cli.OpenBackend(context.Background(), cfg, "")
	require.NoError(t, err)
	return b
}

func TestOpenBackend(t *testing.T) {
	b := newMemoryManagerBackend(t)
	assert.IsType(t, &memory.Store{}, b.Store)
	assert.Nil(t, b.Locker)
	assert.NoError(t, b.Close())

	dir := t.TempDir()
	b, err := cli.OpenBackend(context.Background(), config.Default(), dir)
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, b.Store)
}

func TestOpenBackend_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.Redis.Addr = "127.0.0.1:1"

	_, err := cli.OpenBackend(context.Background(), cfg, "")
	assert.Error(t, err)
}

func TestRunPlay_Session(t *testing.T) {
	b := newMemoryManagerBackend(t)
	mgr := cli.NewManager(b, config.Default(), logging.NewNop())

	in := strings.NewReader("register\nregister\nreset\nbegin\nend\nstatus\nhistory\nsplit\nquit\nregister\n")
	var out bytes.Buffer
	err := cli.RunPlay(context.Background(), cli.PlayOptions{TableID: "t1", Manager: mgr, In: in, Out: &out})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Table 't1' is starting with 0 player(s).")
	assert.Contains(t, text, "Cannot reset_game while the table is starting.")
	assert.Contains(t, text, "| Progress | **done** |")
	assert.Contains(t, text, "Dealer: -\nSeat 1: -\nSeat 2: -\n")
	assert.Contains(t, text, `Unknown command "split".`)
	assert.Contains(t, text, "Left table 't1'.")

	eng, err := mgr.Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressDone, eng.CurrentProgress())
	assert.Len(t, eng.Snapshot().Players, 2, "commands after quit are not read")
	assert.Equal(t, 4, eng.Depth())
}

func TestRunPlay_EOFIsCleanExit(t *testing.T) {
	b := newMemoryManagerBackend(t)
	mgr := cli.NewManager(b, config.Default(), logging.NewNop())

	err := cli.RunPlay(context.Background(), cli.PlayOptions{TableID: "t1", Manager: mgr, In: strings.NewReader("begin\n"), Out: io.Discard})
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, cli.HandleExecutionError(err))
}

func TestRunPlay_Canceled(t *testing.T) {
	b := newMemoryManagerBackend(t)
	mgr := cli.NewManager(b, config.Default(), logging.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cli.RunPlay(ctx, cli.PlayOptions{TableID: "t1", Manager: mgr, In: strings.NewReader("begin\n"), Out: io.Discard})
	assert.Error(t, err)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, cli.HandleExecutionError(nil))
	assert.NoError(t, cli.HandleExecutionError(context.Canceled))
	boom := errors.New("boom")
	assert.Equal(t, boom, cli.HandleExecutionError(boom))
}
