package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogglefr/bogglesrv/internal/board"
	"github.com/bogglefr/bogglesrv/internal/dict"
	"github.com/bogglefr/bogglesrv/internal/game"
	"github.com/bogglefr/bogglesrv/internal/gamelog"
	"github.com/bogglefr/bogglesrv/internal/grid"
	"github.com/bogglefr/bogglesrv/internal/players"
	"github.com/bogglefr/bogglesrv/internal/testutil"
)

const testGrid = "LIDAREJULTNEATNG"

func newTestGame(t *testing.T) *game.Game {
	t.Helper()
	src, err := grid.NewCyclicSource([]string{testGrid})
	require.NoError(t, err)
	return game.New(board.New(src, true), players.NewRegistry(), dict.NewSet("trident"))
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestScheduler_RunsSessionAndExitsWhenEmpty(t *testing.T) {
	g := newTestGame(t)
	s := New(g, gamelog.New(16), 2, 20*time.Millisecond, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Register before launching so the first empty check counts the player.
	conn := testutil.NewMockConn()
	require.NoError(t, g.Register("user1", conn))

	s.EnsureRunning(ctx)
	assert.True(t, s.Running())

	// A full session ends with VAINQUEUR; with a player connected the loop
	// starts over with a fresh SESSION.
	sawAll := func() bool {
		seen := map[string]bool{}
		for _, l := range conn.Lines() {
			seen[l] = true
		}
		return seen["VAINQUEUR/user1*0/"] && seen["SESSION/"] &&
			seen["TOUR/LIDAREJULTNEATNG/"] && seen["RFIN/"]
	}
	waitFor(t, sawAll, "missing session broadcasts")

	// Once the only player leaves, the loop winds down at the next turn
	// boundary.
	require.NoError(t, g.Logout("user1"))
	waitFor(t, func() bool { return !s.Running() }, "scheduler kept running with no players")

	// The next login relaunches it.
	s.EnsureRunning(ctx)
	waitFor(t, s.Running, "scheduler did not relaunch")
}

func TestScheduler_LoginAfterWindDown(t *testing.T) {
	g := newTestGame(t)
	s := New(g, gamelog.New(16), 2, time.Millisecond, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// With nobody connected the loop stops at the first turn boundary.
	s.EnsureRunning(ctx)
	waitFor(t, func() bool { return !s.Running() }, "scheduler kept running with no players")

	// Connection order of the server: register, kick the loop, then wait
	// for the turn. The newcomer either was counted by a live loop or
	// relaunches a stopped one; in both cases the welcome must arrive.
	conn := testutil.NewMockConn()
	require.NoError(t, g.Register("user1", conn))
	s.EnsureRunning(ctx)

	done := make(chan error, 1)
	go func() { done <- g.AwaitWelcome(ctx, "user1", conn) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("welcome never arrived after relaunch")
	}
	assert.Contains(t, conn.String(), "BIENVENUE/"+testGrid+"/")
}

func TestScheduler_SingleInstance(t *testing.T) {
	g := newTestGame(t)
	s := New(g, gamelog.New(16), 1000, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.EnsureRunning(ctx)
	s.EnsureRunning(ctx)
	assert.True(t, s.Running())

	cancel()
	waitFor(t, func() bool { return !s.Running() }, "scheduler ignored cancellation")
}
