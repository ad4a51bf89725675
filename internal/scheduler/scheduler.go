// Package scheduler drives the session rhythm: turn start, timed play,
// turn end, pause, session end.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/bogglefr/bogglesrv/internal/game"
	"github.com/bogglefr/bogglesrv/internal/gamelog"
)

// Scheduler owns the single session loop. At most one loop runs at a time;
// it exits when every player has left and is relaunched by the next login.
type Scheduler struct {
	game  *game.Game
	log   *gamelog.Log
	turns int
	turn  time.Duration
	pause time.Duration

	mu      sync.Mutex
	running bool
}

func New(g *game.Game, log *gamelog.Log, turns int, turn, pause time.Duration) *Scheduler {
	return &Scheduler{game: g, log: log, turns: turns, turn: turn, pause: pause}
}

// Running reports whether the session loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// EnsureRunning launches the session loop unless one is already active.
func (s *Scheduler) EnsureRunning(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		s.game.StartSession()
		s.log.Record(gamelog.SessionStarted())

		for i := 0; i < s.turns; i++ {
			s.game.NewTurn()
			s.log.Record(gamelog.TurnStarted(s.game.GridString()))

			if !sleep(ctx, s.turn) {
				s.stop()
				return
			}

			s.game.EndTurn()
			s.log.Record(gamelog.TurnEnded())

			if !sleep(ctx, s.pause) {
				s.stop()
				return
			}

			// Nobody left: stop entirely, the next login relaunches us.
			if s.exitIfEmpty() {
				return
			}
		}

		s.game.EndSession()
		s.log.Record(gamelog.SessionEnded())
	}
}

func (s *Scheduler) stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// exitIfEmpty clears the running flag atomically with the player-count
// check. A login racing the wind-down is either already counted here or
// observes running == false and relaunches the loop; it can never park on
// the turn gate with no loop left to open it.
func (s *Scheduler) exitIfEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.PlayerCount() > 0 {
		return false
	}
	s.running = false
	return true
}

// sleep waits for d unless ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
