// Package gamelog is the asynchronous event log: producers push typed game
// events onto a buffered channel, a single consumer task pretty-prints them
// through slog.
//
// Producers never block on a slow sink; when the buffer is full the event is
// dropped and counted.
package gamelog

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// EventKind classifies a game event.
type EventKind int

const (
	EventLogin EventKind = iota
	EventLogout
	EventAccepted
	EventRejected
	EventTurnStarted
	EventTurnEnded
	EventSessionStarted
	EventSessionEnded
	EventError
)

// Event is one entry of the game log.
type Event struct {
	Kind EventKind
	User string
	Word string
	Grid string
	Err  error
}

func Login(user string) Event    { return Event{Kind: EventLogin, User: user} }
func Logout(user string) Event   { return Event{Kind: EventLogout, User: user} }
func Accepted(user, word string) Event {
	return Event{Kind: EventAccepted, User: user, Word: word}
}
func Rejected(user, word string, err error) Event {
	return Event{Kind: EventRejected, User: user, Word: word, Err: err}
}
func TurnStarted(grid string) Event { return Event{Kind: EventTurnStarted, Grid: grid} }
func TurnEnded() Event              { return Event{Kind: EventTurnEnded} }
func SessionStarted() Event         { return Event{Kind: EventSessionStarted} }
func SessionEnded() Event           { return Event{Kind: EventSessionEnded} }
func Error(err error) Event         { return Event{Kind: EventError, Err: err} }

// Log is the event queue. Create it with New, run the consumer with Run.
type Log struct {
	events  chan Event
	dropped atomic.Uint64
}

func New(buffer int) *Log {
	if buffer <= 0 {
		buffer = 256
	}
	return &Log{events: make(chan Event, buffer)}
}

// Record enqueues an event without blocking the game path.
func (l *Log) Record(e Event) {
	select {
	case l.events <- e:
	default:
		l.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded on a full buffer.
func (l *Log) Dropped() uint64 { return l.dropped.Load() }

// Run consumes events until ctx is cancelled, then drains whatever is left
// in the buffer.
func (l *Log) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case e := <-l.events:
					l.print(e)
				default:
					return nil
				}
			}
		case e := <-l.events:
			l.print(e)
		}
	}
}

func (l *Log) print(e Event) {
	switch e.Kind {
	case EventLogin:
		slog.Info("joueur connecté", "user", e.User)
	case EventLogout:
		slog.Info("joueur déconnecté", "user", e.User)
	case EventAccepted:
		slog.Info("mot accepté", "user", e.User, "word", e.Word)
	case EventRejected:
		slog.Info("mot refusé", "user", e.User, "word", e.Word, "reason", e.Err)
	case EventTurnStarted:
		slog.Info("début du tour", "grid", e.Grid)
	case EventTurnEnded:
		slog.Info("fin du tour")
	case EventSessionStarted:
		slog.Info("début de session")
	case EventSessionEnded:
		slog.Info("fin de session")
	case EventError:
		slog.Warn("erreur", "error", e.Err)
	default:
		slog.Info("événement", "kind", int(e.Kind))
	}
}
