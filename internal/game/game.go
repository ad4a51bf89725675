// Package game is the single coordination point over the board, the player
// registry and the dictionary.
//
// Each of the three collaborators sits behind its own reader/writer lock;
// every operation acquires them in the fixed order board → players → dict
// never holding two at once, which keeps the façade deadlock-free.
package game

import (
	"context"
	"strings"
	"sync"

	"github.com/bogglefr/bogglesrv/internal/board"
	"github.com/bogglefr/bogglesrv/internal/dict"
	"github.com/bogglefr/bogglesrv/internal/errs"
	"github.com/bogglefr/bogglesrv/internal/players"
	"github.com/bogglefr/bogglesrv/internal/protocol"
)

// Game composes the board, the registry and the dictionary under locks.
type Game struct {
	boardMu sync.RWMutex
	board   *board.Board

	playersMu sync.RWMutex
	players   *players.Registry

	dictMu sync.RWMutex
	dict   dict.Dict

	gate turnGate
}

func New(b *board.Board, r *players.Registry, d dict.Dict) *Game {
	g := &Game{board: b, players: r, dict: d}
	g.gate.init()
	return g
}

// Login registers the player and waits for a running turn before sending
// the welcome. The server interleaves a scheduler kick between the two
// steps; see Register and AwaitWelcome.
func (g *Game) Login(ctx context.Context, name string, conn players.Conn) error {
	if err := g.Register(name, conn); err != nil {
		return err
	}
	return g.AwaitWelcome(ctx, name, conn)
}

// Register adds the player to the board and the registry. The only failure
// is a name collision, in which case the board entry belongs to the
// incumbent and is left untouched.
func (g *Game) Register(name string, conn players.Conn) error {
	g.boardMu.Lock()
	if !g.board.HasUser(name) {
		g.board.AddUser(name)
	}
	g.boardMu.Unlock()

	g.playersMu.Lock()
	err := g.players.Login(name, conn)
	g.playersMu.Unlock()
	return err
}

// AwaitWelcome blocks until a turn is running, then sends the BIENVENUE
// carrying the grid actually in play, so a client arriving between turns
// never sees a grid about to be replaced. On failure the registration is
// rolled back.
func (g *Game) AwaitWelcome(ctx context.Context, name string, conn players.Conn) error {
	if err := g.gate.wait(ctx); err != nil {
		g.rollbackLogin(name)
		return err
	}

	g.boardMu.RLock()
	welcome := g.board.WelcomeString()
	g.boardMu.RUnlock()

	if _, err := conn.Write([]byte(welcome)); err != nil {
		g.rollbackLogin(name)
		return err
	}
	return nil
}

// rollbackLogin undoes a registration whose welcome never made it out, so a
// player gone before the first turn does not linger in the registry.
func (g *Game) rollbackLogin(name string) {
	g.playersMu.Lock()
	err := g.players.Logout(name)
	g.playersMu.Unlock()
	if err != nil {
		return
	}

	g.boardMu.Lock()
	g.board.RemoveUser(name)
	g.boardMu.Unlock()
}

// Logout removes the player from the registry and the board.
func (g *Game) Logout(name string) error {
	g.playersMu.Lock()
	err := g.players.Logout(name)
	g.playersMu.Unlock()
	if err != nil {
		return err
	}

	g.boardMu.Lock()
	g.board.RemoveUser(name)
	g.boardMu.Unlock()
	return nil
}

// IsConnected reports whether the player is logged in.
func (g *Game) IsConnected(name string) bool {
	g.playersMu.RLock()
	defer g.playersMu.RUnlock()
	return g.players.IsConnected(name)
}

// PlayerCount returns the number of logged-in players.
func (g *Game) PlayerCount() int {
	g.playersMu.RLock()
	defer g.playersMu.RUnlock()
	return g.players.Count()
}

// Found submits a word with its trajectory for the player. It returns true
// when the server should acknowledge with MVALIDE (immediate-check mode
// only).
func (g *Game) Found(user, word, trajectory string) (bool, error) {
	g.dictMu.RLock()
	known := g.dict.Contains(strings.ToLower(word))
	g.dictMu.RUnlock()
	if !known {
		return false, errs.NewNonExistingWord(word)
	}

	g.boardMu.Lock()
	defer g.boardMu.Unlock()
	return g.board.SubmitWord(user, word, trajectory)
}

// NewTurn advances the board to the next grid, announces it to every player
// and opens the welcome gate for pending logins.
func (g *Game) NewTurn() {
	g.boardMu.Lock()
	g.board.NewTurn()
	g.boardMu.Unlock()

	g.boardMu.RLock()
	grid := g.board.GridString()
	g.boardMu.RUnlock()

	g.playersMu.Lock()
	g.players.Broadcast(protocol.Tour(grid))
	g.playersMu.Unlock()

	g.gate.open()
}

// EndTurn closes the welcome gate and broadcasts the end-of-turn frames:
// RFIN followed by the bilan.
func (g *Game) EndTurn() {
	g.gate.close()

	g.boardMu.Lock()
	bilan := g.board.TurnScoresString()
	g.boardMu.Unlock()

	g.playersMu.Lock()
	g.players.Broadcast(protocol.RFin())
	g.players.Broadcast(bilan)
	g.playersMu.Unlock()
}

// StartSession announces a new session.
func (g *Game) StartSession() {
	g.playersMu.Lock()
	g.players.Broadcast(protocol.Session())
	g.playersMu.Unlock()
}

// EndSession broadcasts the final scores, then resets the board so clients
// see the standings before they are wiped.
func (g *Game) EndSession() {
	g.boardMu.Lock()
	scores := g.board.ScoresString()
	g.boardMu.Unlock()

	g.playersMu.Lock()
	g.players.Broadcast(protocol.Vainqueur(scores))
	g.playersMu.Unlock()

	g.boardMu.Lock()
	g.board.Reset()
	g.boardMu.Unlock()
}

// Chat sends a private message.
func (g *Game) Chat(sender, receiver, message string) error {
	g.playersMu.Lock()
	defer g.playersMu.Unlock()
	return g.players.Chat(sender, receiver, message)
}

// ChatAll broadcasts a chat message to every player.
func (g *Game) ChatAll(message string) {
	g.playersMu.Lock()
	g.players.Broadcast(protocol.Reception(message))
	g.playersMu.Unlock()
}

// GridString returns the letters currently in play.
func (g *Game) GridString() string {
	g.boardMu.RLock()
	defer g.boardMu.RUnlock()
	return g.board.GridString()
}

// turnGate blocks logins between turns. NewTurn opens it, EndTurn closes
// it; waiters also give up when their context is cancelled.
type turnGate struct {
	mu      sync.Mutex
	running bool
	opened  chan struct{}
}

func (t *turnGate) init() {
	t.opened = make(chan struct{})
}

func (t *turnGate) open() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		t.running = true
		close(t.opened)
	}
}

func (t *turnGate) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.running = false
		t.opened = make(chan struct{})
	}
}

func (t *turnGate) wait(ctx context.Context) error {
	t.mu.Lock()
	ch := t.opened
	running := t.running
	t.mu.Unlock()
	if running {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
