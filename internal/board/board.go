// Package board holds the mutable game substrate: the current grid, the
// words submitted this turn, duplicate tracking and per-player scores.
//
// A Board is not safe for concurrent use; the game façade serializes access
// behind its own lock.
package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bogglefr/bogglesrv/internal/errs"
	"github.com/bogglefr/bogglesrv/internal/grid"
)

// Board is the state of one running game.
type Board struct {
	grid   grid.Grid
	source grid.Source

	// immediate selects per-submission duplicate rejection. When off,
	// duplicates are collected in invalid and zeroed at turn end.
	immediate bool

	turn      uint64
	scores    map[string]uint32   // cumulative, excludes the running turn
	turnWords map[string][]string // words submitted this turn, per player
	played    map[string]struct{} // words submitted this turn, by anyone
	invalid   map[string]struct{} // duplicate words to exclude at turn end
}

// New creates a board on turn zero. The grid stays unset until the
// scheduler's first NewTurn draws it, so a fixed rotation starts on its
// first entry; no frame exposes the grid before a turn is running.
func New(source grid.Source, immediate bool) *Board {
	return &Board{
		source:    source,
		immediate: immediate,
		scores:    make(map[string]uint32),
		turnWords: make(map[string][]string),
		played:    make(map[string]struct{}),
		invalid:   make(map[string]struct{}),
	}
}

// ImmediateCheck reports whether duplicate words are rejected on submission.
func (b *Board) ImmediateCheck() bool { return b.immediate }

// Turn returns the current turn number.
func (b *Board) Turn() uint64 { return b.turn }

// GridString returns the 16 grid letters, row-major.
func (b *Board) GridString() string { return b.grid.String() }

// AddUser registers a player with a zero score. Re-adding resets the score.
func (b *Board) AddUser(name string) {
	b.scores[name] = 0
}

// RemoveUser drops the player's score and pending turn words, and
// recomputes the played set so it stays the union of the remaining players'
// words.
func (b *Board) RemoveUser(name string) {
	if _, ok := b.scores[name]; !ok {
		return
	}
	delete(b.scores, name)
	delete(b.turnWords, name)

	b.played = make(map[string]struct{})
	for _, words := range b.turnWords {
		for _, w := range words {
			b.played[w] = struct{}{}
		}
	}
}

// HasUser reports whether the player is registered on the board.
func (b *Board) HasUser(name string) bool {
	_, ok := b.scores[name]
	return ok
}

// SubmitWord validates the trajectory against the grid and the claimed word
// and records the submission. On success the returned flag tells the caller
// whether to acknowledge the word right away (immediate-check mode).
//
// In deferred mode a duplicate still returns AlreadyPlayed, but with
// Immediate unset: the word has been marked invalid for everyone at turn
// end and the submission is otherwise a no-op.
func (b *Board) SubmitWord(user, word, trajectory string) (bool, error) {
	t, err := grid.ParseTrajectory(trajectory)
	if err != nil {
		return false, err
	}

	word = strings.ToLower(word)
	if b.grid.WordOf(t) != word {
		return false, errs.NewNoMatch(trajectory, word)
	}

	if !b.HasUser(user) {
		return false, errs.NewNonExistingUser(user)
	}

	if _, dup := b.played[word]; dup {
		if !b.immediate {
			b.invalid[word] = struct{}{}
		}
		return false, errs.NewAlreadyPlayed(word, b.immediate)
	}

	b.turnWords[user] = append(b.turnWords[user], word)
	b.played[word] = struct{}{}
	return b.immediate, nil
}

// TurnScore is the player's score for the running turn, excluding words
// invalidated by duplicate submissions.
func (b *Board) TurnScore(user string) uint32 {
	var total uint32
	for _, w := range b.turnWords[user] {
		if _, bad := b.invalid[w]; bad {
			continue
		}
		total += grid.WordScore(w)
	}
	return total
}

// UserScore is the cumulative score including the running turn's
// contribution.
func (b *Board) UserScore(user string) uint32 {
	return b.scores[user] + b.TurnScore(user)
}

// NewTurn folds the running turn into the cumulative scores, draws the next
// grid and clears all per-turn state.
func (b *Board) NewTurn() {
	for user := range b.scores {
		b.scores[user] += b.TurnScore(user)
	}
	b.grid = b.source.Next()
	b.turnWords = make(map[string][]string)
	b.played = make(map[string]struct{})
	b.invalid = make(map[string]struct{})
	b.turn++
}

// Reset clears every score and per-turn structure, draws a fresh grid and
// restarts the turn counter at 1.
func (b *Board) Reset() {
	for user := range b.scores {
		b.scores[user] = 0
	}
	b.grid = b.source.Next()
	b.turnWords = make(map[string][]string)
	b.played = make(map[string]struct{})
	b.invalid = make(map[string]struct{})
	b.turn = 1
}

// users returns the registered player names in lexicographic order. The
// wire formats below depend on a stable order.
func (b *Board) users() []string {
	names := make([]string, 0, len(b.scores))
	for name := range b.scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScoresString renders "user*score" pairs joined by '*', scores including
// the running turn.
func (b *Board) ScoresString() string {
	var parts []string
	for _, user := range b.users() {
		parts = append(parts, fmt.Sprintf("%s*%d", user, b.UserScore(user)))
	}
	return strings.Join(parts, "*")
}

// WelcomeString is the BIENVENUE frame sent to a player who just logged in.
func (b *Board) WelcomeString() string {
	return fmt.Sprintf("BIENVENUE/%s/%d*%s/\n", b.GridString(), b.turn, b.ScoresString())
}

// TurnScoresString is the BILANMOTS frame broadcast at turn end: first each
// player's words, then the updated scores.
func (b *Board) TurnScoresString() string {
	var words, scores []string
	for _, user := range b.users() {
		if ws := b.turnWords[user]; len(ws) > 0 {
			words = append(words, user+"*"+strings.Join(ws, "*"))
		} else {
			words = append(words, user)
		}
		scores = append(scores, fmt.Sprintf("%s*%d", user, b.UserScore(user)))
	}
	return fmt.Sprintf("BILANMOTS/%s/%s/\n", strings.Join(words, "*"), strings.Join(scores, "*"))
}
