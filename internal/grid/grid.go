// Package grid implements the 4x4 letter grid: dice-based random generation,
// fixed cyclic grids, trajectory parsing and word scoring.
//
// Squares are addressed by a row letter A-D and a column digit 1-4. The grid
// itself is stored row-major as 16 uppercase ASCII letters.
package grid

import (
	"math/rand"
	"strings"

	"github.com/bogglefr/bogglesrv/internal/errs"
)

// Size is the number of squares on the board.
const Size = 16

// Dices are the 16 six-faced letter dice of the French edition. Die i is
// rolled for square i when generating a random grid.
var Dices = [Size][6]byte{
	{'E', 'T', 'U', 'K', 'N', 'O'},
	{'E', 'V', 'G', 'T', 'I', 'N'},
	{'D', 'E', 'C', 'A', 'M', 'P'},
	{'I', 'E', 'L', 'R', 'U', 'W'},
	{'E', 'H', 'I', 'F', 'S', 'E'},
	{'R', 'E', 'C', 'A', 'L', 'S'},
	{'E', 'N', 'T', 'D', 'O', 'S'},
	{'O', 'F', 'X', 'R', 'I', 'A'},
	{'N', 'A', 'V', 'E', 'D', 'Z'},
	{'E', 'I', 'O', 'A', 'T', 'A'},
	{'G', 'L', 'E', 'N', 'Y', 'U'},
	{'B', 'M', 'A', 'Q', 'J', 'O'},
	{'T', 'L', 'I', 'B', 'R', 'A'},
	{'S', 'P', 'U', 'L', 'T', 'E'},
	{'A', 'I', 'M', 'S', 'O', 'R'},
	{'E', 'N', 'H', 'R', 'I', 'S'},
}

// Grid is a 4x4 letter board, row-major, rows A-D top to bottom.
type Grid [Size]byte

// Generate rolls each of the 16 dice once and returns the resulting grid.
func Generate() Grid {
	var g Grid
	for i, dice := range Dices {
		g[i] = dice[rand.Intn(len(dice))]
	}
	return g
}

// Parse builds a grid from a 16-letter string. Letters are uppercased.
func Parse(s string) (Grid, error) {
	var g Grid
	if len(s) != Size {
		return g, errs.NewBadRequest(s)
	}
	for i := 0; i < Size; i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return g, errs.NewBadRequest(s)
		}
		g[i] = c
	}
	return g, nil
}

// String returns the 16 letters row-major.
func (g Grid) String() string {
	return string(g[:])
}

// At returns the letter at the given square.
func (g Grid) At(sq Square) byte {
	return g[sq.index()]
}

// WordOf reads the grid letters along t and lowercases the result. This is
// the word the trajectory asserts.
func (g Grid) WordOf(t Trajectory) string {
	var b strings.Builder
	b.Grow(len(t))
	for _, sq := range t {
		b.WriteByte(g.At(sq))
	}
	return strings.ToLower(b.String())
}

// Source produces grids for the board, one per turn.
type Source interface {
	Next() Grid
}

// RandomSource rolls the dice for every turn.
type RandomSource struct{}

func (RandomSource) Next() Grid { return Generate() }

// CyclicSource replays a fixed list of grids, front to back, wrapping
// around. It makes turn sequences deterministic and repeatable.
type CyclicSource struct {
	grids []Grid
	next  int
}

// NewCyclicSource parses the supplied grid strings. At least one grid is
// required.
func NewCyclicSource(specs []string) (*CyclicSource, error) {
	if len(specs) == 0 {
		return nil, errs.NewBadRequest("grilles")
	}
	grids := make([]Grid, len(specs))
	for i, s := range specs {
		g, err := Parse(s)
		if err != nil {
			return nil, err
		}
		grids[i] = g
	}
	return &CyclicSource{grids: grids}, nil
}

// Next dequeues the next grid and requeues it at the back.
func (s *CyclicSource) Next() Grid {
	g := s.grids[s.next]
	s.next = (s.next + 1) % len(s.grids)
	return g
}
