package grid

import "github.com/bogglefr/bogglesrv/internal/errs"

// Square is one cell of the grid. Row is the uppercase row letter 'A'-'D',
// Col the column number 1-4.
type Square struct {
	Row byte
	Col int
}

func (sq Square) index() int {
	return 4*int(sq.Row-'A') + (sq.Col - 1)
}

// Trajectory is an ordered path of squares, at least 3 long, where every
// step moves to one of the 8 neighbouring squares and no square is visited
// twice.
type Trajectory []Square

// minSquares is the shortest admissible path: words below 3 letters score
// nothing anyway.
const minSquares = 3

// ParseTrajectory parses a string of alternating row-letter/column-digit
// pairs ("C2B1A2…") and validates the path. Any malformation, out-of-range
// coordinate, non-adjacent step or revisited square yields BadTrajectory.
func ParseTrajectory(s string) (Trajectory, error) {
	if len(s)%2 != 0 || len(s) < 2*minSquares {
		return nil, errs.NewBadTrajectory(s)
	}

	t := make(Trajectory, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		sq, err := parseSquare(s[i], s[i+1])
		if err != nil {
			return nil, errs.NewBadTrajectory(s)
		}
		t = append(t, sq)
	}

	if !t.valid() {
		return nil, errs.NewBadTrajectory(s)
	}
	return t, nil
}

// String re-encodes the trajectory in its wire form.
func (t Trajectory) String() string {
	b := make([]byte, 0, 2*len(t))
	for _, sq := range t {
		b = append(b, sq.Row, byte('0'+sq.Col))
	}
	return string(b)
}

func parseSquare(row, col byte) (Square, error) {
	r := row
	if r >= 'a' && r <= 'd' {
		r -= 'a' - 'A'
	}
	c := int(col - '0')
	if r < 'A' || r > 'D' || c < 1 || c > 4 {
		return Square{}, errs.NewInvalidCoordinates(row, c)
	}
	return Square{Row: r, Col: c}, nil
}

func (t Trajectory) valid() bool {
	var seen [Size]bool
	for i, sq := range t {
		if seen[sq.index()] {
			return false
		}
		seen[sq.index()] = true
		if i > 0 && !adjacent(t[i-1], sq) {
			return false
		}
	}
	return true
}

// adjacent reports whether the two squares are distinct and 8-adjacent
// (Chebyshev distance exactly 1).
func adjacent(a, b Square) bool {
	dr := abs(int(a.Row) - int(b.Row))
	dc := abs(a.Col - b.Col)
	return dr+dc > 0 && dr <= 1 && dc <= 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// WordScore is the fixed word score table: 0 for words shorter than 3
// letters, 11 for 8 letters and more.
func WordScore(word string) uint32 {
	switch n := len(word); {
	case n <= 2:
		return 0
	case n <= 4:
		return 1
	case n == 5:
		return 2
	case n == 6:
		return 3
	case n == 7:
		return 5
	default:
		return 11
	}
}
