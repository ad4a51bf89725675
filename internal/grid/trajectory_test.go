package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogglefr/bogglesrv/internal/errs"
)

func TestParseTrajectory(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
		want    []Square
	}{
		{
			name: "seven squares",
			in:   "C2B1A2A3B2C3D2",
			want: []Square{
				{'C', 2}, {'B', 1}, {'A', 2}, {'A', 3}, {'B', 2}, {'C', 3}, {'D', 2},
			},
		},
		{
			name: "lowercase rows are normalized",
			in:   "c2b1a2",
			want: []Square{{'C', 2}, {'B', 1}, {'A', 2}},
		},
		{name: "minimum is three squares", in: "A1A2", wantErr: true},
		{name: "odd length", in: "A1A2B", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "row out of range", in: "E1A1A2", wantErr: true},
		{name: "column zero", in: "A0A1A2", wantErr: true},
		{name: "column five", in: "A5A4A3", wantErr: true},
		{name: "non digit column", in: "AXA1A2", wantErr: true},
		{name: "repeated square", in: "A1A2A1", wantErr: true},
		{name: "same square twice in a row", in: "A1A1A2", wantErr: true},
		{name: "knight jump", in: "A1C2C3", wantErr: true},
		{name: "two squares apart on a row", in: "A1A3A4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTrajectory(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errs.BadTrajectory, errs.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Trajectory(tt.want), got)
		})
	}
}

func TestTrajectory_String_RoundTrip(t *testing.T) {
	for _, in := range []string{"C2B1A2A3B2C3D2", "A1B2C3D4", "d4c3b2"} {
		tr, err := ParseTrajectory(in)
		require.NoError(t, err)

		again, err := ParseTrajectory(tr.String())
		require.NoError(t, err)
		assert.Equal(t, tr, again, "round trip of %q", in)
	}
}

func TestAdjacent(t *testing.T) {
	tests := []struct {
		name string
		a, b Square
		want bool
	}{
		{name: "diagonal", a: Square{'B', 2}, b: Square{'A', 1}, want: true},
		{name: "vertical", a: Square{'B', 2}, b: Square{'A', 2}, want: true},
		{name: "horizontal", a: Square{'B', 2}, b: Square{'B', 3}, want: true},
		{name: "identical", a: Square{'B', 2}, b: Square{'B', 2}, want: false},
		{name: "two rows apart", a: Square{'A', 1}, b: Square{'C', 1}, want: false},
		{name: "two columns apart", a: Square{'A', 1}, b: Square{'A', 3}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adjacent(tt.a, tt.b))
		})
	}
}

func TestWordScore(t *testing.T) {
	tests := []struct {
		word string
		want uint32
	}{
		{"", 0},
		{"le", 0},
		{"ile", 1},
		{"iles", 1},
		{"lilas", 2},
		{"lilast", 3},
		{"trident", 5},
		{"tridents", 11},
		{"anticonstitutionnellement", 11},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, WordScore(tt.word))
		})
	}
}
