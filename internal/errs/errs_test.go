package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, ExistingUser, KindOf(NewExistingUser("albert")))
	assert.Equal(t, BadTrajectory, KindOf(NewBadTrajectory("A1B5")))

	// Wrapped errors still expose their kind.
	wrapped := fmt.Errorf("handling request: %w", NewNonExistingWord("zzz"))
	assert.Equal(t, NonExistingWord, KindOf(wrapped))

	assert.Equal(t, Kind(-1), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(-1), KindOf(nil))
}

func TestAlreadyPlayed_Modes(t *testing.T) {
	hard := NewAlreadyPlayed("trident", true)
	assert.True(t, hard.Immediate)
	assert.Equal(t, "Le mot trident a déjà ete joué.", hard.Error())

	soft := NewAlreadyPlayed("trident", false)
	assert.False(t, soft.Immediate)
	assert.Equal(t, "PRI: le mot trident a déjà été joué !", soft.Error())
}

func TestInvalidChat_WrapsCause(t *testing.T) {
	cause := NewNonExistingUser("ghost")
	err := NewInvalidChat("albert", "ghost", "salut", cause)

	assert.Equal(t, InvalidChat, KindOf(err))
	require.ErrorIs(t, err, cause)
	assert.Equal(t, NonExistingUser, KindOf(errors.Unwrap(err)))
}
