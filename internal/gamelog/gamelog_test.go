package gamelog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_NeverBlocks(t *testing.T) {
	l := New(2)

	// No consumer running: the third event overflows the buffer.
	l.Record(Login("user1"))
	l.Record(Accepted("user1", "trident"))
	l.Record(TurnEnded())

	assert.EqualValues(t, 1, l.Dropped())
}

func TestRun_ConsumesAndDrains(t *testing.T) {
	l := New(8)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	l.Record(Login("user1"))
	l.Record(Rejected("user1", "zzz", errors.New("inconnu")))
	l.Record(Logout("user1"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop on cancellation")
	}

	assert.EqualValues(t, 0, l.Dropped())
}

func TestEventConstructors(t *testing.T) {
	e := Rejected("user1", "zzz", errors.New("inconnu"))
	assert.Equal(t, EventRejected, e.Kind)
	assert.Equal(t, "user1", e.User)
	assert.Equal(t, "zzz", e.Word)
	require.Error(t, e.Err)

	assert.Equal(t, EventTurnStarted, TurnStarted("LIDAREJULTNEATNG").Kind)
	assert.Equal(t, "LIDAREJULTNEATNG", TurnStarted("LIDAREJULTNEATNG").Grid)
	assert.Equal(t, EventSessionEnded, SessionEnded().Kind)
}
