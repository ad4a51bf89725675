package players

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogglefr/bogglesrv/internal/errs"
	"github.com/bogglefr/bogglesrv/internal/testutil"
)

func TestLogin(t *testing.T) {
	r := NewRegistry()
	c1 := testutil.NewMockConn()
	c2 := testutil.NewMockConn()

	require.NoError(t, r.Login("user1", c1))
	assert.True(t, r.IsConnected("user1"))
	assert.Empty(t, c1.String(), "a lone newcomer gets no CONNECTE")

	require.NoError(t, r.Login("user2", c2))
	assert.Equal(t, "CONNECTE/user2/\n", c1.String(), "existing players are notified")
	assert.Empty(t, c2.String(), "newcomers do not see their own arrival")

	assert.ElementsMatch(t, []string{"user1", "user2"}, r.Users())
	assert.Equal(t, 2, r.Count())
}

func TestLogin_DuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Login("user1", testutil.NewMockConn()))

	err := r.Login("user1", testutil.NewMockConn())
	require.Error(t, err)
	assert.Equal(t, errs.ExistingUser, errs.KindOf(err))
}

func TestLogout(t *testing.T) {
	r := NewRegistry()
	c1 := testutil.NewMockConn()
	c2 := testutil.NewMockConn()
	require.NoError(t, r.Login("user1", c1))
	require.NoError(t, r.Login("user2", c2))
	c1.Reset()

	require.NoError(t, r.Logout("user2"))

	assert.False(t, r.IsConnected("user2"))
	assert.Equal(t, "DECONNEXION/user2/", c1.String())
	assert.Empty(t, c2.String(), "the leaver is not notified")
	assert.True(t, c2.ShutdownCalled(), "the leaver's connection is shut down")
	assert.False(t, c1.ShutdownCalled())
}

func TestLogout_Unknown(t *testing.T) {
	r := NewRegistry()
	err := r.Logout("ghost")
	require.Error(t, err)
	assert.Equal(t, errs.NonExistingUser, errs.KindOf(err))
}

func TestBroadcast_SurvivesWriteErrors(t *testing.T) {
	r := NewRegistry()
	bad := testutil.NewMockConn()
	bad.FailWrites = true
	good := testutil.NewMockConn()
	require.NoError(t, r.Login("bad", bad))
	require.NoError(t, r.Login("good", good))
	good.Reset()

	r.Broadcast("SESSION/\n")

	assert.Equal(t, "SESSION/\n", good.String())
	assert.True(t, r.IsConnected("bad"), "a failing write does not evict the player")
}

func TestChat(t *testing.T) {
	r := NewRegistry()
	c1 := testutil.NewMockConn()
	c2 := testutil.NewMockConn()
	require.NoError(t, r.Login("user1", c1))
	require.NoError(t, r.Login("user2", c2))
	c1.Reset()
	c2.Reset()

	require.NoError(t, r.Chat("user1", "user2", "salut"))

	assert.Equal(t, "PRECEPTION/salut/user1/\n", c2.String())
	assert.Empty(t, c1.String(), "private chat goes to the receiver only")
}

func TestChat_UnknownPeer(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Login("user1", testutil.NewMockConn()))

	tests := []struct {
		name             string
		sender, receiver string
	}{
		{name: "unknown receiver", sender: "user1", receiver: "ghost"},
		{name: "unknown sender", sender: "ghost", receiver: "user1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Chat(tt.sender, tt.receiver, "salut")
			require.Error(t, err)
			assert.Equal(t, errs.InvalidChat, errs.KindOf(err))
			assert.Equal(t, errs.NonExistingUser, errs.KindOf(errors.Unwrap(err)))
		})
	}
}
