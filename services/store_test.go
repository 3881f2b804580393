package services

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/ludo-backend/models"
)

var roomCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestCreateRoom(t *testing.T) {
	store := NewRoomStore()

	room := store.CreateRoom("conn-1", "Alice", true)
	require.NotNil(t, room)

	assert.Regexp(t, roomCodePattern, room.Code)
	assert.Equal(t, "conn-1", room.Host)
	assert.True(t, room.IsPrivate)
	assert.False(t, room.GameStarted)
	require.Len(t, room.Players, 1)
	assert.Equal(t, "Alice", room.Players[0].Name)
	assert.Equal(t, 1, room.Players[0].PlayerNumber)
	assert.False(t, room.Players[0].IsReady)

	code, ok := store.RoomOf("conn-1")
	require.True(t, ok)
	assert.Equal(t, room.Code, code)
}

func TestCreateRoom_UniqueCodes(t *testing.T) {
	store := NewRoomStore()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		room := store.CreateRoom(fmt.Sprintf("conn-%d", i), "Player", false)
		assert.Regexp(t, roomCodePattern, room.Code)
		assert.False(t, seen[room.Code], "room code %s repeated", room.Code)
		seen[room.Code] = true
	}
	assert.Equal(t, 200, store.RoomCount())
}

func TestJoinRoom_AssignsLowestUnusedNumber(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Alice", false)

	_, n2, err := store.JoinRoom(room.Code, "conn-2", "Bob")
	require.NoError(t, err)
	assert.Equal(t, 2, n2)

	_, n3, err := store.JoinRoom(room.Code, "conn-3", "Cara")
	require.NoError(t, err)
	assert.Equal(t, 3, n3)

	// Player 2 leaves; the freed number is reassigned before 4.
	_, _, ok := store.RemovePlayer(room.Code, "conn-2")
	require.True(t, ok)

	got, n, err := store.JoinRoom(room.Code, "conn-4", "Dave")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	numbers := make(map[int]bool)
	for _, p := range got.Players {
		assert.False(t, numbers[p.PlayerNumber], "duplicate player number %d", p.PlayerNumber)
		numbers[p.PlayerNumber] = true
	}
}

func TestJoinRoom_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(store *RoomStore) string // returns room code to join
		expected error
	}{
		{
			name: "unknown code",
			setup: func(store *RoomStore) string {
				return "NOSUCH"
			},
			expected: ErrRoomNotFound,
		},
		{
			name: "room full",
			setup: func(store *RoomStore) string {
				room := store.CreateRoom("host", "Host", false)
				for i := 2; i <= models.MaxPlayers; i++ {
					_, _, err := store.JoinRoom(room.Code, fmt.Sprintf("conn-%d", i), "Player")
					require.NoError(t, err)
				}
				return room.Code
			},
			expected: ErrRoomFull,
		},
		{
			name: "game already started",
			setup: func(store *RoomStore) string {
				room := store.CreateRoom("host", "Host", false)
				store.SetReady(room.Code, "host", true)
				_, err := store.StartGame(room.Code, "host")
				require.NoError(t, err)
				return room.Code
			},
			expected: ErrGameAlreadyStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewRoomStore()
			code := tt.setup(store)
			before := store.RoomCount()

			room, _, err := store.JoinRoom(code, "joiner", "Joiner")
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, room)

			// Failed joins change nothing.
			assert.Equal(t, before, store.RoomCount())
			_, tracked := store.RoomOf("joiner")
			assert.False(t, tracked)
			if existing, ok := store.Room(code); ok {
				assert.Nil(t, existing.PlayerByID("joiner"))
			}
		})
	}
}

func TestJoinRoom_FifthAttemptLeavesRoomUnchanged(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("host", "Host", false)
	for i := 2; i <= models.MaxPlayers; i++ {
		_, _, err := store.JoinRoom(room.Code, fmt.Sprintf("conn-%d", i), "Player")
		require.NoError(t, err)
	}

	_, _, err := store.JoinRoom(room.Code, "conn-5", "Eve")
	assert.ErrorIs(t, err, ErrRoomFull)

	got, ok := store.Room(room.Code)
	require.True(t, ok)
	assert.Len(t, got.Players, models.MaxPlayers)
}

func TestRemovePlayer(t *testing.T) {
	t.Run("last player deletes room", func(t *testing.T) {
		store := NewRoomStore()
		room := store.CreateRoom("conn-1", "Alice", false)

		removed, remaining, ok := store.RemovePlayer(room.Code, "conn-1")
		require.True(t, ok)
		assert.Equal(t, "Alice", removed.Name)
		assert.Nil(t, remaining)
		assert.Equal(t, 0, store.RoomCount())

		_, tracked := store.RoomOf("conn-1")
		assert.False(t, tracked)
	})

	t.Run("host departure promotes longest-tenured player", func(t *testing.T) {
		store := NewRoomStore()
		room := store.CreateRoom("conn-1", "Alice", false)
		_, _, err := store.JoinRoom(room.Code, "conn-2", "Bob")
		require.NoError(t, err)
		_, _, err = store.JoinRoom(room.Code, "conn-3", "Cara")
		require.NoError(t, err)

		removed, remaining, ok := store.RemovePlayer(room.Code, "conn-1")
		require.True(t, ok)
		assert.Equal(t, "Alice", removed.Name)
		require.NotNil(t, remaining)
		assert.Equal(t, "conn-2", remaining.Host)
		assert.Len(t, remaining.Players, 2)
		assert.Equal(t, 1, store.RoomCount())
	})

	t.Run("non-host departure keeps host", func(t *testing.T) {
		store := NewRoomStore()
		room := store.CreateRoom("conn-1", "Alice", false)
		_, _, err := store.JoinRoom(room.Code, "conn-2", "Bob")
		require.NoError(t, err)

		_, remaining, ok := store.RemovePlayer(room.Code, "conn-2")
		require.True(t, ok)
		require.NotNil(t, remaining)
		assert.Equal(t, "conn-1", remaining.Host)
	})

	t.Run("unknown room or player is a no-op", func(t *testing.T) {
		store := NewRoomStore()
		room := store.CreateRoom("conn-1", "Alice", false)

		_, _, ok := store.RemovePlayer("NOSUCH", "conn-1")
		assert.False(t, ok)
		_, _, ok = store.RemovePlayer(room.Code, "stranger")
		assert.False(t, ok)
		assert.Equal(t, 1, store.RoomCount())
	})
}

func TestDropConnection(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Alice", false)
	_, _, err := store.JoinRoom(room.Code, "conn-2", "Bob")
	require.NoError(t, err)

	removed, remaining, ok := store.DropConnection("conn-2")
	require.True(t, ok)
	assert.Equal(t, "Bob", removed.Name)
	require.NotNil(t, remaining)
	assert.Len(t, remaining.Players, 1)

	// Untracked connections resolve to nothing.
	_, _, ok = store.DropConnection("stranger")
	assert.False(t, ok)
}

func TestStartGame(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(store *RoomStore) (code, caller string)
		expected error
	}{
		{
			name: "non-host cannot start",
			setup: func(store *RoomStore) (string, string) {
				room := store.CreateRoom("host", "Host", false)
				_, _, err := store.JoinRoom(room.Code, "guest", "Guest")
				require.NoError(t, err)
				store.SetReady(room.Code, "host", true)
				store.SetReady(room.Code, "guest", true)
				return room.Code, "guest"
			},
			expected: ErrNotHost,
		},
		{
			name: "unready player blocks start",
			setup: func(store *RoomStore) (string, string) {
				room := store.CreateRoom("host", "Host", false)
				_, _, err := store.JoinRoom(room.Code, "guest", "Guest")
				require.NoError(t, err)
				store.SetReady(room.Code, "host", true)
				return room.Code, "host"
			},
			expected: ErrPlayersNotReady,
		},
		{
			name: "host starts once everyone is ready",
			setup: func(store *RoomStore) (string, string) {
				room := store.CreateRoom("host", "Host", false)
				_, _, err := store.JoinRoom(room.Code, "guest", "Guest")
				require.NoError(t, err)
				store.SetReady(room.Code, "host", true)
				store.SetReady(room.Code, "guest", true)
				return room.Code, "host"
			},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewRoomStore()
			code, caller := tt.setup(store)

			room, err := store.StartGame(code, caller)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				got, ok := store.Room(code)
				require.True(t, ok)
				assert.False(t, got.GameStarted)
				return
			}

			require.NoError(t, err)
			assert.True(t, room.GameStarted)
		})
	}
}

func TestSetReady(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Alice", false)

	got, ok := store.SetReady(room.Code, "conn-1", true)
	require.True(t, ok)
	assert.True(t, got.Players[0].IsReady)

	// Same value again is accepted and reported the same way.
	got, ok = store.SetReady(room.Code, "conn-1", true)
	require.True(t, ok)
	assert.True(t, got.Players[0].IsReady)

	got, ok = store.SetReady(room.Code, "conn-1", false)
	require.True(t, ok)
	assert.False(t, got.Players[0].IsReady)

	_, ok = store.SetReady("NOSUCH", "conn-1", true)
	assert.False(t, ok)
	_, ok = store.SetReady(room.Code, "stranger", true)
	assert.False(t, ok)
}

func TestSnapshot(t *testing.T) {
	store := NewRoomStore()
	assert.Empty(t, store.Snapshot())

	roomA := store.CreateRoom("conn-1", "Alice", false)
	roomB := store.CreateRoom("conn-2", "Bob", true)
	_, _, err := store.JoinRoom(roomA.Code, "conn-3", "Cara")
	require.NoError(t, err)
	store.SetReady(roomB.Code, "conn-2", true)
	_, err = store.StartGame(roomB.Code, "conn-2")
	require.NoError(t, err)

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 2)

	byCode := make(map[string]models.RoomStatus)
	for _, s := range snapshot {
		byCode[s.Code] = s
	}
	assert.Equal(t, 2, byCode[roomA.Code].Players)
	assert.False(t, byCode[roomA.Code].GameStarted)
	assert.Equal(t, 1, byCode[roomB.Code].Players)
	assert.True(t, byCode[roomB.Code].GameStarted)
}

func TestCloneIsolation(t *testing.T) {
	store := NewRoomStore()
	room := store.CreateRoom("conn-1", "Alice", false)

	// Mutating a returned copy must not leak into the store.
	room.Players[0].IsReady = true
	room.Host = "someone-else"

	got, ok := store.Room(room.Code)
	require.True(t, ok)
	assert.False(t, got.Players[0].IsReady)
	assert.Equal(t, "conn-1", got.Host)
}
