package services

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/bellapacxx/ludo-backend/models"
	"github.com/bellapacxx/ludo-backend/utils/logger"
)

// Room store errors, surfaced to the triggering connection only.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room full")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNotHost            = errors.New("not host")
	ErrPlayersNotReady    = errors.New("players not ready")
)

const roomCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomStore owns all room and player state. Every operation runs inside
// a single critical section so concurrent connection goroutines observe
// the same atomicity a single-threaded event loop would give.
//
// memberships is the connection registry: it resolves a connection to
// its room in O(1) on disconnect instead of scanning every room.
type RoomStore struct {
	mu          sync.RWMutex
	rooms       map[string]*models.Room
	memberships map[string]string // connection ID -> room code
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms:       make(map[string]*models.Room),
		memberships: make(map[string]string),
	}
}

// CreateRoom creates a room with the caller as sole player and host.
// The returned room is a copy.
func (s *RoomStore) CreateRoom(connID, name string, isPrivate bool) *models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := &models.Room{
		Code: s.generateRoomCode(),
		Host: connID,
		Players: []*models.Player{{
			ID:           connID,
			Name:         name,
			PlayerNumber: 1,
			IsReady:      false,
		}},
		IsPrivate: isPrivate,
	}

	s.rooms[room.Code] = room
	s.memberships[connID] = room.Code

	logger.Infof("[Room %s] created by %s (private=%v)", room.Code, name, isPrivate)
	return room.Clone()
}

// JoinRoom adds a player to an existing room, assigning the lowest
// unused player number. Returns a copy of the room and the number.
func (s *RoomStore) JoinRoom(code, connID, name string) (*models.Room, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, 0, ErrRoomNotFound
	}
	if len(room.Players) >= models.MaxPlayers {
		return nil, 0, ErrRoomFull
	}
	if room.GameStarted {
		return nil, 0, ErrGameAlreadyStarted
	}

	number := availablePlayerNumber(room)
	room.Players = append(room.Players, &models.Player{
		ID:           connID,
		Name:         name,
		PlayerNumber: number,
		IsReady:      false,
	})
	s.memberships[connID] = code

	logger.Infof("[Room %s] %s joined as player %d (%d/%d)", code, name, number, len(room.Players), models.MaxPlayers)
	return room.Clone(), number, nil
}

// SetReady updates a player's ready flag. Unknown room or player is a
// no-op; ok reports whether the broadcast should go out.
func (s *RoomStore) SetReady(code, connID string, isReady bool) (*models.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	player := room.PlayerByID(connID)
	if player == nil {
		return nil, false
	}

	player.IsReady = isReady
	return room.Clone(), true
}

// StartGame flips the started flag. Only the host may start, and only
// once every player is ready.
func (s *RoomStore) StartGame(code, connID string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.Host != connID {
		return nil, ErrNotHost
	}
	for _, p := range room.Players {
		if !p.IsReady {
			return nil, ErrPlayersNotReady
		}
	}

	room.GameStarted = true
	logger.Infof("[Room %s] game started with %d players", code, len(room.Players))
	return room.Clone(), nil
}

// RemovePlayer removes the connection from the named room. An empty
// room is deleted on the spot; otherwise a departing host hands the
// role to the longest-tenured remaining player. The returned room copy
// is nil when the room was deleted.
func (s *RoomStore) RemovePlayer(code, connID string) (*models.Player, *models.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(code, connID)
}

// DropConnection resolves the connection's room through the registry
// and removes it. No-op for connections without a membership.
func (s *RoomStore) DropConnection(connID string) (*models.Player, *models.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.memberships[connID]
	if !ok {
		return nil, nil, false
	}
	return s.removeLocked(code, connID)
}

func (s *RoomStore) removeLocked(code, connID string) (*models.Player, *models.Room, bool) {
	room, ok := s.rooms[code]
	if !ok {
		return nil, nil, false
	}

	idx := -1
	for i, p := range room.Players {
		if p.ID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil, false
	}

	removed := room.Players[idx]
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
	delete(s.memberships, connID)

	if len(room.Players) == 0 {
		delete(s.rooms, code)
		logger.Infof("[Room %s] deleted (empty)", code)
		return removed, nil, true
	}

	if room.Host == connID {
		room.Host = room.Players[0].ID
		logger.Infof("[Room %s] host left, %s is the new host", code, room.Players[0].Name)
	}

	logger.Infof("[Room %s] %s left (%d remaining)", code, removed.Name, len(room.Players))
	return removed, room.Clone(), true
}

// Room returns a copy of the named room.
func (s *RoomStore) Room(code string) (*models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	return room.Clone(), true
}

// RoomOf reports which room the connection currently belongs to.
func (s *RoomStore) RoomOf(connID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code, ok := s.memberships[connID]
	return code, ok
}

// RoomCount returns the number of active rooms.
func (s *RoomStore) RoomCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Snapshot exports the read-only view served by the status endpoint.
func (s *RoomStore) Snapshot() []models.RoomStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]models.RoomStatus, 0, len(s.rooms))
	for _, room := range s.rooms {
		statuses = append(statuses, models.RoomStatus{
			Code:        room.Code,
			Players:     len(room.Players),
			GameStarted: room.GameStarted,
		})
	}
	return statuses
}

// generateRoomCode returns a 6-character uppercase alphanumeric code
// unused by any live room. Caller must hold the lock.
func (s *RoomStore) generateRoomCode() string {
	for {
		b := make([]byte, 6)
		for i := range b {
			b[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
		}
		code := string(b)
		if _, taken := s.rooms[code]; !taken {
			return code
		}
	}
}

// availablePlayerNumber returns the lowest number in 1..4 not held by a
// current member.
func availablePlayerNumber(room *models.Room) int {
	taken := make(map[int]bool, len(room.Players))
	for _, p := range room.Players {
		taken[p.PlayerNumber] = true
	}
	for n := 1; n <= models.MaxPlayers; n++ {
		if !taken[n] {
			return n
		}
	}
	return 0
}
