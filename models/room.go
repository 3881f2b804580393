package models

// MaxPlayers is the room capacity for a Ludo session.
const MaxPlayers = 4

// Player is one connected participant in a room. The JSON field names
// are part of the client wire protocol.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlayerNumber int    `json:"playerNumber"`
	IsReady      bool   `json:"isReady"`
}

// Room groups up to four players sharing one game session. Players are
// kept in join order; the first remaining player inherits the host role
// when the host leaves.
type Room struct {
	Code        string    `json:"code"`
	Host        string    `json:"host"`
	Players     []*Player `json:"players"`
	GameStarted bool      `json:"gameStarted"`
	IsPrivate   bool      `json:"isPrivate"`
}

// PlayerByID returns the member with the given connection ID, or nil.
func (r *Room) PlayerByID(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy that is safe to read outside the store lock.
func (r *Room) Clone() *Room {
	players := make([]*Player, len(r.Players))
	for i, p := range r.Players {
		cp := *p
		players[i] = &cp
	}
	return &Room{
		Code:        r.Code,
		Host:        r.Host,
		Players:     players,
		GameStarted: r.GameStarted,
		IsPrivate:   r.IsPrivate,
	}
}

// RoomStatus is the read-only projection served by GET /status.
type RoomStatus struct {
	Code        string `json:"code"`
	Players     int    `json:"players"`
	GameStarted bool   `json:"gameStarted"`
}
