package services

import (
	"encoding/json"
	"time"

	"github.com/bellapacxx/ludo-backend/models"
	"github.com/bellapacxx/ludo-backend/utils/logger"
)

// Envelope is the wire frame in both directions:
// {"event": "...", "data": {...}}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// -------------------- Inbound payloads --------------------

type createRoomPayload struct {
	PlayerName string `json:"playerName"`
	IsPrivate  bool   `json:"isPrivate"`
}

type joinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type findMatchPayload struct {
	PlayerName string `json:"playerName"`
}

type playerReadyPayload struct {
	RoomCode string `json:"roomCode"`
	IsReady  bool   `json:"isReady"`
}

type roomCodePayload struct {
	RoomCode string `json:"roomCode"`
}

// Gameplay payloads are relayed verbatim; the raw fields are never
// inspected beyond a presence check.
type rollDicePayload struct {
	RoomCode string          `json:"roomCode"`
	DiceNo   json.RawMessage `json:"diceNo"`
}

type movePiecePayload struct {
	RoomCode    string          `json:"roomCode"`
	PlayerNo    json.RawMessage `json:"playerNo"`
	PieceID     json.RawMessage `json:"pieceId"`
	Pos         json.RawMessage `json:"pos"`
	TravelCount json.RawMessage `json:"travelCount"`
}

type changeTurnPayload struct {
	RoomCode     string          `json:"roomCode"`
	ChancePlayer json.RawMessage `json:"chancePlayer"`
}

type declareWinnerPayload struct {
	RoomCode string          `json:"roomCode"`
	Winner   json.RawMessage `json:"winner"`
}

// Message is a pointer so a present-but-empty chat line is relayed
// while a missing field is rejected as malformed.
type chatPayload struct {
	RoomCode string  `json:"roomCode"`
	Message  *string `json:"message"`
}

// -------------------- Outbound payloads --------------------

type roomCreatedEvent struct {
	RoomCode     string           `json:"roomCode"`
	PlayerNumber int              `json:"playerNumber"`
	Players      []*models.Player `json:"players"`
}

type roomJoinedEvent struct {
	RoomCode     string           `json:"roomCode"`
	PlayerNumber int              `json:"playerNumber"`
	Players      []*models.Player `json:"players"`
}

type playerJoinedEvent struct {
	Players    []*models.Player `json:"players"`
	PlayerName string           `json:"playerName"`
}

type playerReadyEvent struct {
	PlayerID string `json:"playerId"`
	IsReady  bool   `json:"isReady"`
}

type diceRolledEvent struct {
	DiceNo json.RawMessage `json:"diceNo"`
}

type pieceMoveEvent struct {
	PlayerNo    json.RawMessage `json:"playerNo"`
	PieceID     json.RawMessage `json:"pieceId"`
	Pos         json.RawMessage `json:"pos"`
	TravelCount json.RawMessage `json:"travelCount"`
}

type turnChangedEvent struct {
	ChancePlayer json.RawMessage `json:"chancePlayer"`
}

type gameWinnerEvent struct {
	Winner json.RawMessage `json:"winner"`
}

type chatMessageEvent struct {
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

type playerLeftEvent struct {
	Players    []*models.Player `json:"players"`
	PlayerName string           `json:"playerName"`
}

// Router translates inbound client events into room store operations
// and outbound broadcasts. It is stateless: all state lives in the
// store, all delivery goes through the hub.
type Router struct {
	store *RoomStore
	hub   *Hub
}

func NewRouter(store *RoomStore, hub *Hub) *Router {
	return &Router{store: store, hub: hub}
}

// HandleMessage dispatches one inbound frame. Malformed frames and
// unknown events are dropped without a reply so older clients never
// crash a session by sending something this server does not know.
func (r *Router) HandleMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Debugf("[Client %s] invalid frame: %v", c.id, err)
		return
	}

	switch env.Event {
	case "createRoom":
		r.handleCreateRoom(c, env.Data)
	case "joinRoom":
		r.handleJoinRoom(c, env.Data)
	case "findRandomMatch":
		r.handleFindRandomMatch(c, env.Data)
	case "playerReady":
		r.handlePlayerReady(c, env.Data)
	case "startGame":
		r.handleStartGame(c, env.Data)
	case "rollDice":
		r.handleRollDice(c, env.Data)
	case "movePiece":
		r.handleMovePiece(c, env.Data)
	case "changeTurn":
		r.handleChangeTurn(c, env.Data)
	case "declareWinner":
		r.handleDeclareWinner(c, env.Data)
	case "sendChatMessage":
		r.handleChatMessage(c, env.Data)
	case "leaveRoom":
		r.handleLeaveRoom(c, env.Data)
	default:
		logger.Debugf("[Client %s] unknown event: %s", c.id, env.Event)
	}
}

// HandleDisconnect cleans up after a closed connection: unregister from
// the hub, then remove the player from whichever room the registry says
// they were in.
func (r *Router) HandleDisconnect(c *Client) {
	r.hub.unregister(c)

	removed, room, ok := r.store.DropConnection(c.id)
	if !ok {
		return
	}
	if room == nil {
		// Room was deleted with the last player, nothing left to notify.
		return
	}
	r.hub.sendToRoom(room, "", event("playerLeft", playerLeftEvent{
		Players:    room.Players,
		PlayerName: removed.Name,
	}))
}

// -------------------- Lobby events --------------------

func (r *Router) handleCreateRoom(c *Client, data json.RawMessage) {
	var p createRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.PlayerName == "" {
		logger.Debugf("[Client %s] invalid createRoom payload", c.id)
		return
	}

	room := r.store.CreateRoom(c.id, p.PlayerName, p.IsPrivate)
	r.hub.sendTo(c.id, event("roomCreated", roomCreatedEvent{
		RoomCode:     room.Code,
		PlayerNumber: 1,
		Players:      room.Players,
	}))
}

func (r *Router) handleJoinRoom(c *Client, data json.RawMessage) {
	var p joinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" || p.PlayerName == "" {
		logger.Debugf("[Client %s] invalid joinRoom payload", c.id)
		return
	}

	room, number, err := r.store.JoinRoom(p.RoomCode, c.id, p.PlayerName)
	if err != nil {
		r.hub.sendTo(c.id, errorEvent(err))
		return
	}

	r.hub.sendTo(c.id, event("roomJoined", roomJoinedEvent{
		RoomCode:     room.Code,
		PlayerNumber: number,
		Players:      room.Players,
	}))
	r.hub.sendToRoom(room, c.id, event("playerJoined", playerJoinedEvent{
		Players:    room.Players,
		PlayerName: p.PlayerName,
	}))
}

func (r *Router) handleFindRandomMatch(c *Client, data json.RawMessage) {
	var p findMatchPayload
	if err := json.Unmarshal(data, &p); err != nil || p.PlayerName == "" {
		logger.Debugf("[Client %s] invalid findRandomMatch payload", c.id)
		return
	}

	result := r.store.FindRandomMatch(c.id, p.PlayerName)
	if result.Created {
		r.hub.sendTo(c.id, event("roomCreated", roomCreatedEvent{
			RoomCode:     result.Room.Code,
			PlayerNumber: result.PlayerNumber,
			Players:      result.Room.Players,
		}))
		return
	}

	r.hub.sendTo(c.id, event("roomJoined", roomJoinedEvent{
		RoomCode:     result.Room.Code,
		PlayerNumber: result.PlayerNumber,
		Players:      result.Room.Players,
	}))
	// Only the waiting host is told about the arrival.
	r.hub.sendTo(result.PrevHost, event("playerJoined", playerJoinedEvent{
		Players:    result.Room.Players,
		PlayerName: p.PlayerName,
	}))
}

func (r *Router) handlePlayerReady(c *Client, data json.RawMessage) {
	var p playerReadyPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" {
		logger.Debugf("[Client %s] invalid playerReady payload", c.id)
		return
	}

	room, ok := r.store.SetReady(p.RoomCode, c.id, p.IsReady)
	if !ok {
		return
	}
	r.hub.sendToRoom(room, "", event("playerReady", playerReadyEvent{
		PlayerID: c.id,
		IsReady:  p.IsReady,
	}))
}

func (r *Router) handleStartGame(c *Client, data json.RawMessage) {
	var p roomCodePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" {
		logger.Debugf("[Client %s] invalid startGame payload", c.id)
		return
	}

	room, err := r.store.StartGame(p.RoomCode, c.id)
	if err != nil {
		if err == ErrRoomNotFound {
			return
		}
		r.hub.sendTo(c.id, errorEvent(err))
		return
	}
	r.hub.sendToRoom(room, "", event("gameStarted", struct{}{}))
}

func (r *Router) handleLeaveRoom(c *Client, data json.RawMessage) {
	var p roomCodePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" {
		logger.Debugf("[Client %s] invalid leaveRoom payload", c.id)
		return
	}

	removed, room, ok := r.store.RemovePlayer(p.RoomCode, c.id)
	if !ok || room == nil {
		return
	}
	r.hub.sendToRoom(room, "", event("playerLeft", playerLeftEvent{
		Players:    room.Players,
		PlayerName: removed.Name,
	}))
}

// -------------------- Gameplay pass-through --------------------
//
// These events carry no server-side meaning: the payload is relayed
// verbatim to the sender's room without validating dice values, move
// legality or win conditions. Rule enforcement belongs to the clients.

func (r *Router) handleRollDice(c *Client, data json.RawMessage) {
	var p rollDicePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" || len(p.DiceNo) == 0 {
		return
	}
	room, ok := r.store.Room(p.RoomCode)
	if !ok {
		return
	}
	r.hub.sendToRoom(room, c.id, event("diceRolled", diceRolledEvent{DiceNo: p.DiceNo}))
}

func (r *Router) handleMovePiece(c *Client, data json.RawMessage) {
	var p movePiecePayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" ||
		len(p.PlayerNo) == 0 || len(p.PieceID) == 0 || len(p.Pos) == 0 || len(p.TravelCount) == 0 {
		return
	}
	room, ok := r.store.Room(p.RoomCode)
	if !ok {
		return
	}
	r.hub.sendToRoom(room, c.id, event("pieceMove", pieceMoveEvent{
		PlayerNo:    p.PlayerNo,
		PieceID:     p.PieceID,
		Pos:         p.Pos,
		TravelCount: p.TravelCount,
	}))
}

func (r *Router) handleChangeTurn(c *Client, data json.RawMessage) {
	var p changeTurnPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" || len(p.ChancePlayer) == 0 {
		return
	}
	room, ok := r.store.Room(p.RoomCode)
	if !ok {
		return
	}
	r.hub.sendToRoom(room, c.id, event("playerTurnChanged", turnChangedEvent{ChancePlayer: p.ChancePlayer}))
}

func (r *Router) handleDeclareWinner(c *Client, data json.RawMessage) {
	var p declareWinnerPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" || len(p.Winner) == 0 {
		return
	}
	room, ok := r.store.Room(p.RoomCode)
	if !ok {
		return
	}
	r.hub.sendToRoom(room, "", event("gameWinner", gameWinnerEvent{Winner: p.Winner}))
}

func (r *Router) handleChatMessage(c *Client, data json.RawMessage) {
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil || p.RoomCode == "" || p.Message == nil {
		return
	}
	room, ok := r.store.Room(p.RoomCode)
	if !ok {
		return
	}
	player := room.PlayerByID(c.id)
	if player == nil {
		return
	}
	r.hub.sendToRoom(room, "", event("chatMessage", chatMessageEvent{
		PlayerName: player.Name,
		Message:    *p.Message,
		Timestamp:  time.Now().UnixMilli(),
	}))
}

// -------------------- Encoding --------------------

func event(name string, data any) []byte {
	b, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{Event: name, Data: data})
	if err != nil {
		logger.Errorf("[Router] failed to encode %s event: %v", name, err)
		return nil
	}
	return b
}

// errorEvent maps a store error to its bare wire event.
func errorEvent(err error) []byte {
	switch err {
	case ErrRoomNotFound:
		return event("roomNotFound", struct{}{})
	case ErrRoomFull:
		return event("roomFull", struct{}{})
	case ErrGameAlreadyStarted:
		return event("gameAlreadyStarted", struct{}{})
	case ErrNotHost:
		return event("notHost", struct{}{})
	case ErrPlayersNotReady:
		return event("playersNotReady", struct{}{})
	default:
		return event("serverError", struct{}{})
	}
}
