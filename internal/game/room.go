package game

import (
	"sync"
	"time"
)

// Conn is the server-to-client half of one live connection. Sends are
// fire-and-forget; implementations must be safe for concurrent use.
type Conn interface {
	Send(msg Message)
}

// Message is the envelope for every server-to-client event.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Server-to-client event types.
const (
	EventRoomState    = "room_state_update"
	EventRoomError    = "room_error"
	EventChat         = "chat_message"
	EventYouAreDrawer = "you_are_drawer"
	EventDrawBatch    = "draw_batch"
	EventClearCanvas  = "clear_canvas"
	EventUndo         = "undo_action"
	EventReaction     = "reaction"
)

// Status is the lifecycle phase of a room.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusRoundEnd Status = "round_end"
)

// Intent distinguishes creating a room from joining an existing one.
type Intent string

const (
	IntentCreate Intent = "create"
	IntentJoin   Intent = "join"
)

// Player is one connected participant of a room.
type Player struct {
	ID         string
	Username   string
	Avatar     string
	Score      int
	HasGuessed bool

	conn Conn
}

// Room is one game session. All fields are guarded by mu; every mutation
// happens with the lock held; timer callbacks re-validate TurnEpoch and
// Status before touching anything.
type Room struct {
	mu sync.Mutex

	Code          string
	Players       []*Player // join order
	Status        Status
	SecretWord    string
	CurrentDrawer string
	TurnEndTime   time.Time
	TurnDuration  time.Duration
	TurnEpoch     uint64
	CurrentRound  int
	TotalRounds   int

	drawerQueue []string
}

func newRoom(code string, turnDuration time.Duration) *Room {
	return &Room{
		Code:         code,
		Status:       StatusWaiting,
		TurnDuration: turnDuration,
	}
}

// player returns the member with the given connection id, or nil.
// Caller holds the room lock.
func (r *Room) player(connID string) *Player {
	for _, p := range r.Players {
		if p.ID == connID {
			return p
		}
	}
	return nil
}

// removePlayer drops the member with the given connection id and returns
// it, or nil if it was not a member. Caller holds the room lock.
func (r *Room) removePlayer(connID string) *Player {
	for i, p := range r.Players {
		if p.ID == connID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return p
		}
	}
	return nil
}

// allNonDrawersGuessed reports whether every player except the current
// drawer has guessed the word. Caller holds the room lock.
func (r *Room) allNonDrawersGuessed() bool {
	for _, p := range r.Players {
		if p.ID != r.CurrentDrawer && !p.HasGuessed {
			return false
		}
	}
	return true
}

// PlayerState is the client-facing view of a Player.
type PlayerState struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	Score      int    `json:"score"`
	HasGuessed bool   `json:"hasGuessed"`
}

// RoomState is the client-facing snapshot of a Room. The secret word is
// deliberately absent so a snapshot can never leak the answer.
type RoomState struct {
	ID            string        `json:"id"`
	Players       []PlayerState `json:"players"`
	Status        Status        `json:"status"`
	CurrentDrawer string        `json:"currentDrawer"`
	RoundEndTime  int64         `json:"roundEndTime"` // unix ms, 0 outside a turn
	RoundTime     int64         `json:"roundTime"`    // ms
	CurrentRound  int           `json:"currentRound"`
	TotalRounds   int           `json:"totalRounds"`
}

// snapshot builds the broadcastable view of the room. Caller holds the
// room lock.
func (r *Room) snapshot() RoomState {
	players := make([]PlayerState, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, PlayerState{
			ID:         p.ID,
			Username:   p.Username,
			Avatar:     p.Avatar,
			Score:      p.Score,
			HasGuessed: p.HasGuessed,
		})
	}

	var endTime int64
	if !r.TurnEndTime.IsZero() {
		endTime = r.TurnEndTime.UnixMilli()
	}

	return RoomState{
		ID:            r.Code,
		Players:       players,
		Status:        r.Status,
		CurrentDrawer: r.CurrentDrawer,
		RoundEndTime:  endTime,
		RoundTime:     r.TurnDuration.Milliseconds(),
		CurrentRound:  r.CurrentRound,
		TotalRounds:   r.TotalRounds,
	}
}

// ChatMessage is a chat or system broadcast payload.
type ChatMessage struct {
	Username string `json:"username,omitempty"`
	Message  string `json:"message"`
	System   bool   `json:"system,omitempty"`
}

// DrawerWord is the private payload revealing the secret word to the drawer.
type DrawerWord struct {
	Word string `json:"word"`
}

// ReactionPayload tags a relayed reaction with its sender.
type ReactionPayload struct {
	Emoji    string `json:"emoji"`
	SenderID string `json:"senderId"`
}

// RoomError is sent to a single connection when a join is rejected.
type RoomError struct {
	Message string `json:"message"`
}
