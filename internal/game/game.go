package game

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/doodledash/doodledash-server/internal/clock"
)

const (
	defaultTurnDuration  = 60 * time.Second
	defaultRoundEndDelay = 5 * time.Second
	defaultTotalRounds   = 3
)

// Config carries the knobs of a Game. Zero values get sensible defaults,
// so tests only set what they care about.
type Config struct {
	TurnDuration  time.Duration
	RoundEndDelay time.Duration
	Words         []string
	Clock         clock.Clock
	// AfterFunc schedules a one-shot deferred call. Tests inject a capture
	// here to drive turn expiry deterministically.
	AfterFunc func(d time.Duration, fn func())
	Logger    zerolog.Logger
}

// Game is the session coordinator: it owns the room store and connection
// registry and drives every room through joins, turns, guesses, relays and
// disconnects. One instance serves the whole process; rooms evolve
// independently under their own locks.
type Game struct {
	store    *Store
	registry *Registry

	clock         clock.Clock
	after         func(d time.Duration, fn func())
	turnDuration  time.Duration
	roundEndDelay time.Duration
	words         []string
	log           zerolog.Logger
}

// New builds a Game from cfg, filling in defaults for anything unset.
func New(cfg Config) *Game {
	if cfg.TurnDuration <= 0 {
		cfg.TurnDuration = defaultTurnDuration
	}
	if cfg.RoundEndDelay <= 0 {
		cfg.RoundEndDelay = defaultRoundEndDelay
	}
	if len(cfg.Words) == 0 {
		cfg.Words = defaultWords
	}
	if cfg.Clock == nil {
		cfg.Clock = &clock.DefaultClock{}
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}

	return &Game{
		store:         NewStore(),
		registry:      NewRegistry(),
		clock:         cfg.Clock,
		after:         cfg.AfterFunc,
		turnDuration:  cfg.TurnDuration,
		roundEndDelay: cfg.RoundEndDelay,
		words:         cfg.Words,
		log:           cfg.Logger,
	}
}

// Store exposes the room store, mainly for tests and diagnostics.
func (g *Game) Store() *Store {
	return g.store
}

// Join adds a connection to the room with the given code. With IntentJoin
// the room must already exist; anything else fetches-or-creates it. There
// is no capacity limit and no duplicate-username check.
func (g *Game) Join(conn Conn, connID, code, username, avatar string, intent Intent) error {
	var r *Room
	for {
		r = g.store.Get(code)
		if r == nil {
			if intent == IntentJoin {
				g.log.Info().Str("room", code).Str("username", username).Msg("join rejected, no such room")
				return ErrRoomNotFound
			}
			r, _ = g.store.GetOrCreate(code, g.turnDuration)
		}
		r.mu.Lock()
		// The room can be deleted between lookup and lock when its last
		// player disconnects concurrently; start over on a fresh one.
		if g.store.Get(code) == r {
			break
		}
		r.mu.Unlock()
	}
	defer r.mu.Unlock()

	p := &Player{ID: connID, Username: username, Avatar: avatar, conn: conn}
	r.Players = append(r.Players, p)
	g.registry.Bind(connID, code)

	g.log.Info().Str("room", code).Str("conn", connID).Str("username", username).Int("players", len(r.Players)).Msg("player joined")

	g.broadcastState(r)
	g.systemChat(r, username+" joined the room.")
	return nil
}

// Disconnect removes the connection from whatever room it belonged to.
// Membership is single-room by construction, but the cleanup scans every
// room anyway.
func (g *Game) Disconnect(connID string) {
	g.registry.Unbind(connID)

	for _, code := range g.store.Codes() {
		r := g.store.Get(code)
		if r == nil {
			continue
		}
		r.mu.Lock()
		p := r.removePlayer(connID)
		if p == nil {
			r.mu.Unlock()
			continue
		}
		g.log.Info().Str("room", code).Str("conn", connID).Str("username", p.Username).Int("players", len(r.Players)).Msg("player left")

		if len(r.Players) == 0 {
			r.mu.Unlock()
			g.store.RemoveIfEmpty(code)
			g.log.Info().Str("room", code).Msg("room empty, deleted")
			continue
		}

		g.systemChat(r, p.Username+" left the room.")
		g.broadcastState(r)
		if r.Status == StatusPlaying && r.CurrentDrawer == connID {
			g.endTurnLocked(r)
		}
		r.mu.Unlock()
	}
}

// broadcast sends msg to every member. Caller holds the room lock.
func (g *Game) broadcast(r *Room, msg Message) {
	for _, p := range r.Players {
		p.conn.Send(msg)
	}
}

// broadcastState sends the room snapshot to every member. Caller holds the
// room lock.
func (g *Game) broadcastState(r *Room) {
	g.broadcast(r, Message{Type: EventRoomState, Data: r.snapshot()})
}

// broadcastChat sends a chat payload to every member. Caller holds the
// room lock.
func (g *Game) broadcastChat(r *Room, chat ChatMessage) {
	g.broadcast(r, Message{Type: EventChat, Data: chat})
}

func (g *Game) systemChat(r *Room, text string) {
	g.broadcastChat(r, ChatMessage{Message: text, System: true})
}

// broadcastToOthers sends msg to every member except senderID. Caller
// holds the room lock.
func (g *Game) broadcastToOthers(r *Room, senderID string, msg Message) {
	for _, p := range r.Players {
		if p.ID != senderID {
			p.conn.Send(msg)
		}
	}
}
