package game

import "encoding/json"

// canDraw reports whether connID may originate drawing commands right now:
// the current drawer while a turn runs, or any member while the room is
// waiting (the pre-game free-draw sandbox). Caller holds the room lock.
func (r *Room) canDraw(connID string) bool {
	if r.player(connID) == nil {
		return false
	}
	if r.Status == StatusWaiting {
		return true
	}
	return r.Status == StatusPlaying && connID == r.CurrentDrawer
}

// RelayDraw forwards a drawing batch to every other room member. The
// payload is opaque to the server; nothing is persisted, so a late joiner
// sees a blank canvas. Unauthorized senders are silently ignored.
func (g *Game) RelayDraw(code, connID string, payload json.RawMessage) {
	r := g.store.Get(code)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.canDraw(connID) {
		g.log.Debug().Str("room", code).Str("conn", connID).Msg("draw from unauthorized sender dropped")
		return
	}
	g.broadcastToOthers(r, connID, Message{Type: EventDrawBatch, Data: payload})
}

// ClearCanvas forwards a canvas clear to every other room member, under
// the same authorization as drawing.
func (g *Game) ClearCanvas(code, connID string) {
	r := g.store.Get(code)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.canDraw(connID) {
		return
	}
	g.broadcastToOthers(r, connID, Message{Type: EventClearCanvas})
}

// Undo forwards an undo command, payload untouched, under the same
// authorization as drawing.
func (g *Game) Undo(code, connID string, payload json.RawMessage) {
	r := g.store.Get(code)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.canDraw(connID) {
		return
	}
	g.broadcastToOthers(r, connID, Message{Type: EventUndo, Data: payload})
}

// Reaction relays an emoji reaction from any room member to everyone else,
// tagged with the sender. No persistence, no rate limiting.
func (g *Game) Reaction(code, connID, emoji string) {
	r := g.store.Get(code)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player(connID) == nil {
		return
	}
	g.broadcastToOthers(r, connID, Message{Type: EventReaction, Data: ReactionPayload{Emoji: emoji, SenderID: connID}})
}
