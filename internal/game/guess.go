package game

import "strings"

// HandleChat routes a chat message from a room member. While a turn is
// running, a non-drawer who hasn't guessed yet gets their text compared
// against the secret word (trimmed, case-insensitive); an exact match
// scores and is never echoed back as chat, which is what keeps the answer
// from leaking. Everything else goes out verbatim as attributed chat.
// Messages from non-members are dropped.
func (g *Game) HandleChat(code, connID, text string) {
	r := g.store.Get(code)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.player(connID)
	if p == nil {
		g.log.Debug().Str("room", code).Str("conn", connID).Msg("chat from non-member dropped")
		return
	}

	if r.Status == StatusPlaying && connID != r.CurrentDrawer && !p.HasGuessed &&
		strings.EqualFold(strings.TrimSpace(text), r.SecretWord) {
		p.HasGuessed = true

		remaining := r.TurnEndTime.Sub(g.clock.Now())
		if remaining < 0 {
			remaining = 0
		}
		points := int(float64(remaining.Milliseconds())/float64(r.TurnDuration.Milliseconds())*100) + 10
		p.Score += points
		if drawer := r.player(r.CurrentDrawer); drawer != nil {
			drawer.Score += 20
		}

		g.log.Info().Str("room", code).Str("username", p.Username).Int("points", points).Msg("correct guess")
		g.systemChat(r, p.Username+" guessed the word!")
		g.broadcastState(r)

		if r.allNonDrawersGuessed() {
			g.log.Info().Str("room", code).Msg("everyone guessed, ending turn early")
			g.endTurnLocked(r)
		}
		return
	}

	g.broadcastChat(r, ChatMessage{Username: p.Username, Message: text})
}
