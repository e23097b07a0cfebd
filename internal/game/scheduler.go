package game

import (
	"fmt"
	"time"
)

// StartGame begins a new game in the room. It needs at least two players;
// with fewer the room state is left untouched and the members are told why
// over system chat. There is no host role, any member may start.
func (g *Game) StartGame(code string, totalRounds int) {
	r := g.store.Get(code)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Players) < 2 {
		g.log.Info().Str("room", code).Msg("start rejected, need at least 2 players")
		g.systemChat(r, "Need at least 2 players to start the game!")
		return
	}
	if totalRounds < 1 {
		totalRounds = defaultTotalRounds
	}

	for _, p := range r.Players {
		p.Score = 0
	}
	r.CurrentRound = 1
	r.TotalRounds = totalRounds
	r.drawerQueue = r.drawerQueue[:0]
	for _, p := range r.Players {
		r.drawerQueue = append(r.drawerQueue, p.ID)
	}

	g.log.Info().Str("room", code).Int("rounds", totalRounds).Int("players", len(r.Players)).Msg("game started")
	g.startNextTurnLocked(r)
}

// startNextTurnLocked advances the room to its next turn: it pops drawers
// off the queue (skipping anyone who left), rolls the round over when the
// queue runs dry, and ends the game past the last round. Caller holds the
// room lock.
func (g *Game) startNextTurnLocked(r *Room) {
	for {
		if len(r.drawerQueue) == 0 {
			r.CurrentRound++
			if r.CurrentRound > r.TotalRounds {
				r.Status = StatusWaiting
				r.SecretWord = ""
				r.CurrentDrawer = ""
				r.TurnEndTime = time.Time{}
				g.log.Info().Str("room", r.Code).Msg("game over")
				g.systemChat(r, "Game over! Thanks for playing.")
				g.broadcastState(r)
				return
			}
			for _, p := range r.Players {
				r.drawerQueue = append(r.drawerQueue, p.ID)
			}
		}
		next := r.drawerQueue[0]
		r.drawerQueue = r.drawerQueue[1:]
		if r.player(next) != nil {
			r.CurrentDrawer = next
			break
		}
		// queued drawer already left, skip
	}

	r.Status = StatusPlaying
	for _, p := range r.Players {
		p.HasGuessed = false
	}
	r.SecretWord = randomWord(g.words)
	r.TurnEndTime = g.clock.Now().Add(r.TurnDuration)
	r.TurnEpoch++
	epoch := r.TurnEpoch

	drawer := r.player(r.CurrentDrawer)
	g.log.Info().Str("room", r.Code).Int("round", r.CurrentRound).Str("drawer", drawer.Username).Uint64("epoch", epoch).Msg("turn started")

	g.broadcastState(r)
	g.broadcast(r, Message{Type: EventClearCanvas})
	g.systemChat(r, fmt.Sprintf("Round %d: %s is drawing!", r.CurrentRound, drawer.Username))
	drawer.conn.Send(Message{Type: EventYouAreDrawer, Data: DrawerWord{Word: r.SecretWord}})

	code := r.Code
	g.after(r.TurnDuration, func() { g.onTurnExpiry(code, epoch) })
}

// onTurnExpiry fires when a turn's timer runs out. The room may have moved
// on by then (all guessed, drawer left, a later turn), so it only acts when
// the room still exists, is still playing, and still carries the epoch this
// timer was armed under.
func (g *Game) onTurnExpiry(code string, epoch uint64) {
	r := g.store.Get(code)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusPlaying || r.TurnEpoch != epoch {
		g.log.Debug().Str("room", code).Uint64("epoch", epoch).Uint64("current", r.TurnEpoch).Msg("stale turn timer, ignoring")
		return
	}
	g.endTurnLocked(r)
}

// endTurnLocked closes the current turn, reveals the word, and arms the
// fixed inter-turn delay. Caller holds the room lock.
func (g *Game) endTurnLocked(r *Room) {
	r.Status = StatusRoundEnd
	g.log.Info().Str("room", r.Code).Str("word", r.SecretWord).Msg("turn ended")
	g.systemChat(r, "Round over! The word was: "+r.SecretWord)
	g.broadcastState(r)

	code := r.Code
	epoch := r.TurnEpoch
	g.after(g.roundEndDelay, func() { g.onRoundEndDelay(code, epoch) })
}

// onRoundEndDelay fires after the inter-turn pause: next turn when enough
// players remain, back to waiting otherwise. Fenced the same way as turn
// expiry since a new game can start during the pause.
func (g *Game) onRoundEndDelay(code string, epoch uint64) {
	r := g.store.Get(code)
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusRoundEnd || r.TurnEpoch != epoch {
		g.log.Debug().Str("room", code).Uint64("epoch", epoch).Msg("stale round-end timer, ignoring")
		return
	}
	if len(r.Players) >= 2 {
		g.startNextTurnLocked(r)
		return
	}
	r.Status = StatusWaiting
	r.SecretWord = ""
	r.CurrentDrawer = ""
	r.TurnEndTime = time.Time{}
	g.log.Info().Str("room", code).Msg("not enough players, back to waiting")
	g.broadcastState(r)
}
