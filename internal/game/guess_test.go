package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// startThreePlayerGame joins three players and starts a game, returning
// the conns keyed by connection id plus the drawer and guesser ids.
func startThreePlayerGame(t *testing.T, g *Game) (conns map[string]*fakeConn, drawerID string, guesserIDs []string) {
	t.Helper()
	conns = map[string]*fakeConn{
		"c1": joinPlayer(t, g, "room1", "c1", "Alice", IntentCreate),
		"c2": joinPlayer(t, g, "room1", "c2", "Bob", IntentJoin),
		"c3": joinPlayer(t, g, "room1", "c3", "Cara", IntentJoin),
	}
	g.StartGame("room1", 1)
	drawerID = conns["c1"].lastState(t).CurrentDrawer
	for _, id := range []string{"c1", "c2", "c3"} {
		if id != drawerID {
			guesserIDs = append(guesserIDs, id)
		}
	}
	return conns, drawerID, guesserIDs
}

func scoreOf(t *testing.T, conn *fakeConn, connID string) int {
	t.Helper()
	for _, p := range conn.lastState(t).Players {
		if p.ID == connID {
			return p.Score
		}
	}
	t.Fatalf("player %s not in snapshot", connID)
	return 0
}

func TestCorrectGuessScoresGuesserAndDrawer(t *testing.T) {
	g, clk, _ := newTestGame()
	conns, drawerID, guessers := startThreePlayerGame(t, g)

	clk.Advance(10 * time.Second)
	g.HandleChat("room1", guessers[0], "  APPLE ")

	state := conns[drawerID].lastState(t)
	require.Equal(t, StatusPlaying, state.Status, "one guesser left, turn keeps going")

	// 50s of 60s remaining: floor(50000/60000*100)+10
	require.Equal(t, 93, scoreOf(t, conns[drawerID], guessers[0]))
	require.Equal(t, 20, scoreOf(t, conns[drawerID], drawerID))
	require.Contains(t, conns[drawerID].chatTexts(), "Bob guessed the word!")

	for _, p := range state.Players {
		if p.ID == guessers[0] {
			require.True(t, p.HasGuessed)
		}
	}
}

func TestCorrectGuessIsNotEchoedAsChat(t *testing.T) {
	g, _, _ := newTestGame()
	conns, _, guessers := startThreePlayerGame(t, g)

	g.HandleChat("room1", guessers[0], "apple")

	for _, conn := range conns {
		for _, m := range conn.byType(EventChat) {
			chat := m.Data.(ChatMessage)
			require.True(t, chat.System || chat.Message != "apple", "the winning guess must never appear as plain chat")
		}
	}
}

func TestWrongGuessBroadcastsAsChat(t *testing.T) {
	g, _, _ := newTestGame()
	conns, drawerID, guessers := startThreePlayerGame(t, g)

	g.HandleChat("room1", guessers[0], "banana")

	for _, conn := range conns {
		chats := conn.byType(EventChat)
		last := chats[len(chats)-1].Data.(ChatMessage)
		require.Equal(t, "banana", last.Message)
		require.Equal(t, "Bob", last.Username)
		require.False(t, last.System)
	}
	require.Zero(t, scoreOf(t, conns[drawerID], guessers[0]))
	for _, p := range conns[drawerID].lastState(t).Players {
		require.False(t, p.HasGuessed)
	}
}

func TestDrawerChatIsNeverAGuess(t *testing.T) {
	g, _, _ := newTestGame()
	conns, drawerID, _ := startThreePlayerGame(t, g)

	g.HandleChat("room1", drawerID, "apple")

	require.Zero(t, scoreOf(t, conns[drawerID], drawerID))
	chats := conns[drawerID].byType(EventChat)
	last := chats[len(chats)-1].Data.(ChatMessage)
	require.Equal(t, "apple", last.Message, "the drawer saying the word is plain chat")
}

func TestRepeatGuessFromWinnerIsPlainChat(t *testing.T) {
	g, _, _ := newTestGame()
	conns, drawerID, guessers := startThreePlayerGame(t, g)

	g.HandleChat("room1", guessers[0], "apple")
	scoreAfterFirst := scoreOf(t, conns[drawerID], guessers[0])

	g.HandleChat("room1", guessers[0], "apple")
	require.Equal(t, scoreAfterFirst, scoreOf(t, conns[drawerID], guessers[0]), "no double scoring")
}

func TestChatOutsideGameIsPlainChat(t *testing.T) {
	g, _, _ := newTestGame()

	alice := joinPlayer(t, g, "room1", "c1", "Alice", IntentCreate)
	bob := joinPlayer(t, g, "room1", "c2", "Bob", IntentJoin)

	g.HandleChat("room1", "c1", "apple")

	for _, conn := range []*fakeConn{alice, bob} {
		chats := conn.byType(EventChat)
		last := chats[len(chats)-1].Data.(ChatMessage)
		require.Equal(t, "apple", last.Message)
		require.Equal(t, "Alice", last.Username)
	}
}

func TestChatFromNonMemberIsDropped(t *testing.T) {
	g, _, _ := newTestGame()

	alice := joinPlayer(t, g, "room1", "c1", "Alice", IntentCreate)
	before := len(alice.messages())

	g.HandleChat("room1", "stranger", "hello")
	g.HandleChat("missing-room", "c1", "hello")

	require.Equal(t, before, len(alice.messages()))
}

func TestScoreShrinksAsTimePasses(t *testing.T) {
	earn := func(elapsed time.Duration) int {
		g, clk, _ := newTestGame()
		conns, drawerID, guessers := startThreePlayerGame(t, g)
		clk.Advance(elapsed)
		g.HandleChat("room1", guessers[0], "apple")
		return scoreOf(t, conns[drawerID], guessers[0])
	}

	early := earn(1 * time.Second)
	mid := earn(30 * time.Second)
	late := earn(59 * time.Second)

	require.Greater(t, early, mid)
	require.Greater(t, mid, late)
	require.Equal(t, 10+98, early)
	require.Equal(t, 10+50, mid)
	require.Equal(t, 10+1, late)
}

func TestGuessAfterExpiryTimeStillWorthMinimum(t *testing.T) {
	g, clk, _ := newTestGame()
	conns, drawerID, guessers := startThreePlayerGame(t, g)

	// the timer hasn't fired yet but wall time passed the deadline
	clk.Advance(2 * time.Minute)
	g.HandleChat("room1", guessers[0], "apple")

	require.Equal(t, 10, scoreOf(t, conns[drawerID], guessers[0]))
}

func TestAllGuessedEndsTurnBeforeExpiry(t *testing.T) {
	g, _, sched := newTestGame()
	conns, drawerID, guessers := startThreePlayerGame(t, g)

	g.HandleChat("room1", guessers[0], "apple")
	require.Equal(t, StatusPlaying, conns[drawerID].lastState(t).Status)

	g.HandleChat("room1", guessers[1], "apple")
	require.Equal(t, StatusRoundEnd, conns[drawerID].lastState(t).Status)

	// expiry (index 0) never fired; only the round-end delay joined it
	require.False(t, sched.fired[0])
	require.Equal(t, 2, sched.pending())
}
