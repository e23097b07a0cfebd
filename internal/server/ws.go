package server

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/doodledash/doodledash-server/internal/game"
)

// wsConn adapts a gorilla connection to game.Conn. Gorilla conns allow only
// one concurrent writer, so sends serialize on a mutex; a failed send is
// logged and otherwise ignored, the read loop notices the dead conn.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
	log  zerolog.Logger
}

func (c *wsConn) Send(msg game.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Str("event", msg.Type).Msg("marshal outgoing message")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.log.Debug().Err(err).Str("event", msg.Type).Msg("write to client failed")
	}
}

// clientEnvelope is the uniform frame for every client-to-server event.
type clientEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Intent   string `json:"intent"`
}

type startGamePayload struct {
	RoomID      string `json:"roomId"`
	TotalRounds int    `json:"totalRounds"`
}

type chatPayload struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type drawBatchPayload struct {
	RoomID string          `json:"roomId"`
	Paths  json.RawMessage `json:"paths"`
}

type roomOnlyPayload struct {
	RoomID string `json:"roomId"`
}

type reactionPayload struct {
	RoomID string `json:"roomId"`
	Emoji  string `json:"emoji"`
}

// handleWS upgrades the request, gives the connection an identity, and
// pumps incoming envelopes into the game until the client goes away.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	connID := uuid.New().String()
	sender := &wsConn{conn: conn, log: s.log.With().Str("conn", connID).Logger()}

	s.log.Info().Str("conn", connID).Msg("client connected")
	defer func() {
		s.game.Disconnect(connID)
		s.log.Info().Str("conn", connID).Msg("client disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.log.Debug().Err(err).Str("conn", connID).Msg("read loop ended")
			return
		}

		var env clientEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.log.Debug().Err(err).Str("conn", connID).Msg("malformed envelope skipped")
			continue
		}
		s.dispatch(sender, connID, env)
	}
}

// dispatch decodes one client event and hands it to the game. A malformed
// payload is dropped; misuse never tears down the connection.
func (s *Server) dispatch(sender *wsConn, connID string, env clientEnvelope) {
	switch env.Type {
	case "join_room":
		var p joinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		if p.Username == "" {
			p.Username = "Anonymous"
		}
		intent := game.IntentCreate
		if p.Intent == string(game.IntentJoin) {
			intent = game.IntentJoin
		}
		if err := s.game.Join(sender, connID, p.RoomID, p.Username, p.Avatar, intent); err != nil {
			if errors.Is(err, game.ErrRoomNotFound) {
				sender.Send(game.Message{Type: game.EventRoomError, Data: game.RoomError{Message: "Room not found"}})
			}
		}

	case "start_game":
		var p startGamePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		s.game.StartGame(p.RoomID, p.TotalRounds)

	case "chat_message":
		var p chatPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		s.game.HandleChat(p.RoomID, connID, p.Message)

	case "draw_batch":
		var p drawBatchPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		s.game.RelayDraw(p.RoomID, connID, p.Paths)

	case "clear_canvas":
		var p roomOnlyPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		s.game.ClearCanvas(p.RoomID, connID)

	case "undo_action":
		var p roomOnlyPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		s.game.Undo(p.RoomID, connID, env.Data)

	case "reaction":
		var p reactionPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		s.game.Reaction(p.RoomID, connID, p.Emoji)

	default:
		s.log.Debug().Str("conn", connID).Str("event", env.Type).Msg("unknown event type")
	}
}
