package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/doodledash/doodledash-server/internal/game"
)

// Server wires the HTTP surface to the game coordinator.
type Server struct {
	cfg      Config
	game     *game.Game
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// New returns a Server for the given config and game.
func New(cfg Config, g *game.Game, log zerolog.Logger) *Server {
	return &Server{
		cfg:  cfg,
		game: g,
		log:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // clients connect from anywhere
			},
		},
	}
}

// Router builds the gin engine with CORS, the WebSocket endpoint, and a
// liveness probe.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/ws", s.handleWS)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

// Run starts the HTTP server on the configured port and blocks.
func (s *Server) Run() error {
	return s.Router().Run(":" + s.cfg.Port)
}
