package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

type gameManager interface {
	Serve(ctx context.Context, roomID, playerID string, conn usecase.Conn) error
}

type Options struct {
	// AllowedOrigins restricts the Origin header of upgrade requests. Empty allows any origin.
	AllowedOrigins []string
	ReadLimit      int64
	WriteTimeout   time.Duration
}

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader
	options  Options
}

func New(logger *slog.Logger, manager gameManager, options Options) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(options.AllowedOrigins),
		},
		options: options,
	}
}

// HandleRoom upgrades the request and runs the connection loop for /ws/:room_id/:player_id.
func (that *Server) HandleRoom(c *gin.Context) {
	roomID, playerID := c.Param("room_id"), c.Param("player_id")
	if roomID == "" || playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id and player_id are required"})
		return
	}

	log := that.logger.With("method", "HandleRoom", "connID", uuid.NewString(), "roomID", roomID, "playerID", playerID)

	ws, err := that.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	ctx := c.Request.Context()

	conn := NewConn(ctx, ws, that.options.ReadLimit, that.options.WriteTimeout)
	defer func() {
		if err = conn.Close(); err != nil {
			log.Debug("failed to close connection", "error", err)
		}
	}()

	log.Info("WebSocket connection established")

	if err = that.manager.Serve(ctx, roomID, playerID, conn); err != nil {
		log.Info("connection refused", "reason", err)
		return
	}

	log.Info("WebSocket connection closed")
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}

		origin := r.Header.Get("Origin")
		// non browser clients send no origin
		return origin == "" || slices.Contains(allowed, origin)
	}
}
