package rest

import (
	"github.com/gin-gonic/gin"
)

// RoomRoute is where clients open their game connection.
const RoomRoute = "/ws/:room_id/:player_id"

// NewRouter builds the HTTP routes: the health check and the room websocket endpoint.
func NewRouter(mode string, roomHandler gin.HandlerFunc) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	router := gin.New()
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())

	router.GET("/ping", pingHandler)
	router.GET(RoomRoute, roomHandler)

	return router
}
