// README: HTTP router registration.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"meetpoint/internal/http/handlers"
	"meetpoint/internal/http/middleware"
	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/modules/room"
	"meetpoint/internal/modules/venue"
)

type RouterDeps struct {
	Room           *room.Service
	Meetpoint      *meetpoint.Service
	Venue          *venue.Service
	DefaultRadiusM int
	DefaultTopN    int
	Health         handlers.HealthDeps
	Log            *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(deps.Log), middleware.Recovery())

	roomHandler := handlers.NewRoomHandler(deps.Room)
	r.POST("/api/room/create", roomHandler.Create)
	r.POST("/api/room/join", roomHandler.Join)
	r.POST("/api/room/update", roomHandler.Update)
	r.POST("/api/room/leave", roomHandler.Leave)
	r.POST("/api/room/close", roomHandler.Close)
	r.GET("/api/room/state", roomHandler.State)

	optimizeHandler := handlers.NewOptimizeHandler(deps.Room, deps.Meetpoint, deps.DefaultRadiusM, deps.DefaultTopN, deps.Log)
	r.POST("/api/optimize", optimizeHandler.Optimize)

	suggestHandler := handlers.NewSuggestHandler(deps.Room, deps.Venue, deps.DefaultRadiusM, deps.Log)
	r.POST("/api/suggest", suggestHandler.Suggest)

	healthHandler := handlers.NewHealthHandler(deps.Health)
	r.GET("/api/health", healthHandler.Status)

	return r
}
