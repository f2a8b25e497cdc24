package server

import (
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/controller"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/response"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/service"
	"ctchen222/Tic-Tac-Toe-Solo/internal/hub"
	"ctchen222/Tic-Tac-Toe-Solo/internal/hub/types"
	"ctchen222/Tic-Tac-Toe-Solo/internal/player"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const registrationTimeout = 5 * time.Second

var tracer = otel.Tracer("server")

type Server struct {
	hub            *hub.Hub
	roomController *controller.RoomController
	tokens         service.TokenService
	webDir         string
	upgrader       websocket.Upgrader
	engine         *gin.Engine
}

func NewServer(h *hub.Hub, roomController *controller.RoomController, tokens service.TokenService, webDir string) *Server {
	s := &Server{
		hub:            h,
		roomController: roomController,
		tokens:         tokens,
		webDir:         webDir,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine = s.newEngine()
	return s
}

// Engine returns the gin engine serving every route.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) newEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": s.hub.RoomCount()})
	})
	engine.GET("/ws", s.handleWebSocket)

	api := engine.Group("/api")
	{
		api.POST("/rooms", s.roomController.Create)
		api.GET("/rooms/:id", s.roomController.Get)

		authed := api.Group("/rooms/:id", s.roomController.RequireRoomToken())
		authed.POST("/click", s.roomController.Click)
		authed.POST("/restart", s.roomController.Restart)
		authed.POST("/difficulty", s.roomController.Difficulty)
	}

	if s.webDir != "" {
		engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.webDir))))
	}
	return engine
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/healthz" {
			return
		}
		slog.DebugContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// handleWebSocket's only responsibility is to upgrade the connection and
// pass a registration request to the hub. Without a roomId the hub opens a
// new room using the starter and difficulty query parameters and sends the
// room token in the assignment. Joining by roomId needs that token in the
// token query parameter.
func (s *Server) handleWebSocket(c *gin.Context) {
	r := c.Request
	ctx, span := tracer.Start(r.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.path", r.URL.Path),
	))
	defer span.End()

	roomID := c.Query("roomId")
	if roomID != "" {
		if err := s.tokens.Verify(c.Query("token"), roomID); err != nil {
			slog.WarnContext(ctx, "Rejected websocket join", "room.id", roomID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Invalid room token")
			response.ErrorResponse(c, http.StatusUnauthorized, service.ErrInvalidToken.Error())
			return
		}
	}

	conn, err := s.upgrader.Upgrade(c.Writer, r, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	playerID := c.Query("playerId")
	if playerID == "" {
		playerID = uuid.New().String()
	}
	starter := c.DefaultQuery("starter", "player")
	difficulty := c.DefaultQuery("difficulty", "medium")
	span.SetAttributes(
		attribute.String("player.id", playerID),
		attribute.String("room.id", roomID),
		attribute.String("game.starter", starter),
		attribute.String("bot.difficulty", difficulty),
	)

	done := make(chan types.RegistrationResult, 1)
	req := &types.RegistrationRequest{
		Player:     player.NewPlayer(playerID, conn),
		RoomID:     roomID,
		Starter:    starter,
		Difficulty: difficulty,
		IssueToken: s.tokens.Issue,
		Ctx:        ctx,
		Done:       done,
	}

	timer := time.NewTimer(registrationTimeout)
	defer timer.Stop()

	select {
	case s.hub.Register() <- req:
	case <-timer.C:
		slog.ErrorContext(ctx, "Hub did not accept registration", "player.id", playerID)
		span.SetStatus(codes.Error, "Registration timed out")
		conn.Close()
		return
	}

	select {
	case res := <-done:
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, "Registration failed")
			return
		}
		span.SetAttributes(attribute.String("room.id", res.RoomID))
	case <-timer.C:
		slog.WarnContext(ctx, "Registration result not received", "player.id", playerID)
	}
}
