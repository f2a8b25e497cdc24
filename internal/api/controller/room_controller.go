package controller

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/models"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/response"
	"ctchen222/Tic-Tac-Toe-Solo/internal/api/service"
	"ctchen222/Tic-Tac-Toe-Solo/internal/bot"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"
	"ctchen222/Tic-Tac-Toe-Solo/internal/hub"
	"ctchen222/Tic-Tac-Toe-Solo/internal/room"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RoomStore is the part of the hub the REST API needs.
type RoomStore interface {
	CreateRoom(ctx context.Context, starter game.Starter, difficulty bot.Difficulty) *room.Room
	Room(id string) (*room.Room, error)
}

// RoomController handles room-related HTTP requests.
type RoomController struct {
	rooms  RoomStore
	tokens service.TokenService
}

// NewRoomController creates a new RoomController.
func NewRoomController(rooms RoomStore, tokens service.TokenService) *RoomController {
	return &RoomController{
		rooms:  rooms,
		tokens: tokens,
	}
}

// Create opens a room and hands back the token that lets the caller play in it.
func (rc *RoomController) Create(c *gin.Context) {
	var req models.CreateRoomRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	r := rc.rooms.CreateRoom(ctx, game.ParseStarter(req.Starter), bot.ParseDifficulty(req.Difficulty))

	token, err := rc.tokens.Issue(r.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue room token", "room.id", r.ID, "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to issue room token")
		return
	}

	response.CreatedResponse(c, models.CreateRoomResponse{
		RoomID:   r.ID,
		Token:    token,
		Snapshot: r.Snapshot(),
	})
}

// Get returns the current snapshot of a room.
func (rc *RoomController) Get(c *gin.Context) {
	r, ok := rc.lookup(c)
	if !ok {
		return
	}
	response.SuccessResponse(c, r.Snapshot())
}

// Click plays the human's move. Illegal clicks are not errors; the unchanged
// snapshot comes back with accepted=false.
func (rc *RoomController) Click(c *gin.Context) {
	var req models.ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	r, ok := rc.lookup(c)
	if !ok {
		return
	}

	snapshot, accepted := r.Click(c.Request.Context(), *req.Position)
	response.SuccessResponse(c, models.MoveResponse{Accepted: accepted, Snapshot: snapshot})
}

// Restart starts a new game, optionally with a different starter.
func (rc *RoomController) Restart(c *gin.Context) {
	var req models.RestartRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	r, ok := rc.lookup(c)
	if !ok {
		return
	}

	var starter game.Starter
	if req.Starter != "" {
		starter = game.ParseStarter(req.Starter)
	}
	snapshot := r.Restart(c.Request.Context(), starter)
	response.SuccessResponse(c, models.MoveResponse{Accepted: true, Snapshot: snapshot})
}

// Difficulty changes the difficulty shown for the room.
func (rc *RoomController) Difficulty(c *gin.Context) {
	var req models.DifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	r, ok := rc.lookup(c)
	if !ok {
		return
	}

	snapshot := r.SetDifficulty(c.Request.Context(), bot.ParseDifficulty(req.Difficulty))
	response.SuccessResponse(c, models.MoveResponse{Accepted: true, Snapshot: snapshot})
}

// RequireRoomToken rejects requests whose bearer token was not issued for the
// room in the :id path parameter.
func (rc *RoomController) RequireRoomToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if err := rc.tokens.Verify(tokenString, c.Param("id")); err != nil {
			slog.WarnContext(c.Request.Context(), "rejected room token", "room.id", c.Param("id"), "error", err)
			response.AbortWithError(c, http.StatusUnauthorized, service.ErrInvalidToken.Error())
			return
		}
		c.Next()
	}
}

func (rc *RoomController) lookup(c *gin.Context) (*room.Room, bool) {
	r, err := rc.rooms.Room(c.Param("id"))
	if err != nil {
		if errors.Is(err, hub.ErrRoomNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, err.Error())
			return nil, false
		}
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if r.Closed() {
		response.ErrorResponse(c, http.StatusNotFound, hub.ErrRoomNotFound.Error())
		return nil, false
	}
	return r, true
}
