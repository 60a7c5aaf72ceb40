package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type roomHandler struct {
	orch *orch.Orchestrator
}

type createRoomRequest struct {
	Nickname   string        `json:"nickname" binding:"required"`
	UserID     domain.UserID `json:"userId"`
	Title      string        `json:"title"`
	MaxPlayers int           `json:"maxPlayers"`
	Password   string        `json:"password"`
	GameType   string        `json:"gameType"`
}

type checkPasswordRequest struct {
	Password string `json:"password"`
}

func (h *roomHandler) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.ListRooms())
}

func (h *roomHandler) create(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.UserMessage(domain.ErrBadPayload)})
		return
	}
	userID := req.UserID
	if userID == "" {
		userID = domain.UserID(c.GetString(clientTokenKey))
	}
	room, err := h.orch.CreateRoom(domain.RoomConfig{
		Creator:    req.Nickname,
		CreatorID:  userID,
		Title:      req.Title,
		MaxPlayers: req.MaxPlayers,
		Password:   req.Password,
		GameType:   req.GameType,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info().Str("module", "adapters.http").Str("room_id", string(room.ID)).Str("creator", req.Nickname).Msg("room created")
	c.JSON(http.StatusCreated, room)
}

func (h *roomHandler) get(c *gin.Context) {
	room, err := h.orch.RoomSummary(domain.RoomID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *roomHandler) checkPassword(c *gin.Context) {
	var req checkPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.UserMessage(domain.ErrBadPayload)})
		return
	}
	if err := h.orch.CheckPassword(domain.RoomID(c.Param("id")), req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrWrongPassword):
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"error": domain.UserMessage(err), "code": domain.ErrorCode(err)})
}
