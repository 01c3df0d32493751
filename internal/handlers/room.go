package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"chatroom-service/internal/emoji"
	"chatroom-service/internal/identifier"
	"chatroom-service/internal/models"
	"chatroom-service/internal/observability"
	"chatroom-service/internal/repositories"
	"chatroom-service/internal/rooms"
	"chatroom-service/internal/telemetry"
	"chatroom-service/internal/ws"
)

// RoomHandler manages chatroom endpoints.
type RoomHandler struct {
	store  repositories.MessageStore
	rooms  *rooms.Registry
	hub    *ws.Hub
	audit  *telemetry.AuditEmitter
	isHost bool
}

// NewRoomHandler builds a RoomHandler. isHost enables room creation.
func NewRoomHandler(store repositories.MessageStore, registry *rooms.Registry, hub *ws.Hub, audit *telemetry.AuditEmitter, isHost bool) *RoomHandler {
	if err := RegisterValidators(); err != nil {
		log.Error().Err(err).Msg("register validators")
	}
	return &RoomHandler{
		store:  store,
		rooms:  registry,
		hub:    hub,
		audit:  audit,
		isHost: isHost,
	}
}

// CreateRoom handles POST /rooms for the host.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	if !h.isHost {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the host can create rooms"})
		return
	}

	var req struct {
		RoomID string `json:"room_id" binding:"required,roomcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid room code")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room ID must be a 6-digit number."})
		return
	}

	roomID := identifier.Sanitize(req.RoomID)
	if err := h.store.EnsureRoom(c.Request.Context(), roomID); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("create room table")
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create room"})
		return
	}
	if _, err := h.rooms.Open(roomID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.emitAudit(c, "INFO", "Room created")
	c.JSON(http.StatusCreated, gin.H{
		"room_id":   roomID,
		"share_url": "?room_id=" + roomID,
	})
}

// JoinRoom handles POST /rooms/join with any room id, which is sanitized.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req struct {
		RoomID string `json:"room_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.rooms.Open(req.RoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	if err := h.store.EnsureRoom(c.Request.Context(), room.ID); err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("create room table")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open room"})
		return
	}

	h.respondState(c, http.StatusOK, room.ID, "")
}

// GetRoom handles GET /rooms/:room_id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	h.respondState(c, http.StatusOK, roomID, "")
}

// JoinMember handles POST /rooms/:room_id/members.
func (h *RoomHandler) JoinMember(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a username."})
		return
	}

	username, ok := h.join(c, roomID, req.Username)
	if !ok {
		return
	}
	if err := h.store.EnsureRoom(c.Request.Context(), roomID); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("create room table")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open room"})
		return
	}

	h.emitAudit(c, "INFO", "Member joined")
	h.respondState(c, http.StatusOK, roomID, username)
}

// LeaveMember handles DELETE /rooms/:room_id/members/:username.
func (h *RoomHandler) LeaveMember(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	room := h.rooms.Leave(roomID, c.Param("username"))
	if h.hub != nil {
		h.hub.BroadcastMembers(roomID, room.Members)
	}
	h.respondState(c, http.StatusOK, roomID, "")
}

// ListMessages handles GET /rooms/:room_id/messages.
func (h *RoomHandler) ListMessages(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	msgs, err := h.store.List(c.Request.Context(), roomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("list messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostMessage handles POST /rooms/:room_id/messages. A picked emoji replaces the text.
func (h *RoomHandler) PostMessage(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
		Content  string `json:"content"`
		Emoji    string `json:"emoji"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := req.Content
	if req.Emoji != "" {
		if !emoji.Contains(req.Emoji) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown emoji"})
			return
		}
		body = req.Emoji
	}
	if strings.TrimSpace(body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
		return
	}

	username, ok := h.join(c, roomID, req.Username)
	if !ok {
		return
	}

	msg, err := h.store.Append(c.Request.Context(), roomID, FormatMessage(username, body))
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidRoomID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
			return
		}
		log.Error().Err(err).Str("room_id", roomID).Msg("store message")
		h.emitAudit(c, "ERROR", "internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}
	observability.IncMessageStored(h.store.Backend())

	if h.hub != nil {
		h.hub.BroadcastMessage(roomID, msg)
	}
	h.emitAudit(c, "INFO", "Room message sent")
	h.respondState(c, http.StatusCreated, roomID, username)
}

// FormatMessage renders a chat line as "**username:** body".
func FormatMessage(username, body string) string {
	return fmt.Sprintf("**%s:** %s", username, body)
}

// join adds username to the room and broadcasts the new member list.
func (h *RoomHandler) join(c *gin.Context, roomID, username string) (string, bool) {
	before := len(h.rooms.Members(roomID))
	room, err := h.rooms.Join(roomID, username)
	switch {
	case errors.Is(err, rooms.ErrRoomFull):
		h.emitAudit(c, "ERROR", "room full")
		c.JSON(http.StatusConflict, gin.H{"error": "This room is full."})
		return "", false
	case errors.Is(err, rooms.ErrEmptyUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a username."})
		return "", false
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return "", false
	}

	username = strings.TrimSpace(username)
	setActor(c, username)
	if h.hub != nil && len(room.Members) != before {
		h.hub.BroadcastMembers(roomID, room.Members)
	}
	return username, true
}

func (h *RoomHandler) state(ctx context.Context, roomID, username string) (models.RoomState, error) {
	msgs, err := h.store.List(ctx, roomID)
	if err != nil {
		return models.RoomState{}, err
	}
	return models.RoomState{
		RoomID:   roomID,
		Username: username,
		Members:  h.rooms.Members(roomID),
		Messages: msgs,
	}, nil
}

func (h *RoomHandler) respondState(c *gin.Context, status int, roomID, username string) {
	state, err := h.state(c.Request.Context(), roomID, username)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("load room state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(status, state)
}

func (h *RoomHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), actorFromContext(c))
}

func roomIDParam(c *gin.Context) (string, bool) {
	roomID := identifier.Sanitize(c.Param("room_id"))
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return "", false
	}
	return roomID, true
}
