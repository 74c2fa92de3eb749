package handler

import (
	"net/http"

	"tiro/internal/middleware"
	"tiro/internal/service"
	"tiro/internal/ws"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	escrow *service.EscrowService
	hub    *ws.Hub
}

func NewChatHandler(escrow *service.EscrowService, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{escrow: escrow, hub: hub}
}

func (h *ChatHandler) List(c *gin.Context) {
	chats, err := h.escrow.ListChats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *ChatHandler) Get(c *gin.Context) {
	chatID, err := parseID(c, "id")
	if err != nil {
		return
	}
	chat, err := h.escrow.GetChat(c.Request.Context(), chatID, middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	chatID, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.escrow.SendMessage(c.Request.Context(), chatID, middleware.GetUserID(c), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	h.hub.NotifyChat(chatID, gin.H{"type": "message", "message": msg})
	c.JSON(http.StatusCreated, msg)
}

type CloseChatRequest struct {
	Role string `json:"role" binding:"required,oneof=buyer seller"`
}

// Close ends an active chat. role says which side the caller is closing
// as: a buyer close pays the seller after the settlement delay, a seller
// close refunds the buyer immediately.
func (h *ChatHandler) Close(c *gin.Context) {
	chatID, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req CloseChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := h.escrow.CloseChat(c.Request.Context(), chatID, middleware.GetUserID(c), req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	h.hub.NotifyChat(chatID, gin.H{"type": "chat_closed", "status": chat.Status})
	c.JSON(http.StatusOK, chat)
}
