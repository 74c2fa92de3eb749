package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tiro/config"
	"tiro/internal/auth"
	"tiro/internal/service"
	"tiro/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	chatWriteWait  = 10 * time.Second
	chatPongWait   = 60 * time.Second
	chatPingPeriod = (chatPongWait * 9) / 10
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeChatWS upgrades to WebSocket for a chat; query: token, chat_id.
// The caller must be the buyer or seller of that chat. Inbound messages go
// through the escrow service so closed chats reject writes the same way
// the REST endpoint does.
func UpgradeChatWS(cfg *config.JWTConfig, hub *ws.Hub, escrow *service.EscrowService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		chatIDStr := c.Query("chat_id")
		if token == "" || chatIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and chat_id required"})
			return
		}
		claims, err := auth.ParseToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		id64, err := strconv.ParseUint(chatIDStr, 10, 32)
		if err != nil || id64 == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat_id"})
			return
		}
		chatID := uint(id64)

		chat, err := escrow.GetChat(c.Request.Context(), chatID, claims.UserID)
		if err != nil {
			writeError(c, err)
			return
		}

		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := ws.NewClient(claims.UserID)
		room := hub.GetOrCreateRoom(chatID, chat.BuyerID, chat.SellerID)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
		}()

		conn.SetReadDeadline(time.Now().Add(chatPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(chatPongWait))
			return nil
		})

		go func() {
			ticker := time.NewTicker(chatPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var inbound struct {
				Type string `json:"type"`
				Body string `json:"body"`
			}
			if json.Unmarshal(raw, &inbound) != nil || inbound.Type != "message" {
				continue
			}
			msg, err := escrow.SendMessage(c.Request.Context(), chatID, claims.UserID, inbound.Body)
			if err != nil {
				payload, _ := json.Marshal(gin.H{"type": "error", "error": err.Error()})
				select {
				case client.Send <- payload:
				default:
				}
				continue
			}
			room.Broadcast(nil, gin.H{"type": "message", "message": msg})
		}
	}
}
