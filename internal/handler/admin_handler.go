package handler

import (
	"net/http"

	"tiro/internal/models"
	"tiro/internal/scheduler"
	"tiro/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin  *service.AdminService
	wallet *service.WalletService
	escrow *service.EscrowService
	sched  *scheduler.Scheduler
}

func NewAdminHandler(admin *service.AdminService, wallet *service.WalletService, escrow *service.EscrowService, sched *scheduler.Scheduler) *AdminHandler {
	return &AdminHandler{admin: admin, wallet: wallet, escrow: escrow, sched: sched}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type UpdateUserRequest struct {
	Verified *bool `json:"verified"`
	Banned   *bool `json:"banned"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.admin.UpdateUserFlags(c.Request.Context(), userID, service.UserFlags{
		Verified: req.Verified,
		Banned:   req.Banned,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) ListTransactions(c *gin.Context) {
	list, err := h.wallet.ListAllTransactions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

type SettleRequest struct {
	Status string `json:"status" binding:"required,oneof=completed failed"`
}

// Settle approves or rejects a pending deposit/withdrawal.
func (h *AdminHandler) Settle(c *gin.Context) {
	txID, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.wallet.SettleTransaction(c.Request.Context(), txID, models.TransactionStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type ResolveRequest struct {
	Resolution string `json:"resolution" binding:"required,oneof=buyer seller"`
}

// Resolve rules on a chat that expired into review.
func (h *AdminHandler) Resolve(c *gin.Context) {
	chatID, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := h.escrow.ResolveChat(c.Request.Context(), chatID, req.Resolution)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// RunExpirySweep and RunPaymentSweep force a scheduler pass outside the
// regular interval.
func (h *AdminHandler) RunExpirySweep(c *gin.Context) {
	flagged := h.sched.RunExpiryPass(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"chats_flagged": flagged})
}

func (h *AdminHandler) RunPaymentSweep(c *gin.Context) {
	released := h.sched.RunPaymentPass(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"payments_released": released})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
