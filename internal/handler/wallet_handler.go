package handler

import (
	"net/http"

	"tiro/internal/middleware"
	"tiro/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	wallet *service.WalletService
}

func NewWalletHandler(wallet *service.WalletService) *WalletHandler {
	return &WalletHandler{wallet: wallet}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	u, err := h.wallet.GetBalance(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance_cents":        u.BalanceCents,
		"total_earnings_cents": u.TotalEarningsCents,
	})
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	list, err := h.wallet.ListTransactions(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// Deposit takes a multipart form: amount (dollars), method, optional
// payer_reference, and the proof image. The entry stays pending until an
// admin approves it.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var form struct {
		Amount         float64 `form:"amount" binding:"required,gt=0"`
		Method         string  `form:"method" binding:"required"`
		PayerReference string  `form:"payer_reference"`
	}
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proof, err := readFormFile(c, "proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proof of payment image is required"})
		return
	}
	fh, _ := c.FormFile("proof")

	entry, fee, err := h.wallet.RequestDeposit(c.Request.Context(), service.DepositRequest{
		UserID:         middleware.GetUserID(c),
		AmountCents:    toCents(form.Amount),
		Method:         form.Method,
		PayerReference: form.PayerReference,
		Proof:          proof,
		ProofFilename:  fh.Filename,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": entry, "fee": fee})
}

type CryptoDepositRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (h *WalletHandler) CryptoDeposit(c *gin.Context) {
	var req CryptoDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, invoiceURL, err := h.wallet.CreateCryptoDepositInvoice(c.Request.Context(), middleware.GetUserID(c), toCents(req.Amount))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": entry, "invoice_url": invoiceURL})
}

type WithdrawRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Method      string  `json:"method" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.wallet.RequestWithdraw(c.Request.Context(), service.WithdrawRequest{
		UserID:      middleware.GetUserID(c),
		AmountCents: toCents(req.Amount),
		Method:      req.Method,
		Destination: req.Destination,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": entry})
}
