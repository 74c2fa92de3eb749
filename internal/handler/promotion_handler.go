package handler

import (
	"net/http"
	"time"

	"tiro/internal/middleware"
	"tiro/internal/service"

	"github.com/gin-gonic/gin"
)

type PromotionHandler struct {
	promotions *service.PromotionService
}

func NewPromotionHandler(promotions *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

type PromoteRequest struct {
	Tier    string `json:"tier" binding:"required"`
	EndDate string `json:"end_date" binding:"required"` // YYYY-MM-DD
}

func (h *PromotionHandler) Promote(c *gin.Context) {
	productID, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format (use YYYY-MM-DD)"})
		return
	}
	promo, err := h.promotions.Purchase(c.Request.Context(), middleware.GetUserID(c), productID, req.Tier, endDate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (h *PromotionHandler) ListActive(c *gin.Context) {
	promos, err := h.promotions.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": promos})
}
