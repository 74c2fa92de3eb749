package handler

import (
	"net/http"

	"tiro/internal/metrics"
	"tiro/internal/middleware"
	"tiro/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchases *service.PurchaseService
}

func NewPurchaseHandler(purchases *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// Purchase buys the product with the caller's balance. The response is the
// only place the account credentials ever appear in the clear.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	productID, err := parseID(c, "id")
	if err != nil {
		return
	}
	result, err := h.purchases.Purchase(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.Purchases.Inc()
	c.JSON(http.StatusCreated, result)
}
