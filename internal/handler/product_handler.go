package handler

import (
	"net/http"
	"strconv"

	"tiro/internal/middleware"
	"tiro/internal/models"
	"tiro/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products *service.ProductService
	uploader service.ProofUploader
}

func NewProductHandler(products *service.ProductService, uploader service.ProofUploader) *ProductHandler {
	return &ProductHandler{products: products, uploader: uploader}
}

type CreateProductRequest struct {
	Title                string  `json:"title" binding:"required,max=255"`
	Description          string  `json:"description"`
	Price                float64 `json:"price" binding:"required,gt=0"`
	Category             string  `json:"category" binding:"max=64"`
	ImageURL             string  `json:"image_url"`
	AccountUsername      string  `json:"account_username"`
	AccountPassword      string  `json:"account_password"`
	AccountEmail         string  `json:"account_email"`
	AccountEmailPassword string  `json:"account_email_password"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.products.Create(c.Request.Context(), service.CreateProductInput{
		SellerID:    middleware.GetUserID(c),
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  toCents(req.Price),
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Credentials: models.Credentials{
			AccountUsername:      req.AccountUsername,
			AccountPassword:      req.AccountPassword,
			AccountEmail:         req.AccountEmail,
			AccountEmailPassword: req.AccountEmailPassword,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Mine(c *gin.Context) {
	products, err := h.products.ListBySeller(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// UploadImage stores a listing image and returns its URL; the client puts
// it into image_url when creating the product.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not enabled"})
		return
	}
	file, err := readFormFile(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	url, err := h.uploader.UploadImage(c.Request.Context(), file, "product-images", "")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
