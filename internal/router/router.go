package router

import (
	"net/http"
	"time"

	"tiro/config"
	"tiro/internal/handler"
	"tiro/internal/middleware"
	"tiro/internal/scheduler"
	"tiro/internal/service"
	"tiro/internal/ws"
	"tiro/pkg/creds"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps carries everything the route tree needs. The escrow service and
// scheduler are built in main because the background sweeps outlive any
// request.
type Deps struct {
	Cfg       *config.Config
	Log       *logrus.Logger
	Store     service.Store
	Cipher    *creds.Cipher
	Uploader  service.ProofUploader
	Relay     service.ProofRelay
	Invoices  service.InvoiceClient
	Escrow    *service.EscrowService
	Scheduler *scheduler.Scheduler
}

func Setup(d Deps) *gin.Engine {
	if d.Cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	authSvc := service.NewAuthService(d.Store)
	productSvc := service.NewProductService(d.Store, d.Cipher)
	purchaseSvc := service.NewPurchaseService(d.Store, d.Cipher, d.Log)
	walletSvc := service.NewWalletService(d.Store, d.Relay, d.Uploader, d.Invoices, d.Log)
	reviewSvc := service.NewReviewService(d.Store)
	promotionSvc := service.NewPromotionService(d.Store)
	adminSvc := service.NewAdminService(d.Store)

	hub := ws.NewHub()

	authHandler := handler.NewAuthHandler(authSvc, &d.Cfg.JWT)
	productHandler := handler.NewProductHandler(productSvc, d.Uploader)
	purchaseHandler := handler.NewPurchaseHandler(purchaseSvc)
	chatHandler := handler.NewChatHandler(d.Escrow, hub)
	walletHandler := handler.NewWalletHandler(walletSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	promotionHandler := handler.NewPromotionHandler(promotionSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, walletSvc, d.Escrow, d.Scheduler)

	authMw := middleware.AuthRequired(&d.Cfg.JWT)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
		}

		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/products/:id/reviews", reviewHandler.ListByProduct)
		api.GET("/promotions", promotionHandler.ListActive)

		api.GET("/ws/chat", handler.UpgradeChatWS(&d.Cfg.JWT, hub, d.Escrow))

		user := api.Group("")
		user.Use(authMw)
		{
			user.POST("/products", productHandler.Create)
			user.POST("/uploads/product-image", productHandler.UploadImage)
			user.GET("/me/products", productHandler.Mine)
			user.POST("/products/:id/purchase", purchaseHandler.Purchase)
			user.POST("/products/:id/reviews", reviewHandler.Create)
			user.POST("/products/:id/promote", promotionHandler.Promote)

			user.GET("/chats", chatHandler.List)
			user.GET("/chats/:id", chatHandler.Get)
			user.POST("/chats/:id/messages", chatHandler.SendMessage)
			user.POST("/chats/:id/close", chatHandler.Close)

			user.GET("/wallet", walletHandler.Balance)
			user.GET("/wallet/transactions", walletHandler.Transactions)
			user.POST("/wallet/deposit", walletHandler.Deposit)
			user.POST("/wallet/deposit/crypto", walletHandler.CryptoDeposit)
			user.POST("/wallet/withdraw", walletHandler.Withdraw)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)
			admin.GET("/transactions", adminHandler.ListTransactions)
			admin.POST("/transactions/:id/settle", adminHandler.Settle)
			admin.POST("/chats/:id/resolve", adminHandler.Resolve)
			admin.POST("/sweeps/expiry", adminHandler.RunExpirySweep)
			admin.POST("/sweeps/payments", adminHandler.RunPaymentSweep)
			admin.GET("/stats", adminHandler.Stats)
		}
	}

	return r
}
