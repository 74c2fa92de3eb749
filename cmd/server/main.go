package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiro/config"
	"tiro/internal/database"
	"tiro/internal/repository"
	"tiro/internal/router"
	"tiro/internal/scheduler"
	"tiro/internal/service"
	"tiro/pkg/cloudinary"
	"tiro/pkg/creds"
	"tiro/pkg/nowpayments"
	"tiro/pkg/telegram"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if cfg.Server.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}
	database.SeedAdmin(db, log)

	store := repository.NewStore(db)
	cipher := creds.New(cfg.Creds.Secret)

	relay, err := telegram.NewRelay(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID)
	if err != nil {
		log.WithError(err).Fatal("telegram relay")
	}

	var uploader service.ProofUploader
	if cfg.Cloudinary.Enabled() {
		cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.WithError(err).Fatal("cloudinary client")
		}
		uploader = cloud
	}

	var invoices service.InvoiceClient
	if cfg.Payments.NOWPaymentsAPIKey != "" {
		invoices = nowpayments.NewClient(cfg.Payments.NOWPaymentsAPIKey)
	}

	escrow := service.NewEscrowService(store, log)
	sched := scheduler.New(escrow, cfg.Scheduler.SweepInterval, log)
	sched.Start()
	defer sched.Stop()

	engine := router.Setup(router.Deps{
		Cfg:       cfg,
		Log:       log,
		Store:     store,
		Cipher:    cipher,
		Uploader:  uploader,
		Relay:     relay,
		Invoices:  invoices,
		Escrow:    escrow,
		Scheduler: sched,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server shutdown")
	}
	log.Info("server stopped")
}
