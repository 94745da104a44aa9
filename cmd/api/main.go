package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-admin/internal/db"
	"github.com/BruksfildServices01/barber-admin/internal/infra/imagestore"
	"github.com/BruksfildServices01/barber-admin/internal/infra/mercadopago"
	"github.com/BruksfildServices01/barber-admin/internal/infra/session"
	"github.com/BruksfildServices01/barber-admin/internal/infra/whatsapp"
	"github.com/BruksfildServices01/barber-admin/internal/logging"
	"github.com/BruksfildServices01/barber-admin/internal/routes"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

func main() {

	cfg := config.Load()
	logger := logging.New("barber-admin-api", cfg.LogLevel)

	if !timezone.IsValid(cfg.BusinessTimezone) {
		logger.Error("invalid BUSINESS_TIMEZONE", "tz", cfg.BusinessTimezone)
		os.Exit(1)
	}
	loc := timezone.Location(cfg.BusinessTimezone)

	db := dbpkg.NewDB(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// SESSIONS (REDIS)
	// ======================================================
	redisClient, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("redis unavailable", "addr", cfg.RedisAddr, "err", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	deps := routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      logger,
		Loc:      loc,
		Sessions: session.NewRedisStore(redisClient, cfg.SessionTTL),
		Sender:   whatsapp.Disabled{},
	}

	// ======================================================
	// INTEGRAÇÕES OPCIONAIS
	// ======================================================
	if cfg.PaymentsEnabled() {
		gw, err := mercadopago.NewGateway(cfg.MercadoPagoAccessToken, cfg.MercadoPagoNotificationURL)
		if err != nil {
			logger.Error("mercadopago config failed", "err", err)
			os.Exit(1)
		}
		deps.Gateway = gw
	} else {
		logger.Warn("payments disabled: MP_ACCESS_TOKEN not set")
	}

	if cfg.WhatsAppEnabled() {
		deps.Sender = whatsapp.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, logger)
	} else {
		logger.Warn("whatsapp disabled: twilio credentials not set")
	}

	if cfg.ImagesEnabled() {
		deps.Images = imagestore.NewS3Store(imagestore.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	} else {
		logger.Warn("product images disabled: S3_BUCKET not set")
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)
	deps.Audit = auditDispatcher

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}

	// pending audit events
	auditDispatcher.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
