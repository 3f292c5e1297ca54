// cmd/server/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redisClient "github.com/redis/go-redis/v9"

	"tenant-otp-service/internal/cache"
	"tenant-otp-service/internal/config"
	"tenant-otp-service/internal/domain"
	"tenant-otp-service/internal/handler"
	"tenant-otp-service/internal/middleware"
	"tenant-otp-service/internal/notify"
	memrepo "tenant-otp-service/internal/repository/memory"
	"tenant-otp-service/internal/repository/postgres"
	"tenant-otp-service/internal/service"
	"tenant-otp-service/pkg/logger"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Mode:       cfg.Server.Mode,
		JSONFormat: cfg.Server.Mode == "release",
	})
	log := logger.GetLogger()
	log.Info("Starting tenant OTP service...")

	gin.SetMode(cfg.Server.Mode)

	// Background context for the reaper; cancelled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Backing cache store
	var (
		cacheStore  cache.Store
		cachePinger handler.Pinger
	)
	if cfg.Cache.Backend == "memory" {
		mem := cache.NewMemoryStore(cache.MemoryOptions{})
		defer mem.Stop()
		cacheStore = mem
	} else {
		rdb := initRedisClient(cfg)
		defer rdb.Close()
		rs := cache.NewRedisStore(rdb)
		cacheStore = rs
		cachePinger = rs
	}

	scoped := cache.New(cacheStore, cache.Options{
		Prefix:       cfg.Cache.Prefix,
		DegradeReads: cfg.Cache.DegradeReads,
	})

	// Durable OTP store
	var (
		otpStore    domain.OTPStore
		storePinger handler.Pinger
	)
	if cfg.Server.Mode == "test" {
		otpStore = memrepo.NewOTPRepository()
	} else {
		pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatal("Failed to connect to Postgres: ", err)
		}
		defer pool.Close()
		otpStore = postgres.NewOTPRepository(pool)
		storePinger = pool
	}

	// Delivery channels; nil means the channel is unconfigured and
	// issuance for that identifier class skips delivery.
	var sms, email domain.Notifier
	if cfg.SMS.GatewayURL != "" {
		sms = notify.NewSMSGateway(notify.SMSConfig{
			URL:     cfg.SMS.GatewayURL,
			APIKey:  cfg.SMS.APIKey,
			Sender:  cfg.SMS.Sender,
			Timeout: time.Duration(cfg.SMS.Timeout) * time.Second,
		})
	}
	if cfg.SMTP.Host != "" {
		email = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	otpService := service.NewOTPManager(otpStore, sms, email, service.ManagerOptions{
		CodeLength: cfg.OTP.CodeLength,
		Window:     cfg.OTPWindow(),
		ServerMode: cfg.Server.Mode,
	})

	reaper := service.NewReaper(otpStore, cfg.CleanupInterval())
	go reaper.Run(ctx)

	otpHandler := handler.NewOTPHandler(otpService, scoped)
	cacheHandler := handler.NewCacheHandler(scoped)
	healthHandler := handler.NewHealthHandler(cfg, cachePinger, storePinger)

	router := gin.New()
	router.Use(gin.Recovery())

	m := middleware.NewMiddleware(cfg)
	router.Use(m.Tenant())
	router.Use(m.Logger())
	router.Use(m.Metrics())

	v1 := router.Group("/v1")
	{
		v1.POST("/otp", otpHandler.Issue)
		v1.POST("/otp/verify", otpHandler.Verify)
		v1.DELETE("/cache", cacheHandler.Flush)
		v1.GET("/cache/stats", cacheHandler.Stats)
	}
	router.GET("/health", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.Timeout.Read) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.Timeout.Write) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.Timeout.Idle) * time.Second,
	}

	go func() {
		log.Info("Server starting on ", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel() // stops the reaper

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Info("Server exited successfully")
}

func initRedisClient(cfg *config.Config) *redisClient.Client {
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: time.Duration(cfg.Redis.Timeout) * time.Second,
	})

	ctx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()

	if err := rdb.Ping(ctx).Err(); err != nil {
		// Start anyway; the health endpoint reports the outage and the
		// client reconnects once Redis is back.
		logger.Error("Failed to connect to Redis: ", err)
		return rdb
	}

	logger.Info("Successfully connected to Redis")
	return rdb
}
