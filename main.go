package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faqhub/faqhub/backend/go-services/handlers"
	"github.com/faqhub/faqhub/backend/go-services/internal/admin"
	adminhandler "github.com/faqhub/faqhub/backend/go-services/internal/admin/handler"
	adminrepo "github.com/faqhub/faqhub/backend/go-services/internal/admin/repository"
	"github.com/faqhub/faqhub/backend/go-services/internal/cache"
	"github.com/faqhub/faqhub/backend/go-services/internal/config"
	"github.com/faqhub/faqhub/backend/go-services/internal/database"
	"github.com/faqhub/faqhub/backend/go-services/internal/export"
	faqhandler "github.com/faqhub/faqhub/backend/go-services/internal/faq/handler"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq/repository"
	"github.com/faqhub/faqhub/backend/go-services/internal/faq/service"
	"github.com/faqhub/faqhub/backend/go-services/internal/oidc"
	"github.com/faqhub/faqhub/backend/go-services/internal/sessions"
	"github.com/faqhub/faqhub/backend/go-services/internal/tokens"
	"github.com/faqhub/faqhub/backend/go-services/internal/translate"
	"github.com/faqhub/faqhub/backend/go-services/pkg/logger"
	"github.com/faqhub/faqhub/backend/go-services/pkg/metrics"
	"github.com/faqhub/faqhub/backend/go-services/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.LogLevel != "" {
		logger.Init(cfg.LogLevel)
	}
	logger.Infof("config loaded: mongo=%v redis=%v translation=%s oidc=%v minio=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Translation.Provider, cfg.OIDC.Issuer != "", cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Redis backs the projection cache, token revocation and the shared rate limiter.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis %s unreachable at startup, reads will bypass the cache until it recovers: %v", cfg.Redis.Addr(), err)
		} else {
			logger.Infof("connected to redis %s", cfg.Redis.Addr())
		}
	}

	if cfg.RateLimit.Enabled {
		if rdb != nil {
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.Rate, cfg.RateLimit.Burst, time.Minute))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Rate, cfg.RateLimit.Burst))
		}
	}

	// Storage: MongoDB when configured, otherwise in memory.
	var (
		faqRepo   repository.Repository = repository.NewMemoryRepo()
		adminRepo admin.Repository      = adminrepo.NewMemoryRepo()
	)
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDB.Database)

		fr := repository.NewMongoRepo(db.Collection("faqs"))
		if err := fr.EnsureIndexes(ctx); err != nil {
			logger.Warnf("faq indexes: %v", err)
		}
		ar := adminrepo.NewMongoRepo(db.Collection("admins"))
		if err := ar.EnsureIndexes(ctx); err != nil {
			logger.Warnf("admin indexes: %v", err)
		}
		faqRepo, adminRepo = fr, ar
	}

	var (
		faqCache  cache.Cache
		readiness = []handlers.Dependency{{Name: "store", Pinger: faqRepo}}
	)
	if rdb != nil {
		rc := cache.NewRedisCache(rdb)
		faqCache = rc
		readiness = append(readiness, handlers.Dependency{Name: "cache", Pinger: rc, Optional: true})
	} else {
		mc := cache.DefaultMemoryConfig()
		mc.TTL = cfg.Cache.TTL
		mc.Capacity = cfg.Cache.MemoryItems
		faqCache = cache.NewMemoryCache(mc)
	}

	translators := translate.FromConfig(cfg.Translation)
	faqSvc := service.New(faqRepo, faqCache, translators.Text,
		service.WithAnswerTranslator(translators.Answer),
		service.WithTTL(cfg.Cache.TTL),
		service.WithNamespace(cfg.Cache.Namespace),
		service.WithCallTimeout(cfg.Translation.CallTimeout),
		service.WithParallelTranslation(cfg.Translation.Parallel),
	)

	// Authentication: locally issued admin tokens, plus an external OIDC
	// provider when one is configured.
	verifiers := []middleware.Verifier{tokens.NewVerifier(cfg)}
	if cfg.OIDC.Issuer != "" && cfg.OIDC.ClientID != "" {
		ov, err := oidc.NewVerifier(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifiers = append(verifiers, ov)
		}
	}
	var (
		revocations middleware.Revocations
		revoker     admin.Revoker
	)
	if rdb != nil {
		bl := sessions.NewBlacklist(rdb)
		revocations, revoker = bl, bl
	} else {
		logger.Warnf("redis not configured: logout cannot revoke access tokens before they expire")
	}
	auth := middleware.AuthMiddleware(middleware.FirstOf(verifiers...), revocations)

	opts := faqhandler.Options{AdminAuth: auth}
	if cfg.FAQ.RequireAuth {
		opts.WriteAuth = auth
	}
	if cfg.MinIO.Endpoint != "" {
		store, err := export.NewMinIOStore(ctx, export.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
			Region:    cfg.MinIO.Region,
		})
		if err != nil {
			logger.Warnf("snapshot export disabled: %v", err)
		} else {
			opts.Exporter = export.New(faqSvc, store, "exports", cfg.MinIO.URLExpiry)
		}
	}

	faqhandler.RegisterFAQRoutes(r, faqSvc, opts)
	adminSvc := admin.NewService(cfg, adminRepo, admin.NewMailer(cfg), revoker)
	adminhandler.RegisterAdminRoutes(r, adminSvc, auth)

	handlers.RegisterHealth(r, readiness...)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("faqhub listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
