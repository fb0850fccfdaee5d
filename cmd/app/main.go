package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "hunting-reserve-backend/docs"
	"hunting-reserve-backend/internal/common/cache"
	"hunting-reserve-backend/internal/common/config"
	"hunting-reserve-backend/internal/common/logger"
	"hunting-reserve-backend/internal/common/middleware"
	"hunting-reserve-backend/internal/common/validation"
	hunterHTTP "hunting-reserve-backend/internal/features/hunter/delivery/http"
	hunterRepo "hunting-reserve-backend/internal/features/hunter/repository/postgres"
	hunterService "hunting-reserve-backend/internal/features/hunter/service"
	lotteryHTTP "hunting-reserve-backend/internal/features/lottery/delivery/http"
	lotteryRepo "hunting-reserve-backend/internal/features/lottery/repository/postgres"
	lotteryLock "hunting-reserve-backend/internal/features/lottery/repository/redis"
	lotteryService "hunting-reserve-backend/internal/features/lottery/service"
	quotaHTTP "hunting-reserve-backend/internal/features/quota/delivery/http"
	quotaRepo "hunting-reserve-backend/internal/features/quota/repository/postgres"
	quotaService "hunting-reserve-backend/internal/features/quota/service"
	reservationHTTP "hunting-reserve-backend/internal/features/reservation/delivery/http"
	reservationRepo "hunting-reserve-backend/internal/features/reservation/repository/postgres"
	holdRepo "hunting-reserve-backend/internal/features/reservation/repository/redis"
	reservationService "hunting-reserve-backend/internal/features/reservation/service"
	reserveHTTP "hunting-reserve-backend/internal/features/reserve/delivery/http"
	reserveRepo "hunting-reserve-backend/internal/features/reserve/repository/postgres"
	reserveService "hunting-reserve-backend/internal/features/reserve/service"
	ruleHTTP "hunting-reserve-backend/internal/features/rule/delivery/http"
	ruleRepo "hunting-reserve-backend/internal/features/rule/repository/postgres"
	ruleService "hunting-reserve-backend/internal/features/rule/service"
	"hunting-reserve-backend/internal/platform/postgres"
	"hunting-reserve-backend/internal/platform/redis"
)

const serviceName = "hunting-reserve-backend"

// @title           Hunting Reserve API
// @version         1.0
// @description     Quota ledger, booking rules, zone reservations and lotteries for hunting reserves.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description HS256 JWT issued by the identity service, prefixed with Bearer

// @tag.name quotas
// @tag.description Regional and group harvest quotas

// @tag.name rules
// @tag.description Zone cooldown, harvest limit and custom rules

// @tag.name reservations
// @tag.description Eligibility checks, bookings, holds and hunt reports

// @tag.name lotteries
// @tag.description Tiered lotteries for random capo assignment

func main() {
	cfg := config.Load()

	logger.Init(serviceName, cfg.Debug)
	logger.Info().Str("version", "1.0.0").Str("timezone", cfg.Reserve.Timezone).Msg("Starting Hunting Reserve Backend")

	if err := validation.Register(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register validators")
	}

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	if cfg.Postgres.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := postgresClient.Migrate(ctx)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	redisClient, err := redis.CreateRedisClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	cacheService := cache.NewCacheService(redisClient)
	db := postgresClient.GetDB()
	transactor := postgres.NewTransactor(db)

	reserveSvc := reserveService.NewReserveService(reserveRepo.NewPostgresRepository(db), cacheService)
	hunterSvc := hunterService.NewHunterService(hunterRepo.NewPostgresRepository(db))
	quotaSvc := quotaService.NewQuotaService(quotaRepo.NewPostgresRepository(db), transactor, cacheService)
	ruleSvc := ruleService.NewRuleService(ruleRepo.NewPostgresRepository(db))
	reservationSvc := reservationService.NewReservationService(
		reservationRepo.NewPostgresRepository(db),
		holdRepo.NewHoldRepository(redisClient),
		transactor,
		quotaSvc,
		ruleSvc,
		reserveSvc,
		hunterSvc,
		reservationService.Options{Location: cfg.Location(), HoldTTL: cfg.Reserve.HoldTTL},
	)
	lotterySvc := lotteryService.NewLotteryService(
		lotteryRepo.NewPostgresRepository(db),
		lotteryLock.NewDrawLock(redisClient),
		transactor,
		hunterSvc,
		reserveSvc,
		lotteryService.Options{},
	)

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "Accept-Language"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
	reserveHTTP.NewReserveHandler(reserveSvc).RegisterRoutes(v1)
	hunterHTTP.NewHunterHandler(hunterSvc).RegisterRoutes(v1)
	quotaHTTP.NewQuotaHandler(quotaSvc).RegisterRoutes(v1)
	ruleHTTP.NewRuleHandler(ruleSvc).RegisterRoutes(v1)
	reservationHTTP.NewReservationHandler(reservationSvc).RegisterRoutes(v1)
	lotteryHTTP.NewLotteryHandler(lotterySvc).RegisterRoutes(v1)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	setupProbes(router, postgresClient, redisClient)

	var autoDraw *lotteryService.AutoDrawWorker
	if cfg.Lottery.AutoDraw {
		autoDraw = lotteryService.NewAutoDrawWorker(lotterySvc, cfg.Lottery.AutoDrawInterval)
		autoDraw.Start()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	if autoDraw != nil {
		autoDraw.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func setupProbes(router *gin.Engine, postgresClient *postgres.Client, redisClient redis.RedisClient) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "postgres unavailable",
				"details": err.Error(),
			})
			return
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		dbStats := postgresClient.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
			"postgres": gin.H{
				"open_connections": dbStats.OpenConnections,
				"in_use":           dbStats.InUse,
				"idle":             dbStats.Idle,
			},
			"redis": redis.Stats(redisClient),
		})
	})
}
