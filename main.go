package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/auth"
	"github.com/mohibbulwara/orjon/config"
	"github.com/mohibbulwara/orjon/events"
	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/metrics"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/realtime"
	"github.com/mohibbulwara/orjon/routes"
	"github.com/mohibbulwara/orjon/services"
	"github.com/mohibbulwara/orjon/storage"
	"github.com/mohibbulwara/orjon/tracing"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	log := zlog.Logger
	log.Info().Str("env", cfg.Env).Msg("starting application")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	tp, err := tracing.InitTracerProvider(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	// Init DB
	db := initDatabase(cfg)
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}

	// Events: websockets on this instance, plus redis fan-out to the others
	// and the kafka stream when configured.
	hub := realtime.NewHub()
	var sinks []events.Publisher
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
		}
		bridge := events.NewRedisPublisher(rdb, cfg.RedisChannel)
		sinks = append(sinks, bridge)
		go func() {
			if err := bridge.Bridge(ctx, hub); err != nil {
				log.Error().Err(err).Msg("redis bridge stopped")
			}
		}()
	} else {
		sinks = append(sinks, hub)
	}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		defer kp.Close()
		sinks = append(sinks, kp)
	}
	svc := services.New(db, cfg.Pricing, events.Multi(sinks...))

	// Auth
	app, err := auth.NewFirebaseApp(ctx, cfg.FirebaseCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase setup failed")
	}
	verifier, err := auth.NewFirebaseVerifier(ctx, app, cfg.FirebaseCfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase auth setup failed")
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	// Image storage
	var blobs storage.Blobs
	if cfg.GCSBucket != "" {
		client, err := gcs.NewClient(ctx, cfg.FirebaseCfg.ClientOptions()...)
		if err != nil {
			log.Fatal().Err(err).Msg("cloud storage setup failed")
		}
		defer client.Close()
		blobs = storage.NewGCS(client, cfg.GCSBucket, "products")
	} else {
		blobs = &storage.Local{Dir: cfg.UploadDir, BaseURL: cfg.PublicBaseURL}
		// Start backup routine daily at BACKUP_HOUR
		backup := &storage.Backup{SrcDir: cfg.UploadDir, BackupDir: cfg.BackupDir, Retention: cfg.BackupKeep, Hour: cfg.BackupHour}
		go backup.Run(ctx)
	}

	// Gin setup
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadSize
	r.Use(gin.Recovery(), tracing.Middleware(cfg.ServiceName), logger.Middleware(), metrics.Middleware())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !containsWildcard(cfg.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	r.Static("/uploads", cfg.UploadDir)

	routes.SetupRoutes(r, routes.Deps{
		Service: svc,
		Auth: &auth.Handlers{
			Service:     svc,
			Verifier:    verifier,
			Issuer:      issuer,
			AdminEmails: cfg.AdminEmails,
		},
		Issuer:        issuer,
		Hub:           hub,
		Blobs:         blobs,
		MaxUploadSize: cfg.MaxUploadSize,
		MetricsKey:    cfg.MetricsKey,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// initDatabase sets up the GORM DB connection for DB_DRIVER.
func initDatabase(cfg *config.Config) *gorm.DB {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DatabaseURL)
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		zlog.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("DB connection failed")
	}
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal().Err(err).Msg("DB handle unavailable")
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
