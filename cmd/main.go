package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/cache"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/config"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/database/influxdb"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/database/postgres"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/database/redis"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/event"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/handlers"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/ml"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/repository"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/scheduler"
	"github.com/Divyamsirswal/SoilSense-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/soilsense", "log", "telemetry_service")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(file, nil)))
	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		// File logging is best effort in containers without the mount.
		fmt.Printf("Falling back to stdout logging: %v\n", err)
	} else {
		defer logFile.Close()
	}

	cfg := config.New()

	db, err := postgres.Connect(cfg.PostgresCfg)
	if err != nil {
		slog.Error("Initial database connection failed, retrying", "error", err)
		postgres.RetryConnectOnFailed(10*time.Second, &db, cfg.PostgresCfg)
	}
	defer db.Close()
	slog.Info("Connected to PostgreSQL", "host", cfg.PostgresCfg.Host, "database", cfg.PostgresCfg.DBname)

	var latestCache services.LatestReadingCache
	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		slog.Warn("Redis unavailable, latest-reading cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		latestCache = cache.NewReadingCache(redisClient.GetClient())
	}

	var mirror services.TelemetryMirror
	if cfg.InfluxCfg.URL != "" {
		influxMirror := influxdb.NewMirror(cfg.InfluxCfg)
		defer influxMirror.Close()
		mirror = influxMirror
	}

	var mlClient *ml.Client
	if cfg.MLAPICfg.BaseURL != "" {
		mlClient = ml.NewClient(cfg.MLAPICfg)
	}

	rabbitConn, err := event.NewRabbitMQConnection(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, realtime fan-out disabled", "error", err)
		rabbitConn = nil
	} else {
		defer rabbitConn.Close()
	}
	publisher := event.NewFanoutPublisher(rabbitConn, 256)
	defer publisher.Close()

	farmRepo := repository.NewFarmRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	soilDataRepo := repository.NewSoilDataRepository(db)
	recRepo := repository.NewRecommendationRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	qualityService := services.NewSoilQualityService(nil)
	farmService := services.NewFarmService(farmRepo)
	alertService := services.NewAlertService(nil, alertRepo)
	recService := services.NewRecommendationService(nil, qualityService, recRepo, alertRepo, publisher)
	ingestionService := services.NewIngestionService(
		farmRepo, deviceRepo, soilDataRepo,
		qualityService, recService, alertService,
		publisher, mirror, latestCache,
	)
	analyticsService := services.NewAnalyticsService(farmRepo, soilDataRepo, recRepo)

	deviceSweep := scheduler.New(deviceRepo, cfg.DeviceCfg.InactiveAfterMinutes)
	if err := deviceSweep.Start(cfg.DeviceCfg.SweepSchedule); err != nil {
		slog.Error("Failed to start device sweep", "error", err)
	} else {
		defer deviceSweep.Stop()
	}

	router := gin.Default()
	handlers.RegisterRoutes(
		router,
		publisher,
		handlers.NewTelemetryHandler(ingestionService),
		handlers.NewAnalyticsHandler(analyticsService),
		handlers.NewRecommendationHandler(recService, farmService, soilDataRepo, mlClient),
		handlers.NewAlertHandler(alertService),
	)

	slog.Info("Telemetry service listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
