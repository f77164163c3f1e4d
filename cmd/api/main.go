package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/dreamersunited/fieldline/internal/adapters/cache"
	adapterHTTP "github.com/dreamersunited/fieldline/internal/adapters/handler/http"
	"github.com/dreamersunited/fieldline/internal/adapters/repository"
	"github.com/dreamersunited/fieldline/internal/core/domain"
	"github.com/dreamersunited/fieldline/internal/core/services"
	"github.com/dreamersunited/fieldline/internal/core/workers"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title Fieldline API
// @version 1.0
// @description Weekly field activity tracking for IR hierarchies: infos, plans, UVs and targets.
// @BasePath /api/v1
func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	serverPort := envOr("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is not set")
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	redisDB, _ := strconv.Atoi(envOr("REDIS_DB", "0"))
	redisClient, err := cache.NewRedisClient(
		envOr("REDIS_HOST", "localhost"),
		envOr("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		redisDB,
	)
	if err != nil {
		// The API degrades gracefully without Redis: no rate limiting, no
		// target cache.
		log.Printf("Redis unavailable, continuing without cache: %v", err)
		redisClient = nil
	}

	resolver := domain.DefaultWeekResolver()

	irRepo := repository.NewPostgresIRRepository(db)
	teamRepo := repository.NewPostgresTeamRepository(db)
	activityRepo := repository.NewPostgresActivityRepository(db)
	notifRepo := repository.NewPostgresNotificationRepository(db)
	weekCountRepo := repository.NewPostgresWeekCountRepository(db)

	var targetRepo domain.TargetRepository = repository.NewPostgresTargetRepository(db)
	if redisClient != nil {
		targetRepo = repository.NewCachedTargetRepository(targetRepo, redisClient)
	}

	recountWorker := workers.NewRecountWorker(activityRepo, weekCountRepo, resolver)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	recountWorker.Start(workerCtx)

	tokenService := services.NewTokenService(jwtSecret, "fieldline", 24*time.Hour, irRepo)
	authService := services.NewAuthService(irRepo, notifRepo)
	irService := services.NewIRService(irRepo, teamRepo)
	teamService := services.NewTeamService(teamRepo, irRepo)
	activityService := services.NewActivityService(activityRepo, irRepo, teamRepo, notifRepo, resolver, recountWorker)
	targetService := services.NewTargetService(targetRepo, irRepo, teamRepo, resolver)
	reportService := services.NewReportService(activityRepo, irRepo, teamRepo, targetRepo, resolver)
	notificationService := services.NewNotificationService(notifRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:         adapterHTTP.NewAuthHandler(authService, tokenService),
		IRHandler:           adapterHTTP.NewIRHandler(irService),
		TeamHandler:         adapterHTTP.NewTeamHandler(teamService),
		ActivityHandler:     adapterHTTP.NewActivityHandler(activityService),
		TargetHandler:       adapterHTTP.NewTargetHandler(targetService),
		ReportHandler:       adapterHTTP.NewReportHandler(reportService, targetService),
		NotificationHandler: adapterHTTP.NewNotificationHandler(notificationService),
		TokenService:        tokenService,
		DB:                  db,
		Redis:               redisClient,
		StartTime:           startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Fieldline API running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
