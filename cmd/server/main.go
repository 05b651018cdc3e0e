package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/matchsquad/field-session-booking/internal/config"     // Internal config loader
	"github.com/matchsquad/field-session-booking/internal/database"   // MySQL connection pool
	"github.com/matchsquad/field-session-booking/internal/handler"    // HTTP handlers
	"github.com/matchsquad/field-session-booking/internal/middleware" // Redis cache and rate limiting
	"github.com/matchsquad/field-session-booking/internal/queue"      // RabbitMQ event publisher
	"github.com/matchsquad/field-session-booking/internal/repository" // Data access layer
	"github.com/matchsquad/field-session-booking/internal/router"     // Route registration
	"github.com/matchsquad/field-session-booking/internal/service"    // Transactional booking logic
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; features degrade

	// Repositories.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	venueRepo := repository.NewVenueRepo(db)
	fieldRepo := repository.NewFieldRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	participantRepo := repository.NewParticipantRepo(db)

	// Services.
	allocator := service.NewFieldAllocator(fieldRepo)
	sessionSvc := service.NewSessionService(db, sessionRepo, participantRepo, allocator)
	rosterSvc := service.NewRosterService(db, sessionRepo, participantRepo, queue.NewPublisher())
	precheckSvc := service.NewPrecheckService(sessionRepo)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	venueH := handler.NewVenueHandler(venueRepo, fieldRepo)
	sessionH := handler.NewSessionHandler(sessionSvc, sessionRepo, participantRepo)
	rosterH := handler.NewRosterHandler(rosterSvc)
	precheckH := handler.NewPrecheckHandler(precheckSvc)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)) // no-op when disabled

	var cacheMW echo.MiddlewareFunc
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled && rdb != nil {
		cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBrowse(e, venueH, cacheMW)
	router.RegisterAdmin(e, venueH, cfg.JWTSecret)
	router.RegisterBooking(e, sessionH, rosterH, precheckH, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
