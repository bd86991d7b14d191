package main

import (
	"database/sql"
	"log"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	_ "github.com/lib/pq"

	"eventlottery/config"
	_ "eventlottery/docs"
	authadapter "eventlottery/internal/adapters/auth"
	"eventlottery/internal/adapters/notify"
	delivery "eventlottery/internal/delivery/http"
	"eventlottery/internal/delivery/http/controllers"
	"eventlottery/internal/delivery/http/middleware"
	"eventlottery/internal/repository/postgres"
	"eventlottery/internal/services"
)

const contextTimeout = 10 * time.Second

// @title Event Lottery API
// @version 1.0
// @description Registration lottery for capacity-limited events: waitlists, random draws, invitations, and replacement draws.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer, tokenVerifier := authadapter.NewJWTCodec(cfg.JWTSecret)

	notifier, err := notify.NewNotifier(notify.Config{
		Provider:    cfg.Notify.Provider,
		FromAddress: cfg.Notify.FromAddress,
		FromName:    cfg.Notify.FromName,
		SES: notify.SESConfig{
			Region:             cfg.Notify.SESRegion,
			AccessKeyID:        cfg.Notify.SESAccessKeyID,
			SecretAccessKey:    cfg.Notify.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Notify.SESInsecureTLS,
		},
	}, userRepo)
	if err != nil {
		log.Fatalf("failed to create notifier: %v", err)
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry)
	eventService := services.NewEventService(eventRepo, contextTimeout)
	lotteryService := services.NewLotteryService(eventRepo, userRepo, notificationRepo, notifier, logger, rng, contextTimeout)
	userService := services.NewUserService(userRepo, eventRepo, notificationRepo, logger, contextTimeout)

	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, eventService)
	lotteryController := controllers.NewLotteryController(logger, lotteryService)
	userController := controllers.NewUserController(logger, userService)

	mux := delivery.NewRouter(authController, eventController, lotteryController, userController, tokenVerifier, logger)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}

	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
