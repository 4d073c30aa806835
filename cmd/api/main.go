package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pav-beep/calorie.app/config"
	"github.com/pav-beep/calorie.app/internal/api"
	"github.com/pav-beep/calorie.app/internal/database"
	"github.com/pav-beep/calorie.app/internal/router"
	"github.com/pav-beep/calorie.app/internal/server"
	"github.com/pav-beep/calorie.app/internal/service"
	"github.com/pav-beep/calorie.app/internal/store"
)

func main() {
	// Local runs keep their settings in a .env file; deployments set
	// real environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	ledgerStore, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize ledger store: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	visionService, err := service.NewVisionService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize vision service: %v", err)
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}

	authService := service.NewAuthService(ledgerStore, cfg.ReferralCodes, cfg.JWTSecret)
	draftService := service.NewDraftService(redisClient)
	ledgerService := service.NewLedgerService(ledgerStore)
	photoService := service.NewPhotoService(s3Config)

	authHandler := api.NewAuthHandler(authService)
	mealHandler := api.NewMealHandler(visionService, draftService, ledgerService, photoService)

	r := router.SetupRouter(authHandler, mealHandler, authService)
	srv := server.New(r, cfg.ServerHost, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
