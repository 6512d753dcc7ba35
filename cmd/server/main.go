package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmdirect/internal/config"
	"farmdirect/internal/domain"
	"farmdirect/internal/grading"
	"farmdirect/internal/httpserver"
	"farmdirect/internal/security"
	"farmdirect/internal/service"
	"farmdirect/internal/store/postgres"
	"farmdirect/internal/store/sqlite"
	"farmdirect/internal/upload"
)

// @title           FarmDirect API
// @version         1.0
// @description     Marketplace backend connecting farmers and buyers.

// @host            localhost:8000
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, repos, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Security components
	tokenSvc := security.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	passwordHasher := security.NewPasswordHasher(0)

	encryptor, err := security.NewEncryptor([]byte(cfg.EncryptKey))
	if err != nil {
		log.Fatalf("failed to initialize encryptor: %v", err)
	}

	// Grading pipeline
	fetcher := grading.NewHTTPFetcher(30 * time.Second)
	detector := grading.NewRemoteDetector(cfg.DetectorURL, 60*time.Second)
	grader := grading.NewGrader()

	signer := upload.NewSigner(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
		cfg.Cloudinary.UploadFolder,
	)

	// Services
	authSvc := service.NewAuthService(repos.Users, tokenSvc, passwordHasher)
	listingSvc := service.NewListingService(repos.Listings, fetcher, detector, grader)
	chatSvc := service.NewChatService(repos.Listings, repos.Rooms, repos.Messages, encryptor)

	// Build HTTP router
	router := httpserver.NewRouter(httpserver.Deps{
		Config:   cfg,
		Tokens:   tokenSvc,
		Auth:     authSvc,
		Listings: listingSvc,
		Chat:     chatSvc,
		Signer:   signer,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Starting FarmDirect server on %s\n", cfg.HTTPAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

type repositories struct {
	Users    domain.UserRepository
	Listings domain.ListingRepository
	Rooms    domain.ChatRoomRepository
	Messages domain.MessageRepository
}

// openStore opens the configured database, runs migrations and returns the
// driver-specific repository set.
func openStore(cfg *config.Config) (*sql.DB, repositories, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, repositories{}, err
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, repositories{}, err
		}
		return db, repositories{
			Users:    postgres.NewUserRepo(db),
			Listings: postgres.NewListingRepo(db),
			Rooms:    postgres.NewChatRoomRepo(db),
			Messages: postgres.NewMessageRepo(db),
		}, nil
	default:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, repositories{}, err
		}
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return nil, repositories{}, err
		}
		return db, repositories{
			Users:    sqlite.NewUserRepo(db),
			Listings: sqlite.NewListingRepo(db),
			Rooms:    sqlite.NewChatRoomRepo(db),
			Messages: sqlite.NewMessageRepo(db),
		}, nil
	}
}
