package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kelimeoyunu/internal/clock"
	"kelimeoyunu/internal/config"
	"kelimeoyunu/internal/database"
	"kelimeoyunu/internal/handlers"
	"kelimeoyunu/internal/repository"
	"kelimeoyunu/internal/security"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(db)
	scores := repository.NewScoreRepository(db)

	authHandler := handlers.NewAuthHandler(users, cfg.JWTSecret)
	scoreHandler := handlers.NewScoreHandler(scores, clock.System{})
	adminHandler := handlers.NewAdminHandler(users, scores)

	// Brute-force protection on the credential endpoints only; score
	// reads stay unthrottled.
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	registerLimiter := security.NewRateLimiter(5, time.Minute)
	submitLimiter := security.NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()
	mux.Handle("POST /auth/register", handlers.RateLimit(registerLimiter, http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /auth/login", handlers.RateLimit(loginLimiter, http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /auth/change-password", handlers.RequireAuth(cfg.JWTSecret, http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /scores", handlers.RateLimit(submitLimiter, http.HandlerFunc(scoreHandler.Submit)))
	mux.HandleFunc("GET /scores", scoreHandler.List)
	mux.Handle("GET /admin/users", handlers.RequireAdmin(cfg.JWTSecret, http.HandlerFunc(adminHandler.ListUsers)))
	mux.Handle("DELETE /admin/users/{id}", handlers.RequireAdmin(cfg.JWTSecret, http.HandlerFunc(adminHandler.DeleteUser)))
	mux.Handle("DELETE /admin/scores/{id}", handlers.RequireAdmin(cfg.JWTSecret, http.HandlerFunc(adminHandler.DeleteScore)))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handlers.Logging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Leaderboard server listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
