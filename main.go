// Chirper is a small social media backend: users sign up, post tweets,
// comment on tweets, and browse the most commented ones. Authentication is
// a JWT carried in a session cookie.
//
// @title Chirper API
// @version 1.0
// @description A minimal social media backend: tweets, comments and cookie-based sessions.
// @BasePath /api/v1
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/auth"
	"github.com/user/chirper-go/comments"
	"github.com/user/chirper-go/config"
	"github.com/user/chirper-go/db"
	_ "github.com/user/chirper-go/docs"
	"github.com/user/chirper-go/tweets"
	"github.com/user/chirper-go/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	authService := auth.NewAuthService(pool, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService, cfg.Auth.SessionTTL)

	userService := users.NewUserService(pool)
	userHandlers := users.NewHandlers(userService)

	tweetService := tweets.NewTweetService(pool)
	tweetHandler := tweets.NewHandler(tweetService)

	commentService := comments.NewCommentService(pool)
	commentHandler := comments.NewHandler(commentService)

	sessionMW := auth.SessionMiddleware(cfg.Auth)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(recoverPanics)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/signup", authHandlers.HandleSignup())
		r.Post("/login", authHandlers.HandleLogin())
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(sessionMW)
		r.Get("/me", userHandlers.HandleMe())
	})

	r.Route("/api/v1/tweets", func(r chi.Router) {
		tweetHandler.RegisterRoutes(r, sessionMW)
	})

	r.Route("/api/v1/comments", func(r chi.Router) {
		r.Use(sessionMW)
		commentHandler.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// recoverPanics converts a handler panic into the standard JSON error body.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				log.Printf("Panic: %+v", rvr)
				writeError(w, apperror.NewInternalError("internal server error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// writeError mirrors auth.WriteError for the panic recovery middleware, where
// the request may already be half-written and we only have an AppError.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
