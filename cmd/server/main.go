package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foliosite/folio/internal/cloudinary"
	"github.com/foliosite/folio/internal/config"
	"github.com/foliosite/folio/internal/db"
	"github.com/foliosite/folio/internal/http"
	"github.com/foliosite/folio/internal/lastfm"
	"github.com/foliosite/folio/internal/models"
	"github.com/foliosite/folio/internal/profanity"
	"github.com/foliosite/folio/internal/ws"
)

func main() {
	cfg := config.Load()

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	log.Println("Running database migrations...")
	if err := database.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Account{},
		&models.Verification{},
		&models.Post{},
		&models.Project{},
		&models.Log{},
		&models.Comment{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations complete.")

	hub := ws.NewHub()
	go hub.Run()

	env := &http.Env{
		DB:        database,
		Hub:       hub,
		Profanity: profanity.NewClient(cfg.ProfanityURL),
		Images:    cloudinary.NewClient(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret),
		Music:     lastfm.NewClient(cfg.LastFMUsername, cfg.LastFMAPIKey),
	}

	router := gin.New()
	http.SetupRoutes(router, env, cfg.CORSOrigin)

	srv := &nethttp.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
