package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/galleried/galleria/config"
	"github.com/galleried/galleria/db"
	"github.com/galleried/galleria/services"
)

type Server struct {
	Config         *config.Config
	AuthRepository db.AuthRepository
	TokenStore     db.TokenStore
	AuthService    services.AuthService
	MediaService   services.MediaService
}

// Start runs the HTTP server until interrupted, then drains in-flight
// requests before exiting.
func (s *Server) Start() {
	router := s.setupRouter()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Config.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Server started on port %d", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
