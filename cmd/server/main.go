package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strawfall/tetris-engine/internal/api"
	"github.com/strawfall/tetris-engine/internal/config"
	"github.com/strawfall/tetris-engine/internal/leaderboard"
	"github.com/strawfall/tetris-engine/internal/session"
)

func main() {
	cfg := config.Load()

	board, err := leaderboard.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[server] leaderboard init failed: %v", err)
	}
	if board != nil {
		defer board.Close()
		log.Println("[server] leaderboard persistence enabled")
	} else {
		log.Println("[server] leaderboard persistence disabled (no LEADERBOARD_DATABASE_URL)")
	}

	manager := session.NewManager()
	srv := api.NewServer(manager, board, cfg.JWTSecret)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("[server] listening on http://%s:%s", cfg.Host, cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[server] shutting down")

	manager.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("[server] shutdown error: %v", err)
	}
	log.Println("[server] shutdown complete")
}
