// Package main implements a standalone mock Stork API server for E2E testing.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/contentbird/stork-bridge/internal/testutil/mockstork"
)

// getPort returns the port from the PORT environment variable or the default.
func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	return port
}

// setupShutdownHandler sets up graceful shutdown handling.
func setupShutdownHandler(httpServer *http.Server) <-chan bool {
	done := make(chan bool)
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down mockstork server...")
		//nolint:errcheck
		httpServer.Close()
		close(done)
	}()
	return done
}

func main() {
	port := getPort()
	server := mockstork.New()

	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: server.Handler(),
	}

	done := setupShutdownHandler(httpServer)

	log.Printf("mockstork listening on :%s", port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}

	<-done
	log.Println("mockstork stopped")
}
