package cli

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/config"
	"github.com/ghostshopper/ghostshopper/internal/handlers"
	"github.com/ghostshopper/ghostshopper/internal/services"
)

// ServerDependencies holds all dependencies needed for the server
type ServerDependencies struct {
	ServerConfig    config.ServerConfig
	RunService      services.RunService
	ReportHandler   http.Handler
	TestHandler     http.Handler
	RunTestHandler  http.Handler
	ResultsHandler  http.Handler
	HealthHandler   http.Handler
	EvidenceHandler http.Handler
	MetricsHandler  http.Handler
}

// RunServe starts the dashboard server and blocks until it is shut down.
// Background runs still in flight are awaited before returning so their
// browser sessions are released.
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	if err := WaitForShutdown(server, nil); err != nil {
		return err
	}

	if deps.RunService != nil {
		log.Println("Waiting for background runs to finish")
		deps.RunService.Wait()
	}
	return nil
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	// Set up routes
	mux := http.NewServeMux()
	mux.Handle("/", deps.ReportHandler)
	mux.Handle("/test", deps.TestHandler)
	mux.Handle("/run_test", deps.RunTestHandler)
	mux.Handle("/api/results", deps.ResultsHandler)
	mux.Handle("/health", deps.HealthHandler)
	mux.Handle(handlers.EvidencePrefix, deps.EvidenceHandler)
	if deps.MetricsHandler != nil {
		mux.Handle("/metrics", deps.MetricsHandler)
	}

	// Create listener
	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	// Create HTTP server
	server := &http.Server{
		Handler: mux,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server listening on %s", listener.Addr().String())
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If the shutdown channel is nil, a new channel is created and registered with signal.Notify.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	}

	sig := <-shutdown
	log.Printf("Received signal: %v, shutting down server...", sig)

	// A synchronous /run_test can hold a request open for minutes
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// Force close the server after timeout
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}
