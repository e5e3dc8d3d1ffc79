package main

import (
	"context"
	"log"
	netHttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"classroom-module/config"
	"classroom-module/db"
	"classroom-module/http"
	"classroom-module/logger"
	"classroom-module/services"
)

func main() {
	// Determine project root by searching upward for go.mod
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal("Error getting current working directory:", err)
	}

	absProjectRoot := findProjectRoot(cwd)
	if absProjectRoot == "" {
		log.Fatalf("Could not locate project root (go.mod) from %s", cwd)
	}

	if err := os.Chdir(absProjectRoot); err != nil {
		log.Fatal("Error changing to project root:", err)
	}
	logger.Info("Working directory set to project root: %s", absProjectRoot)

	// Load configuration
	config.LoadConfig()

	// Initialize Kafka producer (non-fatal)
	services.InitProducer()

	// Initialize database
	if err := db.InitDB(); err != nil {
		logger.Fatal("Error initializing database: %v", err)
	}

	// Setup routes
	http.SetupRoutes()

	// Start the email consumer alongside the API server
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if config.AppConfig.StartConsumers {
		services.StartEmailWorker(ctx)
	}

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting on %s", config.AppConfig.ListenAddr)
		log.Fatal(netHttp.ListenAndServe(config.AppConfig.ListenAddr, nil))
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutdown signal received, closing Kafka producer...")

	cancel()
	if err := services.CloseProducer(); err != nil {
		logger.Error("Error closing Kafka producer: %v", err)
	}

	logger.Info("Server shutdown complete")
}

// findProjectRoot walks up from start and returns the first directory containing go.mod
func findProjectRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || strings.HasSuffix(dir, ":\\") || parent == "" {
			break
		}
		dir = parent
	}
	return ""
}
