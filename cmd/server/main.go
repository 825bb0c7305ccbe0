package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/Datavoxx/daglig-rad-sub001/internal/api"
	"github.com/Datavoxx/daglig-rad-sub001/internal/archive"
	"github.com/Datavoxx/daglig-rad-sub001/internal/config"
	"github.com/Datavoxx/daglig-rad-sub001/internal/importsession"
	"github.com/Datavoxx/daglig-rad-sub001/internal/pkg/logger"
	"github.com/Datavoxx/daglig-rad-sub001/internal/repository/postgres"
	"github.com/Datavoxx/daglig-rad-sub001/internal/service/estimate"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetimport"
)

// checkPortAvailable verifies that the target port is not already in use,
// so a stale process doesn't silently absorb traffic meant for us.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.RedactPII != nil {
		logger.SetRedactPII(*cfg.Logging.RedactPII)
	}

	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		log.Fatal(err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("database url is required (config database.url or DATABASE_URL)")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to reach database: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to reach redis at %s: %v", cfg.Redis.Addr, err)
	}

	var archiver archive.Archiver
	if cfg.Archive.Enabled {
		archiver, err = archive.NewS3Archiver(context.Background(),
			cfg.Archive.S3Bucket, cfg.Archive.S3Region, cfg.Archive.AWSProfile)
		if err != nil {
			log.Fatalf("Failed to set up S3 archive: %v", err)
		}
	}

	svc := estimate.NewService(postgres.NewEstimateRepo(db))
	sessions := importsession.NewStore(redisClient, cfg.Import.SessionTTL())
	server := api.NewServer(svc, sheetimport.DefaultPipeline(), sessions,
		redisClient, archiver, cfg.Import)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // commits of large sheets are slow
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
