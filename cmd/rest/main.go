package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"featureboard-be/internal/bootstrap"
	"featureboard-be/internal/config"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/memory"
	"featureboard-be/internal/repository/unitofwork"
	"featureboard-be/internal/server"
	"featureboard-be/internal/tracer"
	"featureboard-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer shutdownTracer(context.Background())

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// 3. Initialize Store
	var uowFactory unitofwork.RepositoryFactory
	switch cfg.Database.StoreDriver {
	case "memory":
		log.Println("Store: using in-memory store (data is lost on restart)")
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	default:
		gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		uowFactory = unitofwork.NewRepositoryFactory(gormDB)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg, uowFactory, sysLogger)
	defer container.Close()

	// 5. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.Start(ctx); err != nil {
		log.Panicf("Unable to start background services: %v", err)
	}

	// 6. Initialize and Run Server
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
