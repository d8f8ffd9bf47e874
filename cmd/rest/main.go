package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resume-roaster-be/internal/bootstrap"
	"resume-roaster-be/internal/config"
	"resume-roaster-be/internal/server"
	"resume-roaster-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	warnings, err := cfg.Validate()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	for _, w := range warnings {
		log.Printf("[WARN] %s", w)
	}

	// 2. Tracer
	shutdownTracer := tracer.InitTracer(cfg.App)
	defer func() { _ = shutdownTracer(context.Background()) }()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Close()

	// 4. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go container.WebSocketHub.Run(ctx)

	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("[FATAL] Consumer Service: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		_ = srv.Shutdown()
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
