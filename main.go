package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"link-downloader-go/config"
	"link-downloader-go/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Error shutting down: %v\n", err)
		}
	}()

	if err := srv.Listen(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
