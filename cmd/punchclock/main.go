package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"punchclock/internal/bot"
	"punchclock/internal/config"
	"punchclock/internal/db"
	"punchclock/internal/insight"
	"punchclock/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting punchclock...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Open the punch store
	database, err := db.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	generator := insight.NewOpenAI(insight.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})

	server, err := web.New(database, generator, cfg.Server.Addr)
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		s := <-signals
		log.Printf("Received signal: %v", s)
		cancel()
	}()

	go func() {
		if err := server.Start(); err != nil {
			log.Printf("Error running web server: %v", err)
			cancel()
		}
	}()

	// The Discord front end is optional
	if cfg.Discord.Token != "" {
		discordBot, err := bot.New(cfg, database)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}
		go func() {
			if err := discordBot.Start(ctx); err != nil {
				log.Printf("Error running bot: %v", err)
			}
		}()
	}

	// Wait for shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received")

	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("Error during web server shutdown: %v", err)
	}

	log.Println("Closing database connection...")
	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Application shutdown complete")
}
