package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/takaio/ipgate/internal/app"
)

func main() {
	// Local development reads DISCORD_TOKEN and friends from a .env file.
	// A missing file is fine; deployments set real environment variables.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
