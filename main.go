package main

import (
	"context"
	"log"

	"github.com/emese007/montpellier-bike-prediction/app"
	"github.com/emese007/montpellier-bike-prediction/config"
)

func main() {
	// Load config from .env file
	cfg := config.LoadFromEnv()

	// Create and start app
	application := app.New(cfg)
	if err := application.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	application.Stop()
}
