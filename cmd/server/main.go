package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	appfx "github.com/amityadav/voyago/internal/fx"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		appfx.ConfigModule, // Provides: config.Config
		appfx.AIModule,     // Provides: ai.Provider, ai.Transcriber
		appfx.SearchModule, // Provides: *search.Registry
		appfx.CoreModule,   // Provides: *normalize.Normalizer, *core.Planner
		appfx.ServerModule, // Starts the REST HTTP server

		// Use simple console logger for cleaner output
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
