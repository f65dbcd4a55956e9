package main

import (
	"fmt"

	"ballotbox/auth"
	"ballotbox/config"
	"ballotbox/database"
	"ballotbox/handlers"
	"ballotbox/middleware"
	"ballotbox/repositories"
	"ballotbox/routes"
	"ballotbox/voting"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Info("Database connection successfully opened")

	users := repositories.NewGormUserStore(db)
	candidates := repositories.NewGormCandidateStore(db)
	ballots := repositories.NewGormBallotStore(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, nil)
	votingService := voting.NewService(users, candidates, ballots)

	app := fiber.New()
	app.Use(middleware.RequestLogger())

	userHandler := handlers.NewUserHandler(users, tokens)
	candidateHandler := handlers.NewCandidateHandler(candidates, votingService)
	routes.SetupRoutes(app, tokens, userHandler, candidateHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Infof("Starting server on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
