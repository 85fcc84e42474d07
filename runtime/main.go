package main

import (
	"os"

	"github.com/skillside-labs/questly_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded, using system environment")
	}

	ctx, err := context.NewCtx(
		&services.JWTService{},
		databaseService(),
		&services.RedisService{},
		&services.MonitoringService{},
		&services.MinIOService{},

		&services.AuthService{},
		&services.RateLimitService{},

		&services.LeaderboardService{},
		&services.ChallengeService{},
		&services.GamificationService{},
		&services.CatalogService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}

// databaseService selects the relational store registered under SQL_SVC.
func databaseService() context.Service {
	if os.Getenv("DB_DRIVER") == "sqlite" {
		return &services.SqliteService{}
	}
	return &services.PostgresService{}
}
