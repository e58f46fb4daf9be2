package main

import (
	"github.com/pyquest-hq/pyquest_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.SqlService{},
		&services.RedisService{},

		&services.JWTService{},
		&services.AuthMiddleware{},
		&services.RateLimitService{},

		&services.ContentService{},
		&services.RewardService{},
		&services.StreakService{},
		&services.ProgressService{},
		&services.ChallengeService{},
		&services.LeaderboardService{},

		&services.MonitoringService{},
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
