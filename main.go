package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/MikeTTh/env"

	"github.com/evai-live/evai-bot/api"
	"github.com/evai-live/evai-bot/db"
	"github.com/evai-live/evai-bot/memdb"
	"github.com/evai-live/evai-bot/telegram"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	_ = godotenv.Load()

	debug, _ := strconv.ParseBool(env.String("DEBUG", "false"))
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Msg("Starting EVAI survey bot...")

	if err := db.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}

	if err := memdb.InitRedisConnection(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}

	apiRun, err := api.InitApi(debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the API")
	}

	botRun, err := telegram.InitTelegramBot(debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up the Telegram bot")
	}

	go apiRun()

	log.Info().Msg("Everything is ready! Listening for updates!")
	botRun()
}
