package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"workdesk/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
