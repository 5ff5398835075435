package main

import (
	"os"

	"github.com/izouxv/goShamir/utils"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Str("layer", utils.LayerMain).Err(err).Msg("command failed")
		os.Exit(1)
	}
}
