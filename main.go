package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/zeu5/maxbias-rl/cmd"
)

// main entry point to all the comparisons
func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("maxbias failed")
		os.Exit(1)
	}
}
