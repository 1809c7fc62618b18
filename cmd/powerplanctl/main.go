package main

import (
	"os"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"codeberg.org/mutker/powerplanctl/internal/logger"
)

func main() {
	// Reports start-up failures until a command initializes logging from
	// its configuration.
	logger.Init(logger.Options{
		Level:     logger.InfoLevel,
		IsService: logger.IsService(),
		Console:   os.Stderr,
	})

	if err := newRootCmd().Execute(); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.FatalWithCode(appErr).Msg("powerplanctl failed")
		}
		logger.Fatal().Err(err).Msg("powerplanctl failed")
	}
}
