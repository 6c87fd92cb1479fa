package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
 * Setup logger to the file and stdout.
 *
 * In a production environment log events to the file only,
 * in a development environment log to the stdout only
 */
func setupLogger() error {

	// For the production server
	if config.Environment == "prod" {
		if config.Log.File == "" {
			return fmt.Errorf("Log file is not set for the 'prod' environment")
		}

		// Lumberjack opens the file lazily, so a wrong path
		// would be noticed with the first event only
		f, err := os.OpenFile(config.Log.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
		if err != nil {
			return fmt.Errorf("Can't open log file: %s", err.Error())
		}
		f.Close()

		// Lumberjack provides log files rotation
		log = zerolog.New(&lumberjack.Logger{
			Filename:   config.Log.File,
			MaxSize:    config.Log.MaxSize,    // Size in MB before file gets rotated
			MaxBackups: config.Log.MaxBackups, // Max number of files kept before being overwritten
			MaxAge:     config.Log.MaxAge,     // Max number of days to keep the files
			Compress:   true,                  // Whether to compress log files using gzip
		}).With().Timestamp().Logger()

		zerolog.SetGlobalLevel(config.Log.Level)

		return nil
	}

	// For the development
	stdout := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	log = zerolog.New(stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(config.Log.Level)

	return nil
}
