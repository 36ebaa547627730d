package utils

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// GetLogger returns a singleton logger instance
func GetLogger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()

		// Set log level from environment or default to info
		logger.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))

		// Set formatter
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})

		// Set output to stdout by default
		logger.SetOutput(os.Stdout)
	})

	return logger
}

// SetLogLevel changes the level of the shared logger
func SetLogLevel(level string) {
	GetLogger().SetLevel(parseLevel(level))
}

func parseLevel(level string) logrus.Level {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return logLevel
}
