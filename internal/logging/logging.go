package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the pipeline logger. Text output because the tool is run by
// a human from a terminal; level comes from config.
func New(level string) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	log.SetOutput(os.Stderr)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}
