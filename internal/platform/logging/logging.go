package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger: JSON lines on stdout, level from
// config (info when the value does not parse).
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
