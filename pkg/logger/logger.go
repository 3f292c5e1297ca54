// pkg/logger/logger.go

package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Config holds logger configuration
type Config struct {
	Mode       string
	JSONFormat bool
	Output     io.Writer
}

// Init configures the shared logger based on application mode.
func Init(cfg *Config) {
	formatter := &ConsoleFormatter{TimestampFormat: time.RFC3339}

	switch cfg.Mode {
	case "debug", "test":
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(formatter)
		log.SetReportCaller(true)
	default:
		log.SetLevel(logrus.InfoLevel)
		if cfg.JSONFormat {
			log.SetFormatter(&logrus.JSONFormatter{
				TimestampFormat: time.RFC3339,
			})
		} else {
			log.SetFormatter(formatter)
		}
		log.SetReportCaller(false)
	}

	if cfg.Output != nil {
		log.SetOutput(cfg.Output)
	} else {
		log.SetOutput(os.Stdout)
	}
}

func GetLogger() *logrus.Logger {
	return log
}

// WithFields returns an entry carrying structured fields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return log.WithFields(logrus.Fields(fields))
}

// Standard logging methods
func Error(args ...interface{}) {
	log.Error(args...)
}

func Info(args ...interface{}) {
	log.Info(args...)
}

func Debug(args ...interface{}) {
	log.Debug(args...)
}

func Warn(args ...interface{}) {
	log.Warn(args...)
}
