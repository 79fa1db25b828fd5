package contract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// LoggingParams holds the logging settings.
type LoggingParams struct {
	Level   string
	JSON    bool
	LogFile string // Rotated log file; stderr when empty
}

// Logger returns the shared application logger.
func Logger() *logrus.Logger {
	return logger
}

// SetupLogging configures the shared logger.
func SetupLogging(params LoggingParams) error {
	level, err := GetLevel(params.Level)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	if params.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	logger.SetOutput(logOutput(params.LogFile))
	return nil
}

func logOutput(logFile string) io.Writer {
	if logFile == "" {
		return os.Stderr
	}
	if !strings.HasSuffix(logFile, ".log") {
		logFile += ".log"
	}
	return &lumberjack.Logger{
		Filename:  logFile,
		MaxSize:   10, // megabytes
		LocalTime: false,
		Compress:  true,
	}
}

// GetLevel parses a log level name.
func GetLevel(level string) (logrus.Level, error) {
	if level == "" {
		return logrus.WarnLevel, nil
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.WarnLevel, fmt.Errorf("invalid log level '%s'. must be trace, debug, info, warn, error", level)
	}
	return parsed, nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.WithError(err).Fatal(msg)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	logger.WithError(err).Warn(msg)
}
