package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the logging level
type Level logrus.Level

// Logging levels
const (
	DebugLevel Level = Level(logrus.DebugLevel)
	InfoLevel  Level = Level(logrus.InfoLevel)
	WarnLevel  Level = Level(logrus.WarnLevel)
	ErrorLevel Level = Level(logrus.ErrorLevel)
)

// stdout is reserved for usage and version output.
var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
}

// LevelFor maps the quiet, verbose and debug switches to a level. Debug
// wins over verbose, verbose over quiet.
func LevelFor(quiet, verbose, debug bool) Level {
	switch {
	case debug:
		return DebugLevel
	case verbose:
		return InfoLevel
	case quiet:
		return ErrorLevel
	}
	return WarnLevel
}

// SetLevel sets the logging level
func SetLevel(level Level) {
	logger.SetLevel(logrus.Level(level))
}

// GetLevel returns the current logging level
func GetLevel() Level {
	return Level(logger.GetLevel())
}

// SetFormatter sets the log formatter
func SetFormatter(formatter logrus.Formatter) {
	logger.SetFormatter(formatter)
}

// SetOutput sets the log output
func SetOutput(output io.Writer) {
	logger.SetOutput(output)
}

// EnableFileLogging tees log output into a rotating file
func EnableFileLogging(logDir, logFile string, maxSize, maxBackups, maxAge int) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	rotateLogger := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFile),
		MaxSize:    maxSize,    // megabytes
		MaxBackups: maxBackups, // number of backups
		MaxAge:     maxAge,     // days
		Compress:   true,
	}

	logger.SetOutput(io.MultiWriter(os.Stderr, rotateLogger))
	return nil
}

// IsEnabled reports whether messages at level are logged.
func IsEnabled(level Level) bool {
	return logger.IsLevelEnabled(logrus.Level(level))
}

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// DebugWithFields logs a debug message with fields
func DebugWithFields(fields logrus.Fields, format string, args ...interface{}) {
	logger.WithFields(fields).Debugf(format, args...)
}

// InfoWithFields logs an info message with fields
func InfoWithFields(fields logrus.Fields, format string, args ...interface{}) {
	logger.WithFields(fields).Infof(format, args...)
}
