package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fleetops/fleetd/internal/pkg/models"
)

// AppLogger wraps logrus with JSON output and optional file mirroring
type AppLogger struct {
	*logrus.Logger
	filePath string
	file     *os.File
}

// NewAppLogger creates the application logger from config
func NewAppLogger(cfg models.LoggerConfig) (*AppLogger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	al := &AppLogger{Logger: l}
	if cfg.FilePath != "" {
		if err := al.setupFileOutput(cfg.FilePath); err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
	}
	return al, nil
}

func (al *AppLogger) setupFileOutput(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	al.filePath = filePath
	al.file = file
	al.Logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return nil
}

// Close closes the log file
func (al *AppLogger) Close() error {
	if al.file != nil {
		return al.file.Close()
	}
	return nil
}

// WithRequestContext adds request-scoped fields to a log entry
func (al *AppLogger) WithRequestContext(requestID, userID, method, path string) *logrus.Entry {
	return al.Logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
		"method":     method,
		"path":       path,
	})
}
