package utils

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	// Уровень логирования (debug/info/warn/error)
	Level string
	// Формат логов (text/json)
	Format string
	// Выходной поток (os.Stdout, файл и т.д.)
	Output io.Writer
}

// InitLogger инициализирует и возвращает логгер
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	logger := log.NewWithOptions(cfg.Output, log.Options{
		Prefix:          "university",
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           parseLevel(cfg.Level),
	})

	if cfg.Format == "json" {
		logger.SetFormatter(log.JSONFormatter)
	} else {
		logger.SetFormatter(log.TextFormatter)
	}

	return logger
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
