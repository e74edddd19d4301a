package main

import (
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

// Settings are the process-level knobs: where the queue database
// lives, where the API listens and how chatty logging is. They are
// distinct from the queue configuration persisted in the database.
//
// Resolution order: built-in defaults, then an optional queuectl
// config file in the working directory, then QUEUECTL_* environment
// variables.
type Settings struct {
	DB       string
	Addr     string
	LogLevel string
}

func loadSettings() *Settings {
	v := viper.New()
	v.SetDefault("db", "queue.db")
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetConfigName("queuectl")
	v.AddConfigPath(".")
	v.SetEnvPrefix("queuectl")
	v.AutomaticEnv()
	_ = v.ReadInConfig() // config file is optional
	return &Settings{
		DB:       v.GetString("db"),
		Addr:     v.GetString("addr"),
		LogLevel: v.GetString("log_level"),
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
