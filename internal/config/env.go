package config

import (
	"os"
	"strings"
)

// Environment variables that carry the three credentials. They take
// precedence over file values so tokens never have to live on disk.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// overlayEnv copies credentials from the environment into cfg.
// Empty environment values are ignored.
func overlayEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvPracticumToken)); v != "" {
		cfg.Practicum.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelegramToken)); v != "" {
		cfg.Telegram.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelegramChatID)); v != "" {
		cfg.Telegram.ChatID = v
	}
}
