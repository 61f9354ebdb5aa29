package config

// Config is the process configuration, loaded once at startup from a YAML
// or JSON file with credentials overlaid from the environment.
//
// All durations are Go duration strings (e.g. "30s", "10m").
type Config struct {
	Practicum PracticumConfig `json:"practicum"`
	Telegram  TelegramConfig  `json:"telegram"`
	Poller    PollerConfig    `json:"poller"`
	Heartbeat HeartbeatConfig `json:"heartbeat,omitempty"`
	Logging   LoggingConfig   `json:"logging"`
}

// PracticumConfig configures the homework-status API client.
//
// Token may be left empty in the file and supplied via PRACTICUM_TOKEN.
type PracticumConfig struct {
	Token    string `json:"token,omitempty"`
	Endpoint string `json:"endpoint,omitempty"` // default: production endpoint
	Timeout  string `json:"timeout,omitempty"`  // default: "30s"
}

// TelegramConfig configures outbound message delivery.
//
// Token and ChatID may be left empty in the file and supplied via
// TELEGRAM_TOKEN / TELEGRAM_CHAT_ID.
type TelegramConfig struct {
	Token       string `json:"token,omitempty"`
	ChatID      string `json:"chat_id,omitempty"`
	RatePerSec  int    `json:"rate_per_sec,omitempty"` // default: 1
	SendTimeout string `json:"send_timeout,omitempty"` // default: "10s"
}

// PollerConfig controls the poll loop.
type PollerConfig struct {
	Interval string `json:"interval,omitempty"` // default: "10m"
}

// HeartbeatConfig controls the optional liveness message.
//
// Schedule is a cron spec (e.g. "0 9 * * *"). Disabled by default.
type HeartbeatConfig struct {
	Enabled  bool   `json:"enabled,omitempty"`
	Schedule string `json:"schedule,omitempty"`
}

type LoggingConfig struct {
	Level   string        `json:"level,omitempty"` // default: "INFO"
	Console bool          `json:"console"`
	File    FileLogConfig `json:"file,omitempty"`
}

type FileLogConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// MissingCredentials reports which of the three required credentials are
// absent. The returned names match the environment variables that supply
// them so the fatal startup error is actionable.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Practicum.Token == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if c.Telegram.Token == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if c.Telegram.ChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	return missing
}
