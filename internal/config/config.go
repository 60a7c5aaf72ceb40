package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string   `mapstructure:"mode"`
	Port           int      `mapstructure:"port"`
	StaticPath     string   `mapstructure:"static_path"`
	Secret         string   `mapstructure:"secret"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogLevel       string   `mapstructure:"log_level"`
	LogFormat      string   `mapstructure:"log_format"`

	WS    WSConfig    `mapstructure:"ws"`
	Lobby LobbyConfig `mapstructure:"lobby"`
}

// WSConfig tunes the websocket pumps.
type WSConfig struct {
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
}

// LobbyConfig holds the membership timings and chat limits.
type LobbyConfig struct {
	DedupTTL          time.Duration `mapstructure:"dedup_ttl"`
	NoticeInterval    time.Duration `mapstructure:"notice_interval"`
	ReconnectGrace    time.Duration `mapstructure:"reconnect_grace"`
	DefaultMaxPlayers int           `mapstructure:"default_max_players"`
	ChatRate          float64       `mapstructure:"chat_rate"`
	ChatBurst         int           `mapstructure:"chat_burst"`
	MaxMessageLen     int           `mapstructure:"max_message_len"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 3001)
	v.SetDefault("static_path", "./web")
	v.SetDefault("secret", "change-me")
	v.SetDefault("allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("ws.read_limit", 32768)
	v.SetDefault("ws.ping_period", "54s")
	v.SetDefault("ws.pong_wait", "60s")
	v.SetDefault("ws.write_wait", "5s")
	v.SetDefault("ws.send_buffer", 64)

	v.SetDefault("lobby.dedup_ttl", "5s")
	v.SetDefault("lobby.notice_interval", "2s")
	v.SetDefault("lobby.reconnect_grace", "30s")
	v.SetDefault("lobby.default_max_players", 4)
	v.SetDefault("lobby.chat_rate", 5)
	v.SetDefault("lobby.chat_burst", 10)
	v.SetDefault("lobby.max_message_len", 500)
}

// Load reads config/config.<CONFIG_ENV>.yaml over the defaults. Any key can be
// overridden from the environment with the LOBBY_ prefix, e.g.
// LOBBY_LOBBY_RECONNECT_GRACE=10s.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	setDefaults(v)
	v.SetEnvPrefix("LOBBY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 {
		errs = append(errs, fmt.Errorf("port must be positive, got %d", c.Port))
	}
	if c.Lobby.DefaultMaxPlayers < 1 {
		errs = append(errs, errors.New("lobby.default_max_players must be at least 1"))
	}
	if c.WS.PingPeriod >= c.WS.PongWait {
		errs = append(errs, errors.New("ws.ping_period must be shorter than ws.pong_wait"))
	}
	if c.WS.SendBuffer < 1 {
		errs = append(errs, errors.New("ws.send_buffer must be at least 1"))
	}
	return errors.Join(errs...)
}
