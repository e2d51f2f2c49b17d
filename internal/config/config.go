package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode            string        `mapstructure:"mode"`
	Port            int           `mapstructure:"port"`
	Secret          string        `mapstructure:"secret"`
	WSBuffer        int           `mapstructure:"ws_buffer"`
	WSWriteTimeout  time.Duration `mapstructure:"ws_write_timeout"`
	JournalDepth    int           `mapstructure:"journal_depth"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
	ReapInterval    time.Duration `mapstructure:"reap_interval"`
	RoomRetention   time.Duration `mapstructure:"room_retention"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("ws_buffer", 32)
	v.SetDefault("ws_write_timeout", "5s")
	v.SetDefault("journal_depth", 1024)
	v.SetDefault("idle_ttl", "90s")
	v.SetDefault("reap_interval", "30s")
	v.SetDefault("room_retention", "24h")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
