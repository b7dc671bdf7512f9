package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Bank struct {
		TTL string `yaml:"ttl"`
	} `yaml:"bank"`
	Remote struct {
		Endpoint      string `yaml:"endpoint"`
		Protocol      string `yaml:"protocol"`
		APIKey        string `yaml:"api_key"`
		Model         string `yaml:"model"`
		Timeout       string `yaml:"timeout"`
		RatePerMinute int    `yaml:"rate_per_minute"`
		ProbeAddr     string `yaml:"probe_addr"`
	} `yaml:"remote"`
	Game struct {
		SpinDuration string `yaml:"spin_duration"`
		RevealDelay  string `yaml:"reveal_delay"`
		TickInterval string `yaml:"tick_interval"`
		Countdown    int    `yaml:"countdown"`
		FullTurns    int    `yaml:"full_turns"`
	} `yaml:"game"`
}

// APIKeyEnv overrides remote.api_key so secrets stay out of the YAML file.
const APIKeyEnv = "QUESTION_API_KEY"

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.Remote.APIKey = key
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
