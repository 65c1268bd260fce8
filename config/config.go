package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Lab        LabConfig        `yaml:"lab"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Seed       SeedConfig       `yaml:"seed"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port              int           `yaml:"port"`
	RateLimitPerSec   float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst    int           `yaml:"rate_limit_burst"`
	SessionTTLMinutes int           `yaml:"session_ttl_minutes"`
	SessionTTL        time.Duration `yaml:"-"`
}

// LabConfig holds the reservation engine tunables.
type LabConfig struct {
	ConflictPolicy       string        `yaml:"conflict_policy"`
	ClockSkewSeconds     int           `yaml:"clock_skew_seconds"`
	ClockSkew            time.Duration `yaml:"-"`
	LateReturnPenalty    int           `yaml:"late_return_penalty"`
	OverdueExtendPenalty int           `yaml:"overdue_extend_penalty"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// PushConfig holds the VAPID keys for web push notifications.
// Push delivery is disabled when either key is empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig sizes the push and archive worker pools.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// ArchiveConfig controls persistence of closed borrow sessions.
type ArchiveConfig struct {
	Enabled   bool `yaml:"enabled"`
	QueueSize int  `yaml:"queue_size"`
}

// SeedConfig lists accounts and devices created at startup.
type SeedConfig struct {
	Users   []SeedUser   `yaml:"users"`
	Devices []SeedDevice `yaml:"devices"`
}

// SeedUser is a bootstrap account. Password is plain text and hashed on load.
type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Rank     string `yaml:"rank"`
}

// SeedDevice is a bootstrap device.
type SeedDevice struct {
	Name         string `yaml:"name"`
	Variant      string `yaml:"variant"`
	AllowStudent bool   `yaml:"allow_student"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Config{Archive: ArchiveConfig{Enabled: true}}
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.SessionTTLMinutes <= 0 {
		cfg.Server.SessionTTLMinutes = 12 * 60
	}
	cfg.Server.SessionTTL = time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute

	if cfg.Lab.ConflictPolicy == "" {
		cfg.Lab.ConflictPolicy = "teacher-priority"
	}
	if cfg.Lab.ClockSkewSeconds <= 0 {
		cfg.Lab.ClockSkewSeconds = 120
	}
	cfg.Lab.ClockSkew = time.Duration(cfg.Lab.ClockSkewSeconds) * time.Second
	if cfg.Lab.LateReturnPenalty <= 0 {
		cfg.Lab.LateReturnPenalty = 10
	}
	if cfg.Lab.OverdueExtendPenalty <= 0 {
		cfg.Lab.OverdueExtendPenalty = 5
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "labd.db"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Archive.QueueSize <= 0 {
		cfg.Archive.QueueSize = 64
	}
}
