// Package config loads the portal configuration from config/portal.yml with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when PORTAL_CONFIG is unset
const DefaultPath = "config/portal.yml"

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type serverFile struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	CookieName     string   `yaml:"cookie_name"`
	CookieSecure   bool     `yaml:"cookie_secure"`
}

type backendFile struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type storageFile struct {
	Driver string `yaml:"driver"`
	Redis  struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

type messagingFile struct {
	RabbitMQURL string `yaml:"rabbitmq_url"`
}

type portalFile struct {
	LoginDelay    string `yaml:"login_delay"`
	RegisterDelay string `yaml:"register_delay"`
	WorkspaceIdle string `yaml:"workspace_idle"`
	PruneInterval string `yaml:"prune_interval"`
}

// File mirrors config/portal.yml
type File struct {
	Server    serverFile    `yaml:"server"`
	Backend   backendFile   `yaml:"backend"`
	Storage   storageFile   `yaml:"storage"`
	Messaging messagingFile `yaml:"messaging"`
	Portal    portalFile    `yaml:"portal"`
}

type Config struct {
	Port           string
	AllowedOrigins []string
	CookieName     string
	CookieSecure   bool

	BackendURL string
	// zero means no deadline on backend calls
	BackendTimeout time.Duration

	StorageDriver string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// empty disables event publishing
	RabbitMQURL string

	LoginDelay    time.Duration
	RegisterDelay time.Duration
	WorkspaceIdle time.Duration
	PruneInterval time.Duration
}

func defaults() File {
	var f File
	f.Server.Port = 8080
	f.Server.CookieName = "medgpt_device"
	f.Server.AllowedOrigins = []string{"http://localhost:3000"}
	f.Backend.URL = "http://localhost:5000"
	f.Storage.Driver = StorageMemory
	f.Storage.Redis.Addr = "localhost:6379"
	f.Portal.LoginDelay = "1s"
	f.Portal.RegisterDelay = "3s"
	f.Portal.WorkspaceIdle = "2h"
	f.Portal.PruneInterval = "10m"
	return f
}

// Load reads .env if present, then the YAML file (PORTAL_CONFIG, else
// DefaultPath), then applies environment overrides. A missing file is not an
// error; the defaults are used instead.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}
	return LoadFile(env("PORTAL_CONFIG", DefaultPath))
}

func LoadFile(path string) (*Config, error) {
	f := defaults()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("could not parse config yaml %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	applyEnv(&f)
	return build(f)
}

func applyEnv(f *File) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			f.Server.Port = p
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		f.Server.AllowedOrigins = splitList(v)
	}
	f.Server.CookieName = env("PORTAL_COOKIE_NAME", f.Server.CookieName)
	if v := os.Getenv("PORTAL_COOKIE_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Server.CookieSecure = b
		}
	}
	f.Backend.URL = env("BACKEND_URL", f.Backend.URL)
	f.Backend.Timeout = env("BACKEND_TIMEOUT", f.Backend.Timeout)
	f.Storage.Driver = env("STORAGE_DRIVER", f.Storage.Driver)
	f.Storage.Redis.Addr = env("REDIS_ADDR", f.Storage.Redis.Addr)
	f.Storage.Redis.Password = env("REDIS_PASSWORD", f.Storage.Redis.Password)
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Storage.Redis.DB = n
		}
	}
	f.Messaging.RabbitMQURL = env("RABBITMQ_URL", f.Messaging.RabbitMQURL)
	f.Portal.LoginDelay = env("LOGIN_REDIRECT_DELAY", f.Portal.LoginDelay)
	f.Portal.RegisterDelay = env("REGISTER_SWITCH_DELAY", f.Portal.RegisterDelay)
}

func build(f File) (*Config, error) {
	cfg := &Config{
		Port:           strconv.Itoa(f.Server.Port),
		AllowedOrigins: f.Server.AllowedOrigins,
		CookieName:     f.Server.CookieName,
		CookieSecure:   f.Server.CookieSecure,
		BackendURL:     strings.TrimSuffix(f.Backend.URL, "/"),
		StorageDriver:  strings.ToLower(f.Storage.Driver),
		RedisAddr:      f.Storage.Redis.Addr,
		RedisPassword:  f.Storage.Redis.Password,
		RedisDB:        f.Storage.Redis.DB,
		RabbitMQURL:    f.Messaging.RabbitMQURL,
	}

	switch cfg.StorageDriver {
	case StorageMemory, StorageRedis, StoragePostgres:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", f.Storage.Driver)
	}
	if cfg.BackendURL == "" {
		return nil, errors.New("backend url is required")
	}
	if cfg.CookieName == "" {
		return nil, errors.New("cookie name is required")
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"backend timeout", f.Backend.Timeout, &cfg.BackendTimeout},
		{"login delay", f.Portal.LoginDelay, &cfg.LoginDelay},
		{"register delay", f.Portal.RegisterDelay, &cfg.RegisterDelay},
		{"workspace idle", f.Portal.WorkspaceIdle, &cfg.WorkspaceIdle},
		{"prune interval", f.Portal.PruneInterval, &cfg.PruneInterval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", d.name)
		}
		*d.dst = parsed
	}
	return cfg, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
