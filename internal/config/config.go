package config

import (
	"errors"
	"flag"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"os"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local" env-description:"Environment"`
	HTTPServer `yaml:"http_server"`
	Auth       `yaml:"auth"`
	Storage    `yaml:"storage"`
	Postgres   `yaml:"postgres"`
	Mongo      `yaml:"mongo"`
	Query      `yaml:"query"`
	CORS       `yaml:"cors"`
}

type HTTPServer struct {
	Host           string        `yaml:"host" env:"HTTP_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"HTTP_PORT" env-default:"5000"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"10s"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"`
}

type Postgres struct {
	Host    string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User    string `yaml:"user" env:"POSTGRES_USER" env-default:"finboard"`
	Pass    string `yaml:"pass" env:"POSTGRES_PASSWORD" env-default:"finboard"`
	Db      string `yaml:"db" env:"POSTGRES_DB" env-default:"finboard"`
	SSLMode string `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
}

func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User,
		p.Pass,
		p.Host,
		p.Port,
		p.Db,
		p.SSLMode,
	)
}

type Mongo struct {
	URI      string `yaml:"uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	Database string `yaml:"database" env:"MONGODB_DATABASE" env-default:"financial_dashboard"`
}

type Query struct {
	DefaultLimit int `yaml:"default_limit" env:"QUERY_DEFAULT_LIMIT" env-default:"10"`
	MaxLimit     int `yaml:"max_limit" env:"QUERY_MAX_LIMIT" env-default:"1000"`
	TopUsers     int `yaml:"top_users" env:"QUERY_TOP_USERS" env-default:"10"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`
}

func MustLoad() *Config {
	cfg, err := Load(fetchConfigPath())
	if err != nil {
		panic("Failed to read config: " + err.Error())
	}

	return cfg
}

// Load reads the YAML file at path overlaid with the environment. An empty
// path reads the environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string

	switch c.Env {
	case "local", "dev", "prod":
	default:
		problems = append(problems, fmt.Sprintf("invalid env %q: must be one of local, dev, prod", c.Env))
	}

	if c.HTTPServer.Port < 1 || c.HTTPServer.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.HTTPServer.Port))
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request timeout must be positive")
	}

	if c.TokenTTL <= 0 {
		problems = append(problems, "token ttl must be positive")
	}

	switch c.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.Host == "" || c.Postgres.Db == "" {
			problems = append(problems, "postgres host and db are required for the postgres driver")
		}
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			problems = append(problems, "mongo uri and database are required for the mongo driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid storage driver %q: must be one of memory, postgres, mongo", c.Driver))
	}

	if c.DefaultLimit < 1 {
		problems = append(problems, "default limit must be at least 1")
	}
	if c.MaxLimit < c.DefaultLimit {
		problems = append(problems, fmt.Sprintf("max limit %d is below default limit %d", c.MaxLimit, c.DefaultLimit))
	}
	if c.TopUsers < 1 {
		problems = append(problems, "top users must be at least 1")
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(problems, "; "))
	}

	return nil
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
