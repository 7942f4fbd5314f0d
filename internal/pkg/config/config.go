package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DefaultJWTSecret is used outside production when JWT_SECRET is unset.
// Running with it leaves tokens forgeable by anyone who reads this file.
const DefaultJWTSecret = "defaultSecret"

const envProduction = "production"

// ErrMissingJWTSecret is returned when production starts without a signing secret.
var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required in production")

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig

	PhoneRegion      string        `env:"PHONE_REGION,       default=IR"`
	CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL, default=5m"`

	weakSecret bool
}

type AuthConfig struct {
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"JWT_TTL,         default=8h"`
	BootstrapEmail string        `env:"BOOTSTRAP_EMAIL"`
	BcryptCost     int           `env:"BCRYPT_COST,     default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cafe_shop"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from lookuper. Without JWT_SECRET the
// fallback secret is installed and WeakSecret reports true, except in
// production where it is an error.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		cfg.Auth.JWTSecret = DefaultJWTSecret
		cfg.weakSecret = true
	}
	return &cfg, nil
}

// WeakSecret reports whether tokens are signed with the built-in fallback secret.
func (c *Config) WeakSecret() bool { return c.weakSecret }

func (c *Config) IsProduction() bool { return c.Env == envProduction }
