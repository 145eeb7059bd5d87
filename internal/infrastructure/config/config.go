package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the immutable process configuration, built once at startup and
// passed by reference into constructors. There is no ambient global.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT       JWTConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL, default=30m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=secure_api"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// RateLimitConfig holds the per-route quotas, expressed as requests per
// window. A quota of 0 disables limiting for that route.
type RateLimitConfig struct {
	Window time.Duration `env:"RATE_WINDOW, default=1m"`

	Register       int `env:"RATE_REGISTER,        default=5"`
	Login          int `env:"RATE_LOGIN,           default=10"`
	Root           int `env:"RATE_ROOT,            default=100"`
	Me             int `env:"RATE_ME,              default=50"`
	ProductsRead   int `env:"RATE_PRODUCTS_READ,   default=30"`
	ProductsWrite  int `env:"RATE_PRODUCTS_WRITE,  default=10"`
	ProductsDelete int `env:"RATE_PRODUCTS_DELETE, default=5"`
	AdminUsers     int `env:"RATE_ADMIN_USERS,     default=20"`
	AdminDelete    int `env:"RATE_ADMIN_DELETE,    default=5"`
	AdminElevate   int `env:"RATE_ADMIN_ELEVATE,   default=5"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
