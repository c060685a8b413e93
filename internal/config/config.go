package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env          string        `yaml:"env" env:"ENV" env-default:"local"`
	DealCacheTTL time.Duration `yaml:"deal_cache_ttl" env:"DEAL_CACHE_TTL" env-default:"10m"`
	Log          LogConfig     `yaml:"log"`
	HTTP         HTTPConfig    `yaml:"http"`
	GRPC         GRPCConfig    `yaml:"grpc"`
	DB           DBConfig      `yaml:"db"`
	Redis        RedisConfig   `yaml:"redis"`
	Jaeger       JaegerConfig  `yaml:"jaeger"`
	CORS         CORSConfig    `yaml:"cors"`
	Booking      BookingConfig `yaml:"booking"`
	Catalog      CatalogConfig `yaml:"catalog"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"HTTP_MAX_UPLOAD_BYTES" env-default:"2097152"`
}

func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port int    `yaml:"port" env:"GRPC_PORT" env-default:"44046"`
}

type DBConfig struct {
	DSN      string `yaml:"dsn" env:"DB_DSN"`
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"require"`
	Migrate  bool   `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`

	// PingInterval paces the readiness probe reported by /healthz and the gRPC health service.
	PingInterval time.Duration `yaml:"ping_interval" env:"DB_PING_INTERVAL" env-default:"15s"`
}

func (c DBConfig) DatabaseURL() string {
	if c.DSN != "" {
		return c.DSN
	}

	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	q := u.Query()
	q.Set("sslmode", sslMode)
	u.RawQuery = q.Encode()

	return u.String()
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type JaegerConfig struct {
	Address string `yaml:"address" env:"JAEGER_ADDRESS"`
	Enabled bool   `yaml:"enabled" env:"JAEGER_ENABLED" env-default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
}

type BookingConfig struct {
	RateLimit float64 `yaml:"rate_limit" env:"BOOKING_RATE_LIMIT" env-default:"5"`
	Burst     int     `yaml:"burst" env:"BOOKING_BURST" env-default:"10"`
}

type CatalogConfig struct {
	Concurrency int `yaml:"concurrency" env:"CATALOG_CONCURRENCY" env-default:"4"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}
	return MustLoadByPath(path)
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exists: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read the config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}
	if res == "" {
		res = "config/local.yaml"
	}

	return res
}
