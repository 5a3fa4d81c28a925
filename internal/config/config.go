// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения, в которых может работать сервис.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"BMS_ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"BMS_STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"BMS_MIGRATIONS_PATH" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	Reconciler              `yaml:"reconciler"`
	Pagination              `yaml:"pagination"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP    string        `yaml:"addresshttp" env:"BMS_HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP    time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"BMS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"BMS_REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"BMS_REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"1h"`
}

// RabbitMQ структура для подключения к брокеру событий жизненного цикла договоров.
// Пустой URL отключает публикацию событий.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"BMS_RABBITMQ_URL"`
	RabbitMQExchange   string        `yaml:"exchange" env-default:"bms.events"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Reconciler структура для настройки фоновой сверки арендного состояния.
type Reconciler struct {
	ReconcileSchedule string `yaml:"schedule" env:"BMS_RECONCILE_SCHEDULE" env-default:"@every 1h"`
}

// Pagination настройки постраничной выдачи квартир.
type Pagination struct {
	DefaultPageSize int `yaml:"default_page_size" env-default:"6"`
	MaxPageSize     int `yaml:"max_page_size" env-default:"50"`
}

// IsProduction сообщает, работает ли сервис в боевом окружении.
// От этого зависят флаги Secure и SameSite у cookie с токеном.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProd
}

// Load читает конфиг из файла по пути path, переменные окружения перекрывают значения файла.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if path == "" {
		return nil, fmt.Errorf("%s: config path is empty", op)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 6
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH, завершает процесс при ошибке
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  CacheTTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"  AllowedOrigins: %v\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"RabbitMQ:\n"+
			"  Exchange: %s\n"+
			"Reconciler:\n"+
			"  Schedule: %s\n"+
			"Pagination:\n"+
			"  DefaultPageSize: %d\n"+
			"  MaxPageSize: %d\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.MigrationsPath,
		c.AddressRedis,
		c.DB,
		c.MaxRetries,
		c.CacheTTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AllowedOrigins,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		c.RabbitMQExchange,
		c.ReconcileSchedule,
		c.DefaultPageSize,
		c.MaxPageSize,
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
