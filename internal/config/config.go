package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Backend modes select which implementation serves the repository ports.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	DBDSN   string `envconfig:"DB_DSN" default:"gymfit.db"`
	LogFile string `envconfig:"LOG_FILE" default:"./gymfit.log"`

	// remote | local
	Backend string `envconfig:"BACKEND_MODE" default:"remote"`

	UsersURL    string        `envconfig:"USERS_URL" default:"http://localhost:8081"`
	CartURL     string        `envconfig:"CART_URL" default:"http://localhost:8082"`
	ProductsURL string        `envconfig:"PRODUCTS_URL" default:"http://localhost:8083"`
	PaymentsURL string        `envconfig:"PAYMENTS_URL" default:"http://localhost:8084"`
	OrdersURL   string        `envconfig:"ORDERS_URL" default:"http://localhost:8085"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`

	// sqlite | redis
	KVBackend string `envconfig:"KV_BACKEND" default:"sqlite"`
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	JWTSecret    string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`

	// Empty disables the broker; events are only logged.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"gymfit.events"`

	CSRF bool `envconfig:"CSRF_ENABLED" default:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] .env not loaded: %v", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Backend != BackendLocal {
		cfg.Backend = BackendRemote
	}
	log.Printf("[config] PORT=%s DB_DSN=%s BACKEND_MODE=%s KV_BACKEND=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.Backend, cfg.KVBackend, cfg.LogFile)
	return cfg, nil
}

func (c Config) TokenTTL() time.Duration {
	if c.JWTExpireMin <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWTExpireMin) * time.Minute
}
