package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN        string `env:"DATABASE_DSN,required=true"`
	RabbitMQURL        string `env:"RABBITMQ_URL,required=true"`
	RedisURL           string `env:"REDIS_URL,required=true"`
	JWTSecret          string `env:"JWT_SECRET,required=true"`
	RetryAttempts      int    `env:"RETRY_ATTEMPTS,default=3"`
	RetryDelayMillis   int    `env:"RETRY_DELAY_MS,default=1000"`
	WebhookTimeoutMS   int    `env:"WEBHOOK_TIMEOUT_MS,default=10000"`
	DispatchRatePerSec int    `env:"DISPATCH_RATE_PER_SEC,default=10"`
	WorkerConcurrency  int    `env:"WORKER_CONCURRENCY,default=4"`
	APIPort            int    `env:"API_PORT,default=8080"`
	LogLevel           string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelayMillis < 0 {
		cfg.RetryDelayMillis = 0
	}
	return &cfg, nil
}
