// Package config loads service configuration from the environment.
package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret           string `env:"JWT_SECRET, required"`
	JWTAlgorithm        string `env:"JWT_ALGORITHM, default=HS256"`
	RotateRefreshTokens bool   `env:"ROTATE_REFRESH_TOKENS, default=false"`

	Mongo MongoConfig
	Redis RedisConfig
	S3    S3Config
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=quill"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type S3Config struct {
	Region    string `env:"S3_REGION, default=us-east-1"`
	Bucket    string `env:"S3_BUCKET, required"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	// Endpoint targets S3-compatible stores (MinIO, localstack). Empty
	// means AWS proper.
	Endpoint string `env:"S3_ENDPOINT"`
}

// Load reads configuration from environment variables. Configuration is
// startup-only; an invalid environment is fatal.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(err)
	}
	return &cfg
}
