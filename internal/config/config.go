package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:""`
	RedisPass   string `envconfig:"REDIS_PASSWORD" default:""`

	// RoutePrefix is stripped from incoming paths before routing, so the
	// same route table works behind a local gateway ("/functions/v1/api")
	// and a deployed short path ("/api").
	RoutePrefix string `envconfig:"ROUTE_PREFIX" default:""`
	CORSOrigin  string `envconfig:"CORS_ORIGIN" default:"*"`
	Version     string `envconfig:"VERSION" default:"dev"`

	StorageEndpoint  string `envconfig:"STORAGE_ENDPOINT" default:""`
	StorageRegion    string `envconfig:"STORAGE_REGION" default:"us-east-1"`
	StorageBucket    string `envconfig:"STORAGE_BUCKET" default:"product-images"`
	StorageAccessKey string `envconfig:"STORAGE_ACCESS_KEY" default:""`
	StorageSecretKey string `envconfig:"STORAGE_SECRET_KEY" default:""`
	StoragePublicURL string `envconfig:"STORAGE_PUBLIC_URL" default:""`
	StorageURLTTL    int    `envconfig:"STORAGE_URL_TTL" default:"600"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
