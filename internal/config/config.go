package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backend identifiers.
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	OpenAIKey string

	RedisURL string

	CORSAllowedOrigins []string
	APIJWTSecret       string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port string

	Storage StorageConfig
}

type StorageConfig struct {
	Backend      string `yaml:"backend"`
	ImageDir     string `yaml:"image_dir"`
	ImageBaseURL string `yaml:"image_base_url"`
	S3Bucket     string `yaml:"s3_bucket"`
	AWSRegion    string `yaml:"aws_region"`
	MaxImages    int    `yaml:"max_images"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		APIJWTSecret:             os.Getenv("API_JWT_SECRET"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
		Storage: StorageConfig{
			Backend:      os.Getenv("STORAGE_BACKEND"),
			ImageDir:     os.Getenv("IMAGE_DIR"),
			ImageBaseURL: os.Getenv("IMAGE_BASE_URL"),
			S3Bucket:     os.Getenv("S3_BUCKET_NAME"),
			AWSRegion:    os.Getenv("AWS_REGION"),
		},
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "fridgechef-marcel"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	cfg.SetStorageDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Storage StorageConfig `yaml:"storage"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Env vars win over file values
	if yamlConfig.Storage.Backend != "" && c.Storage.Backend == "" {
		c.Storage.Backend = yamlConfig.Storage.Backend
	}
	if yamlConfig.Storage.ImageDir != "" && c.Storage.ImageDir == "" {
		c.Storage.ImageDir = yamlConfig.Storage.ImageDir
	}
	if yamlConfig.Storage.ImageBaseURL != "" && c.Storage.ImageBaseURL == "" {
		c.Storage.ImageBaseURL = yamlConfig.Storage.ImageBaseURL
	}
	if yamlConfig.Storage.S3Bucket != "" && c.Storage.S3Bucket == "" {
		c.Storage.S3Bucket = yamlConfig.Storage.S3Bucket
	}
	if yamlConfig.Storage.AWSRegion != "" && c.Storage.AWSRegion == "" {
		c.Storage.AWSRegion = yamlConfig.Storage.AWSRegion
	}
	if yamlConfig.Storage.MaxImages > 0 && c.Storage.MaxImages == 0 {
		c.Storage.MaxImages = yamlConfig.Storage.MaxImages
	}

	return nil
}

func (c *Config) SetStorageDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageBackendLocal
	}
	if c.Storage.ImageDir == "" {
		c.Storage.ImageDir = "generated_recipes"
	}
	if c.Storage.MaxImages == 0 {
		c.Storage.MaxImages = 50
	}
}

func (c *Config) validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch c.Storage.Backend {
	case StorageBackendLocal:
	case StorageBackendS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET_NAME is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	return nil
}
