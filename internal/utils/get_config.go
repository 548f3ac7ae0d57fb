package utils

import (
	"gopkg.in/yaml.v2"
	"log"
	"os"
	"strconv"
	"sync"
)

type Config struct {
	// Application
	AppPort     string `yaml:"APP_PORT"`
	AppURL      string `yaml:"APP_URL"`
	Environment string `yaml:"ENVIRONMENT"`
	LogDir      string `yaml:"LOG_DIR"`
	CORSOrigins string `yaml:"CORS_ALLOW_ORIGINS"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	// Tokens
	JWTSecret             string `yaml:"JWT_SECRET"`
	AccessTokenTTLMinutes string `yaml:"ACCESS_TOKEN_TTL_MINUTES"`
	RefreshTokenTTLHours  string `yaml:"REFRESH_TOKEN_TTL_HOURS"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`

	// Behaviour
	RateLimitMax            string `yaml:"RATE_LIMIT_MAX"`
	TrendingCacheTTLSeconds string `yaml:"TRENDING_CACHE_TTL_SECONDS"`
	ScaleRequiresOwner      string `yaml:"SCALE_REQUIRES_OWNER"`
}

var (
	config     Config
	configOnce sync.Once
)

// LoadConfig reads config.yaml (or the file named by CONFIG_PATH) once.
// A missing file is not fatal: every key can come from the environment.
func LoadConfig() {
	configOnce.Do(func() {
		path := os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "config.yaml"
		}

		file, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Error reading YAML file: %s\n", err)
			return
		}

		if err := yaml.Unmarshal(file, &config); err != nil {
			log.Printf("Error parsing YAML file: %s\n", err)
		}
	})
}

// GetConfig returns the value for key, preferring an environment variable of
// the same name over the YAML file.
func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "ENVIRONMENT":
		return config.Environment
	case "LOG_DIR":
		return config.LogDir
	case "CORS_ALLOW_ORIGINS":
		return config.CORSOrigins
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		return config.DBSSLMode
	case "JWT_SECRET":
		return config.JWTSecret
	case "ACCESS_TOKEN_TTL_MINUTES":
		return config.AccessTokenTTLMinutes
	case "REFRESH_TOKEN_TTL_HOURS":
		return config.RefreshTokenTTLHours
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "RATE_LIMIT_MAX":
		return config.RateLimitMax
	case "TRENDING_CACHE_TTL_SECONDS":
		return config.TrendingCacheTTLSeconds
	case "SCALE_REQUIRES_OWNER":
		return config.ScaleRequiresOwner
	default:
		return ""
	}
}

func GetConfigOr(key, fallback string) string {
	if v := GetConfig(key); v != "" {
		return v
	}
	return fallback
}

func GetConfigInt(key string, fallback int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return v
}

func GetConfigBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(GetConfig(key))
	if err != nil {
		return fallback
	}
	return v
}
