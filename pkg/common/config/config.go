package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Public auth endpoints get a shared token bucket.
	AuthRateLimitRPS   int
	AuthRateLimitBurst int

	// Database
	PostgresHost            string
	PostgresPort            string
	PostgresUser            string
	PostgresPassword        string
	PostgresDB              string
	PostgresSSLMode         string
	PostgresMaxOpenConns    int
	PostgresMaxIdleConns    int
	PostgresConnMaxLifetime time.Duration

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	// Kafka
	KafkaBrokers        []string
	KafkaGroupID        string
	WellnessEventsTopic string
	MetricsEventsTopic  string

	// Privacy engine
	PrivacyMinGroupSize      int
	PrivacyHashSalt          string // empty: generate per instance
	PrivacyPolicyPath        string
	ScrubRulesPath           string
	EmployerMinEmployeeCount int
	SettingsCacheTTL         time.Duration

	// Auth
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTTTL      time.Duration

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 4*1024*1024)),

		AuthRateLimitRPS:   getIntEnv("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateLimitBurst: getIntEnv("AUTH_RATE_LIMIT_BURST", 10),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "wellnesshub"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "wellnesshub123"),
		PostgresDB:       getEnv("POSTGRES_DB", "wellnesshub"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		PostgresMaxOpenConns:    getIntEnv("POSTGRES_MAX_OPEN_CONNS", 25),
		PostgresMaxIdleConns:    getIntEnv("POSTGRES_MAX_IDLE_CONNS", 5),
		PostgresConnMaxLifetime: getDuration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPoolSize: getIntEnv("REDIS_POOL_SIZE", 10),

		KafkaBrokers:        getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:        getEnv("KAFKA_GROUP_ID", "wellnesshub-platform"),
		WellnessEventsTopic: getEnv("WELLNESS_EVENTS_TOPIC", "wellness-events"),
		MetricsEventsTopic:  getEnv("METRICS_EVENTS_TOPIC", "anonymized-metrics"),

		PrivacyMinGroupSize:      getIntEnv("PRIVACY_MIN_GROUP_SIZE", 5),
		PrivacyHashSalt:          getEnv("PRIVACY_HASH_SALT", ""),
		PrivacyPolicyPath:        getEnv("PRIVACY_POLICY_PATH", ""),
		ScrubRulesPath:           getEnv("SCRUB_RULES_PATH", ""),
		EmployerMinEmployeeCount: getIntEnv("EMPLOYER_MIN_EMPLOYEE_COUNT", 5),
		SettingsCacheTTL:         getDuration("SETTINGS_CACHE_TTL", 10*time.Minute),

		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTIssuer:   getEnv("JWT_ISSUER", "wellnesshub"),
		JWTAudience: getEnv("JWT_AUDIENCE", "wellnesshub-api"),
		JWTTTL:      getDuration("JWT_TTL", time.Hour),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
