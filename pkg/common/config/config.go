package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	// Server
	ServerPort        string
	ServerHost        string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	MaxRequestBody    int64
	CORSAllowedOrigin string
	RateLimitRPS      int
	RateLimitBurst    int

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaGroupID      string
	RecordEventsTopic string

	// Records
	RecordStoreBackend string
	RecordCollection   string

	// Risk model
	ModelArtifactPath  string
	FieldBoundsPath    string
	EnforceFieldBounds bool
}

// Load reads the process configuration from the environment. A .env file in
// the working directory is applied first when present; real environment
// variables always win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		ServerHost:        getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:       getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody:    int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		RateLimitRPS:      getIntEnv("RATE_LIMIT_RPS", 0),
		RateLimitBurst:    getIntEnv("RATE_LIMIT_BURST", 0),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "cardiocare"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "cardiocare"),
		PostgresDB:       getEnv("POSTGRES_DB", "cardiocare"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaEnabled:      getBoolEnv("KAFKA_ENABLED", false),
		KafkaBrokers:      getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "cardiocare-record-audit"),
		RecordEventsTopic: getEnv("RECORD_EVENTS_TOPIC", "cardiocare.record-events"),

		RecordStoreBackend: strings.ToLower(getEnv("RECORD_STORE_BACKEND", BackendPostgres)),
		RecordCollection:   getEnv("RECORD_COLLECTION", "patient_data"),

		ModelArtifactPath:  getEnv("MODEL_ARTIFACT_PATH", "models/cardio_risk_latest.json"),
		FieldBoundsPath:    getEnv("FIELD_BOUNDS_PATH", ""),
		EnforceFieldBounds: getBoolEnv("ENFORCE_FIELD_BOUNDS", false),
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

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
