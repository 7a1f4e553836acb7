package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RECORD_STORE_BACKEND", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	assert.Equal(t, BackendPostgres, cfg.RecordStoreBackend)
	assert.Equal(t, "patient_data", cfg.RecordCollection)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.EnforceFieldBounds)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RECORD_STORE_BACKEND", "Redis")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("ENFORCE_FIELD_BOUNDS", "1")
	t.Setenv("READ_TIMEOUT", "5s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	assert.Equal(t, BackendRedis, cfg.RecordStoreBackend)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.True(t, cfg.EnforceFieldBounds)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
}
