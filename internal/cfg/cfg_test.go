package cfg

import (
	"testing"
	"time"

	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "store")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "store")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("ADMIN_EMAIL", "  Admin@Plastyfilm.CL ")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")
}

// clearOptional сбрасывает переменные, которые могут прийти из окружения машины.
func clearOptional(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_PORT", "SWAGGER_URL", "GRPC_PORT", "MINIO_USE_SSL", "MINIO_ENDPOINT", "BUCKET_NAME",
		"IMAGES_PUBLIC_URL", "MAX_IMAGE_SIZE", "KAFKA_TOPIC", "OUTBOX_SWEEP_INTERVAL", "OUTBOX_RETENTION",
		"PRODUCT_TTL", "OFFERS_TTL", "SESSION_TTL", "DEFAULT_PER_PAGE", "MAX_PER_PAGE",
		"READ_TIMEOUT", "WRITE_TIMEOUT", "REDIS_POOL_SIZE", "POSTGRES_APP_NAME", "POSTGRES_CONNECT_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearOptional(t)
	setRequired(t)

	c, err := Load(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Http.Port)
	assert.Equal(t, "http://localhost:8080/swagger/doc.json", c.Http.SwaggerURL)
	assert.Equal(t, "8091", c.Grpc.Port)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "store-events", c.Kafka.Topic)
	assert.Equal(t, 30*time.Second, c.Kafka.OutboxSweep)
	assert.Equal(t, 7*24*time.Hour, c.Kafka.OutboxRetention)

	assert.Equal(t, "http://minio:9000/product-images", c.Minio.PublicBaseURL)
	assert.Equal(t, int64(10<<20), c.Minio.MaxImageSize)

	assert.Equal(t, "plastyfilm-store", c.Db.AppName)
	assert.Equal(t, 5*time.Second, c.Db.ConnectTimeout)
	assert.Equal(t, 10, c.Redis.PoolSize)

	assert.Equal(t, 3*time.Minute, c.Redis.ProductTTL)
	assert.Equal(t, time.Minute, c.Redis.OffersTTL)

	assert.Equal(t, "admin@plastyfilm.cl", c.Auth.AdminEmail)
	assert.Equal(t, 12*time.Hour, c.Auth.SessionTTL)

	assert.Equal(t, 12, c.Store.DefaultPerPage)
	assert.Equal(t, 100, c.Store.MaxPerPage)
}

func TestLoad_Overrides(t *testing.T) {
	clearOptional(t)
	setRequired(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("IMAGES_PUBLIC_URL", "https://cdn.plastyfilm.cl/images/")
	t.Setenv("READ_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "4s")
	t.Setenv("SESSION_TTL", "30m")

	c, err := Load(logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/swagger/doc.json", c.Http.SwaggerURL)
	assert.True(t, c.Minio.MinioUseSSL)
	assert.Equal(t, "https://cdn.plastyfilm.cl/images", c.Minio.PublicBaseURL)
	assert.Equal(t, 4*time.Second, c.Redis.Timeout)
	assert.Equal(t, 30*time.Minute, c.Auth.SessionTTL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "missing postgres user", key: "POSTGRES_USER", val: ""},
		{name: "missing brokers", key: "KAFKA_BROKERS", val: ""},
		{name: "missing admin hash", key: "ADMIN_PASSWORD_HASH", val: ""},
		{name: "bad duration", key: "PRODUCT_TTL", val: "soon"},
		{name: "bad bool", key: "MINIO_USE_SSL", val: "maybe"},
		{name: "bad int", key: "MAX_PER_PAGE", val: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOptional(t)
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(logger.NewNopLogger())
			assert.Error(t, err)
		})
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("STORE_TEST_INT", "")
	v, err := parseIntEnv("STORE_TEST_INT", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	t.Setenv("STORE_TEST_INT", "x")
	_, err = parseIntEnv("STORE_TEST_INT", 7)
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
}
