package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mohibbulwara/orjon/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPricing(t *testing.T) {
	p, err := LoadPricing("")
	require.NoError(t, err)
	assert.Equal(t, 40.0, p.Shipping.Cost(models.ZoneInsideRangpurCity, models.ZoneInsideRangpurCity))
	assert.Equal(t, 150.0, p.Shipping.Fallback)
	assert.Equal(t, int64(100), p.Rules.SuspensionThreshold)
	assert.Equal(t, 5, p.Rules.FreePlanUploadLimit)
}

func TestParsePricingOverrides(t *testing.T) {
	raw := []byte(`
shipping:
  fallback: 200
  rates:
    outside-rangpur:
      outside-rangpur: 175
commission:
  allowed: [5, 8]
suspension_threshold: 250
`)
	p, err := ParsePricing(raw)
	require.NoError(t, err)
	assert.Equal(t, 200.0, p.Shipping.Fallback)
	assert.Equal(t, 50.0, p.Shipping.UnknownSellerZone)
	assert.Equal(t, 175.0, p.Shipping.Cost(models.ZoneOutsideRangpur, models.ZoneOutsideRangpur))
	assert.Equal(t, 130.0, p.Shipping.Cost(models.ZoneOutsideRangpur, models.ZoneInsideRangpurCity))
	assert.Equal(t, []int{5, 8}, p.Rules.AllowedCommissions)
	assert.Equal(t, int64(250), p.Rules.SuspensionThreshold)
	assert.Equal(t, 4.5, p.Rules.FavoriteRating)
}

func TestParsePricingRejectsUnknownZone(t *testing.T) {
	_, err := ParsePricing([]byte("shipping:\n  rates:\n    dhaka:\n      outside-rangpur: 10\n"))
	assert.EqualError(t, err, `pricing: unknown seller zone "dhaka"`)
}

func TestLoadPricingFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("free_plan_upload_limit: 8\n"), 0o644))

	p, err := LoadPricing(path)
	require.NoError(t, err)
	assert.Equal(t, 8, p.Rules.FreePlanUploadLimit)

	_, err = LoadPricing(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
	assert.Contains(t, err.Error(), "read pricing file")
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("PRICING_FILE", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "app:pw@tcp(localhost:3306)/shop?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DatabaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "8080", cfg.Port)
}
