package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "pdf", cfg.Reports.DefaultFormat)
	assert.Equal(t, 24*time.Hour, cfg.Reports.SignedURLTTL)
	assert.Equal(t, "MITAD DE CICLO", cfg.Labels.MidpointStage)
	assert.Equal(t, []string{"SI", "SÍ", "YES"}, cfg.Labels.Affirmative)
	assert.Equal(t, []string{"EN PARTE", "PARTIALLY"}, cfg.Labels.Partial)
	assert.False(t, cfg.Cache.Enabled)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("REPORTS_DEFAULT_FORMAT", "CSV")
	v.Set("REPORT_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := fromViper(v)

	assert.Equal(t, "csv", cfg.Reports.DefaultFormat)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}
