package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "offers")
	t.Setenv("DB_NAME", "offers")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 20, cfg.Search.DefaultPageSize)
	assert.Equal(t, 100, cfg.Search.MaxPageSize)
	assert.Equal(t, 5*time.Second, cfg.Search.QueryTimeout)
	assert.Equal(t, 30*time.Second, cfg.Search.CacheTTL)
	assert.Equal(t, CostConfig{HorizonMonths: 24, RequiredPlanMonths: 6, PriceUnit: 10000}, cfg.Cost)
	assert.Equal(t, 10*time.Minute, cfg.Worker.ReferenceRefreshInterval)
	assert.Equal(t, []string{"localhost:3000", "127.0.0.1:3000"}, cfg.CORS.AllowedHosts)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SEARCH_MAX_PAGE_SIZE", "50")
	t.Setenv("SEARCH_CACHE_TTL", "0s")
	t.Setenv("COST_HORIZON_MONTHS", "36")
	t.Setenv("CORS_ALLOWED_HOSTS", " Shop.Example.com , ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Search.MaxPageSize)
	assert.Zero(t, cfg.Search.CacheTTL)
	assert.Equal(t, 36, cfg.Cost.HorizonMonths)
	assert.Equal(t, []string{"shop.example.com"}, cfg.CORS.AllowedHosts)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}},
		{"bad duration", map[string]string{"SEARCH_QUERY_TIMEOUT": "soon"}},
		{"negative duration", map[string]string{"SEARCH_CACHE_TTL": "-1s"}},
		{"page size above max", map[string]string{"SEARCH_DEFAULT_PAGE_SIZE": "200"}},
		{"required segment beyond horizon", map[string]string{"COST_REQUIRED_PLAN_MONTHS": "30"}},
		{"zero price unit", map[string]string{"COST_PRICE_UNIT": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
