package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cupid_test")
	t.Setenv("OPENROUTER_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLMBaseURL)
	assert.Equal(t, 60, cfg.PresenceInterval)
	assert.Equal(t, 7, cfg.ScheduleMaxAgeDays)
	assert.Equal(t, 50, cfg.DailySwipeLimit)
	assert.False(t, cfg.EnableDigest)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cupid_test")
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("PORT", "9090")
	t.Setenv("PRESENCE_INTERVAL", "15")
	t.Setenv("DAILY_SWIPE_LIMIT", "not-a-number")
	t.Setenv("ENABLE_MATCH_DIGEST", "yes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15, cfg.PresenceInterval)
	assert.Equal(t, 50, cfg.DailySwipeLimit, "unparseable int falls back to the default")
	assert.True(t, cfg.EnableDigest)
}

func TestIsProduction(t *testing.T) {
	assert.False(t, (&Config{Environment: "development"}).IsProduction())
	assert.False(t, (&Config{}).IsProduction())
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing database url",
			cfg:     Config{LLMAPIKey: "k"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing api key",
			cfg:     Config{DatabaseURL: "postgres://x"},
			wantErr: "OPENROUTER_API_KEY",
		},
		{
			name: "complete",
			cfg:  Config{DatabaseURL: "postgres://x", LLMAPIKey: "k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
