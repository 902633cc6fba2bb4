package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppConfigValidate(t *testing.T) {
	valid := AppConfig{
		Host:      "0.0.0.0",
		Port:      8080,
		LogLevel:  "INFO",
		RoomTTL:   24 * time.Hour,
		RedisPort: 6379,
		RedisHost: "localhost",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"port too low", func(cfg *AppConfig) { cfg.Port = 0 }},
		{"port too high", func(cfg *AppConfig) { cfg.Port = 70000 }},
		{"room ttl too short", func(cfg *AppConfig) { cfg.RoomTTL = time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
