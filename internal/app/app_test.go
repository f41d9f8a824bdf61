package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() AppConfig {
	return AppConfig{
		Host:          "0.0.0.0",
		Port:          8000,
		LogLevel:      "INFO",
		PingInterval:  5 * time.Second,
		FrameInterval: 10 * time.Millisecond,
		WriteTimeout:  10 * time.Second,
		RedisHost:     "localhost",
		RedisPort:     6379,
	}
}

func TestAppConfigValidate(t *testing.T) {
	cfg := validTestConfig()
	assert.NoError(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.PingInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.FrameInterval = -time.Millisecond
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.WriteTimeout = 0
	assert.Error(t, cfg.Validate())
}
