package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"slotbook/config"
)

func TestSessionWindowDays(t *testing.T) {
	orig := config.AppConfig.BookingWindowDays
	defer func() { config.AppConfig.BookingWindowDays = orig }()

	config.AppConfig.BookingWindowDays = 14
	assert.Equal(t, 5, sessionWindowDays(5), "explicit request wins")
	assert.Equal(t, 14, sessionWindowDays(0), "configured default applies")
	assert.Equal(t, 14, sessionWindowDays(-3), "negative request falls back")

	config.AppConfig.BookingWindowDays = 0
	assert.Equal(t, 7, sessionWindowDays(0), "hard fallback when unconfigured")
}
