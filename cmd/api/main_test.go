package main

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, log.WarnLevel, newLogger("warn", "text", false).GetLevel())
	assert.Equal(t, log.InfoLevel, newLogger("loud", "json", false).GetLevel())
	assert.Equal(t, log.DebugLevel, newLogger("error", "text", true).GetLevel())
}

func TestSeatConfig(t *testing.T) {
	assert.Equal(t, domain.SeatConfig{Kind: domain.KindAI, Model: "x-ai/grok-4"}, seatConfig("x-ai/grok-4", ""))
	assert.Equal(t, domain.SeatConfig{Kind: domain.KindEngine, Difficulty: "hard"}, seatConfig("x-ai/grok-4", "hard"))
}
