package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionOutcome_String(t *testing.T) {
	assert.Equal(t, "sent", Sent().String())
	assert.Equal(t, "skipped_test_mode", SkippedTestMode().String())
	assert.Equal(t, "already_connected", AlreadyConnected().String())
	assert.Equal(t, "button_not_found", ButtonNotFound().String())
	assert.Equal(t, "failed: dialog vanished", Failed("dialog vanished").String())
	assert.Equal(t, "failed", Failed("").String())
}

func TestConnectionOutcome_RequestSent(t *testing.T) {
	assert.True(t, Sent().RequestSent())
	assert.False(t, SkippedTestMode().RequestSent())
	assert.False(t, AlreadyConnected().RequestSent())
	assert.False(t, ButtonNotFound().RequestSent())
	assert.False(t, Failed("x").RequestSent())
}
