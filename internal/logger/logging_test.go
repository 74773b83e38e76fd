package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	defer log.SetDefault(log.Default())

	Setup(false)
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.Equal(t, log.WarnLevel, New("http").GetLevel())

	Setup(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Equal(t, log.DebugLevel, New("http").GetLevel())
}

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "hive", log.InfoLevel, false, false, log.TextFormatter)
	l.Debug("hidden")
	l.Info("shown", "words", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "hive")
	assert.Contains(t, buf.String(), "words=3")
}
