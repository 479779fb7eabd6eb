package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, log.InfoLevel, Level(Options{}))
	assert.Equal(t, log.DebugLevel, Level(Options{Verbose: true}))
	assert.Equal(t, log.ErrorLevel, Level(Options{Verbose: true, Quiet: true}))
}

func TestQuietDropsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Quiet: true})

	logger.Info("wrote file", "path", "shop/settings.py")
	assert.Empty(t, buf.String())

	logger.Error("write failed", "path", "shop/settings.py")
	assert.Contains(t, buf.String(), "write failed")
}
