package logging

import (
	"os"
	"path/filepath"
	"testing"

	"pm-go/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Defaults(t *testing.T) {
	logger := NewLogger(&config.LogConfig{})

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
	assert.Equal(t, os.Stdout, logger.Out)
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	logger := NewLogger(&config.LogConfig{Level: "debug", Format: "TEXT"})

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNewLogger_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	logger := NewLogger(&config.LogConfig{File: file, MaxSizeMB: 1})

	logger.WithField("project_id", 1).Info("created")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"project_id":1`)
	assert.Contains(t, string(data), `"msg":"created"`)
}
