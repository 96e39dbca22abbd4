package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/andrescamacho/gasstation-go/internal/adapters/logging"
	"github.com/andrescamacho/gasstation-go/internal/application/common"
	"github.com/andrescamacho/gasstation-go/internal/infrastructure/config"
)

func TestZapLogger_WritesStructuredJSON(t *testing.T) {
	// Arrange
	buf := new(bytes.Buffer)
	logger := logging.NewWriterLogger(buf, "json", zapcore.InfoLevel)
	ctx := common.WithLogger(context.Background(), logger)

	// Act
	common.LoggerFromContext(ctx).Log("WARNING", "Failed to journal purchase", map[string]interface{}{
		"grade":   "SUPER",
		"outcome": "SOLD",
	})

	// Assert
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Failed to journal purchase", entry["msg"])
	assert.Equal(t, "SUPER", entry["grade"])
	assert.Equal(t, "gasstation", entry["logger"])
}

func TestZapLogger_RespectsLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := logging.NewWriterLogger(buf, "text", zapcore.WarnLevel)

	logger.Log("INFO", "Sale completed", nil)
	logger.Log("DEBUG", "noise", nil)
	assert.Empty(t, buf.String())

	logger.Log("ERROR", "Dispense failed", map[string]interface{}{"pump_id": "p1"})
	assert.True(t, strings.Contains(buf.String(), "Dispense failed"))
	assert.Contains(t, buf.String(), "ERROR")
}

func TestNewZapLogger_RejectsBadConfig(t *testing.T) {
	_, err := logging.NewZapLogger(config.LoggingConfig{Level: "loud", Format: "json", Output: "stdout"})
	assert.Error(t, err)

	_, err = logging.NewZapLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "syslog"})
	assert.Error(t, err)

	logger, err := logging.NewZapLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr", IncludeCaller: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
