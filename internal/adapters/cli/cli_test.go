package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gasstation-go/internal/adapters/cli"
)

const fastStation = `
station:
  dispense_rate: 10000
  pumps:
    - grade: SUPER
      quantity: 200
    - grade: DIESEL
      quantity: 150
    - grade: REGULAR
      quantity: 100
    - grade: REGULAR
      quantity: 200
  prices:
    REGULAR: 1.40
    SUPER: 1.42
    DIESEL: 1.20
simulation:
  duration: 100ms
  customers:
    - name: alice
      grade: SUPER
      amount: 30
      max_price: 1.50
      interval: 5ms
    - name: bob
      grade: DIESEL
      amount: 60
      max_price: 1.50
      interval: 5ms
logging:
  level: error
  output: stderr
daemon:
  pid_file: %s
  shutdown_timeout: 5s
`

func writeFastConfig(t *testing.T) (configPath, pidPath string) {
	t.Helper()
	dir := t.TempDir()
	pidPath = filepath.Join(dir, "gasstation.pid")
	configPath = filepath.Join(dir, "config.yaml")
	body := bytes.ReplaceAll([]byte(fastStation), []byte("%s"), []byte(pidPath))
	require.NoError(t, os.WriteFile(configPath, body, 0o600))
	return configPath, pidPath
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := cli.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestSimulateCommand_PrintsReport(t *testing.T) {
	// Arrange
	configPath, _ := writeFastConfig(t)

	// Act
	out, err := execute(t, context.Background(), "--config", configPath, "simulate")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Simulating 2 customers")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "Station Totals:")
	assert.Contains(t, out, "Sale Journal:")
	assert.Contains(t, out, "NO_GAS:")
}

func TestSimulateCommand_DurationFlagOverridesConfig(t *testing.T) {
	configPath, _ := writeFastConfig(t)

	out, err := execute(t, context.Background(), "--config", configPath, "simulate", "--duration", "20ms")

	require.NoError(t, err)
	assert.Contains(t, out, "for 20ms")
}

func TestBuyCommand_Outcomes(t *testing.T) {
	configPath, _ := writeFastConfig(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "sold",
			args: []string{"--grade", "SUPER", "--amount", "50", "--max-price", "1.42"},
			want: []string{"✓ Purchase complete", "Revenue:   71.00"},
		},
		{
			name: "too expensive",
			args: []string{"--grade", "super", "--amount", "1", "--max-price", "1.30"},
			want: []string{"✗ Purchase cancelled (TOO_EXPENSIVE)", "Max price: 1.30"},
		},
		{
			name: "no gas",
			args: []string{"--grade", "DIESEL", "--amount", "151", "--max-price", "1.50"},
			want: []string{"✗ Purchase cancelled (NO_GAS)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, context.Background(), append([]string{"--config", configPath, "buy"}, tt.args...)...)

			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestBuyCommand_InvalidInputIsAnError(t *testing.T) {
	configPath, _ := writeFastConfig(t)

	_, err := execute(t, context.Background(), "--config", configPath, "buy", "--grade", "LPG", "--amount", "1", "--max-price", "2")
	assert.Error(t, err)

	_, err = execute(t, context.Background(), "--config", configPath, "buy", "--grade", "SUPER")
	assert.Error(t, err, "missing required flags")
}

func TestServeCommand_StopsWhenContextEnds(t *testing.T) {
	// Arrange
	configPath, pidPath := writeFastConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	// Act
	out, err := execute(t, ctx, "--config", configPath, "serve")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Station serving 2 customers")
	assert.Contains(t, out, "Station stopped")
	_, statErr := os.Stat(pidPath)
	assert.True(t, os.IsNotExist(statErr), "PID file is released on shutdown")
}

func TestConfigShow(t *testing.T) {
	configPath, pidPath := writeFastConfig(t)

	out, err := execute(t, context.Background(), "--config", configPath, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Dispense Rate:    10000.00 units/s")
	assert.Contains(t, out, "Price super      1.42")
	assert.Contains(t, out, pidPath)
}
