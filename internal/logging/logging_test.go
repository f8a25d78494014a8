package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "logs",
			want:    filepath.Join("logs", "fuelrace.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./logs",
			want:    filepath.Join(".", "logs", "fuelrace.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "fuelrace"),
			want:    filepath.Join("/var", "log", "fuelrace", "fuelrace.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, "fuelrace", start))
		})
	}
}

func TestNewZerolog(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerolog(&buf, "WARN", "database")

	l.Info().Msg("hidden")
	l.Warn().Str("table", "race_runs").Msg("slow insert")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "slow insert", entry["message"])
	assert.Equal(t, "database", entry["component"])
	assert.Equal(t, "race_runs", entry["table"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewZerolog_Defaults(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, NewZerolog(nil, "debug", "x").GetLevel())

	var buf bytes.Buffer
	assert.Equal(t, zerolog.InfoLevel, NewZerolog(&buf, "bogus", "x").GetLevel())
}
