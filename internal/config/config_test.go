package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{
		"logLevel": "debug",
		"race": { "name": "Copa", "totalDistance": 1500, "seed": 42 }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "Copa", viper.GetString("race.name"))
	assert.Equal(t, 1500, viper.GetInt("race.totalDistance"))
	assert.Equal(t, 42, viper.GetInt("race.seed"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, "gran carrera de filigranas", viper.GetString("race.name"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, "fuelrace", viper.GetString("otel.serviceName"))
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, "memory", GetStorageConfig().Type)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{ "race": `)

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("FUELRACE_RACE_SEED", "7")
	t.Setenv("FUELRACE_STORAGE_TYPE", "sqlite")

	require.NoError(t, Load(t.TempDir()))

	rc, err := GetRaceConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), rc.Seed)
	assert.Equal(t, "sqlite", GetStorageConfig().Type)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Cleanup(func() { os.Unsetenv("FUELRACE_RACE_MAXTURNS") })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FUELRACE_RACE_MAXTURNS=300\n"), 0644))

	require.NoError(t, Load(dir))

	rc, err := GetRaceConfig()
	require.NoError(t, err)
	assert.Equal(t, 300, rc.MaxTurns)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetRaceConfig_DefaultField(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))

	rc, err := GetRaceConfig()
	require.NoError(t, err)
	require.Len(t, rc.Vehicles, 6)

	names := make([]string, len(rc.Vehicles))
	for i, v := range rc.Vehicles {
		names[i] = v.Name
		assert.InDelta(t, v.FuelCapacity/10, v.StartingFuel(), 1e-9, v.Name)
	}
	assert.Equal(t, []string{"Aurora", "Boreal", "Céfiro", "Dinamo", "Eclipse", "Fénix"}, names)

	assert.Equal(t, "motorcycle", rc.Vehicles[2].Kind)
	assert.Equal(t, 500, rc.Vehicles[2].Displacement)
	hybrids := make([]string, 0)
	for _, v := range rc.Vehicles {
		if v.Hybrid {
			hybrids = append(hybrids, v.Name)
		}
	}
	assert.Equal(t, []string{"Aurora", "Dinamo"}, hybrids)
	assert.Empty(t, rc.Course)
}

func TestGetRaceConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{
		"race": {
			"vehicles": [
				{ "name": "Solo", "kind": "car", "fuelCapacity": 40, "fuelLevel": 12.5 }
			],
			"course": [[-3.7, 40.4], [-3.6, 40.5]]
		}
	}`)
	require.NoError(t, Load(dir))

	rc, err := GetRaceConfig()
	require.NoError(t, err)
	require.Len(t, rc.Vehicles, 1)
	assert.Equal(t, 12.5, rc.Vehicles[0].StartingFuel())
	assert.Equal(t, [][]float64{{-3.7, 40.4}, {-3.6, 40.5}}, rc.Course)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{
		"storage": {
			"type": "postgres",
			"batchSize": 50,
			"memory": { "outputDir": "/tmp/out", "compressOutput": true },
			"postgres": { "host": "10.0.0.1", "port": "5433" }
		}
	}`)
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "postgres", sc.Type)
	assert.Equal(t, 50, sc.BatchSize)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, true, sc.Memory.CompressOutput)
	assert.Equal(t, "10.0.0.1", sc.Postgres.Host)
	assert.Equal(t, "5433", sc.Postgres.Port)
	assert.Equal(t, "postgres", sc.Postgres.Username)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "fuelrace", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetInfluxConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	writeConfig(t, dir, `{ "influx": { "enabled": true, "host": "influx", "protocol": "https" } }`)
	require.NoError(t, Load(dir))

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "https://influx:8086", ic.URL())
	assert.Equal(t, "race-telemetry", ic.Bucket)
}

func TestGetGraylogConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(t.TempDir()))

	gc := GetGraylogConfig()
	assert.False(t, gc.Enabled)
	assert.Equal(t, "localhost:12201", gc.Address)
}
