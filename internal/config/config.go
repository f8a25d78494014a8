package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "fuelrace.cfg.json"

// EnvPrefix prefixes every environment override, e.g. FUELRACE_RACE_SEED.
const EnvPrefix = "FUELRACE"

// VehicleConfig describes one participant.
type VehicleConfig struct {
	Name         string  `json:"name" mapstructure:"name"`
	Brand        string  `json:"brand" mapstructure:"brand"`
	Model        string  `json:"model" mapstructure:"model"`
	Kind         string  `json:"kind" mapstructure:"kind"` // car or motorcycle
	Hybrid       bool    `json:"hybrid" mapstructure:"hybrid"`
	Displacement int     `json:"displacement" mapstructure:"displacement"`
	FuelCapacity float64 `json:"fuelCapacity" mapstructure:"fuelCapacity"`
	// FuelLevel is in liters. When FuelPercent is set it wins.
	FuelLevel   float64 `json:"fuelLevel" mapstructure:"fuelLevel"`
	FuelPercent float64 `json:"fuelPercent" mapstructure:"fuelPercent"`
	Distance    float64 `json:"distance" mapstructure:"distance"`
}

// StartingFuel resolves the initial fuel in liters.
func (v VehicleConfig) StartingFuel() float64 {
	if v.FuelPercent > 0 {
		return v.FuelCapacity * v.FuelPercent / 100
	}
	return v.FuelLevel
}

// RaceConfig holds the race parameters.
type RaceConfig struct {
	Name          string          `json:"name" mapstructure:"name"`
	TotalDistance float64         `json:"totalDistance" mapstructure:"totalDistance"`
	Seed          uint64          `json:"seed" mapstructure:"seed"`
	MaxTurns      int             `json:"maxTurns" mapstructure:"maxTurns"`
	Vehicles      []VehicleConfig `json:"vehicles" mapstructure:"vehicles"`
	// Course is an optional list of [lon, lat] waypoints.
	Course [][]float64 `json:"course" mapstructure:"course"`
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	OutputDir    string        `json:"outputDir" mapstructure:"outputDir"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"` // 0 dumps only at the end
}

// PostgresConfig holds the server database settings
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type      string         `json:"type" mapstructure:"type"` // memory, sqlite, postgres or none
	BatchSize int            `json:"batchSize" mapstructure:"batchSize"`
	Memory    MemoryConfig   `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres  PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds the telemetry backend settings
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// URL returns the server address.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig holds the GELF output settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

func defaultVehicle(name, brand, model, kind string, capacity float64, hybrid bool, cc int) map[string]any {
	return map[string]any{
		"name":         name,
		"brand":        brand,
		"model":        model,
		"kind":         kind,
		"hybrid":       hybrid,
		"displacement": cc,
		"fuelCapacity": capacity,
		"fuelPercent":  10.0,
	}
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("race.name", "gran carrera de filigranas")
	viper.SetDefault("race.totalDistance", 0)
	viper.SetDefault("race.seed", 0)
	viper.SetDefault("race.maxTurns", 0)
	viper.SetDefault("race.vehicles", []map[string]any{
		defaultVehicle("Aurora", "Seat", "Panda", "car", 50, true, 0),
		defaultVehicle("Boreal", "BMW", "M8", "car", 80, false, 0),
		defaultVehicle("Céfiro", "Derbi", "Motoreta", "motorcycle", 15, false, 500),
		defaultVehicle("Dinamo", "Cintroen", "Sor", "car", 70, true, 0),
		defaultVehicle("Eclipse", "Renault", "Espacio", "car", 60, false, 0),
		defaultVehicle("Fénix", "Honda", "Vital", "motorcycle", 20, false, 250),
	})

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.batchSize", 500)
	viper.SetDefault("storage.memory.outputDir", "./races")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.outputDir", "./races")
	viper.SetDefault("storage.sqlite.dumpInterval", "0s")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "fuelrace")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "fuelrace")
	viper.SetDefault("influx.bucket", "race-telemetry")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "fuelrace")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load sets default values, reads the JSON file from configDir when it
// exists and applies environment overrides. A .env file in configDir is
// loaded into the environment first; variables already set are kept.
func Load(configDir string) error {
	setDefaults()

	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetRaceConfig returns the race parameters and the participant list.
func GetRaceConfig() (RaceConfig, error) {
	cfg := RaceConfig{
		Name:          viper.GetString("race.name"),
		TotalDistance: viper.GetFloat64("race.totalDistance"),
		Seed:          viper.GetUint64("race.seed"),
		MaxTurns:      viper.GetInt("race.maxTurns"),
	}
	if err := viper.UnmarshalKey("race.vehicles", &cfg.Vehicles); err != nil {
		return RaceConfig{}, fmt.Errorf("error decoding race.vehicles: %w", err)
	}
	if err := viper.UnmarshalKey("race.course", &cfg.Course); err != nil {
		return RaceConfig{}, fmt.Errorf("error decoding race.course: %w", err)
	}
	return cfg, nil
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:      viper.GetString("storage.type"),
		BatchSize: viper.GetInt("storage.batchSize"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			OutputDir:    viper.GetString("storage.sqlite.outputDir"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("storage.postgres.host"),
			Port:     viper.GetString("storage.postgres.port"),
			Username: viper.GetString("storage.postgres.username"),
			Password: viper.GetString("storage.postgres.password"),
			Database: viper.GetString("storage.postgres.database"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the telemetry backend settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetGraylogConfig returns the GELF output settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}
