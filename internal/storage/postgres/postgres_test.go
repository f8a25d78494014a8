package postgres

import (
	"testing"

	"github.com/fuelrace/fuelrace/internal/config"
	"github.com/fuelrace/fuelrace/internal/database"
	"github.com/fuelrace/fuelrace/internal/storage"
	gormstorage "github.com/fuelrace/fuelrace/internal/storage/gorm"
	"github.com/fuelrace/fuelrace/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func TestNew_DoesNotConnect(t *testing.T) {
	b := New(Dependencies{Config: config.PostgresConfig{Host: "does-not-exist.invalid", Port: "1"}})
	require.NotNil(t, b)
	assert.Nil(t, b.gorm)
	assert.NoError(t, b.Close())
}

func TestCalls_BeforeInit(t *testing.T) {
	b := New(Dependencies{})

	assert.ErrorIs(t, b.StartRace(&core.RaceInfo{}, nil), ErrNotInitialized)
	assert.ErrorIs(t, b.RecordAction(core.Action{}), ErrNotInitialized)
	assert.ErrorIs(t, b.RecordTurn(core.Turn{}), ErrNotInitialized)
	assert.ErrorIs(t, b.EndRace(core.Summary{}), ErrNotInitialized)
}

func TestInit_NoManager(t *testing.T) {
	assert.ErrorIs(t, New(Dependencies{}).Init(), gormstorage.ErrNoDB)
}

func TestInit_UnreachableServer(t *testing.T) {
	b := New(Dependencies{
		Config: config.PostgresConfig{
			Host:     "127.0.0.1",
			Port:     "1",
			Username: "postgres",
			Password: "postgres",
			Database: "fuelrace",
		},
		DBManager: database.NewManager(zerolog.Nop()),
	})

	err := b.Init()
	require.Error(t, err)
	assert.Nil(t, b.gorm)
}
