package sqlitestorage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fuelrace/fuelrace/internal/database"
	"github.com/fuelrace/fuelrace/internal/logging"
	"github.com/fuelrace/fuelrace/internal/model"
	"github.com/fuelrace/fuelrace/internal/storage"
	"github.com/fuelrace/fuelrace/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ storage.Backend  = (*Backend)(nil)
	_ storage.Exporter = (*Backend)(nil)
)

func newTestBackend(t *testing.T, cfg Config) *Backend {
	t.Helper()
	b, err := New(cfg, logging.NewSlogManager("fuelrace"), database.NewManager(zerolog.Nop()))
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func runRace(t *testing.T, b *Backend) {
	t.Helper()
	require.NoError(t, b.StartRace(
		&core.RaceInfo{ID: "r1", Name: "Copa", TotalDistance: 100, StartTime: time.Now()},
		[]core.VehicleState{{Name: "Aurora", Kind: core.KindCar, FuelCapacity: 50}},
	))
	require.NoError(t, b.RecordAction(core.Action{Seq: 1, Vehicle: "Aurora", Kind: core.ActionTripStart}))
	require.NoError(t, b.RecordTurn(core.Turn{Number: 1, Vehicle: "Aurora", Standings: []core.Standing{{Name: "Aurora", Distance: 100}}}))
	require.NoError(t, b.EndRace(core.Summary{
		RaceID:  "r1",
		Turns:   1,
		Winners: []string{"Aurora"},
		Results: []core.Result{{Vehicle: core.VehicleState{Name: "Aurora"}, Rank: 1, Distance: 100}},
	}))
}

func TestEndRace_DumpsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copa.db")
	b := newTestBackend(t, Config{DumpPath: path})

	assert.Empty(t, b.ExportedFilePath())
	runRace(t, b)
	assert.Equal(t, path, b.ExportedFilePath())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	disk, err := database.NewManager(zerolog.Nop()).OpenSqlite(path)
	require.NoError(t, err)
	var results []model.RaceResult
	require.NoError(t, disk.Find(&results).Error)
	require.Len(t, results, 1)
	assert.Equal(t, "Aurora", results[0].Vehicle)
}

func TestEndRace_WithoutDumpPath(t *testing.T) {
	b := newTestBackend(t, Config{})
	runRace(t, b)
	assert.Empty(t, b.ExportedFilePath())
}

func TestDumpLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.db")
	b := newTestBackend(t, Config{DumpPath: path, DumpInterval: 10 * time.Millisecond})

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "close is idempotent")
}
