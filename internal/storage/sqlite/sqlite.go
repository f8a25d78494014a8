// Package sqlitestorage implements storage.Backend with an in-memory SQLite
// database that is written to a file via VACUUM INTO. Rows go through the
// GORM backend; this package only owns the database and the dumps.
package sqlitestorage

import (
	"fmt"
	"sync"
	"time"

	"github.com/fuelrace/fuelrace/internal/database"
	"github.com/fuelrace/fuelrace/internal/logging"
	gormstorage "github.com/fuelrace/fuelrace/internal/storage/gorm"
	"github.com/fuelrace/fuelrace/pkg/core"

	"gorm.io/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	DumpPath     string        // VACUUM INTO target
	DumpInterval time.Duration // periodic dumps while racing, 0 disables
	BatchSize    int
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db       *gorm.DB
	dbm      *database.Manager
	cfg      Config
	log      *logging.SlogManager
	stopChan chan struct{}
	stopOnce sync.Once
	dumped   string
}

// New opens a private in-memory database and wraps it.
func New(cfg Config, logManager *logging.SlogManager, dbm *database.Manager) (*Backend, error) {
	db, err := dbm.OpenSqlite("")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:         db,
			LogManager: logManager,
			BatchSize:  cfg.BatchSize,
		}),
		db:       db,
		dbm:      dbm,
		cfg:      cfg,
		log:      logManager,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		go b.dumpLoop()
	}

	return nil
}

// EndRace closes the race row and writes the final dump.
func (b *Backend) EndRace(summary core.Summary) error {
	if err := b.Backend.EndRace(summary); err != nil {
		return err
	}
	b.stop()

	if b.cfg.DumpPath == "" {
		return nil
	}
	if err := b.dbm.DumpMemoryToDisk(b.db, b.cfg.DumpPath); err != nil {
		return err
	}
	b.dumped = b.cfg.DumpPath
	b.log.WriteLog("sqlite:EndRace", fmt.Sprintf("Race written to %s", b.dumped), "INFO")
	return nil
}

// ExportedFilePath returns the final dump, or "" before EndRace.
func (b *Backend) ExportedFilePath() string {
	return b.dumped
}

// Close stops the dump goroutine and closes the embedded GORM backend.
func (b *Backend) Close() error {
	b.stop()
	return b.Backend.Close()
}

func (b *Backend) stop() {
	b.stopOnce.Do(func() { close(b.stopChan) })
}

// dumpLoop periodically snapshots the database. VACUUM INTO is a point in
// time copy, so writers are not paused.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := b.dbm.DumpMemoryToDisk(b.db, b.cfg.DumpPath); err != nil {
				b.log.WriteLog("sqlite:dumpLoop", fmt.Sprintf("Error dumping to disk: %v", err), "ERROR")
			} else {
				b.log.WriteLog("sqlite:dumpLoop", fmt.Sprintf("Dumped to disk in %s", time.Since(start)), "DEBUG")
			}
		}
	}
}
