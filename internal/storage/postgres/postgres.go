// Package postgres implements storage.Backend against a PostgreSQL server.
// The connection is opened in Init; rows are written by the GORM backend.
package postgres

import (
	"errors"
	"fmt"

	"github.com/fuelrace/fuelrace/internal/config"
	"github.com/fuelrace/fuelrace/internal/database"
	"github.com/fuelrace/fuelrace/internal/logging"
	gormstorage "github.com/fuelrace/fuelrace/internal/storage/gorm"
	"github.com/fuelrace/fuelrace/pkg/core"
)

// ErrNotInitialized is returned by race calls before a successful Init.
var ErrNotInitialized = errors.New("postgres backend: not initialized")

// Dependencies holds all dependencies for the Postgres storage backend.
type Dependencies struct {
	Config     config.PostgresConfig
	DBManager  *database.Manager
	LogManager *logging.SlogManager
	BatchSize  int
}

// Backend connects to Postgres in Init and delegates to the GORM backend.
type Backend struct {
	deps Dependencies
	gorm *gormstorage.Backend
}

// New creates a new Postgres storage backend. No connection is made yet.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init connects and migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DBManager == nil {
		return fmt.Errorf("postgres backend: %w", gormstorage.ErrNoDB)
	}
	db, err := b.deps.DBManager.OpenPostgres(b.deps.Config)
	if err != nil {
		return err
	}

	g := gormstorage.New(gormstorage.Dependencies{
		DB:         db,
		LogManager: b.deps.LogManager,
		BatchSize:  b.deps.BatchSize,
	})
	if err := g.Init(); err != nil {
		return err
	}
	b.gorm = g
	return nil
}

// Close writes pending rows and closes the connection pool.
func (b *Backend) Close() error {
	if b.gorm == nil {
		return nil
	}
	err := b.gorm.Close()
	if sqlDB, dbErr := b.gorm.DB().DB(); dbErr == nil {
		err = errors.Join(err, sqlDB.Close())
	}
	b.gorm = nil
	return err
}

func (b *Backend) StartRace(info *core.RaceInfo, participants []core.VehicleState) error {
	if b.gorm == nil {
		return ErrNotInitialized
	}
	return b.gorm.StartRace(info, participants)
}

func (b *Backend) EndRace(summary core.Summary) error {
	if b.gorm == nil {
		return ErrNotInitialized
	}
	return b.gorm.EndRace(summary)
}

func (b *Backend) RecordAction(a core.Action) error {
	if b.gorm == nil {
		return ErrNotInitialized
	}
	return b.gorm.RecordAction(a)
}

func (b *Backend) RecordTurn(t core.Turn) error {
	if b.gorm == nil {
		return ErrNotInitialized
	}
	return b.gorm.RecordTurn(t)
}
