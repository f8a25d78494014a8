// Package gormstorage implements storage.Backend on top of any gorm dialect.
// Actions and standings are queued and written in batches; the race row,
// participants and results are written synchronously.
package gormstorage

import (
	"errors"
	"fmt"
	"time"

	"github.com/fuelrace/fuelrace/internal/logging"
	"github.com/fuelrace/fuelrace/internal/model"
	"github.com/fuelrace/fuelrace/internal/queue"
	"github.com/fuelrace/fuelrace/pkg/core"

	"gorm.io/gorm"
)

// DefaultBatchSize is the queued action count that triggers a write between
// turns.
const DefaultBatchSize = 500

var (
	// ErrNoDB is returned by Init without a DB.
	ErrNoDB = errors.New("gorm backend: no database configured")
	// ErrNotStarted is returned by recording calls before StartRace.
	ErrNotStarted = errors.New("gorm backend: race not started")
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
	BatchSize  int
}

// queues holds the write queues for batch DB insertion.
type queues struct {
	Actions   *queue.Queue[model.ActionEntry]
	Standings *queue.Queue[model.StandingSnapshot]
}

func newQueues() *queues {
	return &queues{
		Actions:   queue.New[model.ActionEntry](),
		Standings: queue.New[model.StandingSnapshot](),
	}
}

// Backend implements storage.Backend using GORM.
type Backend struct {
	deps   Dependencies
	queues *queues
	run    *model.RaceRun
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.BatchSize <= 0 {
		deps.BatchSize = DefaultBatchSize
	}
	if deps.LogManager == nil {
		deps.LogManager = logging.NewSlogManager("fuelrace")
	}
	return &Backend{deps: deps}
}

// Init creates the queues and migrates the schema.
func (b *Backend) Init() error {
	b.queues = newQueues()
	if b.deps.DB == nil {
		return ErrNoDB
	}

	b.deps.LogManager.WriteLog("gorm:setupDB", "Migrating schema", "INFO")
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		b.deps.LogManager.WriteLog("gorm:setupDB", fmt.Sprintf("Failed to migrate schema: %v", err), "ERROR")
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close writes whatever is still queued.
func (b *Backend) Close() error {
	if b.run == nil || b.queues == nil {
		return nil
	}
	return b.flush()
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// RunID returns the database id of the current race row, or 0.
func (b *Backend) RunID() uint {
	if b.run == nil {
		return 0
	}
	return b.run.ID
}

// StartRace inserts the race row and its participants.
func (b *Backend) StartRace(info *core.RaceInfo, participants []core.VehicleState) error {
	db := b.deps.DB
	run := model.RaceRunFromInfo(*info)
	if err := db.Create(&run).Error; err != nil {
		return fmt.Errorf("failed to insert race run: %w", err)
	}

	if len(participants) > 0 {
		rows := make([]model.Participant, len(participants))
		for i, p := range participants {
			rows[i] = model.ParticipantFromState(run.ID, p)
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert participants: %w", err)
		}
	}

	b.run = &run
	b.deps.LogManager.WriteLog("gorm:StartRace", fmt.Sprintf("Race run %d created for %q", run.ID, info.Name), "DEBUG")
	return nil
}

// RecordAction queues a. The queue is written once it reaches the batch size.
func (b *Backend) RecordAction(a core.Action) error {
	if b.run == nil {
		return ErrNotStarted
	}
	b.queues.Actions.Push(model.ActionEntryFromAction(b.run.ID, a))
	if b.queues.Actions.Full(b.deps.BatchSize) {
		return writeQueue(b.deps.DB, b.queues.Actions, "action entries", b.deps.LogManager.WriteLog)
	}
	return nil
}

// RecordTurn queues the standings of t and writes every queue.
func (b *Backend) RecordTurn(t core.Turn) error {
	if b.run == nil {
		return ErrNotStarted
	}
	b.queues.Standings.Push(model.StandingsFromTurn(b.run.ID, t)...)
	return b.flush()
}

// EndRace writes the queues, the summary columns and the results.
func (b *Backend) EndRace(summary core.Summary) error {
	if b.run == nil {
		return ErrNotStarted
	}
	if err := b.flush(); err != nil {
		return err
	}

	winners, err := model.WinnersJSON(summary.Winners)
	if err != nil {
		return fmt.Errorf("failed to encode winners: %w", err)
	}
	end := summary.EndTime
	if end.IsZero() {
		end = time.Now()
	}

	db := b.deps.DB
	if err := db.Model(b.run).Updates(map[string]any{
		"end_time":     end,
		"turns":        summary.Turns,
		"refuel_count": summary.RefuelCount,
		"winners":      winners,
	}).Error; err != nil {
		return fmt.Errorf("failed to update race run: %w", err)
	}

	if len(summary.Results) == 0 {
		return nil
	}
	rows := make([]model.RaceResult, len(summary.Results))
	for i, r := range summary.Results {
		if rows[i], err = model.RaceResultFromResult(b.run.ID, r); err != nil {
			return fmt.Errorf("failed to encode result of %s: %w", r.Vehicle.Name, err)
		}
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert results: %w", err)
	}

	b.deps.LogManager.WriteLog("gorm:EndRace", fmt.Sprintf("Race run %d closed after %d turns", b.run.ID, summary.Turns), "INFO")
	return nil
}

func (b *Backend) flush() error {
	log := b.deps.LogManager.WriteLog
	return errors.Join(
		writeQueue(b.deps.DB, b.queues.Actions, "action entries", log),
		writeQueue(b.deps.DB, b.queues.Standings, "standing snapshots", log),
	)
}

// writeQueue writes all items from a queue to the database in a transaction.
// On failure the items are pushed back so the next write retries them.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string)) error {
	if q.Empty() {
		return nil
	}

	items := q.Drain()
	tx := db.Begin()
	if err := tx.Create(&items).Error; err != nil {
		log("gorm:writeQueue", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
		tx.Rollback()
		q.Requeue(items)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tx.Commit().Error; err != nil {
		q.Requeue(items)
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}
	return nil
}
