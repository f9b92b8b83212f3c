package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goran-ethernal/EventCache/internal/common"
	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/config"
)

// Maintenance guards store transactions against exclusive maintenance work.
type Maintenance interface {
	// Start begins background maintenance if enabled.
	Start(ctx context.Context) error
	// Stop stops background maintenance and waits for the worker to exit.
	Stop() error
	// AcquireOperationLock takes the shared side of the lock for one store operation.
	// The returned function releases it.
	AcquireOperationLock() func()
	// GetMetrics returns the outcome of past maintenance runs.
	GetMetrics() MaintenanceMetrics
	// RunMaintenance performs one maintenance pass immediately.
	RunMaintenance(ctx context.Context) error
}

// MaintenanceMetrics describes past maintenance runs.
type MaintenanceMetrics struct {
	LastMaintenanceTime  time.Time
	MaintenanceCount     uint64
	LastMaintenanceError error
	LastReport           MaintenanceReport
}

// MaintenanceReport is the result of a single maintenance pass.
type MaintenanceReport struct {
	SizeBefore         int64
	SizeAfter          int64
	CheckpointBusy     int
	CheckpointedFrames int
	Duration           time.Duration
}

// NoOpMaintenance is used for backends that manage their own storage (Postgres) and in tests.
type NoOpMaintenance struct{}

func (m *NoOpMaintenance) Start(context.Context) error          { return nil }
func (m *NoOpMaintenance) Stop() error                          { return nil }
func (m *NoOpMaintenance) RunMaintenance(context.Context) error { return nil }
func (m *NoOpMaintenance) AcquireOperationLock() func()         { return func() {} }
func (m *NoOpMaintenance) GetMetrics() MaintenanceMetrics       { return MaintenanceMetrics{} }

// MaintenanceCoordinator runs WAL checkpoints and VACUUM on a SQLite cache database.
// Store transactions hold the read side of opLock; a maintenance pass holds the write side.
type MaintenanceCoordinator struct {
	db     *sql.DB
	config config.MaintenanceConfig
	dbPath string
	log    *logger.Logger

	opLock sync.RWMutex

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	metrics MaintenanceMetrics
}

// NewMaintenanceCoordinator returns a coordinator for the SQLite database at dbPath.
// A nil config yields a NoOpMaintenance.
func NewMaintenanceCoordinator(
	dbPath string,
	db *sql.DB,
	cfg *config.MaintenanceConfig,
	log *logger.Logger,
) Maintenance {
	if cfg == nil {
		return &NoOpMaintenance{}
	}

	return newMaintenanceCoordinator(dbPath, db, *cfg, log)
}

func newMaintenanceCoordinator(
	dbPath string,
	db *sql.DB,
	cfg config.MaintenanceConfig,
	log *logger.Logger,
) *MaintenanceCoordinator {
	return &MaintenanceCoordinator{
		db:     db,
		config: cfg,
		dbPath: dbPath,
		log:    log.WithComponent(common.ComponentMaintenance),
	}
}

// Start runs the optional startup pass and then schedules periodic passes.
func (m *MaintenanceCoordinator) Start(ctx context.Context) error {
	if !m.config.Enabled {
		m.log.Info("background maintenance is disabled")
		return nil
	}

	ctx, m.cancel = context.WithCancel(ctx)

	if m.config.VacuumOnStartup {
		if err := m.RunMaintenance(ctx); err != nil {
			m.log.Warnf("startup maintenance failed: %v", err)
		}
	}

	m.wg.Add(1)
	go m.maintenanceWorker(ctx, m.config.CheckInterval.Duration)

	m.log.Infof("background maintenance started, interval: %v, checkpoint mode: %s",
		m.config.CheckInterval.Duration, m.config.WALCheckpointMode)

	return nil
}

// Stop cancels the worker and waits for an in-flight pass to finish.
func (m *MaintenanceCoordinator) Stop() error {
	if m.cancel == nil {
		return nil
	}

	m.cancel()
	m.wg.Wait()
	m.log.Info("background maintenance stopped")

	return nil
}

func (m *MaintenanceCoordinator) maintenanceWorker(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.RunMaintenance(ctx); err != nil && !errors.Is(err, context.Canceled) {
				m.log.Warnf("periodic maintenance failed: %v", err)
			}
		}
	}
}

// RunMaintenance waits for in-flight store operations, then checkpoints the WAL and vacuums.
// New store operations block until the pass completes.
func (m *MaintenanceCoordinator) RunMaintenance(ctx context.Context) error {
	start := time.Now()

	m.opLock.Lock()
	defer m.opLock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		report MaintenanceReport
		errs   []error
		err    error
	)

	if report.SizeBefore, err = DBTotalSize(m.dbPath); err != nil {
		m.log.Warnf("failed to read database size: %v", err)
	}

	if report.CheckpointBusy, report.CheckpointedFrames, err = m.walCheckpoint(ctx); err != nil {
		errs = append(errs, fmt.Errorf("WAL checkpoint failed: %w", err))
	}

	if err := Vacuum(m.db); err != nil {
		errs = append(errs, fmt.Errorf("VACUUM failed: %w", err))
	} else {
		vacuums.Inc()
	}

	if report.SizeAfter, err = DBTotalSize(m.dbPath); err != nil {
		m.log.Warnf("failed to read database size: %v", err)
	}

	report.Duration = time.Since(start)
	runErr := errors.Join(errs...)

	m.mu.Lock()
	m.metrics.LastMaintenanceTime = time.Now().UTC()
	m.metrics.MaintenanceCount++
	m.metrics.LastMaintenanceError = runErr
	m.metrics.LastReport = report
	m.mu.Unlock()

	observeMaintenance(report, runErr)

	if runErr != nil {
		m.log.Warnf("maintenance finished with errors in %v: %v", report.Duration, runErr)
		return runErr
	}

	if report.SizeBefore > report.SizeAfter {
		reclaimed := uint64(report.SizeBefore - report.SizeAfter)
		m.log.Infof("maintenance finished in %v, reclaimed %d MB", report.Duration, common.BytesToMB(reclaimed))
	} else {
		m.log.Infof("maintenance finished in %v", report.Duration)
	}

	return nil
}

// walCheckpoint returns the busy and checkpointed frame counts; it is a no-op outside WAL mode.
func (m *MaintenanceCoordinator) walCheckpoint(ctx context.Context) (int, int, error) {
	var mode string
	if err := m.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return 0, 0, fmt.Errorf("failed to read journal mode: %w", err)
	}

	if !strings.EqualFold(mode, "wal") {
		m.log.Debugf("journal mode is %s, skipping WAL checkpoint", mode)
		return 0, 0, nil
	}

	var busy, logFrames, checkpointed int
	query := fmt.Sprintf("PRAGMA wal_checkpoint(%s)", m.config.WALCheckpointMode)
	if err := m.db.QueryRowContext(ctx, query).Scan(&busy, &logFrames, &checkpointed); err != nil {
		return 0, 0, err
	}

	walCheckpoints.WithLabelValues(strings.ToLower(m.config.WALCheckpointMode)).Inc()
	m.log.Debugf("WAL checkpoint %s: busy=%d log_frames=%d checkpointed=%d",
		m.config.WALCheckpointMode, busy, logFrames, checkpointed)

	if busy > 0 {
		m.log.Warnf("WAL checkpoint could not complete, %d busy pages", busy)
	}

	return busy, checkpointed, nil
}

func (m *MaintenanceCoordinator) AcquireOperationLock() func() {
	m.opLock.RLock()
	return m.opLock.RUnlock
}

func (m *MaintenanceCoordinator) GetMetrics() MaintenanceMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.metrics
}

// Vacuum rebuilds the database file. It needs exclusive access to the database.
func Vacuum(db *sql.DB) error {
	if _, err := db.Exec("VACUUM"); err != nil {
		if strings.Contains(err.Error(), "database is locked") {
			return errors.New("cannot vacuum: database is locked")
		}
		return err
	}
	return nil
}

// DBTotalSize returns the combined size of the database file and its -wal and -shm companions.
// Missing files count as zero.
func DBTotalSize(dbPath string) (int64, error) {
	var total int64
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}
