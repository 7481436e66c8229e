package tracestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BaSui01/swarmdfs/config"
	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/types"
)

// runModel is one row per run.
type runModel struct {
	RunID       string        `gorm:"primaryKey;size:64"`
	InitialTask string        `gorm:"type:text"`
	RecordCount int
	FailedCount int
	StartedAt   time.Time     `gorm:"index"`
	FinishedAt  time.Time
	Records     []recordModel `gorm:"foreignKey:RunID;references:RunID;constraint:OnDelete:CASCADE"`
}

func (runModel) TableName() string { return "swarm_runs" }

// recordModel is one row per trace record. Seq keeps pre-order.
type recordModel struct {
	ID     uint   `gorm:"primaryKey"`
	RunID  string `gorm:"size:64;index"`
	Seq    int
	Worker string `gorm:"size:255"`
	Task   string `gorm:"type:text"`
	Status string `gorm:"size:32"`
	Result string `gorm:"type:text"`
	Error  string `gorm:"type:text"`
	Depth  int
}

func (recordModel) TableName() string { return "swarm_run_records" }

// SQLStore stores traces in a relational database through gorm.
type SQLStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSQLStore migrates the schema on db and returns a store using it.
func NewSQLStore(db *gorm.DB, logger *zap.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&runModel{}, &recordModel{}); err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to migrate trace tables").WithCause(err)
	}
	return &SQLStore{
		db:     db,
		logger: logger.With(zap.String("component", "trace_store"), zap.String("backend", TypeSQL)),
	}, nil
}

// OpenSQLStore opens the configured database and applies pool settings.
func OpenSQLStore(cfg config.DatabaseConfig, logger *zap.Logger) (*SQLStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "", "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, types.NewError(types.ErrInvalidConfig, fmt.Sprintf("unsupported database driver: %s", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to open database").
			WithCause(err).WithRetryable(true)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	store, err := NewSQLStore(db, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// Save implements Store. Records of an existing run are replaced.
func (s *SQLStore) Save(ctx context.Context, t *swarm.Trace) error {
	if err := validate(t); err != nil {
		return err
	}

	run := runModel{
		RunID:       t.RunID,
		InitialTask: t.InitialTask,
		RecordCount: t.Len(),
		FailedCount: len(t.Failed()),
		StartedAt:   t.StartedAt,
		FinishedAt:  t.FinishedAt,
	}
	records := make([]recordModel, 0, len(t.Records))
	for i, r := range t.Records {
		result, err := json.Marshal(r.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal result of record %d: %w", i, err)
		}
		records = append(records, recordModel{
			RunID:  t.RunID,
			Seq:    i,
			Worker: r.Worker,
			Task:   r.Task,
			Status: string(r.Status),
			Result: string(result),
			Error:  r.Error,
			Depth:  r.Depth,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", t.RunID).Delete(&recordModel{}).Error; err != nil {
			return err
		}
		if err := tx.Save(&run).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 500).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save trace %s: %w", t.RunID, err)
	}

	s.logger.Debug("trace saved", zap.String("run_id", t.RunID), zap.Int("records", len(records)))
	return nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, runID string) (*swarm.Trace, error) {
	var run runModel
	err := s.db.WithContext(ctx).
		Preload("Records", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		First(&run, "run_id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(runID)
	}
	if err != nil {
		return nil, err
	}

	t := &swarm.Trace{
		RunID:       run.RunID,
		InitialTask: run.InitialTask,
		Records:     make([]swarm.Record, 0, len(run.Records)),
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
	}
	for _, m := range run.Records {
		var result any
		if m.Result != "" {
			if err := json.Unmarshal([]byte(m.Result), &result); err != nil {
				return nil, fmt.Errorf("failed to unmarshal result of record %d: %w", m.Seq, err)
			}
		}
		t.Records = append(t.Records, swarm.Record{
			Worker: m.Worker,
			Task:   m.Task,
			Status: swarm.RecordStatus(m.Status),
			Result: result,
			Error:  m.Error,
			Depth:  m.Depth,
		})
	}
	return t, nil
}

// List implements Store.
func (s *SQLStore) List(ctx context.Context, limit int) ([]Summary, error) {
	var runs []runModel
	err := s.db.WithContext(ctx).
		Order("started_at DESC").Order("run_id ASC").
		Limit(listLimit(limit)).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(runs))
	for _, r := range runs {
		out = append(out, Summary{
			RunID:       r.RunID,
			InitialTask: r.InitialTask,
			Records:     r.RecordCount,
			Failed:      r.FailedCount,
			StartedAt:   r.StartedAt,
			FinishedAt:  r.FinishedAt,
		})
	}
	return out, nil
}

// Ping checks if the store is healthy.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close implements Store.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
