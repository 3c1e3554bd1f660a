package diagnostics

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/dbehnke/dmrframerd/internal/dmrburst"
)

// Config holds diagnostics recorder configuration.
type Config struct {
	Path       string
	SymbolRate uint32
}

// Recorder opens (or reuses) a GORM/SQLite database, creates one FramerSession row per
// construction, and appends SyncEvent/CorrectionEvent rows as events arrive. It implements
// dmrburst.MessageSink purely as an observer: it never influences FSM behavior, so the core's
// statelessness invariant is preserved. Construct it with a downstream sink to wrap; Recorder
// forwards every event after recording it.
type Recorder struct {
	db         *gorm.DB
	sessionID  string
	downstream dmrburst.MessageSink
}

// NewRecorder opens the diagnostics database, migrates its schema, and starts a new session.
func NewRecorder(config Config, downstream dmrburst.MessageSink, log *log.Logger) (*Recorder, error) {
	var gormLog logger.Interface
	if log != nil {
		gormLog = logger.New(log, logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	} else {
		gormLog = logger.Default.LogMode(logger.Silent)
	}

	dialector := sqlite.Dialector{DriverName: "sqlite", DSN: config.Path}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&FramerSession{}, &SyncEvent{}, &CorrectionEvent{}); err != nil {
		return nil, err
	}

	session := FramerSession{
		ID:         uuid.NewString(),
		StartedAt:  time.Now(),
		SymbolRate: config.SymbolRate,
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}

	if log != nil {
		log.Printf("diagnostics session %s started", session.ID)
	}

	return &Recorder{db: db, sessionID: session.ID, downstream: downstream}, nil
}

// SessionID returns the UUID assigned to this recorder's FramerSession row.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Burst forwards a burst to the downstream sink without recording it; CorrectionEvent rows are
// written separately whenever the burst carries a non-normal carrier lock.
func (r *Recorder) Burst(b dmrburst.Burst) {
	if b.Lock != dmrburst.CarrierLockNormal {
		r.db.Create(&CorrectionEvent{
			SessionID:   r.sessionID,
			Lock:        b.Lock.String(),
			BitErrors:   b.Errors,
			TimestampMs: b.TimestampMs,
			RecordedAt:  time.Now(),
		})
	}
	if r.downstream != nil {
		r.downstream.Burst(b)
	}
}

// SyncLoss records a sync-loss event and forwards it to the downstream sink.
func (r *Recorder) SyncLoss(loss dmrburst.SyncLoss) {
	r.db.Create(&SyncEvent{
		SessionID:   r.sessionID,
		Bits:        loss.Bits,
		TimestampMs: loss.TimestampMs,
		RecordedAt:  time.Now(),
	})
	if r.downstream != nil {
		r.downstream.SyncLoss(loss)
	}
}

// Close closes the underlying database connection.
func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
