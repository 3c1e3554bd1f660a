package diagnostics

import "time"

// FramerSession is one row per Recorder construction, so an operator can see
// carrier-lock anomaly history across restarts even though the core FSM is stateless.
type FramerSession struct {
	ID         string `gorm:"primarykey;size:36"`
	StartedAt  time.Time
	SymbolRate uint32
}

// TableName specifies the table name for GORM.
func (FramerSession) TableName() string {
	return "framer_sessions"
}

// SyncEvent records one BurstFramer sync-loss event.
type SyncEvent struct {
	ID          uint64 `gorm:"primarykey;autoIncrement"`
	SessionID   string `gorm:"index;size:36"`
	Bits        int
	TimestampMs uint64
	RecordedAt  time.Time
}

// TableName specifies the table name for GORM.
func (SyncEvent) TableName() string {
	return "sync_events"
}

// CorrectionEvent records one burst dispatched with a non-normal carrier lock, i.e. one
// PLL phase correction applied by BurstFramer.
type CorrectionEvent struct {
	ID          uint64 `gorm:"primarykey;autoIncrement"`
	SessionID   string `gorm:"index;size:36"`
	Lock        string
	BitErrors   int
	TimestampMs uint64
	RecordedAt  time.Time
}

// TableName specifies the table name for GORM.
func (CorrectionEvent) TableName() string {
	return "correction_events"
}
