package diagnostics

import (
	"path/filepath"
	"testing"

	"github.com/dbehnke/dmrframerd/internal/dmrburst"
)

type recordingSink struct {
	bursts []dmrburst.Burst
	losses []dmrburst.SyncLoss
}

func (s *recordingSink) Burst(b dmrburst.Burst)       { s.bursts = append(s.bursts, b) }
func (s *recordingSink) SyncLoss(l dmrburst.SyncLoss) { s.losses = append(s.losses, l) }

func newTestRecorder(t *testing.T, downstream dmrburst.MessageSink) *Recorder {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagnostics.db")
	rec, err := NewRecorder(Config{Path: path, SymbolRate: 4800}, downstream, nil)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	t.Cleanup(func() { rec.Close() })
	return rec
}

func TestRecorderAssignsSessionID(t *testing.T) {
	rec := newTestRecorder(t, nil)
	if rec.SessionID() == "" {
		t.Error("SessionID() is empty")
	}
}

func TestRecorderForwardsBurstToDownstream(t *testing.T) {
	sink := &recordingSink{}
	rec := newTestRecorder(t, sink)

	b := dmrburst.Burst{Lock: dmrburst.CarrierLockNormal, Slot: 1, TimestampMs: 100}
	rec.Burst(b)

	if len(sink.bursts) != 1 || sink.bursts[0].Slot != 1 {
		t.Errorf("downstream bursts = %+v, want one burst with Slot=1", sink.bursts)
	}
}

func TestRecorderRecordsCorrectionOnNonNormalLock(t *testing.T) {
	rec := newTestRecorder(t, nil)
	rec.Burst(dmrburst.Burst{Lock: dmrburst.CarrierLockPlus90, Errors: 2, TimestampMs: 50})

	var count int64
	rec.db.Model(&CorrectionEvent{}).Where("session_id = ?", rec.sessionID).Count(&count)
	if count != 1 {
		t.Errorf("CorrectionEvent count = %d, want 1", count)
	}
}

func TestRecorderRecordsSyncLossAndForwards(t *testing.T) {
	sink := &recordingSink{}
	rec := newTestRecorder(t, sink)

	rec.SyncLoss(dmrburst.SyncLoss{Bits: 288, TimestampMs: 1000})

	if len(sink.losses) != 1 {
		t.Fatalf("downstream losses = %+v, want one entry", sink.losses)
	}

	var count int64
	rec.db.Model(&SyncEvent{}).Where("session_id = ?", rec.sessionID).Count(&count)
	if count != 1 {
		t.Errorf("SyncEvent count = %d, want 1", count)
	}
}
