package dmrburst

// BurstDibits is the number of dibits in one DMR burst (ETSI TS 102-361-1 §9.1): the 12-dibit
// CACH, two 54-dibit payload halves and the 24-dibit sync field between them, 288 bits in all,
// packed four dibits per byte into 36 bytes.
const BurstDibits = 144

// RawBurst is what BurstFramer recognizes directly from the dibit stream: the accumulated burst
// bits and the sync field that anchored them, with no notion of wall-clock time or timeslot.
// Those belong to the facade that sits above BurstFramer, since attaching them requires state
// (a timebase, a CACH/toggle history) that burst-level framing has no business owning.
type RawBurst struct {
	Bits   []byte
	Sync   SyncPattern
	Lock   CarrierLock
	Errors int
}

// Burst is a fully assembled DMR burst: raw bits plus the timeslot and millisecond timestamp
// MessageFramer derived for it.
type Burst struct {
	Bits        []byte
	Sync        SyncPattern
	Lock        CarrierLock
	Errors      int
	Slot        uint8
	TimestampMs uint64
}

// SyncLoss reports Bits bits (two per dibit) of stream that BurstFramer accumulated with no
// recognized sync field.
type SyncLoss struct {
	Bits        int
	TimestampMs uint64
}

// BurstListener receives events from BurstFramer. MessageFramer is the canonical implementation;
// tests may supply a simpler one to record emitted events directly.
type BurstListener interface {
	BurstDetected(raw RawBurst)
	SyncLost(loss SyncLoss)
}

// MessageSink receives the fully assembled events MessageFramer produces.
type MessageSink interface {
	Burst(b Burst)
	SyncLoss(loss SyncLoss)
}
