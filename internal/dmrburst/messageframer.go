package dmrburst

// MessageFramer is the facade over BurstFramer: it owns the timebase and timeslot bookkeeping
// that burst-level sync detection has no business owning, and assembles the final Burst/SyncLoss
// events consumers see.
type MessageFramer struct {
	burstFramer *BurstFramer
	timebase    *TimebaseTracker
	sink        MessageSink
	timeslot0   bool
}

// NewMessageFramer creates a facade wired to sink. pll, if non-nil, receives carrier lock
// corrections recognized by the underlying BurstFramer. searchThreshold/lockThreshold are passed
// straight through to NewBurstFramer.
func NewMessageFramer(sink MessageSink, pll PhaseLockedLoop, searchThreshold, lockThreshold int) *MessageFramer {
	f := &MessageFramer{
		timebase:  NewTimebaseTracker(),
		sink:      sink,
		timeslot0: true,
	}
	f.burstFramer = NewBurstFramer(f, pll, searchThreshold, lockThreshold)
	return f
}

// Receive processes a single dibit symbol.
func (f *MessageFramer) Receive(d Dibit) {
	f.burstFramer.Receive(d)
}

// ReceiveBytes unpacks byte-packed dibits (two bits per dibit, MSB first within each byte) and
// anchors the timebase to tsMillis before processing them.
func (f *MessageFramer) ReceiveBytes(buf []byte, tsMillis uint64) {
	f.timebase.Set(tsMillis)
	for _, b := range buf {
		f.Receive(Dibit((b >> 6) & 0x03))
		f.Receive(Dibit((b >> 4) & 0x03))
		f.Receive(Dibit((b >> 2) & 0x03))
		f.Receive(Dibit(b & 0x03))
	}
}

// BurstDetected implements BurstListener.
func (f *MessageFramer) BurstDetected(raw RawBurst) {
	var cach CACH
	if raw.Sync.HasCACH() && len(raw.Bits) >= 3 {
		cach = DecodeCACH(raw.Bits)
	}

	f.sink.Burst(Burst{
		Bits:        raw.Bits,
		Sync:        raw.Sync,
		Lock:        raw.Lock,
		Errors:      raw.Errors,
		Slot:        f.timeslot(raw.Sync, cach),
		TimestampMs: f.timebase.Millis(),
	})
}

// SyncLost implements BurstListener.
func (f *MessageFramer) SyncLost(loss SyncLoss) {
	f.timebase.Advance(loss.Bits)
	f.sink.SyncLoss(SyncLoss{Bits: loss.Bits, TimestampMs: f.timebase.Millis()})
}

// timeslot assigns the physical timeslot for a recognized burst: a valid CACH is authoritative,
// direct-mode patterns name their timeslot outright, and everything else (base/mobile station
// bursts with no usable CACH) falls back to simply toggling from the last known slot.
func (f *MessageFramer) timeslot(pattern SyncPattern, cach CACH) uint8 {
	if pattern.HasCACH() && cach.Valid {
		f.timeslot0 = cach.Timeslot == 0
		return cach.Timeslot
	}

	switch pattern.Class {
	case ClassDirectDataTimeslot0, ClassDirectVoiceTimeslot0:
		f.timeslot0 = true
		return 0
	case ClassDirectDataTimeslot1, ClassDirectVoiceTimeslot1:
		f.timeslot0 = false
		return 1
	default:
		f.timeslot0 = !f.timeslot0
		if f.timeslot0 {
			return 0
		}
		return 1
	}
}

// Synchronized reports whether the underlying burst framer currently holds a lock.
func (f *MessageFramer) Synchronized() bool {
	return f.burstFramer.Synchronized()
}

// Reset returns the facade, including its underlying burst framer, to its initial state. The
// timebase is left untouched since it reflects external wall-clock reality, not framing state.
func (f *MessageFramer) Reset() {
	f.burstFramer.Reset()
	f.timeslot0 = true
}
