package dmrburst


const (
	syncFieldOffset = 66 // dibits into the burst where the 24-dibit sync field begins
	syncFieldLength = 24
	burstTailDibits = BurstDibits - syncFieldOffset - syncFieldLength // 54

	symbolRate = 4800 // dibits/sec at DMR's 4800 baud

	// Once a full second of dibits has passed without recovering sync, report a sync-loss chunk
	// rather than letting the counter grow unbounded. The burst-length pad keeps the counter from
	// dropping below BurstDibits so the very next dibit doesn't retrigger the synchronized-mode
	// burst-length check before a new burst has actually started accumulating.
	syncLossReportThreshold = symbolRate + BurstDibits
)

// BurstFramer consumes a dibit stream and recognizes DMR burst boundaries via their 48-bit sync
// fields, without any notion of wall-clock time or timeslot identity; both belong to a layer above.
//
// Internally it runs two SyncTrackers, toggled between on every completed burst once synchronized.
// Which physical timeslot each ends up following doesn't matter: since every burst is 144 dibits
// and the two timeslots interleave one burst at a time, alternating trackers means each burst is
// always checked by whichever tracker isn't the one that just checked its neighbor.
type BurstFramer struct {
	dibitCounter int
	synchronized bool

	messageBuffer *burstBuffer
	syncDelay     *dibitDelayBuffer
	searchMatcher *SoftSyncMatcher

	primary   *SyncTracker
	secondary *SyncTracker
	current   *SyncTracker

	listener        BurstListener
	pll             PhaseLockedLoop
	searchThreshold int
}

// NewBurstFramer creates a framer in the unsynchronized, searching state. listener receives burst
// and sync-loss events and must not be nil; pll, if non-nil, is notified whenever a non-canonical
// carrier lock rotation is recognized so it can correct the front end going forward.
// searchThreshold bounds the Hamming distance the continuous search matcher accepts while
// unsynchronized; lockThreshold bounds the distance each SyncTracker accepts once synchronized.
// Both must fall within [MinSyncThreshold, MaxSyncThreshold]; this panics immediately otherwise,
// so a misconfigured framer never gets constructed in the first place.
func NewBurstFramer(listener BurstListener, pll PhaseLockedLoop, searchThreshold, lockThreshold int) *BurstFramer {
	if listener == nil {
		panic("dmrburst: NewBurstFramer requires a non-nil listener")
	}
	validateThreshold("search", searchThreshold)

	f := &BurstFramer{
		messageBuffer:   newBurstBuffer(),
		syncDelay:       newDibitDelayBuffer(burstTailDibits),
		searchMatcher:   NewSoftSyncMatcher(),
		primary:         NewSyncTracker(lockThreshold),
		secondary:       NewSyncTracker(lockThreshold),
		listener:        listener,
		pll:             pll,
		searchThreshold: searchThreshold,
	}
	f.current = f.primary
	return f
}

// Receive processes a single dibit symbol.
func (f *BurstFramer) Receive(d Dibit) {
	f.dibitCounter++
	f.messageBuffer.put(d)
	delayed := f.syncDelay.push(d)

	if f.synchronized {
		f.receiveSynchronized()
		return
	}

	f.searchMatcher.Feed(delayed)
	if pattern, lock, errors, ok := f.searchMatcher.Check(f.searchThreshold); ok {
		f.onSyncDetected(pattern, lock, errors)
	}

	if f.dibitCounter > syncLossReportThreshold {
		f.processSyncLoss(symbolRate)
	}
}

// receiveSynchronized runs the once-per-burst check for the currently synchronized state.
func (f *BurstFramer) receiveSynchronized() {
	if f.dibitCounter < BurstDibits {
		return
	}

	hasSync := f.current.CheckField(f.syncFieldValue())
	f.updateSynchronizedState()

	switch {
	case hasSync:
		// A synchronized tracker only ever recognizes a canonical match (see SyncTracker.CheckField),
		// so its lock is always NORMAL here; no PLL correction or buffer rotation applies to this path.
		f.dispatchBurst(f.current.Pattern(), CarrierLockNormal, f.current.Errors())
	case f.synchronized:
		// This tracker's timeslot lost sync, but the other still holds lock; dispatch a dummy
		// UNKNOWN-pattern burst so timeslot cadence downstream stays intact.
		f.dispatchBurst(f.current.Pattern(), CarrierLockNormal, f.current.Errors())
	default:
		// Both trackers are now unsynchronized; resume the search matcher from the exact sync
		// field contents instead of re-accumulating 24 dibits from scratch.
		f.searchMatcher.PrimeFrom(f.syncFieldValue())
	}

	f.toggleTracker()
}

// onSyncDetected handles a sync field recognized by the continuous search matcher while
// unsynchronized, correcting the message buffer in place if the carrier locked to a rotated phase.
func (f *BurstFramer) onSyncDetected(pattern SyncPattern, lock CarrierLock, errors int) {
	f.current.set(pattern, lock, errors)
	f.updateSynchronizedState()

	if lock != CarrierLockNormal {
		if f.pll != nil {
			f.pll.Correct(offsetForLock(lock))
		}
		f.correctMessageBuffer(lock)
	}

	f.dispatchBurst(pattern, lock, errors)
}

func (f *BurstFramer) correctMessageBuffer(lock CarrierLock) {
	for i := 0; i < BurstDibits; i++ {
		f.messageBuffer.set(i, correctDibit(f.messageBuffer.at(i), lock))
	}
}

func correctDibit(d Dibit, lock CarrierLock) Dibit {
	switch lock {
	case CarrierLockPlus90:
		return rotateMinus90(d)
	case CarrierLockMinus90:
		return rotate90(d)
	case CarrierLockInverted:
		return rotate180(d)
	default:
		return d
	}
}

// dispatchBurst emits the message buffer's current contents as a completed burst.
func (f *BurstFramer) dispatchBurst(pattern SyncPattern, lock CarrierLock, errors int) {
	if f.dibitCounter > BurstDibits {
		f.processSyncLoss(f.dibitCounter - BurstDibits)
	}

	bits := f.messageBuffer.snapshotBytes()
	f.dibitCounter = 0

	if f.listener != nil {
		f.listener.BurstDetected(RawBurst{Bits: bits, Sync: pattern, Lock: lock, Errors: errors})
	}
}

// processSyncLoss reports dibitCount dibits (as bits) of unsynchronized stream to the listener.
func (f *BurstFramer) processSyncLoss(dibitCount int) {
	f.dibitCounter -= dibitCount

	if f.listener != nil {
		f.listener.SyncLost(SyncLoss{Bits: dibitCount * 2})
	}
}

func (f *BurstFramer) toggleTracker() {
	if f.current == f.primary {
		f.current = f.secondary
	} else {
		f.current = f.primary
	}
}

// updateSynchronizedState recomputes the framer's aggregate lock state from both trackers.
func (f *BurstFramer) updateSynchronizedState() {
	f.synchronized = f.primary.Synchronized() || f.secondary.Synchronized()
}

// syncFieldValue packs the 24 dibits at the burst's fixed sync field offset into a 48-bit value.
func (f *BurstFramer) syncFieldValue() uint64 {
	var value uint64
	for i := 0; i < syncFieldLength; i++ {
		value = (value << 2) | uint64(f.messageBuffer.at(syncFieldOffset+i)&0x03)
	}
	return value & SyncRegisterMask
}

// Synchronized reports whether either tracker currently holds a lock.
func (f *BurstFramer) Synchronized() bool {
	return f.synchronized
}

// Reset returns the framer to its initial unsynchronized, searching state, clearing both trackers
// along with the message and delay buffers.
func (f *BurstFramer) Reset() {
	f.dibitCounter = 0
	f.messageBuffer.reset()
	f.syncDelay.reset()
	f.searchMatcher.Reset()
	f.primary.Reset()
	f.secondary.Reset()
	f.current = f.primary
	f.synchronized = false
}
