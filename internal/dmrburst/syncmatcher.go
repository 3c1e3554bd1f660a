package dmrburst

import "math/bits"

// hammingDistance48 counts the differing bit positions between two 48-bit values.
func hammingDistance48(a, b uint64) int {
	return bits.OnesCount64((a ^ b) & SyncRegisterMask)
}

// MatchSync compares a 48-bit sync field value against the pattern table, one pattern at a time:
// for each pattern, its canonical value is checked first (with tolerance up to threshold bit
// errors), and only if that misses is the same pattern's rotated (carrier-lock-misaligned)
// variants checked, as an exact match only, since a few bit errors layered on top of a wrong
// rotation would otherwise be indistinguishable from the correct one. The loop then moves on to
// the next pattern; it never finishes checking canonical values across the whole table before
// starting on rotated ones, so an earlier pattern's rotated exact match always wins over a later
// pattern's canonical match within tolerance.
func MatchSync(value uint64, threshold int) (SyncPattern, CarrierLock, int, bool) {
	value &= SyncRegisterMask

	for _, p := range Table {
		if errors := hammingDistance48(value, p.Canonical); errors <= threshold {
			return p, CarrierLockNormal, errors, true
		}

		switch value {
		case p.Plus90:
			return p, CarrierLockPlus90, 0, true
		case p.Minus90:
			return p, CarrierLockMinus90, 0, true
		case p.Inverted:
			return p, CarrierLockInverted, 0, true
		}
	}

	return Unknown, CarrierLockNormal, 0, false
}

// MatchSyncCanonical compares a 48-bit sync field value against only the table's canonical
// values, with tolerance up to threshold bit errors. Unlike MatchSync, it never recognizes a
// rotated variant: rotation recovery is exclusively the job of the unsynchronized search path,
// matching the original source's SyncTracker.hasSync(), which only ever tests the canonical
// pattern once already synchronized.
func MatchSyncCanonical(value uint64, threshold int) (SyncPattern, int, bool) {
	value &= SyncRegisterMask

	for _, p := range Table {
		if errors := hammingDistance48(value, p.Canonical); errors <= threshold {
			return p, errors, true
		}
	}

	return Unknown, 0, false
}

// SoftSyncMatcher is a continuous 48-bit shift register used to hunt for a sync field anywhere in
// an unsynchronized dibit stream: every dibit shifts the register by two bits, and Check matches
// the full register against the pattern table.
type SoftSyncMatcher struct {
	register uint64
}

// NewSoftSyncMatcher creates a matcher with a zeroed shift register.
func NewSoftSyncMatcher() *SoftSyncMatcher {
	return &SoftSyncMatcher{}
}

// Feed shifts d into the register two bits at a time.
func (m *SoftSyncMatcher) Feed(d Dibit) {
	m.register = ((m.register << 2) | uint64(d&0x03)) & SyncRegisterMask
}

// Check matches the current register contents against the pattern table.
func (m *SoftSyncMatcher) Check(threshold int) (SyncPattern, CarrierLock, int, bool) {
	return MatchSync(m.register, threshold)
}

// PrimeFrom loads the register directly from a precomputed 48-bit value, used when the framer
// regains the exact sync field contents from its message buffer and wants the search matcher to
// resume from there rather than re-accumulate 24 dibits from scratch.
func (m *SoftSyncMatcher) PrimeFrom(value uint64) {
	m.register = value & SyncRegisterMask
}

// Reset zeroes the shift register.
func (m *SoftSyncMatcher) Reset() {
	m.register = 0
}
