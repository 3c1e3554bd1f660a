package dmrburst

import "testing"

func TestTimebaseTrackerAdvance(t *testing.T) {
	tb := NewTimebaseTracker()
	tb.Set(1000)

	tb.Advance(9600) // exactly one second of bits at 9600 bps
	if got := tb.Millis(); got != 2000 {
		t.Errorf("Millis() = %d, want 2000", got)
	}
}

func TestTimebaseTrackerSetOverridesAdvance(t *testing.T) {
	tb := NewTimebaseTracker()
	tb.Advance(9600)
	tb.Set(42)
	if got := tb.Millis(); got != 42 {
		t.Errorf("Millis() = %d, want 42", got)
	}
}
