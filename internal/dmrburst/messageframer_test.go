package dmrburst

import "testing"

type recordingSink struct {
	bursts []Burst
	losses []SyncLoss
}

func (r *recordingSink) Burst(b Burst)       { r.bursts = append(r.bursts, b) }
func (r *recordingSink) SyncLoss(l SyncLoss) { r.losses = append(r.losses, l) }

func TestMessageFramerTimeslotToggleFallback(t *testing.T) {
	sink := &recordingSink{}
	mf := NewMessageFramer(sink, nil, ThresholdSearching, ThresholdSynchronized)

	// Mobile station data bursts carry neither a CACH nor a direct-mode timeslot tag, so
	// MessageFramer must fall back to simply toggling the slot on every recognized burst.
	msData := patternByClass(ClassMobileStationData)
	stream := append(burst(msData.Canonical), burst(msData.Canonical)...)
	stream = append(stream, burst(msData.Canonical)...)
	for _, d := range stream {
		mf.Receive(d)
	}

	if len(sink.bursts) != 3 {
		t.Fatalf("got %d bursts, want 3", len(sink.bursts))
	}
	wantSlots := []uint8{1, 0, 1}
	for i, want := range wantSlots {
		if sink.bursts[i].Slot != want {
			t.Errorf("burst %d slot = %d, want %d", i, sink.bursts[i].Slot, want)
		}
	}
}

func TestMessageFramerDirectModeTimeslotIsAuthoritative(t *testing.T) {
	sink := &recordingSink{}
	mf := NewMessageFramer(sink, nil, ThresholdSearching, ThresholdSynchronized)

	dm0 := patternByClass(ClassDirectDataTimeslot0)
	dm1 := patternByClass(ClassDirectDataTimeslot1)
	stream := append(burst(dm1.Canonical), burst(dm1.Canonical)...)
	stream = append(stream, burst(dm0.Canonical)...)
	for _, d := range stream {
		mf.Receive(d)
	}

	if len(sink.bursts) != 3 {
		t.Fatalf("got %d bursts, want 3", len(sink.bursts))
	}
	if sink.bursts[0].Slot != 1 || sink.bursts[1].Slot != 1 {
		t.Errorf("direct-mode timeslot-1 bursts should both report slot 1, got %d, %d",
			sink.bursts[0].Slot, sink.bursts[1].Slot)
	}
	if sink.bursts[2].Slot != 0 {
		t.Errorf("direct-mode timeslot-0 burst should report slot 0, got %d", sink.bursts[2].Slot)
	}
}

func TestMessageFramerReceiveBytesAnchorsTimebase(t *testing.T) {
	sink := &recordingSink{}
	mf := NewMessageFramer(sink, nil, ThresholdSearching, ThresholdSynchronized)

	bsData := patternByClass(ClassBaseStationData)
	dibits := burst(bsData.Canonical)
	buf := make([]byte, 0, len(dibits)/4)
	for i := 0; i < len(dibits); i += 4 {
		b := byte(dibits[i])<<6 | byte(dibits[i+1])<<4 | byte(dibits[i+2])<<2 | byte(dibits[i+3])
		buf = append(buf, b)
	}

	mf.ReceiveBytes(buf, 5000)

	if len(sink.bursts) != 1 {
		t.Fatalf("got %d bursts, want 1", len(sink.bursts))
	}
	if sink.bursts[0].TimestampMs != 5000 {
		t.Errorf("timestamp = %d, want 5000", sink.bursts[0].TimestampMs)
	}
}
