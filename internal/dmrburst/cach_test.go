package dmrburst

import "testing"

// encodeCACH packs a CACH (LCSS, access type, timeslot, 13-bit fragment) with a valid trailing
// CRC-7, for use as test fixture data. Production code only ever decodes a CACH.
func encodeCACH(lcss uint8, accessType bool, timeslot uint8, fragment uint16) []byte {
	var at uint32
	if accessType {
		at = 1
	}
	payload := uint32(lcss&0x03)<<15 | at<<14 | uint32(timeslot&0x01)<<13 | uint32(fragment&0x1FFF)
	value := payload<<cachCRCBits | uint32(crc7(payload, cachDataBits))

	return []byte{
		byte(value >> 16),
		byte(value >> 8),
		byte(value),
	}
}

func TestDecodeCACHRoundTrip(t *testing.T) {
	cases := []struct {
		lcss       uint8
		accessType bool
		timeslot   uint8
		fragment   uint16
	}{
		{0, false, 0, 0},
		{2, true, 1, 0x1A2B & 0x1FFF},
		{3, false, 1, 0x1FFF},
	}

	for _, c := range cases {
		bits := encodeCACH(c.lcss, c.accessType, c.timeslot, c.fragment)
		got := DecodeCACH(bits)
		if !got.Valid {
			t.Fatalf("DecodeCACH(%v) not valid", c)
		}
		if got.LCSS != c.lcss || got.AccessType != c.accessType || got.Timeslot != c.timeslot || got.Fragment != c.fragment {
			t.Errorf("DecodeCACH(%v) = %+v, want fields to match input", c, got)
		}
	}
}

func TestDecodeCACHRejectsCorruption(t *testing.T) {
	bits := encodeCACH(1, true, 1, 0x0F0F&0x1FFF)
	bits[1] ^= 0xFF

	if got := DecodeCACH(bits); got.Valid {
		t.Error("corrupted CACH should not validate")
	}
}

func TestDecodeCACHShortInput(t *testing.T) {
	if got := DecodeCACH([]byte{0x00}); got.Valid {
		t.Error("short input should never validate")
	}
}
