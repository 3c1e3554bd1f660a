package channelconfig

import "time"

// FrequencyEntry is one row of the timeslot-to-frequency assignment table referenced
// by source spec section 6: a downstream frequency-hopping collaborator looks up the
// transmit/receive pair for a logical slot once MessageFramer has resolved it.
type FrequencyEntry struct {
	Slot        uint32 `gorm:"primarykey;autoIncrement:false;not null" json:"slot"`
	Label       string `gorm:"size:64" json:"label"`
	RxFrequency uint64 `json:"rx_frequency_hz"`
	TxFrequency uint64 `json:"tx_frequency_hz"`
	ColorCode   uint8  `json:"color_code"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (FrequencyEntry) TableName() string {
	return "channel_frequencies"
}

// IsValid checks that the entry has the fields a frequency-hopping consumer needs.
func (e FrequencyEntry) IsValid() bool {
	return e.RxFrequency > 0 && e.TxFrequency > 0
}
