package datarecording

// Tables of a pulsesim recording.
const (
	PressTable = "presses"
	PulseTable = "pulses"
)

// PressRecord is one row of the press table: the pulses delivered during one
// press of a session.
type PressRecord struct {
	Session string
	Press   uint64
	Low     uint64
	High    uint64
}

// PulseRecord is one row of the pulse table. Seq is the 1-based position of
// the pulse in the delivery order of its press.
type PulseRecord struct {
	Session string
	Press   uint64
	Seq     uint64
	Sender  string
	Target  string
	High    bool
}
