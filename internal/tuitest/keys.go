package tuitest

// Raw byte sequences for the keys the remindme screen binds.
var (
	KeyEnter    = []byte{'\r'}
	KeyTab      = []byte{'\t'}
	KeyShiftTab = []byte("\x1b[Z")
	KeyCtrlC    = []byte{0x03}
	KeyCtrlL    = []byte{0x0c}
	KeyCtrlS    = []byte{0x13}
	KeyCtrlU    = []byte{0x15}
	KeyEsc      = []byte{0x1b}
)
