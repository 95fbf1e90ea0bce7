package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
)

func (t ControllerType) String() string {
	if t == ControllerLaunchpad {
		return "launchpad"
	}
	return "unknown"
}

// PadEvent is sent when a pad/button is pressed on a grid controller.
// Rows 0-7 are the grid (bottom to top), row 8 is the top button row and
// column 8 is the scene button column.
type PadEvent struct {
	Row, Col int
	Velocity uint8
}

// LEDUpdate sets one pad to an RGB color
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8
}

// Controller is a grid controller with LED feedback
type Controller interface {
	ID() string
	Type() ControllerType

	PadEvents() <-chan PadEvent
	SetLEDBatch(updates []LEDUpdate) error

	Close() error
}

// Channel modes for LEDUpdate.Channel
const (
	ChannelStatic uint8 = 0 // solid color
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)

// Grid dimensions of a Launchpad
const (
	GridRows = 8
	GridCols = 8
)
