package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	// Returns error if pin is invalid or already in use
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInput configures a pin as a floating (high-impedance) input.
	// The ready line is released this way so the host pull-up drives it high.
	ConfigureInput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// ConfigureInputPullDown configures a pin as a digital input with pull-down resistor
	ConfigureInputPullDown(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin GPIOPin) (bool, error)

	// ReadPin reads the current pin state (alias for GetPin for convenience)
	ReadPin(pin GPIOPin) bool
}

// PinChange selects which edges trigger a pin interrupt
type PinChange uint8

const (
	PinNoChange PinChange = 0
	PinRising   PinChange = 1 << 0
	PinFalling  PinChange = 1 << 1
	PinToggle   PinChange = PinRising | PinFalling
)

// PinInterruptDriver attaches edge interrupts to input pins.
type PinInterruptDriver interface {
	// SetInterrupt installs handler for the given edges. PinNoChange or a
	// nil handler disables the interrupt. Handlers run in interrupt context.
	SetInterrupt(pin GPIOPin, change PinChange, handler func(GPIOPin)) error
}
