package serial

import (
	"io"
)

// Port represents the lockbox operator serial port.
// Implementations:
// - Native serial (using github.com/tarm/serial)
// - In-memory pipes (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the board's operator UART
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud matches the board's operator UART
const DefaultBaud = 9600

// DefaultConfig returns the default configuration for a lockbox board
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}
