package core

// SPIMode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

const (
	SPIMode0 SPIMode = 0
	SPIMode1 SPIMode = 1
	SPIMode2 SPIMode = 2
	SPIMode3 SPIMode = 3
)

// SPISlaveConfig holds the configuration for the peripheral (slave) side of a bus
type SPISlaveConfig struct {
	Mode     SPIMode // SPI mode (0-3)
	MSBFirst bool    // Bit order
}

// SPISlaveDriver is the peripheral-mode SPI interface the bus engine uses.
// The host clocks exactly one byte per transaction.
type SPISlaveDriver interface {
	// ConfigureSlave enables the peripheral and installs onShift, which is
	// called in interrupt context once per completed byte exchange
	ConfigureSlave(cfg SPISlaveConfig, onShift func()) error

	// Received returns the byte the host shifted in during the last exchange
	Received() byte

	// Preload loads the byte the host will read during the next exchange
	Preload(b byte)
}
