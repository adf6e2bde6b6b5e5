package boxhost

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultSpeed is the bus clock used when none is configured
const DefaultSpeed = physic.MegaHertz

// PeriphLink is a Bus and ReadyLine on a Linux host's spidev port and GPIO
type PeriphLink struct {
	port  spi.PortCloser
	conn  spi.Conn
	ready gpio.PinIO
}

// OpenPeriph opens the named SPI port in mode 0 and the ready line pin.
// Empty names select the first registered SPI port.
func OpenPeriph(spiName, readyPin string, speed physic.Frequency) (*PeriphLink, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	if speed <= 0 {
		speed = DefaultSpeed
	}

	port, err := spireg.Open(spiName)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", spiName, err)
	}
	conn, err := port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect spi %q: %w", spiName, err)
	}

	pin := gpioreg.ByName(readyPin)
	if pin == nil {
		port.Close()
		return nil, fmt.Errorf("unknown ready pin %q", readyPin)
	}
	// The device only ever pulls the line low
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		port.Close()
		return nil, fmt.Errorf("configure ready pin %q: %w", readyPin, err)
	}

	return &PeriphLink{port: port, conn: conn, ready: pin}, nil
}

// Tx exchanges one transfer with chip select asserted throughout
func (l *PeriphLink) Tx(w, r []byte) error {
	return l.conn.Tx(w, r)
}

// Ready reports the ready line as asserted while it reads low
func (l *PeriphLink) Ready() bool {
	return l.ready.Read() == gpio.Low
}

// Close releases the SPI port
func (l *PeriphLink) Close() error {
	return l.port.Close()
}
