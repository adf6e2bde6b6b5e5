package serial

import (
	"errors"
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// ErrNoDevice is returned by Open when no device path is configured
var ErrNoDevice = errors.New("no operator serial device configured")

// boardPort is the operator UART of a lockbox board opened through tarm/serial.
// The board speaks 8N1 and answers each "CMD -name arg\n" line with a
// "> name" echo followed by the handler's reply lines.
type boardPort struct {
	port   *serial.Port
	device string
}

// linkConfig maps cfg onto the board's fixed 8N1 framing. A zero baud
// falls back to DefaultBaud. tarm/serial rounds ReadTimeout to tenths of
// a second on POSIX, so a console session ends reply collection no sooner
// than that.
func linkConfig(cfg *Config) *serial.Config {
	baud := cfg.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	return &serial.Config{
		Name:        cfg.Device,
		Baud:        baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}
}

// Open connects to a board's operator UART
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}

	port, err := serial.OpenPort(linkConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open operator link %s: %w", cfg.Device, err)
	}
	return &boardPort{port: port, device: cfg.Device}, nil
}

func (p *boardPort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *boardPort) Write(b []byte) (int, error) {
	n, err := p.port.Write(b)
	if err != nil {
		return n, fmt.Errorf("write to %s: %w", p.device, err)
	}
	return n, nil
}

func (p *boardPort) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}

// Flush drops the boot banner and any debug output the board printed
// before the session started, so the first reply read belongs to the
// first command written.
func (p *boardPort) Flush() error {
	return p.port.Flush()
}
