package serial

import (
	"testing"

	"github.com/tarm/serial"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	if cfg.Device != "/dev/ttyUSB0" {
		t.Errorf("Expected device /dev/ttyUSB0, got %s", cfg.Device)
	}
	if cfg.Baud != 9600 {
		t.Errorf("Expected baud 9600, got %d", cfg.Baud)
	}
	if cfg.ReadTimeout != 100 {
		t.Errorf("Expected read timeout 100, got %d", cfg.ReadTimeout)
	}
}

func TestOpenNilConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestOpenNoDevice(t *testing.T) {
	if _, err := Open(&Config{Baud: 9600}); err != ErrNoDevice {
		t.Errorf("Expected ErrNoDevice, got %v", err)
	}
}

func TestLinkConfigFraming(t *testing.T) {
	c := linkConfig(&Config{Device: "/dev/ttyACM0", ReadTimeout: 250})
	if c.Baud != DefaultBaud {
		t.Errorf("Expected baud %d, got %d", DefaultBaud, c.Baud)
	}
	if c.Size != 8 || c.Parity != serial.ParityNone || c.StopBits != serial.Stop1 {
		t.Errorf("Expected 8N1, got size=%d parity=%c stop=%d", c.Size, c.Parity, c.StopBits)
	}
	if c.ReadTimeout.Milliseconds() != 250 {
		t.Errorf("Expected 250ms read timeout, got %v", c.ReadTimeout)
	}

	c = linkConfig(&Config{Device: "/dev/ttyACM0", Baud: 115200})
	if c.Baud != 115200 {
		t.Errorf("Expected explicit baud 115200, got %d", c.Baud)
	}
}
