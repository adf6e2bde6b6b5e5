package core

import (
	"sync"
	"time"

	"lockbox/protocol"
)

type pinMode uint8

const (
	modeUnset pinMode = iota
	modeOutput
	modeInput
	modePullUp
	modePullDown
)

// fakeGPIO records pin modes and levels
type fakeGPIO struct {
	mu        sync.Mutex
	modes     map[GPIOPin]pinMode
	levels    map[GPIOPin]bool
	outputErr error // Returned by ConfigureOutput when set
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		modes:  make(map[GPIOPin]pinMode),
		levels: make(map[GPIOPin]bool),
	}
}

func (g *fakeGPIO) setMode(pin GPIOPin, m pinMode) error {
	g.mu.Lock()
	g.modes[pin] = m
	g.mu.Unlock()
	return nil
}

func (g *fakeGPIO) ConfigureOutput(pin GPIOPin) error {
	g.mu.Lock()
	err := g.outputErr
	g.mu.Unlock()
	if err != nil {
		return err
	}
	return g.setMode(pin, modeOutput)
}

func (g *fakeGPIO) failOutput(err error) {
	g.mu.Lock()
	g.outputErr = err
	g.mu.Unlock()
}

func (g *fakeGPIO) ConfigureInput(pin GPIOPin) error         { return g.setMode(pin, modeInput) }
func (g *fakeGPIO) ConfigureInputPullUp(pin GPIOPin) error   { return g.setMode(pin, modePullUp) }
func (g *fakeGPIO) ConfigureInputPullDown(pin GPIOPin) error { return g.setMode(pin, modePullDown) }

func (g *fakeGPIO) SetPin(pin GPIOPin, value bool) error {
	g.set(pin, value)
	return nil
}

func (g *fakeGPIO) GetPin(pin GPIOPin) (bool, error) {
	return g.ReadPin(pin), nil
}

func (g *fakeGPIO) ReadPin(pin GPIOPin) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levels[pin]
}

// set drives an input level from the outside world
func (g *fakeGPIO) set(pin GPIOPin, value bool) {
	g.mu.Lock()
	g.levels[pin] = value
	g.mu.Unlock()
}

func (g *fakeGPIO) mode(pin GPIOPin) pinMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modes[pin]
}

// readyAsserted reports whether pin is driven low
func (g *fakeGPIO) readyAsserted(pin GPIOPin) bool {
	return g.mode(pin) == modeOutput && !g.ReadPin(pin)
}

// fakePinIRQ records installed pin interrupts
type fakePinIRQ struct {
	mu         sync.Mutex
	changes    map[GPIOPin]PinChange
	handlers   map[GPIOPin]func(GPIOPin)
	enableErr  error
	disableErr error
}

func newFakePinIRQ() *fakePinIRQ {
	return &fakePinIRQ{
		changes:  make(map[GPIOPin]PinChange),
		handlers: make(map[GPIOPin]func(GPIOPin)),
	}
}

func (f *fakePinIRQ) SetInterrupt(pin GPIOPin, change PinChange, handler func(GPIOPin)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if change == PinNoChange || handler == nil {
		if f.disableErr != nil {
			return f.disableErr
		}
		delete(f.changes, pin)
		delete(f.handlers, pin)
		return nil
	}
	if f.enableErr != nil {
		return f.enableErr
	}
	f.changes[pin] = change
	f.handlers[pin] = handler
	return nil
}

func (f *fakePinIRQ) enabled(pin GPIOPin) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handlers[pin] != nil
}

// fire simulates an edge; nothing happens while the interrupt is disabled
func (f *fakePinIRQ) fire(pin GPIOPin) {
	f.mu.Lock()
	h := f.handlers[pin]
	f.mu.Unlock()
	if h != nil {
		h(pin)
	}
}

// fakeSPI models the peripheral shift register
type fakeSPI struct {
	cfg       SPISlaveConfig
	onShift   func()
	rx        byte
	tx        byte
	configErr error
}

func (s *fakeSPI) ConfigureSlave(cfg SPISlaveConfig, onShift func()) error {
	if s.configErr != nil {
		return s.configErr
	}
	s.cfg = cfg
	s.onShift = onShift
	return nil
}

func (s *fakeSPI) Received() byte { return s.rx }
func (s *fakeSPI) Preload(b byte) { s.tx = b }

// shift performs one host exchange: the host receives the byte loaded
// before the exchange while in is shifted into the device.
func (s *fakeSPI) shift(in protocol.Code) protocol.Code {
	out := s.tx
	s.rx = byte(in)
	if s.onShift != nil {
		s.onShift()
	}
	return protocol.Code(out)
}

// fakeServo records commanded angles
type fakeServo struct {
	angles []int
	err    error
	onSet  func(angle int)
}

func (s *fakeServo) SetAngle(angle int) error {
	if s.err != nil {
		return s.err
	}
	s.angles = append(s.angles, angle)
	if s.onSet != nil {
		s.onSet(angle)
	}
	return nil
}

func (s *fakeServo) last() int {
	if len(s.angles) == 0 {
		return -1
	}
	return s.angles[len(s.angles)-1]
}

// fakeSender collects queued codes
type fakeSender struct {
	mu    sync.Mutex
	codes []protocol.Code
	err   error
}

func (s *fakeSender) Send(c protocol.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.codes = append(s.codes, c)
	return nil
}

func (s *fakeSender) sent() []protocol.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.Code(nil), s.codes...)
}

// fakeI2C is a register file per device address with auto-increment
type fakeI2C struct {
	mu    sync.Mutex
	banks map[uint16]*[128]byte
	reads map[uint8]int
	err   error
}

func newFakeI2C() *fakeI2C {
	return &fakeI2C{
		banks: make(map[uint16]*[128]byte),
		reads: make(map[uint8]int),
	}
}

func (f *fakeI2C) bank(addr uint16) *[128]byte {
	b, ok := f.banks[addr]
	if !ok {
		b = new([128]byte)
		f.banks[addr] = b
	}
	return b
}

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if len(w) == 0 {
		return nil
	}
	bank := f.bank(addr)
	reg := w[0] & 0x7F
	if len(r) == 0 {
		for i, b := range w[1:] {
			bank[(int(reg)+i)&0x7F] = b
		}
		return nil
	}
	f.reads[reg]++
	for i := range r {
		r[i] = bank[(int(reg)+i)&0x7F]
	}
	return nil
}

func (f *fakeI2C) reg(addr uint16, reg uint8) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bank(addr)[reg]
}

func (f *fakeI2C) readCount(reg uint8) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[reg]
}

// fakeMotion counts sensor operations
type fakeMotion struct {
	threshold, duration uint8
	configured          int
	cleared             int
	clearErr            error
}

func (m *fakeMotion) ConfigureMotionInterrupt(threshold, duration uint8) error {
	m.threshold, m.duration = threshold, duration
	m.configured++
	return nil
}

func (m *fakeMotion) ClearLatchedInterrupt() error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared++
	return nil
}

// testConfig returns a configuration whose sleeps are recorded instead of taken
func testConfig(slept *time.Duration) Config {
	cfg := DefaultConfig()
	cfg.CloseTimeout = 100 * time.Millisecond
	cfg.SensorPollPeriod = 10 * time.Millisecond
	cfg.Sleep = func(d time.Duration) {
		if slept != nil {
			*slept += d
		}
	}
	return cfg
}

// resetScheduler empties the timer list and rewinds the clock
func resetScheduler() {
	state := disableInterrupts()
	timerList = nil
	restoreInterrupts(state)
	SetTime(0)
}
