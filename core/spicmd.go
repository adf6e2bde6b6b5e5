package core

import (
	"sync/atomic"

	"lockbox/protocol"
)

// BusState is the state of the host bus protocol engine
type BusState uint32

const (
	BusOff        BusState = 0
	BusWaiting    BusState = 1 // Waiting for the host to shift a command or poll
	BusCmdShifted BusState = 2 // Queued code loaded, awaiting the host's acknowledgement shift
	BusAcked      BusState = 6 // Command acknowledged, next shift returns to waiting
)

// String returns the state name
func (s BusState) String() string {
	switch s {
	case BusOff:
		return "OFF"
	case BusWaiting:
		return "WAITING"
	case BusCmdShifted:
		return "CMD_SHIFTED"
	case BusAcked:
		return "ACKED"
	}
	return "BUS_" + utoa(uint32(s))
}

// HostCommands receives the recognized inbound bus commands. Methods run in
// interrupt context and must only record the request.
type HostCommands interface {
	UnlockOpen() error
	LockClose() error
	CheckStatus() error
}

// NopHostCommands is the default handler; every command reports ErrNoHandler
type NopHostCommands struct{}

func (NopHostCommands) UnlockOpen() error  { return ErrNoHandler }
func (NopHostCommands) LockClose() error   { return ErrNoHandler }
func (NopHostCommands) CheckStatus() error { return ErrNoHandler }

// BusEngine implements the half-duplex status/command exchange with the host.
// The host clocks one byte per shift event; the device answers with ACK, NACK
// or a queued status code, and holds the ready line low while it has data.
type BusEngine struct {
	gpio     GPIODriver
	spi      SPISlaveDriver
	readyPin GPIOPin
	handler  HostCommands

	queue        CommandQueue
	state        uint32 // BusState, atomic
	assertFailed uint32 // Last ready assert failed, atomic
}

// NewBusEngine creates an engine. A nil handler is replaced by NopHostCommands.
func NewBusEngine(gpio GPIODriver, spi SPISlaveDriver, readyPin GPIOPin, handler HostCommands) *BusEngine {
	if handler == nil {
		handler = NopHostCommands{}
	}
	return &BusEngine{
		gpio:     gpio,
		spi:      spi,
		readyPin: readyPin,
		handler:  handler,
	}
}

// SetHandler replaces the inbound command handler. Call before Init.
func (e *BusEngine) SetHandler(h HostCommands) {
	if h == nil {
		h = NopHostCommands{}
	}
	e.handler = h
}

// Init releases the ready line and starts the peripheral in slave mode
func (e *BusEngine) Init() error {
	if err := e.releaseReady(); err != nil {
		return err
	}
	err := e.spi.ConfigureSlave(SPISlaveConfig{Mode: SPIMode0, MSBFirst: true}, e.HandleShift)
	if err != nil {
		return err
	}
	e.spi.Preload(byte(protocol.Idle))
	atomic.StoreUint32(&e.state, uint32(BusWaiting))
	DebugPrintln("[BUS] slave ready")
	return nil
}

// Send queues c for the host and asserts the ready line when the queue was
// previously empty. Returns ErrBusy if the queue is full.
func (e *BusEngine) Send(c protocol.Code) error {
	if e.State() == BusOff {
		return ErrNotInitialized
	}

	wasEmpty, err := e.queue.Enqueue(c)
	if err != nil {
		RecordEvent(EvtQueueFull, uint8(c), 0)
		return err
	}
	// The error reports only whether c was queued. A failed assert is
	// recorded and retried by the next Send.
	if wasEmpty || atomic.LoadUint32(&e.assertFailed) != 0 {
		e.assertReady()
	}
	return nil
}

// HandleShift advances the protocol after the host has clocked one byte.
// Called in interrupt context; shift events never overlap.
func (e *BusEngine) HandleShift() {
	state := BusState(atomic.LoadUint32(&e.state))

	switch state {
	case BusCmdShifted:
		// This shift acknowledged the queued code
		if e.queue.IsEmpty() {
			if e.releaseReady() == nil {
				RecordEvent(EvtReadyRelease, 0, 0)
			}
		}
		fallthrough
	case BusAcked:
		e.spi.Preload(byte(protocol.Idle))
		atomic.StoreUint32(&e.state, uint32(BusWaiting))

	case BusWaiting:
		recv := protocol.Code(e.spi.Received())
		RecordEvent(EvtShift, uint8(recv), uint8(state))
		if recv == protocol.GetStatus {
			e.prepareQueued()
		} else {
			e.dispatch(recv)
		}
	}
}

// prepareQueued loads the next queued code, or NACK when there is none
func (e *BusEngine) prepareQueued() {
	if c, ok := e.queue.Dequeue(); ok {
		e.spi.Preload(byte(c))
		atomic.StoreUint32(&e.state, uint32(BusCmdShifted))
		RecordEvent(EvtDequeue, uint8(c), 0)
		return
	}

	e.spi.Preload(byte(protocol.Nack))
	// Nothing left to deliver; clears a ready line left asserted by a
	// Send that raced with the previous drain
	e.releaseReady()
	RecordEvent(EvtNack, uint8(protocol.GetStatus), 0)
}

// dispatch acknowledges a recognized command and runs its handler
func (e *BusEngine) dispatch(cmd protocol.Code) {
	var fn func() error
	switch cmd {
	case protocol.CmdUnlockOpen:
		fn = e.handler.UnlockOpen
	case protocol.CmdLockClose:
		fn = e.handler.LockClose
	case protocol.CmdCheckStatus:
		fn = e.handler.CheckStatus
	}

	if fn == nil {
		e.spi.Preload(byte(protocol.Nack))
		RecordEvent(EvtNack, uint8(cmd), 0)
		return
	}

	e.spi.Preload(byte(protocol.Ack))
	atomic.StoreUint32(&e.state, uint32(BusAcked))
	err := fn()
	RecordEvent(EvtAck, uint8(cmd), uint8(StatusCode(err)))
}

// assertReady drives the ready line low. The level is set before the
// direction so the line never glitches high.
func (e *BusEngine) assertReady() error {
	err := e.gpio.SetPin(e.readyPin, false)
	if err == nil {
		err = e.gpio.ConfigureOutput(e.readyPin)
	}
	if err != nil {
		atomic.StoreUint32(&e.assertFailed, 1)
		RecordEvent(EvtReadyFault, 1, 0)
		return err
	}
	atomic.StoreUint32(&e.assertFailed, 0)
	return nil
}

// releaseReady tri-states the ready line so the host pull-up takes it high
func (e *BusEngine) releaseReady() error {
	err := e.gpio.ConfigureInput(e.readyPin)
	if err != nil {
		RecordEvent(EvtReadyFault, 0, 0)
	}
	return err
}

// State returns the current protocol state
func (e *BusEngine) State() BusState {
	return BusState(atomic.LoadUint32(&e.state))
}

// QueueLen returns the number of codes waiting for the host
func (e *BusEngine) QueueLen() int {
	return e.queue.Len()
}
