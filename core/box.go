package core

import (
	"errors"
	"sync/atomic"
	"time"

	"lockbox/protocol"
)

// BoxState is the lifecycle state of the lid and lock mechanism
type BoxState uint32

const (
	BoxIdleOpen     BoxState = 0x01
	BoxPendingOpen  BoxState = 0x02
	BoxIdleClosed   BoxState = 0x03
	BoxPendingClose BoxState = 0x04
	BoxStatusQuery  BoxState = 0x05 // Transient, resolved within one loop iteration
)

// String returns the state name
func (s BoxState) String() string {
	switch s {
	case BoxIdleOpen:
		return "IDLE_OPEN"
	case BoxPendingOpen:
		return "PENDING_OPEN"
	case BoxIdleClosed:
		return "IDLE_CLOSED"
	case BoxPendingClose:
		return "PENDING_CLOSE"
	case BoxStatusQuery:
		return "STATUS_QUERY"
	}
	return "BOX_" + utoa(uint32(s))
}

// isIdle reports whether no transition is requested
func (s BoxState) isIdle() bool {
	return s == BoxIdleOpen || s == BoxIdleClosed
}

// Sender queues a status code for the host
type Sender interface {
	Send(c protocol.Code) error
}

// Box owns the lid and lock servos and the reed switch. Transition requests
// arrive from interrupt context through the HostCommands methods and are
// carried out by HandleCurrentState from the main loop.
type Box struct {
	cfg       Config
	gpio      GPIODriver
	sensorPin GPIOPin
	lid       ServoChannel
	lock      ServoChannel
	sender    Sender

	state  uint32 // BoxState, atomic
	faults uint32 // atomic
}

// NewBox creates a box controller. The state is IdleClosed until Init runs.
func NewBox(cfg Config, gpio GPIODriver, sensorPin GPIOPin, lid, lock ServoChannel, sender Sender) *Box {
	cfg.applyDefaults()
	return &Box{
		cfg:       cfg,
		gpio:      gpio,
		sensorPin: sensorPin,
		lid:       lid,
		lock:      lock,
		sender:    sender,
		state:     uint32(BoxIdleClosed),
	}
}

// Init configures the reed switch and drives the box closed and locked.
// If the lid does not report closed within CloseTimeout the lock is left
// alone and ErrCloseTimeout is returned.
func (b *Box) Init() error {
	if err := b.gpio.ConfigureInputPullUp(b.sensorPin); err != nil {
		return err
	}
	if err := b.lid.SetAngle(b.cfg.LidClosedAngle); err != nil {
		return err
	}
	if err := b.waitClosed(); err != nil {
		atomic.StoreUint32(&b.state, uint32(BoxIdleOpen))
		return err
	}
	if err := b.lock.SetAngle(b.cfg.LockLockedAngle); err != nil {
		return err
	}
	atomic.StoreUint32(&b.state, uint32(BoxIdleClosed))
	DebugPrintln("[BOX] closed and locked")
	return nil
}

// IsOpen reads the reed switch; the pulled-up input reads high while the lid is open
func (b *Box) IsOpen() bool {
	return b.gpio.ReadPin(b.sensorPin)
}

// State returns the current lifecycle state
func (b *Box) State() BoxState {
	return BoxState(atomic.LoadUint32(&b.state))
}

// Faults returns how many mechanism actuations have failed
func (b *Box) Faults() uint32 {
	return atomic.LoadUint32(&b.faults)
}

// Request asks for a transition. Only one request may be in flight; ErrBusy
// is returned while a previous one is unresolved. Safe in interrupt context.
func (b *Box) Request(to BoxState) error {
	if to.isIdle() {
		return ErrUnexpected
	}
	for {
		cur := atomic.LoadUint32(&b.state)
		if !BoxState(cur).isIdle() {
			return ErrBusy
		}
		if atomic.CompareAndSwapUint32(&b.state, cur, uint32(to)) {
			return nil
		}
	}
}

// UnlockOpen requests PendingOpen
func (b *Box) UnlockOpen() error { return b.Request(BoxPendingOpen) }

// LockClose requests PendingClose
func (b *Box) LockClose() error { return b.Request(BoxPendingClose) }

// CheckStatus requests StatusQuery
func (b *Box) CheckStatus() error { return b.Request(BoxStatusQuery) }

// HandleCurrentState resolves a pending request. Called once per main-loop
// iteration; mechanical actuation blocks here while interrupts keep running.
// Failed actuations are not retried: the state falls back to the idle state
// the sensor reports.
func (b *Box) HandleCurrentState() error {
	switch st := b.State(); st {
	case BoxPendingOpen:
		err := b.Unlock()
		if err == nil {
			err = b.Open()
		}
		if err != nil {
			b.fail(st, err)
		}
		return err

	case BoxPendingClose:
		err := b.Close()
		if errors.Is(err, ErrMechanismRejected) {
			err = nil // Lid already down, still lock it
		}
		if err == nil {
			err = b.waitClosed()
		}
		if err == nil {
			err = b.Lock()
		}
		if err != nil {
			b.fail(st, err)
			return err
		}
		b.settle(st, BoxIdleClosed)
		return nil

	case BoxStatusQuery:
		code, idle := protocol.RespClosed, BoxIdleClosed
		if b.IsOpen() {
			code, idle = protocol.RespOpened, BoxIdleOpen
		}
		err := b.sender.Send(code)
		b.settle(st, idle)
		return err
	}
	return nil
}

// fail records a failed transition and resolves to the sensed idle state
func (b *Box) fail(from BoxState, err error) {
	if !errors.Is(err, ErrMechanismRejected) {
		atomic.AddUint32(&b.faults, 1)
		RecordEvent(EvtMechFault, uint8(from), uint8(StatusCode(err)))
		DebugAsync("[BOX] " + from.String() + " failed: " + err.Error())
	}
	to := BoxIdleClosed
	if b.IsOpen() {
		to = BoxIdleOpen
	}
	b.settle(from, to)
}

// settle moves the state to `to` unless a new request has replaced `from`
func (b *Box) settle(from, to BoxState) {
	for {
		cur := BoxState(atomic.LoadUint32(&b.state))
		if cur != from && !cur.isIdle() {
			return
		}
		if atomic.CompareAndSwapUint32(&b.state, uint32(cur), uint32(to)) {
			RecordEvent(EvtBoxState, uint8(cur), uint8(to))
			return
		}
	}
}

// Unlock sweeps the lock servo to the unlocked position. Rejected while open.
func (b *Box) Unlock() error {
	if b.IsOpen() {
		return ErrMechanismRejected
	}

	from, to := b.cfg.LockLockedAngle, b.cfg.LockUnlockAngle
	step := b.cfg.UnlockStepAngle
	if to < from {
		step = -step
	}

	angle := from
	for {
		if err := b.lock.SetAngle(angle); err != nil {
			return err
		}
		b.cfg.Sleep(b.cfg.UnlockStepDelay)
		if angle == to {
			return nil
		}
		angle += step
		if (step > 0 && angle > to) || (step < 0 && angle < to) {
			angle = to
		}
	}
}

// Lock drives the lock servo to the locked position. Rejected while open.
func (b *Box) Lock() error {
	if b.IsOpen() {
		return ErrMechanismRejected
	}
	return b.lock.SetAngle(b.cfg.LockLockedAngle)
}

// Open raises the lid and, on success, marks the box IdleOpen.
// Rejected when the lid is already open.
func (b *Box) Open() error {
	if b.IsOpen() {
		return ErrMechanismRejected
	}
	if err := b.lid.SetAngle(b.cfg.LidOpenAngle); err != nil {
		return err
	}
	b.settle(BoxPendingOpen, BoxIdleOpen)
	return nil
}

// Close lowers the lid. Rejected when the lid is already closed.
// The state is left alone; a close request settles once the lock is driven.
func (b *Box) Close() error {
	if !b.IsOpen() {
		return ErrMechanismRejected
	}
	return b.lid.SetAngle(b.cfg.LidClosedAngle)
}

// waitClosed polls the sensor until the lid reports closed or CloseTimeout passes
func (b *Box) waitClosed() error {
	var waited time.Duration
	for b.IsOpen() {
		if waited >= b.cfg.CloseTimeout {
			return ErrCloseTimeout
		}
		b.cfg.Sleep(b.cfg.SensorPollPeriod)
		waited += b.cfg.SensorPollPeriod
	}
	return nil
}
