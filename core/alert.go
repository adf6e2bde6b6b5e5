package core

import (
	"sync/atomic"

	"lockbox/protocol"
)

// AlertState is the state of the intrusion alert
type AlertState uint32

const (
	AlertOff      AlertState = 0
	AlertOk       AlertState = 1
	AlertArmed    AlertState = AlertState(AlertArm)
	AlertIntruder AlertState = 3
	AlertDisarmed AlertState = AlertState(AlertDisarm)
)

// AlertRequest is the arm/disarm request passed to Run
type AlertRequest uint8

const (
	AlertArm    AlertRequest = 10
	AlertDisarm AlertRequest = 11
)

// String returns the state name
func (s AlertState) String() string {
	switch s {
	case AlertOff:
		return "OFF"
	case AlertOk:
		return "OK"
	case AlertArmed:
		return "ARMED"
	case AlertIntruder:
		return "INTRUDER"
	case AlertDisarmed:
		return "DISARMED"
	}
	return "ALERT_" + utoa(uint32(s))
}

// MotionSensor is the accelerometer side of the alert
type MotionSensor interface {
	// ConfigureMotionInterrupt sets the latched high-g interrupt parameters
	ConfigureMotionInterrupt(threshold, duration uint8) error

	// ClearLatchedInterrupt releases a latched interrupt line
	ClearLatchedInterrupt() error
}

// Alert watches the motion interrupt while the box is closed. A trip sends
// ALERT to the host, lights the indicator and holds off further trips until
// the cooldown timer expires.
type Alert struct {
	cfg    Config
	sensor MotionSensor
	gpio   GPIODriver
	irq    PinInterruptDriver
	intPin GPIOPin
	ledPin GPIOPin
	sender Sender

	state    uint32 // AlertState, atomic
	pending  uint32 // ALERT waiting for queue space, atomic
	trips    uint32 // atomic
	cooldown Timer
}

// NewAlert creates an alert in the Off state
func NewAlert(cfg Config, sensor MotionSensor, gpio GPIODriver, irq PinInterruptDriver, intPin, ledPin GPIOPin, sender Sender) *Alert {
	cfg.applyDefaults()
	a := &Alert{
		cfg:    cfg,
		sensor: sensor,
		gpio:   gpio,
		irq:    irq,
		intPin: intPin,
		ledPin: ledPin,
		sender: sender,
	}
	a.cooldown.Handler = a.cooldownExpired
	return a
}

// Init configures the motion interrupt and waits for the sensor to settle
// before clearing whatever it latched during reconfiguration.
func (a *Alert) Init() error {
	if err := a.sensor.ConfigureMotionInterrupt(a.cfg.MotionThreshold, a.cfg.MotionDuration); err != nil {
		return err
	}
	a.cfg.Sleep(a.cfg.SensorSettleDelay)
	if err := a.sensor.ClearLatchedInterrupt(); err != nil {
		return err
	}

	if err := a.gpio.ConfigureOutput(a.ledPin); err != nil {
		return err
	}
	a.gpio.SetPin(a.ledPin, false)
	if err := a.gpio.ConfigureInputPullDown(a.intPin); err != nil {
		return err
	}
	if err := a.irq.SetInterrupt(a.intPin, PinNoChange, nil); err != nil {
		return err
	}

	atomic.StoreUint32(&a.state, uint32(AlertOk))
	DebugPrintln("[ALERT] ready")
	return nil
}

// State returns the current alert state
func (a *Alert) State() AlertState {
	return AlertState(atomic.LoadUint32(&a.state))
}

// Trips returns the number of intrusions detected
func (a *Alert) Trips() uint32 {
	return atomic.LoadUint32(&a.trips)
}

// AlertPending reports whether an ALERT is still waiting for queue space
func (a *Alert) AlertPending() bool {
	return atomic.LoadUint32(&a.pending) != 0
}

// Run applies an arm or disarm request. Arm is accepted from Ok or Disarmed,
// Disarm only from Armed; anything else is a no-op. A deferred ALERT is
// retried first. If the sensor or pin interrupt cannot be reconfigured the
// previous state is restored so the next call retries.
func (a *Alert) Run(req AlertRequest) error {
	a.flushPending()

	switch req {
	case AlertArm:
		from := AlertOk
		if !a.transition(from, AlertArmed) {
			from = AlertDisarmed
			if !a.transition(from, AlertArmed) {
				return nil
			}
		}
		if err := a.sensor.ClearLatchedInterrupt(); err != nil {
			return a.revert(from, err)
		}
		if err := a.irq.SetInterrupt(a.intPin, PinRising, a.HandleMotion); err != nil {
			a.irq.SetInterrupt(a.intPin, PinNoChange, nil)
			return a.revert(from, err)
		}
		RecordEvent(EvtArm, uint8(AlertArmed), 0)

	case AlertDisarm:
		if !a.transition(AlertArmed, AlertDisarmed) {
			return nil
		}
		if err := a.irq.SetInterrupt(a.intPin, PinNoChange, nil); err != nil {
			// Interrupt still live, stay Armed
			a.transition(AlertDisarmed, AlertArmed)
			RecordEvent(EvtAlertFault, uint8(AlertArmed), uint8(AlertDisarm))
			return err
		}
		RecordEvent(EvtArm, uint8(AlertDisarmed), 0)
		// A latch left set here is cleared again on the next arm
		if err := a.sensor.ClearLatchedInterrupt(); err != nil {
			RecordEvent(EvtAlertFault, uint8(AlertDisarmed), uint8(AlertDisarm))
			return err
		}
	}
	return nil
}

// revert undoes a failed arm
func (a *Alert) revert(to AlertState, err error) error {
	a.transition(AlertArmed, to)
	RecordEvent(EvtAlertFault, uint8(to), uint8(AlertArm))
	return err
}

// HandleMotion is the motion interrupt handler. Only meaningful while Armed.
func (a *Alert) HandleMotion(GPIOPin) {
	if !a.transition(AlertArmed, AlertIntruder) {
		return
	}
	a.irq.SetInterrupt(a.intPin, PinNoChange, nil)

	if err := a.sender.Send(protocol.Alert); err != nil {
		atomic.StoreUint32(&a.pending, 1)
		RecordEvent(EvtAlertDefer, uint8(StatusCode(err)), 0)
	}
	a.gpio.SetPin(a.ledPin, true)

	a.cooldown.WakeTime = GetTime() + a.cfg.CooldownTicks
	ScheduleTimer(&a.cooldown)

	atomic.AddUint32(&a.trips, 1)
	RecordEvent(EvtAlertTrip, 0, 0)
}

// cooldownExpired ends the hold-off. A stale expiry after the state moved on is ignored.
func (a *Alert) cooldownExpired(t *Timer) uint8 {
	state := a.State()
	if a.transition(AlertIntruder, AlertOk) {
		a.gpio.SetPin(a.ledPin, false)
	}
	RecordEvent(EvtCooldown, uint8(state), 0)
	return SF_DONE
}

// flushPending retries an ALERT that could not be queued at trip time
func (a *Alert) flushPending() {
	if atomic.SwapUint32(&a.pending, 0) == 0 {
		return
	}
	if err := a.sender.Send(protocol.Alert); err != nil {
		atomic.StoreUint32(&a.pending, 1)
	}
}

func (a *Alert) transition(from, to AlertState) bool {
	return atomic.CompareAndSwapUint32(&a.state, uint32(from), uint32(to))
}
