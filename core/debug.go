package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event records a state-machine step for post-mortem analysis. Interrupt
// handlers record events instead of printing.
type Event struct {
	Kind  uint8  // Event kind code
	A     uint8  // Context-dependent value (usually a code or state)
	B     uint8  // Context-dependent value
	Clock uint32 // System clock at event
}

// Event kind codes
const (
	EvtShift        = 1  // Shift event handled (A=received, B=bus state before)
	EvtAck          = 2  // Recognized command acknowledged (A=command)
	EvtNack         = 3  // Unrecognized byte or empty poll (A=received)
	EvtDequeue      = 4  // Queued code shifted out (A=code)
	EvtQueueFull    = 5  // Enqueue rejected (A=code)
	EvtReadyRelease = 6  // Ready line released
	EvtAlertTrip    = 7  // Intrusion detected
	EvtAlertDefer   = 8  // Alert byte could not be queued, retrying later
	EvtCooldown     = 9  // Cooldown expired (A=alert state when fired)
	EvtBoxState     = 10 // Box state resolved (A=from, B=to)
	EvtMechFault    = 11 // Mechanism actuation failed (A=box state)
	EvtArm          = 12 // Alert armed/disarmed (A=new state)
	EvtAlertFault   = 13 // Arm/disarm reconfiguration failed (A=resulting state, B=request)
	EvtReadyFault   = 14 // Ready line reconfiguration failed (A=1 assert, 0 release)
)

const (
	EventRingSize = 32 // Keep last 32 events
)

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether DebugPrintln output is active
	debugEnabled bool = true

	eventRing     [EventRingSize]Event
	eventRingHead uint8 // Next write position

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugEnabled {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
		}
	}
}

// RecordEvent captures an event in the ring buffer. Safe from any context
// that does not already hold the critical section.
func RecordEvent(kind, a, b uint8) {
	clock := GetTime()
	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{Kind: kind, A: a, B: b, Clock: clock}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// Events returns a snapshot of the ring, oldest first
func Events() []Event {
	state := disableInterrupts()
	snapshot := eventRing
	start := eventRingHead
	restoreInterrupts(state)

	out := make([]Event, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := snapshot[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// EventName returns a short label for an event kind
func EventName(kind uint8) string {
	switch kind {
	case EvtShift:
		return "SHIFT"
	case EvtAck:
		return "ACK"
	case EvtNack:
		return "NACK"
	case EvtDequeue:
		return "DEQUEUE"
	case EvtQueueFull:
		return "QUEUE_FULL!"
	case EvtReadyRelease:
		return "READY_RELEASE"
	case EvtAlertTrip:
		return "ALERT_TRIP"
	case EvtAlertDefer:
		return "ALERT_DEFER!"
	case EvtCooldown:
		return "COOLDOWN"
	case EvtBoxState:
		return "BOX_STATE"
	case EvtMechFault:
		return "MECH_FAULT!"
	case EvtArm:
		return "ARM"
	case EvtAlertFault:
		return "ALERT_FAULT!"
	case EvtReadyFault:
		return "READY_FAULT!"
	}
	return "UNKNOWN"
}

// DumpEvents writes the event ring to out, oldest first
func DumpEvents(out DebugWriter) {
	out("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		out("[EVENTS] " + EventName(evt.Kind) +
			" a=0x" + hex8(evt.A) +
			" b=0x" + hex8(evt.B) +
			" clock=" + utoa(evt.Clock))
	}
	out("[EVENTS] === End Dump ===")
}

// ClearEvents clears the event ring
func ClearEvents() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
	restoreInterrupts(state)
}
