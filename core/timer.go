package core

import (
	"sync/atomic"
	"time"
)

// TimerFreq is the tick rate of the free-running hardware counter (RP2040 TIMER, 1MHz)
const TimerFreq = 1000000

var systemTicks uint32 // atomic

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerFromDuration converts a duration to timer ticks
func TimerFromDuration(d time.Duration) uint32 {
	return uint32(uint64(d/time.Microsecond) * TimerFreq / 1000000)
}

// timeBefore reports whether a is earlier than b, tolerating counter wraparound
func timeBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// ProcessTimers dispatches every timer that is due at the current system time
func ProcessTimers() {
	TimerDispatch(GetTime())
}
