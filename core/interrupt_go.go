//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// interruptMu stands in for the interrupt mask on hosted builds, so goroutines
// playing the role of interrupt handlers are serialized against main-loop code.
// Critical sections never nest.
var interruptMu sync.Mutex

// disableInterrupts enters the critical section
func disableInterrupts() State {
	interruptMu.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	interruptMu.Unlock()
}
