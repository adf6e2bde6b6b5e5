//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts and returns the previous mask state
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the mask state saved by disableInterrupts
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
