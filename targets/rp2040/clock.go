//go:build rp2040

package main

import (
	"runtime/volatile"
	"time"
	"unsafe"

	"lockbox/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
)

var (
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// GetHardwareTime reads the low 32 bits of the 1MHz microsecond counter
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime updates the core timer with hardware time
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}

// timerLoop dispatches core timers. It runs as its own goroutine so the
// cooldown still expires while the main loop sleeps inside a servo move.
func timerLoop() {
	for {
		UpdateSystemTime()
		core.ProcessTimers()
		time.Sleep(time.Millisecond)
	}
}
