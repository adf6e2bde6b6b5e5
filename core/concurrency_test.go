package core

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lockbox/protocol"
)

// Producers in main-loop context race the shift handler draining the queue.
// Every code must arrive exactly once, in order, and the ready line must
// end released.
func TestBusEngineSendDuringDrain(t *testing.T) {
	e, gpio, spi := newTestEngine(t, nil)
	const total = 500

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			// Codes 1..250 repeat; order is checked by sequence, not value
			c := protocol.Code(i%250 + 1)
			if err := e.Send(c); err == ErrBusy {
				runtime.Gosched()
				continue
			} else if err != nil {
				t.Errorf("Send failed: %v", err)
				return
			}
			i++
		}
	}()

	var got []protocol.Code
	deadline := time.Now().Add(10 * time.Second)
	for len(got) < total {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out with %d of %d codes", len(got), total)
		}
		if !gpio.readyAsserted(testReadyPin) {
			runtime.Gosched()
			continue
		}
		spi.shift(protocol.GetStatus)
		c := spi.shift(protocol.Idle)
		if c == protocol.Nack {
			continue // Line raced a drain; the empty poll released it
		}
		got = append(got, c)
	}
	wg.Wait()

	for i, c := range got {
		if want := protocol.Code(i%250 + 1); c != want {
			t.Fatalf("Code %d: expected 0x%02X, got 0x%02X", i, byte(want), byte(c))
		}
	}

	// A Send that asserted after the final drain is healed by one empty poll
	if gpio.readyAsserted(testReadyPin) {
		spi.shift(protocol.GetStatus)
		if c := spi.shift(protocol.Idle); c != protocol.Nack {
			t.Errorf("Expected NACK from empty queue, got %s", c)
		}
	}
	if e.QueueLen() != 0 {
		t.Errorf("Expected empty queue, got %d", e.QueueLen())
	}
	if gpio.readyAsserted(testReadyPin) {
		t.Error("Ready line should be released once drained")
	}
	if e.State() != BusWaiting {
		t.Errorf("Expected WAITING, got %s", e.State())
	}
}

// Motion interrupts fire while the main loop toggles arm and disarm and
// runs the cooldown. Each entry into Intruder queues exactly one ALERT.
func TestAlertMotionDuringArmDisarm(t *testing.T) {
	r := newAlertRig(t)

	var stop uint32
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for atomic.LoadUint32(&stop) == 0 {
			r.irq.fire(testMotionPin)
			runtime.Gosched()
		}
	}()

	cooldown := DefaultConfig().CooldownTicks
	for i := 0; i < 2000; i++ {
		r.alert.Run(AlertArm)
		runtime.Gosched()
		r.alert.Run(AlertDisarm)

		if r.alert.State() == AlertIntruder {
			SetTime(GetTime() + cooldown)
			ProcessTimers()
		}
	}
	atomic.StoreUint32(&stop, 1)
	wg.Wait()

	trips := r.alert.Trips()
	sent := r.sender.sent()
	if uint32(len(sent)) != trips {
		t.Errorf("Expected %d ALERTs for %d trips, got %d", trips, trips, len(sent))
	}
	for i, c := range sent {
		if c != protocol.Alert {
			t.Fatalf("Code %d: expected ALERT, got %s", i, c)
		}
	}

	// Interrupt enabled iff Armed once everything has settled
	armed := r.alert.State() == AlertArmed
	if r.irq.enabled(testMotionPin) != armed {
		t.Errorf("Interrupt enabled=%v with state %s", r.irq.enabled(testMotionPin), r.alert.State())
	}
}
