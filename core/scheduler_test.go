package core

import "testing"

func TestTimerOrdering(t *testing.T) {
	resetScheduler()
	defer resetScheduler()

	var fired []int
	mk := func(id int, wake uint32) *Timer {
		return &Timer{WakeTime: wake, Handler: func(*Timer) uint8 {
			fired = append(fired, id)
			return SF_DONE
		}}
	}

	ScheduleTimer(mk(3, 300))
	ScheduleTimer(mk(1, 100))
	ScheduleTimer(mk(2, 200))

	TimerDispatch(150)
	if len(fired) != 1 || fired[0] != 1 {
		t.Errorf("Expected [1], got %v", fired)
	}

	TimerDispatch(300)
	if len(fired) != 3 || fired[1] != 2 || fired[2] != 3 {
		t.Errorf("Expected [1 2 3], got %v", fired)
	}
}

func TestTimerCancelAndMove(t *testing.T) {
	resetScheduler()
	defer resetScheduler()

	count := 0
	timer := &Timer{WakeTime: 100, Handler: func(*Timer) uint8 {
		count++
		return SF_DONE
	}}

	ScheduleTimer(timer)
	if !TimerScheduled(timer) {
		t.Error("Timer should be scheduled")
	}
	CancelTimer(timer)
	if TimerScheduled(timer) {
		t.Error("Timer should be cancelled")
	}
	TimerDispatch(1000)
	if count != 0 {
		t.Errorf("Cancelled timer fired %d times", count)
	}

	// Scheduling twice moves the timer instead of duplicating it
	ScheduleTimer(timer)
	timer.WakeTime = 500
	ScheduleTimer(timer)
	TimerDispatch(400)
	if count != 0 {
		t.Error("Moved timer fired at its old time")
	}
	TimerDispatch(500)
	if count != 1 {
		t.Errorf("Expected 1 firing, got %d", count)
	}
}

func TestTimerReschedule(t *testing.T) {
	resetScheduler()
	defer resetScheduler()

	count := 0
	timer := &Timer{WakeTime: 10, Handler: func(t *Timer) uint8 {
		count++
		if count < 3 {
			t.WakeTime += 10
			return SF_RESCHEDULE
		}
		return SF_DONE
	}}

	ScheduleTimer(timer)
	for now := uint32(10); now <= 50; now += 10 {
		TimerDispatch(now)
	}
	if count != 3 {
		t.Errorf("Expected 3 firings, got %d", count)
	}
}

func TestTimerHandlerSchedulesTimer(t *testing.T) {
	resetScheduler()
	defer resetScheduler()

	followUp := false
	second := &Timer{WakeTime: 20, Handler: func(*Timer) uint8 {
		followUp = true
		return SF_DONE
	}}
	first := &Timer{WakeTime: 10, Handler: func(*Timer) uint8 {
		ScheduleTimer(second)
		return SF_DONE
	}}

	ScheduleTimer(first)
	TimerDispatch(20)
	if !followUp {
		t.Error("Timer scheduled from a handler should run in the same dispatch when due")
	}
}

func TestTimerWrapAround(t *testing.T) {
	resetScheduler()
	defer resetScheduler()

	var fired []int
	late := &Timer{WakeTime: 0x00000010, Handler: func(*Timer) uint8 {
		fired = append(fired, 2)
		return SF_DONE
	}}
	early := &Timer{WakeTime: 0xFFFFFFF0, Handler: func(*Timer) uint8 {
		fired = append(fired, 1)
		return SF_DONE
	}}

	ScheduleTimer(late)
	ScheduleTimer(early)

	TimerDispatch(0xFFFFFFF8)
	if len(fired) != 1 || fired[0] != 1 {
		t.Errorf("Expected only the pre-wrap timer, got %v", fired)
	}
	TimerDispatch(0x00000010)
	if len(fired) != 2 || fired[1] != 2 {
		t.Errorf("Expected post-wrap timer after wrap, got %v", fired)
	}
}

func TestTimerConversions(t *testing.T) {
	if TimerFromUS(1500) != 1500 {
		t.Errorf("Expected 1500 ticks, got %d", TimerFromUS(1500))
	}
	if TimerToUS(TimerFreq) != 1000000 {
		t.Errorf("Expected 1000000us, got %d", TimerToUS(TimerFreq))
	}
	SetTime(42)
	if GetTime() != 42 {
		t.Errorf("Expected time 42, got %d", GetTime())
	}
	SetTime(0)
}
