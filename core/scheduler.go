package core

// Timer represents a scheduled event. Handlers run outside the critical
// section and may schedule timers themselves.
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer

	scheduled bool
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var timerList *Timer

// ScheduleTimer adds a timer to the schedule. A timer that is already
// scheduled is moved to its new WakeTime.
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	if t.scheduled {
		removeTimer(t)
	}
	insertTimer(t)
	restoreInterrupts(state)
}

// CancelTimer removes a timer from the schedule if present
func CancelTimer(t *Timer) {
	state := disableInterrupts()
	if t.scheduled {
		removeTimer(t)
	}
	restoreInterrupts(state)
}

// TimerScheduled reports whether t is waiting in the schedule
func TimerScheduled(t *Timer) bool {
	state := disableInterrupts()
	s := t.scheduled
	restoreInterrupts(state)
	return s
}

// insertTimer inserts a timer in sorted order by WakeTime.
// Must be called inside the critical section.
func insertTimer(t *Timer) {
	t.scheduled = true
	if timerList == nil || timeBefore(t.WakeTime, timerList.WakeTime) {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && !timeBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// removeTimer unlinks t. Must be called inside the critical section.
func removeTimer(t *Timer) {
	if timerList == t {
		timerList = t.Next
	} else {
		for current := timerList; current != nil; current = current.Next {
			if current.Next == t {
				current.Next = t.Next
				break
			}
		}
	}
	t.Next = nil
	t.scheduled = false
}

// popDueTimer unlinks and returns the head timer if it is due at now
func popDueTimer(now uint32) *Timer {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	t := timerList
	if t == nil || timeBefore(now, t.WakeTime) {
		return nil
	}
	timerList = t.Next
	t.Next = nil
	t.scheduled = false
	return t
}

// TimerDispatch runs every timer whose WakeTime is at or before now
func TimerDispatch(now uint32) {
	for {
		timer := popDueTimer(now)
		if timer == nil {
			return
		}

		if timer.Handler(timer) == SF_RESCHEDULE {
			ScheduleTimer(timer)
		}
	}
}
