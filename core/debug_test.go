package core

import (
	"strings"
	"testing"
)

func TestEventRing(t *testing.T) {
	ClearEvents()
	defer ClearEvents()

	for i := 0; i < EventRingSize+5; i++ {
		RecordEvent(EvtShift, uint8(i), 0)
	}

	events := Events()
	if len(events) != EventRingSize {
		t.Fatalf("Expected %d events, got %d", EventRingSize, len(events))
	}
	if events[0].A != 5 {
		t.Errorf("Expected oldest event a=5, got %d", events[0].A)
	}
	if events[EventRingSize-1].A != EventRingSize+4 {
		t.Errorf("Expected newest event a=%d, got %d", EventRingSize+4, events[EventRingSize-1].A)
	}
}

func TestDumpEvents(t *testing.T) {
	ClearEvents()
	defer ClearEvents()

	RecordEvent(EvtAck, 0xA1, 0xFA)

	var lines []string
	DumpEvents(func(s string) { lines = append(lines, s) })

	if len(lines) != 3 {
		t.Fatalf("Expected header, one event, footer; got %v", lines)
	}
	if !strings.HasPrefix(lines[1], "[EVENTS] ACK a=0xA1 b=0xFA") {
		t.Errorf("Unexpected event line %q", lines[1])
	}
}

func TestStringHelpers(t *testing.T) {
	if itoa(-42) != "-42" {
		t.Errorf("Expected -42, got %s", itoa(-42))
	}
	if utoa(4294967295) != "4294967295" {
		t.Errorf("Expected 4294967295, got %s", utoa(4294967295))
	}
	if hex8(0x0F) != "0F" {
		t.Errorf("Expected 0F, got %s", hex8(0x0F))
	}
}

func TestStatusText(t *testing.T) {
	if statusText(nil) != "OK" {
		t.Errorf("Expected OK, got %s", statusText(nil))
	}
	if statusText(ErrMechanismRejected) != "REJECTED" {
		t.Errorf("Expected REJECTED, got %s", statusText(ErrMechanismRejected))
	}
	if statusText(ErrBusy) != "ERR_BUSY" {
		t.Errorf("Expected ERR_BUSY, got %s", statusText(ErrBusy))
	}
	if StatusCode(ErrCloseTimeout) != 0xFB {
		t.Errorf("Expected ERR_UNEXPECTED for other errors, got %s", StatusCode(ErrCloseTimeout))
	}
}

func TestDebugCommandReportsState(t *testing.T) {
	defer SetDebugEnabled(true)

	if got := handleDebug("0"); got != "debug=0" {
		t.Errorf("Expected debug=0, got %q", got)
	}
	if IsDebugEnabled() {
		t.Error("Debug output should be off")
	}
	if got := handleDebug(""); got != "debug=0" {
		t.Errorf("Expected query to report debug=0, got %q", got)
	}
	if got := handleDebug("1"); got != "debug=1" {
		t.Errorf("Expected debug=1, got %q", got)
	}
	if got := handleDebug("2"); got != "ERR_UNEXPECTED" {
		t.Errorf("Expected ERR_UNEXPECTED, got %q", got)
	}
}

func TestDebugAsyncDropsWhenFull(t *testing.T) {
	ch := make(chan string, 1)
	debugChan = ch
	defer func() { debugChan = nil }()

	DebugAsync("first")
	DebugAsync("second")

	if len(ch) != 1 {
		t.Fatalf("Expected 1 queued message, got %d", len(ch))
	}
	if msg := <-ch; msg != "first" {
		t.Errorf("Expected first, got %q", msg)
	}
}
