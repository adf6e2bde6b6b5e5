package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// boardSim answers operator lines the way the firmware prints them
type boardSim struct {
	in  *io.PipeReader
	out *io.PipeWriter
}

// pipeRW joins the session's writes to the simulator and the simulator's
// output back to the session
type pipeRW struct {
	io.Reader
	io.Writer
}

func newSimulatedSession(t *testing.T, replies map[string][]string) (*Session, func()) {
	t.Helper()
	toBoardR, toBoardW := io.Pipe()
	fromBoardR, fromBoardW := io.Pipe()

	sim := &boardSim{in: toBoardR, out: fromBoardW}
	go func() {
		scanner := bufio.NewScanner(sim.in)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) < 2 || fields[0] != "CMD" {
				continue
			}
			name := strings.TrimPrefix(fields[1], "-")
			echo := "> " + name
			if len(fields) > 2 {
				echo += " " + fields[2]
			}
			io.WriteString(sim.out, "noise\r\n")
			io.WriteString(sim.out, echo+"\r\n")
			for _, r := range replies[name] {
				io.WriteString(sim.out, r+"\r\n")
			}
		}
	}()

	s := NewSession(pipeRW{fromBoardR, toBoardW}, "", 50*time.Millisecond)
	return s, func() {
		toBoardW.Close()
		fromBoardW.Close()
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name, arg, want string
	}{
		{"ping", "", "CMD -ping"},
		{"request", "open", "CMD -request open"},
	}
	for _, tt := range tests {
		got := FormatLine("CMD", tt.name, tt.arg)
		if got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestExchangePing(t *testing.T) {
	s, closeFn := newSimulatedSession(t, map[string][]string{"ping": {"Pong!"}})
	defer closeFn()

	reply, err := s.Exchange(context.Background(), "ping", "")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if len(reply) != 1 || reply[0] != "Pong!" {
		t.Errorf("Expected [Pong!], got %v", reply)
	}
}

func TestExchangeMultiLine(t *testing.T) {
	s, closeFn := newSimulatedSession(t, map[string][]string{
		"help": {"-help  list commands", "-ping  alive check"},
	})
	defer closeFn()

	reply, err := s.Exchange(context.Background(), "help", "")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if len(reply) != 2 {
		t.Fatalf("Expected 2 lines, got %v", reply)
	}
	if reply[1] != "-ping  alive check" {
		t.Errorf("Expected ping help line, got %q", reply[1])
	}
}

func TestExchangeWithArg(t *testing.T) {
	s, closeFn := newSimulatedSession(t, map[string][]string{"request": {"ERR_BUSY"}})
	defer closeFn()

	reply, err := s.Exchange(context.Background(), "request", "open")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if len(reply) != 1 || reply[0] != "ERR_BUSY" {
		t.Errorf("Expected [ERR_BUSY], got %v", reply)
	}
}

func TestExchangeNoEcho(t *testing.T) {
	// A link that swallows everything
	r, w := io.Pipe()
	defer w.Close()
	s := NewSession(pipeRW{r, io.Discard}, "CMD", 20*time.Millisecond)

	if _, err := s.Exchange(context.Background(), "ping", ""); err == nil {
		t.Error("Expected error when the board never echoes")
	}
}

func TestExchangeContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	s := NewSession(pipeRW{r, io.Discard}, "CMD", time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Exchange(ctx, "ping", ""); err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}

func TestSessionClosed(t *testing.T) {
	s := NewSession(pipeRW{strings.NewReader(""), io.Discard}, "CMD", time.Hour)
	<-s.Done()
	if s.Err() != io.EOF {
		t.Errorf("Expected io.EOF, got %v", s.Err())
	}
	if _, err := s.Exchange(context.Background(), "ping", ""); err != ErrClosed {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}
