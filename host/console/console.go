// Package console talks to the lockbox operator command line over a serial
// link: it frames "CMD -name arg" lines and collects the board's replies.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"lockbox/protocol"
)

// DefaultQuiet is how long Exchange waits for further reply lines
const DefaultQuiet = 300 * time.Millisecond

// ErrClosed is returned once the underlying link has stopped delivering lines
var ErrClosed = errors.New("console closed")

// Session is one operator connection to a board
type Session struct {
	w      io.Writer
	prefix string
	quiet  time.Duration

	lines chan string
	done  chan struct{}

	mu  sync.Mutex // Serializes writes
	err error      // Reader error, valid after done is closed
}

// NewSession starts reading lines from rw. An empty prefix selects
// protocol.DefaultCommandPrefix; quiet <= 0 selects DefaultQuiet.
func NewSession(rw io.ReadWriter, prefix string, quiet time.Duration) *Session {
	if prefix == "" {
		prefix = protocol.DefaultCommandPrefix
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	s := &Session{
		w:      rw,
		prefix: prefix,
		quiet:  quiet,
		lines:  make(chan string, 64),
		done:   make(chan struct{}),
	}
	go s.readLoop(rw)
	return s
}

func (s *Session) readLoop(r io.Reader) {
	defer close(s.done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		s.lines <- line
	}
	s.err = scanner.Err()
	if s.err == nil {
		s.err = io.EOF
	}
}

// Lines delivers every line the board prints
func (s *Session) Lines() <-chan string {
	return s.lines
}

// Done is closed when the link stops delivering lines
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the reader error once Done is closed
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// FormatLine builds an operator command line selecting name with arg
func FormatLine(prefix, name, arg string) string {
	line := prefix + " -" + name
	if arg != "" {
		line += " " + arg
	}
	return line
}

// WriteLine sends one raw line to the board
func (s *Session) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		return fmt.Errorf("write %q: %w", line, err)
	}
	return nil
}

// Send writes a prefixed command line without waiting for a reply
func (s *Session) Send(name, arg string) error {
	return s.WriteLine(FormatLine(s.prefix, name, arg))
}

// Exchange runs one operator command and returns the lines printed after
// its echo, stopping once the board has been quiet for the session's
// quiet period. Lines before the echo are discarded.
func (s *Session) Exchange(ctx context.Context, name, arg string) ([]string, error) {
	if err := s.Send(name, arg); err != nil {
		return nil, err
	}

	echo := "> " + name
	if arg != "" {
		echo += " " + arg
	}

	var reply []string
	echoed := false
	timer := time.NewTimer(s.quiet)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return reply, ctx.Err()
		case <-s.done:
			// Drain what was read before the link closed
			select {
			case line := <-s.lines:
				reply, echoed = collect(reply, echoed, echo, line)
				continue
			default:
			}
			if !echoed {
				return nil, ErrClosed
			}
			return reply, nil
		case line := <-s.lines:
			reply, echoed = collect(reply, echoed, echo, line)
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.quiet)
		case <-timer.C:
			if !echoed {
				return nil, fmt.Errorf("no echo for %q", name)
			}
			return reply, nil
		}
	}
}

func collect(reply []string, echoed bool, echo, line string) ([]string, bool) {
	if !echoed {
		return reply, line == echo
	}
	return append(reply, line), true
}
