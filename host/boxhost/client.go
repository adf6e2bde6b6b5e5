// Package boxhost is the host side of the lockbox bus: it watches the
// ready line, drains queued status codes and sends box commands.
package boxhost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lockbox/protocol"
)

// Bus performs one full-duplex exchange. w and r have the same length.
type Bus interface {
	Tx(w, r []byte) error
}

// ReadyLine reports whether the device is holding its ready line low
type ReadyLine interface {
	Ready() bool
}

// Options tunes the client timing
type Options struct {
	PollInterval    time.Duration // Ready line sampling period
	ResponseTimeout time.Duration // Bound on the wait for a status response
	ShiftGap        time.Duration // Pause between the two bytes of an exchange
}

// DefaultOptions returns timing that suits a board running its 10ms loop
func DefaultOptions() Options {
	return Options{
		PollInterval:    10 * time.Millisecond,
		ResponseTimeout: 2 * time.Second,
		ShiftGap:        50 * time.Microsecond,
	}
}

var (
	// ErrNotAcknowledged means the device answered a command with something other than ACK
	ErrNotAcknowledged = errors.New("command not acknowledged")

	// ErrNoResponse means the ready line never asserted within the response timeout
	ErrNoResponse = errors.New("no response from device")
)

// Client drives the device as bus master
type Client struct {
	bus   Bus
	ready ReadyLine
	opts  Options

	// OnUnsolicited receives codes drained while waiting for a status
	// response, typically ALERT. May be nil.
	OnUnsolicited func(protocol.Code)
}

// NewClient creates a client. Zero option fields take their defaults.
func NewClient(bus Bus, ready ReadyLine, opts Options) *Client {
	def := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = def.PollInterval
	}
	if opts.ResponseTimeout <= 0 {
		opts.ResponseTimeout = def.ResponseTimeout
	}
	if opts.ShiftGap < 0 {
		opts.ShiftGap = 0
	}
	return &Client{bus: bus, ready: ready, opts: opts}
}

// shift clocks one byte out and returns the byte clocked in
func (c *Client) shift(b byte) (byte, error) {
	var r [1]byte
	if err := c.bus.Tx([]byte{b}, r[:]); err != nil {
		return 0, fmt.Errorf("shift 0x%02X: %w", b, err)
	}
	return r[0], nil
}

// exchange shifts b and then a dummy byte, returning the device's answer
func (c *Client) exchange(b protocol.Code) (protocol.Code, error) {
	if _, err := c.shift(byte(b)); err != nil {
		return 0, err
	}
	if c.opts.ShiftGap > 0 {
		time.Sleep(c.opts.ShiftGap)
	}
	r, err := c.shift(byte(protocol.Idle))
	if err != nil {
		return 0, err
	}
	return protocol.Code(r), nil
}

// Poll drains one queued code when the ready line is asserted. ok is false
// when the device had nothing to report. A NACK answer means the queue was
// already empty and is reported as not ok.
func (c *Client) Poll() (code protocol.Code, ok bool, err error) {
	if !c.ready.Ready() {
		return 0, false, nil
	}
	code, err = c.exchange(protocol.GetStatus)
	if err != nil {
		return 0, false, err
	}
	if code == protocol.Nack {
		return code, false, nil
	}
	return code, true, nil
}

func (c *Client) command(cmd protocol.Code) error {
	r, err := c.exchange(cmd)
	if err != nil {
		return err
	}
	if r != protocol.Ack {
		return fmt.Errorf("%s: got %s: %w", cmd, r, ErrNotAcknowledged)
	}
	return nil
}

// UnlockOpen asks the device to unlock and open the lid
func (c *Client) UnlockOpen() error {
	return c.command(protocol.CmdUnlockOpen)
}

// LockClose asks the device to close the lid and lock it
func (c *Client) LockClose() error {
	return c.command(protocol.CmdLockClose)
}

// CheckStatus asks for the box state and waits for RESP_OPENED or
// RESP_CLOSED. Other codes drained meanwhile go to OnUnsolicited.
func (c *Client) CheckStatus(ctx context.Context) (protocol.Code, error) {
	if err := c.command(protocol.CmdCheckStatus); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.ResponseTimeout)
	defer cancel()

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		code, ok, err := c.Poll()
		if err != nil {
			return 0, err
		}
		if ok {
			if code == protocol.RespOpened || code == protocol.RespClosed {
				return code, nil
			}
			if c.OnUnsolicited != nil {
				c.OnUnsolicited(code)
			}
			continue
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return 0, ErrNoResponse
			}
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Watch polls the ready line until ctx is done and hands every drained
// code to handler. Returns ctx.Err() or the first bus error.
func (c *Client) Watch(ctx context.Context, handler func(protocol.Code)) error {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		// Drain everything queued before sleeping again
		for {
			code, ok, err := c.Poll()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			handler(code)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
