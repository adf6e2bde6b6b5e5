//go:build rp2040

package main

import (
	"errors"
	"machine"

	"lockbox/core"
)

var errInvalidPin = errors.New("invalid GPIO pin")

// RPGPIODriver implements core.GPIODriver and core.PinInterruptDriver on
// machine.Pin. Pins are reconfigured on every call since the ready line
// switches between output and high impedance at runtime.
type RPGPIODriver struct{}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{}
}

func (d *RPGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	if pin > 29 {
		return errInvalidPin
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
	return nil
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

// ConfigureInput configures a floating input
func (d *RPGPIODriver) ConfigureInput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInput)
}

func (d *RPGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPullup)
}

func (d *RPGPIODriver) ConfigureInputPullDown(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInputPulldown)
}

// SetPin sets a pin to high or low
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if pin > 29 {
		return errInvalidPin
	}
	machine.Pin(pin).Set(value)
	return nil
}

// GetPin reads the current state of a pin
func (d *RPGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	if pin > 29 {
		return false, errInvalidPin
	}
	return machine.Pin(pin).Get(), nil
}

func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	value, _ := d.GetPin(pin)
	return value
}

// SetInterrupt installs or removes an edge interrupt
func (d *RPGPIODriver) SetInterrupt(pin core.GPIOPin, change core.PinChange, handler func(core.GPIOPin)) error {
	if pin > 29 {
		return errInvalidPin
	}
	p := machine.Pin(pin)
	if change == core.PinNoChange || handler == nil {
		return p.SetInterrupt(0, nil)
	}

	var mc machine.PinChange
	if change&core.PinRising != 0 {
		mc |= machine.PinRising
	}
	if change&core.PinFalling != 0 {
		mc |= machine.PinFalling
	}
	return p.SetInterrupt(mc, func(p machine.Pin) {
		handler(core.GPIOPin(p))
	})
}
