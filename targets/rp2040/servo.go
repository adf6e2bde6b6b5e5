//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/servo"

	"lockbox/core"
)

// servoChannel implements core.ServoChannel on a tinygo servo
type servoChannel struct {
	s servo.Servo
}

// SetAngle converts the angle to the lockbox pulse width
func (c servoChannel) SetAngle(angle int) error {
	us, err := core.ServoPulseMicros(angle)
	if err != nil {
		return err
	}
	c.s.SetMicroseconds(int16(us))
	return nil
}

// newServos attaches the lid and lock servos to PWM slice 7
func newServos() (lid, lock core.ServoChannel, err error) {
	array, err := servo.NewArray(machine.PWM7)
	if err != nil {
		return nil, nil, err
	}
	lidServo, err := array.Add(pinLidServo)
	if err != nil {
		return nil, nil, err
	}
	lockServo, err := array.Add(pinLockServo)
	if err != nil {
		return nil, nil, err
	}
	return servoChannel{lidServo}, servoChannel{lockServo}, nil
}
