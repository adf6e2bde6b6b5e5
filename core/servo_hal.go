package core

// ServoChannel drives one hobby servo to an absolute angle.
type ServoChannel interface {
	// SetAngle moves the servo to angle degrees (0..180)
	SetAngle(angle int) error
}

// ServoPulseMicros maps an angle onto the pulse width used by the lockbox
// servos: 600us at 0 degrees plus 10us per degree.
func ServoPulseMicros(angle int) (int, error) {
	if angle < 0 || angle > 180 {
		return 0, ErrInvalidAngle
	}
	return 600 + angle*10, nil
}
