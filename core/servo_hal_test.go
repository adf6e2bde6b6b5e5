package core

import "testing"

func TestServoPulseMicros(t *testing.T) {
	tests := []struct {
		angle int
		want  int
		err   error
	}{
		{0, 600, nil},
		{90, 1500, nil},
		{180, 2400, nil},
		{-1, 0, ErrInvalidAngle},
		{181, 0, ErrInvalidAngle},
	}

	for _, tc := range tests {
		got, err := ServoPulseMicros(tc.angle)
		if err != tc.err || got != tc.want {
			t.Errorf("Angle %d: expected %d/%v, got %d/%v", tc.angle, tc.want, tc.err, got, err)
		}
	}
}
