package core

import "time"

// Config holds the tunable behaviour of the lockbox controller
type Config struct {
	// Servo positions in degrees
	LidClosedAngle   int
	LidOpenAngle     int
	LockLockedAngle  int
	LockUnlockAngle  int
	UnlockStepAngle  int           // Sweep increment while unlocking
	UnlockStepDelay  time.Duration // Pause between sweep increments
	CloseTimeout     time.Duration // Upper bound waiting for the lid sensor after closing
	SensorPollPeriod time.Duration // Sensor poll interval while waiting

	// Accelerometer motion interrupt
	AccelRate         uint8 // Output data rate code (LSM303 ODR)
	AccelScale        uint8 // Full scale code (LSM303 FS)
	MotionThreshold   uint8
	MotionDuration    uint8
	SensorSettleDelay time.Duration
	CooldownTicks     uint32 // Alert cooldown in timer ticks

	// Operator serial line
	SerialLineSize int
	CommandPrefix  string

	// Sleep blocks the caller; interrupts keep firing while it waits
	Sleep func(time.Duration)
}

// DefaultConfig returns the stock lockbox configuration
func DefaultConfig() Config {
	return Config{
		LidClosedAngle:    180,
		LidOpenAngle:      30,
		LockLockedAngle:   0,
		LockUnlockAngle:   90,
		UnlockStepAngle:   30,
		UnlockStepDelay:   105 * time.Millisecond, // 0.21s per 60 degrees
		CloseTimeout:      10 * time.Second,
		SensorPollPeriod:  10 * time.Millisecond,
		AccelRate:         LSM303DataRate25Hz,
		AccelScale:        LSM303Scale4G,
		MotionThreshold:   5,
		MotionDuration:    2,
		SensorSettleDelay: 1500 * time.Millisecond,
		CooldownTicks:     TimerFromDuration(5 * time.Second),
		SerialLineSize:    32,
		CommandPrefix:     "CMD",
		Sleep:             time.Sleep,
	}
}

// applyDefaults fills zero-valued fields from DefaultConfig.
// Angle fields are left alone since zero is a valid position.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.UnlockStepAngle <= 0 {
		c.UnlockStepAngle = d.UnlockStepAngle
	}
	if c.CloseTimeout == 0 {
		c.CloseTimeout = d.CloseTimeout
	}
	if c.SensorPollPeriod == 0 {
		c.SensorPollPeriod = d.SensorPollPeriod
	}
	if c.AccelRate == 0 {
		c.AccelRate = d.AccelRate
	}
	if c.MotionThreshold == 0 {
		c.MotionThreshold = d.MotionThreshold
	}
	if c.MotionDuration == 0 {
		c.MotionDuration = d.MotionDuration
	}
	if c.CooldownTicks == 0 {
		c.CooldownTicks = d.CooldownTicks
	}
	if c.SerialLineSize < 2 {
		c.SerialLineSize = d.SerialLineSize
	}
	if c.CommandPrefix == "" {
		c.CommandPrefix = d.CommandPrefix
	}
	if c.Sleep == nil {
		c.Sleep = d.Sleep
	}
}
