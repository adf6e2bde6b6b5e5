package core

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/lsm303agr"
)

// LSM303 accelerometer I2C address
const LSM303AccelAddress I2CAddress = 0x19

// Output data rate codes (CTRL_REG1_A ODR)
const (
	LSM303DataRate1Hz   = 0x1
	LSM303DataRate10Hz  = 0x2
	LSM303DataRate25Hz  = 0x3
	LSM303DataRate50Hz  = 0x4
	LSM303DataRate100Hz = 0x5
	LSM303DataRate200Hz = 0x6
	LSM303DataRate400Hz = 0x7
)

// Full scale codes (CTRL_REG4_A FS)
const (
	LSM303Scale2G  = 0x0
	LSM303Scale4G  = 0x1
	LSM303Scale8G  = 0x2
	LSM303Scale16G = 0x3
)

// Accelerometer registers
const (
	lsm303CtrlReg1   = 0x20
	lsm303CtrlReg3   = 0x22
	lsm303CtrlReg4   = 0x23
	lsm303CtrlReg5   = 0x24
	lsm303Int1Cfg    = 0x30
	lsm303Int1Source = 0x31
	lsm303Int1Ths    = 0x32
	lsm303Int1Dur    = 0x33
)

const (
	lsm303AxesEnable = 0x07 // ZEN | YEN | XEN
	lsm303I1AOI1     = 0x40 // AOI1 interrupt routed to INT1
	lsm303LIRInt1    = 0x08 // Latch INT1 until INT1_SRC is read
	lsm303HighEvents = 0x2A // ZHIE | YHIE | XHIE, OR combination
)

// Accelerometer drives the LSM303 linear acceleration block: data rate and
// scale setup, the latched motion interrupt used by the alert, and sample reads.
type Accelerometer struct {
	regs RegisterBus
	addr I2CAddress
	dev  *lsm303agr.Device
}

// NewAccelerometer creates an accelerometer on an I2C bus
func NewAccelerometer(bus drivers.I2C) *Accelerometer {
	dev := lsm303agr.New(bus)
	return &Accelerometer{
		regs: I2CRegisterBus{Bus: bus},
		addr: LSM303AccelAddress,
		dev:  dev,
	}
}

// Init sets the output data rate with all axes enabled and the full scale
func (a *Accelerometer) Init(rate, scale uint8) error {
	if err := a.writeReg(lsm303CtrlReg1, rate<<4|lsm303AxesEnable); err != nil {
		return err
	}
	if err := a.writeReg(lsm303CtrlReg4, scale<<4); err != nil {
		return err
	}

	switch scale {
	case LSM303Scale2G:
		a.dev.AccelRange = lsm303agr.ACCEL_RANGE_2G
	case LSM303Scale4G:
		a.dev.AccelRange = lsm303agr.ACCEL_RANGE_4G
	case LSM303Scale8G:
		a.dev.AccelRange = lsm303agr.ACCEL_RANGE_8G
	default:
		a.dev.AccelRange = lsm303agr.ACCEL_RANGE_16G
	}
	return nil
}

// ConfigureMotionInterrupt enables a latched INT1 on high events for any axis
func (a *Accelerometer) ConfigureMotionInterrupt(threshold, duration uint8) error {
	writes := [...]struct{ reg, val uint8 }{
		{lsm303CtrlReg3, lsm303I1AOI1},
		{lsm303CtrlReg5, lsm303LIRInt1},
		{lsm303Int1Ths, threshold & 0x7F},
		{lsm303Int1Dur, duration & 0x7F},
		{lsm303Int1Cfg, lsm303HighEvents},
	}
	for _, w := range writes {
		if err := a.writeReg(w.reg, w.val); err != nil {
			return err
		}
	}
	return nil
}

// ClearLatchedInterrupt reads INT1_SOURCE, which releases the latch
func (a *Accelerometer) ClearLatchedInterrupt() error {
	var src [1]byte
	return a.regs.ReadRegister(a.addr, lsm303Int1Source, src[:])
}

// ReadAcceleration returns the acceleration in micro-g for each axis
func (a *Accelerometer) ReadAcceleration() (x, y, z int32, err error) {
	return a.dev.ReadAcceleration()
}

func (a *Accelerometer) writeReg(reg, val uint8) error {
	return a.regs.WriteRegister(a.addr, reg, []byte{val})
}
