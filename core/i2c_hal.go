package core

import "tinygo.org/x/drivers"

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

// RegisterBus performs register-addressed transfers to I2C devices.
type RegisterBus interface {
	// ReadRegister reads len(buf) bytes starting at reg
	ReadRegister(addr I2CAddress, reg uint8, buf []byte) error

	// WriteRegister writes data starting at reg
	WriteRegister(addr I2CAddress, reg uint8, data []byte) error
}

// I2CRegisterBus adapts any drivers.I2C bus (machine.I2C on hardware) to RegisterBus
type I2CRegisterBus struct {
	Bus drivers.I2C
}

// ReadRegister writes the register address then reads with a repeated start
func (b I2CRegisterBus) ReadRegister(addr I2CAddress, reg uint8, buf []byte) error {
	return b.Bus.Tx(uint16(addr), []byte{reg}, buf)
}

// WriteRegister writes the register address followed by data
func (b I2CRegisterBus) WriteRegister(addr I2CAddress, reg uint8, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	return b.Bus.Tx(uint16(addr), w, nil)
}
