//go:build rp2040

package main

import "machine"

// configureI2C brings up I2C0 for the accelerometer
func configureI2C() (*machine.I2C, error) {
	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: i2cFrequency,
		SDA:       pinSDA,
		SCL:       pinSCL,
	})
	if err != nil {
		return nil, err
	}
	return i2c, nil
}
