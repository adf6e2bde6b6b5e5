//go:build rp2040

package main

import "machine"

// Board wiring
const (
	// Operator serial (UART0)
	pinUARTTx = machine.GPIO0
	pinUARTRx = machine.GPIO1

	// Accelerometer bus (I2C0)
	pinSDA = machine.GPIO4
	pinSCL = machine.GPIO5

	// Host bus (SPI0, peripheral mode)
	pinSPIRx  = machine.GPIO16 // Host MOSI
	pinSPICSn = machine.GPIO17
	pinSPISCK = machine.GPIO18
	pinSPITx  = machine.GPIO19 // Host MISO

	// Servos share PWM slice 7
	pinLidServo  = machine.GPIO14
	pinLockServo = machine.GPIO15

	pinReady  = machine.GPIO20 // Side-band ready line, active low, host pull-up
	pinReed   = machine.GPIO21 // Lid reed switch, high while open
	pinMotion = machine.GPIO22 // Accelerometer INT1
	pinLED    = machine.LED    // Intrusion indicator
)

const (
	operatorBaud = 9600
	i2cFrequency = 100 * machine.KHz
)
