//go:build rp2040

package main

import (
	"machine"
	"time"

	"lockbox/core"
)

const (
	loopPeriod       = 10 * time.Millisecond
	setupRetryPeriod = time.Second
)

func main() {
	// Clear any watchdog state left over from a previous run
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: operatorBaud,
		TX:       pinUARTTx,
		RX:       pinUARTRx,
	})
	core.SetDebugWriter(func(msg string) {
		uart.Write([]byte(msg))
		uart.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	i2c, err := configureI2C()
	if err != nil {
		halt("[MAIN] i2c: " + err.Error())
	}
	lid, lock, err := newServos()
	if err != nil {
		halt("[MAIN] servo: " + err.Error())
	}

	gpio := NewRPGPIODriver()
	hw := core.Hardware{
		GPIO:      gpio,
		PinIRQ:    gpio,
		SPI:       spiSlave,
		I2C:       i2c,
		Lid:       lid,
		Lock:      lock,
		ReadyPin:  core.GPIOPin(pinReady),
		SensorPin: core.GPIOPin(pinReed),
		MotionPin: core.GPIOPin(pinMotion),
		LEDPin:    core.GPIOPin(pinLED),
	}

	UpdateSystemTime()
	go timerLoop()

	ctrl := core.NewController(core.DefaultConfig(), hw, nil)
	for ctrl.Setup() != nil {
		time.Sleep(setupRetryPeriod)
	}

	for {
		ctrl.RunOnce(uart)
		time.Sleep(loopPeriod)
	}
}

// halt reports a fatal board setup error forever
func halt(msg string) {
	for {
		core.DebugPrintln(msg)
		time.Sleep(setupRetryPeriod)
	}
}
