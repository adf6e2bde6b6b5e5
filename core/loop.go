package core

import (
	"tinygo.org/x/drivers"

	"lockbox/protocol"
)

// Hardware bundles the drivers and pin assignments a Controller needs
type Hardware struct {
	GPIO   GPIODriver
	PinIRQ PinInterruptDriver
	SPI    SPISlaveDriver
	I2C    drivers.I2C
	Lid    ServoChannel
	Lock   ServoChannel

	ReadyPin  GPIOPin // Side-band ready line to the host, active low
	SensorPin GPIOPin // Reed switch, high while open
	MotionPin GPIOPin // Accelerometer INT1
	LEDPin    GPIOPin // Intrusion indicator
}

// SerialInput is the operator serial link as seen by the main loop
type SerialInput interface {
	// Buffered returns the number of bytes ready to read without blocking
	Buffered() int
	ReadByte() (byte, error)
}

// Controller wires the bus engine, box, and alert together and runs the
// cooperative main loop.
type Controller struct {
	cfg Config

	Bus      *BusEngine
	Box      *Box
	Alert    *Alert
	Accel    *Accelerometer
	Commands *CommandRegistry

	line *protocol.LineBuffer
	out  DebugWriter
}

// NewController builds the component graph. out receives operator replies.
func NewController(cfg Config, hw Hardware, out DebugWriter) *Controller {
	cfg.applyDefaults()
	if out == nil {
		out = DebugPrintln
	}

	c := &Controller{
		cfg:      cfg,
		Commands: NewCommandRegistry(),
		line:     protocol.NewLineBuffer(cfg.SerialLineSize),
		out:      out,
	}

	c.Bus = NewBusEngine(hw.GPIO, hw.SPI, hw.ReadyPin, nil)
	c.Box = NewBox(cfg, hw.GPIO, hw.SensorPin, hw.Lid, hw.Lock, c.Bus)
	c.Bus.SetHandler(c.Box)
	c.Accel = NewAccelerometer(hw.I2C)
	c.Alert = NewAlert(cfg, c.Accel, hw.GPIO, hw.PinIRQ, hw.MotionPin, hw.LEDPin, c.Bus)

	c.registerCommands()
	return c
}

// Setup initializes the components: bus first so status can be queued,
// then the mechanism, then the accelerometer and alert.
func (c *Controller) Setup() error {
	if err := c.Bus.Init(); err != nil {
		DebugPrintln("[MAIN] bus init failed: " + err.Error())
		return err
	}
	if err := c.Box.Init(); err != nil {
		DebugPrintln("[MAIN] box init failed: " + err.Error())
		return err
	}
	if err := c.Accel.Init(c.cfg.AccelRate, c.cfg.AccelScale); err != nil {
		DebugPrintln("[MAIN] accelerometer init failed: " + err.Error())
		return err
	}
	if err := c.Alert.Init(); err != nil {
		DebugPrintln("[MAIN] alert init failed: " + err.Error())
		return err
	}
	DebugPrintln("[MAIN] lockbox " + protocol.Version + " ready")
	return nil
}

// RunOnce performs one main-loop iteration: operator input, box state
// resolution, then arm or disarm from the current sensor reading.
func (c *Controller) RunOnce(in SerialInput) {
	if in != nil {
		c.processSerialInput(in)
	}

	if err := c.Box.HandleCurrentState(); err != nil {
		DebugPrintln("[MAIN] box: " + err.Error())
	}

	req := AlertArm
	if c.Box.IsOpen() {
		req = AlertDisarm
	}
	if err := c.Alert.Run(req); err != nil {
		DebugAsync("[MAIN] alert: " + err.Error())
	}
}

// processSerialInput drains the bytes already received and executes
// each completed line.
func (c *Controller) processSerialInput(in SerialInput) {
	for in.Buffered() > 0 {
		b, err := in.ReadByte()
		if err != nil {
			return
		}
		if line, ok := c.line.Feed(b); ok {
			c.ExecuteLine(line)
		}
	}
}

// ExecuteLine runs one operator command line
func (c *Controller) ExecuteLine(line string) {
	if err := c.Commands.Execute(line, c.cfg.CommandPrefix, c.out); err != nil {
		c.out("ERROR: " + err.Error())
	}
}
