package core

// registerCommands installs the operator debug commands
func (c *Controller) registerCommands() {
	r := c.Commands
	r.Register("help", false, "list commands", c.handleHelp)
	r.Register("ping", false, "alive check", handlePing)
	r.Register("status", false, "box, alert and bus state", c.handleStatus)
	r.Register("open", false, "drive the lid servo open", c.handleOpen)
	r.Register("close", false, "drive the lid servo closed", c.handleClose)
	r.Register("lock", false, "drive the lock servo locked", c.handleLock)
	r.Register("unlock", false, "sweep the lock servo unlocked", c.handleUnlock)
	r.Register("request", true, "open|close|query as if sent by the host", c.handleRequest)
	r.Register("arm", false, "arm the intrusion alert", c.handleArm)
	r.Register("disarm", false, "disarm the intrusion alert", c.handleDisarm)
	r.Register("accel", false, "read acceleration (ug)", c.handleAccel)
	r.Register("events", false, "dump the event ring", c.handleEvents)
	r.Register("debug", true, "[0|1] show or set debug output", handleDebug)
}

func (c *Controller) handleHelp(string) string {
	return c.Commands.HelpText()
}

func handlePing(string) string {
	return "Pong!"
}

// handleStatus reports the shared state in one line
func (c *Controller) handleStatus(string) string {
	sensor := "closed"
	if c.Box.IsOpen() {
		sensor = "open"
	}
	return "box=" + c.Box.State().String() +
		" sensor=" + sensor +
		" alert=" + c.Alert.State().String() +
		" bus=" + c.Bus.State().String() +
		" queue=" + itoa(c.Bus.QueueLen()) +
		" trips=" + utoa(c.Alert.Trips()) +
		" faults=" + utoa(c.Box.Faults())
}

func (c *Controller) handleOpen(string) string {
	return statusText(c.Box.Open())
}

func (c *Controller) handleClose(string) string {
	return statusText(c.Box.Close())
}

func (c *Controller) handleLock(string) string {
	return statusText(c.Box.Lock())
}

func (c *Controller) handleUnlock(string) string {
	return statusText(c.Box.Unlock())
}

// handleRequest injects a bus request without the host
func (c *Controller) handleRequest(arg string) string {
	switch arg {
	case "open":
		return statusText(c.Box.UnlockOpen())
	case "close":
		return statusText(c.Box.LockClose())
	case "query":
		return statusText(c.Box.CheckStatus())
	}
	return statusText(ErrUnexpected)
}

func (c *Controller) handleArm(string) string {
	if err := c.Alert.Run(AlertArm); err != nil {
		return statusText(err)
	}
	return "alert=" + c.Alert.State().String()
}

func (c *Controller) handleDisarm(string) string {
	if err := c.Alert.Run(AlertDisarm); err != nil {
		return statusText(err)
	}
	return "alert=" + c.Alert.State().String()
}

func (c *Controller) handleAccel(string) string {
	x, y, z, err := c.Accel.ReadAcceleration()
	if err != nil {
		return statusText(err)
	}
	return "x=" + itoa(int(x)) + " y=" + itoa(int(y)) + " z=" + itoa(int(z))
}

func (c *Controller) handleEvents(string) string {
	DumpEvents(c.out)
	return ""
}

func handleDebug(arg string) string {
	switch arg {
	case "0":
		SetDebugEnabled(false)
	case "1":
		SetDebugEnabled(true)
	case "":
	default:
		return statusText(ErrUnexpected)
	}
	if IsDebugEnabled() {
		return "debug=1"
	}
	return "debug=0"
}
