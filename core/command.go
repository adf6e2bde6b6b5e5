package core

import (
	"errors"
	"sync"

	"lockbox/protocol"
)

// CommandHandler runs an operator debug command and returns the reply text
type CommandHandler func(arg string) string

// Command represents an operator debug command, selected on a command line as -Name
type Command struct {
	ID      uint16
	Name    string
	HasArg  bool   // Consumes the following token as its argument
	Help    string // Usage text for the help listing
	Handler CommandHandler
}

// CommandRegistry holds all registered operator commands
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[uint16]*Command
	nameToID map[string]uint16
	nextID   uint16
	helpText string // Listing for the help command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[uint16]*Command),
		nameToID: make(map[string]uint16),
		nextID:   0,
	}
}

// Register adds a command to the registry. Registering an existing name
// returns its ID unchanged.
func (r *CommandRegistry) Register(name string, hasArg bool, help string, handler CommandHandler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if already registered
	if id, exists := r.nameToID[name]; exists {
		return id
	}

	id := r.nextID
	r.nextID++

	cmd := &Command{
		ID:      id,
		Name:    name,
		HasArg:  hasArg,
		Help:    help,
		Handler: handler,
	}

	r.commands[id] = cmd
	r.nameToID[name] = id

	r.rebuildHelp()

	return id
}

// GetCommand retrieves a command by ID
func (r *CommandRegistry) GetCommand(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// Lookup retrieves a command by name
func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.commands[id], true
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Option implements protocol.OptionLookup over the registry
func (r *CommandRegistry) Option(name string) (hasArg bool, ok bool) {
	cmd, ok := r.Lookup(name)
	if !ok {
		return false, false
	}
	return cmd.HasArg, true
}

// Dispatch runs the named command with arg
func (r *CommandRegistry) Dispatch(name, arg string) (string, error) {
	cmd, ok := r.Lookup(name)
	if !ok {
		return "", errors.New("unknown command: " + name)
	}
	if cmd.Handler == nil {
		return "", ErrNoHandler
	}
	return cmd.Handler(arg), nil
}

// Execute parses an operator line and runs every command it selects in
// order. Each selection is echoed and each reply written to out. Lines
// without the prefix are ignored.
func (r *CommandRegistry) Execute(line, prefix string, out DebugWriter) error {
	invocations, err := protocol.ParseCommandLine(line, prefix, r.Option)
	if err != nil {
		if errors.Is(err, protocol.ErrNoPrefix) {
			return nil
		}
		return err
	}

	for _, inv := range invocations {
		echo := "> " + inv.Name
		if inv.Arg != "" {
			echo += " " + inv.Arg
		}
		out(echo)

		reply, err := r.Dispatch(inv.Name, inv.Arg)
		if err != nil {
			out("ERROR: " + err.Error())
			continue
		}
		if reply != "" {
			out(reply)
		}
	}
	return nil
}

// HelpText returns the command listing
func (r *CommandRegistry) HelpText() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.helpText
}

// rebuildHelp rebuilds the help listing in registration order
// Must be called with lock held
func (r *CommandRegistry) rebuildHelp() {
	text := ""
	for i := uint16(0); i < r.nextID; i++ {
		if cmd, ok := r.commands[i]; ok {
			line := "-" + cmd.Name
			if cmd.HasArg {
				line += " <arg>"
			}
			if cmd.Help != "" {
				line += "  " + cmd.Help
			}
			text += line + "\n"
		}
	}
	r.helpText = text
}
