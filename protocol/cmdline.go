package protocol

import (
	"errors"
	"strings"

	"github.com/google/shlex"
)

// DefaultCommandPrefix must start every operator command line
const DefaultCommandPrefix = "CMD"

// MaxCommandArgs bounds the tokens considered on one line
const MaxCommandArgs = 16

// ErrNoPrefix is returned for lines that do not start with the command prefix
var ErrNoPrefix = errors.New("missing command prefix")

// OptionLookup reports whether name is a registered option and whether it
// consumes the following token as its argument.
type OptionLookup func(name string) (hasArg bool, ok bool)

// Invocation is one option selected on an operator command line
type Invocation struct {
	Name string
	Arg  string
}

// ParseCommandLine splits an operator line such as
//
//	CMD -ping -request open
//
// into the registered options it names. Tokens not starting with '-' and
// unknown options are skipped. An option with an argument takes the next
// token even if that token looks like an option; a missing argument is empty.
func ParseCommandLine(line, prefix string, lookup OptionLookup) ([]Invocation, error) {
	if prefix == "" {
		prefix = DefaultCommandPrefix
	}
	if !strings.HasPrefix(line, prefix) {
		return nil, ErrNoPrefix
	}

	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) > MaxCommandArgs {
		tokens = tokens[:MaxCommandArgs]
	}

	var out []Invocation
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if len(tok) < 2 || tok[0] != '-' {
			continue
		}
		name := tok[1:]
		hasArg, ok := lookup(name)
		if !ok {
			continue
		}
		inv := Invocation{Name: name}
		if hasArg {
			if i+1 < len(tokens) {
				inv.Arg = tokens[i+1]
			}
			i++
		}
		out = append(out, inv)
	}
	return out, nil
}
