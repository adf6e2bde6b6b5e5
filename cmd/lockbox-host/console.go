package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lockbox/host/console"
	"lockbox/host/serial"
)

var consoleCmd = &cobra.Command{
	Use:   "console [-name [arg]]...",
	Short: "Run operator commands over the serial port",
	Long: `Without arguments, console is interactive: each line typed is sent as
"CMD <line>" and everything the board prints is echoed. With arguments,
each -name [arg] pair is sent as its own command and the replies printed.

Example:
  lockbox-host console -- -ping -status -request query`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// splitOptions pairs each -name with the following non-option argument
func splitOptions(args []string) [][2]string {
	var out [][2]string
	for i := 0; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "-") {
			continue
		}
		opt := [2]string{strings.TrimPrefix(args[i], "-")}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			opt[1] = args[i+1]
			i++
		}
		out = append(out, opt)
	}
	return out
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: cfg.Serial.ReadTimeoutMs,
	})
	if err != nil {
		return err
	}
	defer port.Close()
	port.Flush()

	session := console.NewSession(port, cfg.Console.Prefix, cfg.Console.Quiet())

	if len(args) > 0 {
		ctx := cmd.Context()
		for _, opt := range splitOptions(args) {
			reply, err := session.Exchange(ctx, opt[0], opt[1])
			if err != nil {
				return fmt.Errorf("%s: %w", opt[0], err)
			}
			for _, line := range reply {
				fmt.Println(line)
			}
		}
		return nil
	}

	fmt.Printf("Connected to %s at %d baud (Ctrl+D to exit)\n", cfg.Serial.Device, cfg.Serial.Baud)
	go func() {
		for line := range session.Lines() {
			fmt.Println(line)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := session.WriteLine(cfg.Console.Prefix + " " + text); err != nil {
			return err
		}
	}
	return scanner.Err()
}
