package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"

	"lockbox/host/boxhost"
	"lockbox/protocol"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print alerts and status codes as the board reports them",
	RunE:  runWatch,
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Unlock and open the lid",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(func(c *boxhost.Client) error { return c.UnlockOpen() }, "open")
	},
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the lid and lock it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(func(c *boxhost.Client) error { return c.LockClose() }, "close")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Ask the board whether the lid is open or closed",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(watchCmd, openCmd, closeCmd, statusCmd)
}

// openClient opens the periph link described by the configuration
func openClient() (*boxhost.Client, *boxhost.PeriphLink, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	link, err := boxhost.OpenPeriph(cfg.Bus.SPI, cfg.Bus.ReadyPin, physic.Frequency(cfg.Bus.SpeedHz)*physic.Hertz)
	if err != nil {
		return nil, nil, err
	}
	client := boxhost.NewClient(link, link, boxhost.Options{
		PollInterval:    cfg.Bus.PollInterval(),
		ResponseTimeout: cfg.Bus.ResponseTimeout(),
	})
	client.OnUnsolicited = printCode
	return client, link, nil
}

func printCode(c protocol.Code) {
	ts := time.Now().Format("15:04:05.000")
	switch c {
	case protocol.Alert:
		fmt.Printf("[%s] ALERT: intrusion detected\n", ts)
	case protocol.RespOpened:
		fmt.Printf("[%s] box is open\n", ts)
	case protocol.RespClosed:
		fmt.Printf("[%s] box is closed\n", ts)
	default:
		fmt.Printf("[%s] %s\n", ts, c)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	client, link, err := openClient()
	if err != nil {
		return err
	}
	defer link.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Watching ready line (Ctrl+C to stop)...")
	err = client.Watch(ctx, printCode)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func runCommand(fn func(*boxhost.Client) error, name string) error {
	client, link, err := openClient()
	if err != nil {
		return err
	}
	defer link.Close()

	if err := fn(client); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Printf("%s acknowledged\n", name)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, link, err := openClient()
	if err != nil {
		return err
	}
	defer link.Close()

	code, err := client.CheckStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	printCode(code)
	return nil
}
