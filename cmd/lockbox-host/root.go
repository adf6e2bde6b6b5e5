package main

import (
	"github.com/spf13/cobra"

	"lockbox/host/config"
	"lockbox/protocol"
)

var (
	configPath string

	// Overrides for the config file
	portName string
	baudRate int
	spiName  string
	readyPin string
)

var rootCmd = &cobra.Command{
	Use:   "lockbox-host",
	Short: "Lockbox host tool",
	Long: `lockbox-host drives a lockbox board from a host computer.

Bus commands (watch, open, close, status) talk to the board over SPI with
the ready line on a GPIO. The console command uses the board's operator
serial port.

Settings come from --config (YAML) and may be overridden by flags.`,
	Version:       protocol.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Operator serial device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 0, "Operator serial baud rate")
	rootCmd.PersistentFlags().StringVar(&spiName, "spi", "", "SPI port name (periph)")
	rootCmd.PersistentFlags().StringVar(&readyPin, "ready-pin", "", "Ready line GPIO name (periph)")
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if portName != "" {
		cfg.Serial.Device = portName
	}
	if baudRate != 0 {
		cfg.Serial.Baud = baudRate
	}
	if spiName != "" {
		cfg.Bus.SPI = spiName
	}
	if readyPin != "" {
		cfg.Bus.ReadyPin = readyPin
	}
	return cfg, config.Validate(cfg)
}
