//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/interrupt"

	"lockbox/core"
)

// PL022 register bits
const (
	sspCR1SSE   = 1 << 1 // Port enable
	sspCR1MS    = 1 << 2 // Slave mode
	sspSRTNF    = 1 << 1 // Transmit FIFO not full
	sspSRRNE    = 1 << 2 // Receive FIFO not empty
	sspIMSCRTIM = 1 << 1 // Receive timeout interrupt
	sspIMSCRXIM = 1 << 2 // Receive FIFO half full interrupt
	sspICRRTIC  = 1 << 1 // Clear receive timeout
)

var errLSBFirst = errors.New("PL022 shifts MSB first only")

// RPSPISlaveDriver runs SPI0 as a bus peripheral. The host toggles CSn
// around every byte; each received byte is one shift event.
type RPSPISlaveDriver struct {
	onShift func()
	last    byte
}

// spiSlave is the single instance reachable from the SPI0 interrupt
var spiSlave = &RPSPISlaveDriver{}

// ConfigureSlave sets up pins and the PL022, then enables the interrupt
func (d *RPSPISlaveDriver) ConfigureSlave(cfg core.SPISlaveConfig, onShift func()) error {
	if !cfg.MSBFirst {
		return errLSBFirst
	}

	// Let the machine package handle reset, clocks, pin muxing and mode bits
	err := machine.SPI0.Configure(machine.SPIConfig{
		SCK:  pinSPISCK,
		SDO:  pinSPITx,
		SDI:  pinSPIRx,
		Mode: uint8(cfg.Mode),
	})
	if err != nil {
		return err
	}
	pinSPICSn.Configure(machine.PinConfig{Mode: machine.PinSPI})

	d.onShift = onShift

	rp.SPI0.SSPCR1.ClearBits(sspCR1SSE)
	rp.SPI0.SSPCR1.SetBits(sspCR1MS)
	for rp.SPI0.SSPSR.HasBits(sspSRRNE) {
		rp.SPI0.SSPDR.Get()
	}
	rp.SPI0.SSPIMSC.Set(sspIMSCRXIM | sspIMSCRTIM)
	rp.SPI0.SSPCR1.SetBits(sspCR1SSE)

	intr := interrupt.New(rp.IRQ_SPI0_IRQ, handleSPI0)
	intr.Enable()
	return nil
}

// Received returns the last byte shifted in by the host
func (d *RPSPISlaveDriver) Received() byte {
	return d.last
}

// Preload queues the reply for the next exchange
func (d *RPSPISlaveDriver) Preload(b byte) {
	if rp.SPI0.SSPSR.HasBits(sspSRTNF) {
		rp.SPI0.SSPDR.Set(uint32(b))
	}
}

// handleSPI0 drains the receive FIFO, one shift event per byte
func handleSPI0(interrupt.Interrupt) {
	rp.SPI0.SSPICR.Set(sspICRRTIC)
	for rp.SPI0.SSPSR.HasBits(sspSRRNE) {
		spiSlave.last = byte(rp.SPI0.SSPDR.Get())
		if spiSlave.onShift != nil {
			spiSlave.onShift()
		}
	}
}
