// Package amdil implements the AMDIL target: the legality table of a device and the routines lowering the
// operations the hardware lacks into sequences of AMDIL instructions.
package amdil

import (
	"github.com/radeon-go/amdil/api"
	"github.com/radeon-go/amdil/internal/backend"
)

const (
	// numArgResultRegs is the number of registers R1..R16 used to pass arguments and results.
	numArgResultRegs = 16
	// RegSP is the stack pointer register.
	RegSP backend.RealReg = numArgResultRegs + 1
)

// argResultRegs are R1..R16, indexed by assignment order.
var argResultRegs = func() []backend.RealReg {
	regs := make([]backend.RealReg, numArgResultRegs)
	for i := range regs {
		regs[i] = backend.RealReg(i + 1)
	}
	return regs
}()

// Machine lowers operation graphs for one device. The legality table and the tiers are computed once in
// NewMachine and only read afterwards, so a Machine can be shared between goroutines.
type Machine struct {
	device api.Device
	tiers  api.Tiers
	table  *backend.LegalizeTable
}

// NewMachine returns the Machine for the given device.
func NewMachine(device api.Device) *Machine {
	m := &Machine{device: device, tiers: device.Tiers()}
	m.table = newLegalizeTable(device, m.tiers)
	return m
}

// Device returns the device this machine lowers for.
func (m *Machine) Device() api.Device {
	return m.device
}

// Tiers returns the capability tiers of the device.
func (m *Machine) Tiers() api.Tiers {
	return m.tiers
}

// LegalizeTable returns the legality table of the device.
func (m *Machine) LegalizeTable() *backend.LegalizeTable {
	return m.table
}

// ArgsResultsRegs implements backend.FunctionABIRegInfo.
func (m *Machine) ArgsResultsRegs() (args, results []backend.RealReg) {
	return argResultRegs, argResultRegs
}
