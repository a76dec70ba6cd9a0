package main

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrFatalInstruction is returned when the machine executes RTI or RES, the
// two reserved opcode slots this interpreter does not implement. There is no
// recovery: the machine transitions to HALTED with a fatal indication.
var ErrFatalInstruction = errors.New("lc3: fatal instruction (RTI/RES)")

// Machine is a complete LC-3: its own memory, register file, and host I/O
// port, owned exclusively by the instance that created them. Nothing about
// a Machine is shared across goroutines; it executes one instruction at a
// time to completion, with no preemption and no interrupts beyond the KBSR
// polling protocol.
type Machine struct {
	Mem *Memory
	Reg *RegisterFile
	Log *slog.Logger

	running bool
}

// NewMachine constructs a machine with zeroed memory and a reset register
// file, wired to host for keyboard input and character output. log may be
// nil, in which case the machine logs nothing.
func NewMachine(host HostIO, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}
	return &Machine{
		Mem: NewMemory(host),
		Reg: NewRegisterFile(),
		Log: log,
	}
}

// discardWriter is an io.Writer that drops everything written to it, used
// only to give a Machine a non-nil logger when the caller supplies none.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Run executes instructions until a HALT trap or a fatal instruction. It
// returns nil on a clean HALT, or the error that caused an abnormal stop.
func (m *Machine) Run() error {
	m.running = true
	for m.running {
		if err := m.Step(); err != nil {
			m.running = false
			if errors.Is(err, errHalt) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Step fetches, decodes and executes a single instruction. PC is
// incremented before dispatch, so every PC-relative offset used by an
// instruction's semantics refers to the address of the *next* instruction,
// not the one currently executing.
func (m *Machine) Step() error {
	instr := m.Mem.Read(m.Reg.PC)
	m.Reg.PC++

	op := instr >> 12
	switch op {
	case OpBR:
		cond := (instr >> 9) & 0x7
		off9 := signExtend(instr&0x1FF, 9)
		if cond&m.Reg.COND != 0 {
			m.Reg.PC += off9
		}

	case OpADD:
		dr := (instr >> 9) & 0x7
		sr1 := (instr >> 6) & 0x7
		if (instr>>5)&0x1 != 0 {
			imm5 := signExtend(instr&0x1F, 5)
			m.Reg.R[dr] = m.Reg.R[sr1] + imm5
		} else {
			sr2 := instr & 0x7
			m.Reg.R[dr] = m.Reg.R[sr1] + m.Reg.R[sr2]
		}
		m.Reg.updateFlags(dr)

	case OpLD:
		dr := (instr >> 9) & 0x7
		off9 := signExtend(instr&0x1FF, 9)
		m.Reg.R[dr] = m.Mem.Read(m.Reg.PC + off9)
		m.Reg.updateFlags(dr)

	case OpST:
		sr := (instr >> 9) & 0x7
		off9 := signExtend(instr&0x1FF, 9)
		m.Mem.Write(m.Reg.PC+off9, m.Reg.R[sr])

	case OpJSR:
		m.Reg.R[R7] = m.Reg.PC
		if (instr>>11)&0x1 != 0 {
			off11 := signExtend(instr&0x7FF, 11)
			m.Reg.PC += off11
		} else {
			baseR := (instr >> 6) & 0x7
			m.Reg.PC = m.Reg.R[baseR]
		}

	case OpAND:
		dr := (instr >> 9) & 0x7
		sr1 := (instr >> 6) & 0x7
		if (instr>>5)&0x1 != 0 {
			imm5 := signExtend(instr&0x1F, 5)
			m.Reg.R[dr] = m.Reg.R[sr1] & imm5
		} else {
			sr2 := instr & 0x7
			m.Reg.R[dr] = m.Reg.R[sr1] & m.Reg.R[sr2]
		}
		m.Reg.updateFlags(dr)

	case OpLDR:
		dr := (instr >> 9) & 0x7
		baseR := (instr >> 6) & 0x7
		off6 := signExtend(instr&0x3F, 6)
		m.Reg.R[dr] = m.Mem.Read(m.Reg.R[baseR] + off6)
		m.Reg.updateFlags(dr)

	case OpSTR:
		sr := (instr >> 9) & 0x7
		baseR := (instr >> 6) & 0x7
		off6 := signExtend(instr&0x3F, 6)
		m.Mem.Write(m.Reg.R[baseR]+off6, m.Reg.R[sr])

	case OpRTI:
		m.Log.Error("fatal: RTI executed", "pc", m.Reg.PC-1)
		return ErrFatalInstruction

	case OpNOT:
		dr := (instr >> 9) & 0x7
		sr := (instr >> 6) & 0x7
		m.Reg.R[dr] = ^m.Reg.R[sr]
		m.Reg.updateFlags(dr)

	case OpLDI:
		dr := (instr >> 9) & 0x7
		off9 := signExtend(instr&0x1FF, 9)
		ptr := m.Mem.Read(m.Reg.PC + off9)
		m.Reg.R[dr] = m.Mem.Read(ptr)
		m.Reg.updateFlags(dr)

	case OpSTI:
		sr := (instr >> 9) & 0x7
		off9 := signExtend(instr&0x1FF, 9)
		ptr := m.Mem.Read(m.Reg.PC + off9)
		m.Mem.Write(ptr, m.Reg.R[sr])

	case OpJMP:
		baseR := (instr >> 6) & 0x7
		m.Reg.PC = m.Reg.R[baseR]

	case OpRES:
		m.Log.Error("fatal: reserved opcode executed", "pc", m.Reg.PC-1)
		return ErrFatalInstruction

	case OpLEA:
		dr := (instr >> 9) & 0x7
		off9 := signExtend(instr&0x1FF, 9)
		m.Reg.R[dr] = m.Reg.PC + off9
		m.Reg.updateFlags(dr)

	case OpTRAP:
		m.Reg.R[R7] = m.Reg.PC
		return m.dispatchTrap(instr & 0xFF)

	default:
		// Unreachable: op is 4 bits, every value 0..15 is handled above.
		return fmt.Errorf("lc3: impossible opcode %#x", op)
	}

	return nil
}
