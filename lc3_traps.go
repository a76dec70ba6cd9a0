package main

import "errors"

// errHalt unwinds Step/Run on a clean HALT trap. It never escapes Run,
// which translates it back into a nil error.
var errHalt = errors.New("lc3: halt")

// trapTable dispatches on trapvect8, the low 8 bits of a TRAP instruction.
// Unlike the main opcode switch in Step, new trap codes are data rather than
// control flow, so a lookup table is the natural fit here; spec.md's
// exhaustive-switch preference applies to the 16 opcodes, not to this
// six-entry, open-ended vector space.
var trapTable = map[uint16]func(*Machine) error{
	TrapGETC:  trapGETC,
	TrapOUT:   trapOUT,
	TrapPUTS:  trapPUTS,
	TrapIN:    trapIN,
	TrapPUTSP: trapPUTSP,
	TrapHALT:  trapHALT,
}

// dispatchTrap runs the service routine selected by vect, or treats an
// unrecognized vector as a no-op. The reference interpreter leaves this case
// undefined; this implementation logs it at Warn level rather than silently
// mis-executing, continues, and otherwise leaves all state untouched.
func (m *Machine) dispatchTrap(vect uint16) error {
	fn, ok := trapTable[vect]
	if !ok {
		m.Log.Warn("unsupported trap code ignored", "vect", vect)
		return nil
	}
	return fn(m)
}

// trapGETC blocks for one input byte into R0, with no echo, and updates
// flags on R0.
func trapGETC(m *Machine) error {
	b, err := m.Mem.host.ReadByte()
	if err != nil {
		return errHostIOf(err)
	}
	m.Reg.R[R0] = uint16(b)
	m.Reg.updateFlags(R0)
	return nil
}

// trapOUT writes the low byte of R0 and flushes.
func trapOUT(m *Machine) error {
	if err := m.Mem.host.WriteByte(byte(m.Reg.R[R0])); err != nil {
		return errHostIOf(err)
	}
	return flushHost(m)
}

// trapPUTS writes successive word low-bytes starting at R0 as characters
// until a zero word, then flushes. Each memory word is one character.
func trapPUTS(m *Machine) error {
	for addr := m.Reg.R[R0]; ; addr++ {
		w := m.Mem.Read(addr)
		if w == 0 {
			break
		}
		if err := m.Mem.host.WriteByte(byte(w)); err != nil {
			return errHostIOf(err)
		}
	}
	return flushHost(m)
}

// trapIN prompts, blocks for one input byte, echoes it, flushes, loads R0
// and updates flags on R0.
func trapIN(m *Machine) error {
	const prompt = "Enter a character: "
	for i := 0; i < len(prompt); i++ {
		if err := m.Mem.host.WriteByte(prompt[i]); err != nil {
			return errHostIOf(err)
		}
	}
	b, err := m.Mem.host.ReadByte()
	if err != nil {
		return errHostIOf(err)
	}
	if err := m.Mem.host.WriteByte(b); err != nil {
		return errHostIOf(err)
	}
	m.Reg.R[R0] = uint16(b)
	m.Reg.updateFlags(R0)
	return flushHost(m)
}

// trapPUTSP writes two characters per word starting at R0, low byte first
// then high byte (if non-zero), stopping at a zero word, then flushes.
func trapPUTSP(m *Machine) error {
	for addr := m.Reg.R[R0]; ; addr++ {
		w := m.Mem.Read(addr)
		if w == 0 {
			break
		}
		if err := m.Mem.host.WriteByte(byte(w & 0xFF)); err != nil {
			return errHostIOf(err)
		}
		if hi := byte(w >> 8); hi != 0 {
			if err := m.Mem.host.WriteByte(hi); err != nil {
				return errHostIOf(err)
			}
		}
	}
	return flushHost(m)
}

// trapHALT prints the halt banner, flushes, and signals Run to stop.
func trapHALT(m *Machine) error {
	const msg = "HALT\n"
	for i := 0; i < len(msg); i++ {
		if err := m.Mem.host.WriteByte(msg[i]); err != nil {
			return errHostIOf(err)
		}
	}
	if err := flushHost(m); err != nil {
		return err
	}
	m.Log.Info("halt trap executed")
	return errHalt
}

func flushHost(m *Machine) error {
	if err := m.Mem.host.Flush(); err != nil {
		return errHostIOf(err)
	}
	return nil
}

func errHostIOf(err error) error {
	return errors.Join(ErrHostIO, err)
}
