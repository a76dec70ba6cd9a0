package main

// Memory is the LC-3's full 65,536-word address space. Two addresses are
// memory-mapped to the keyboard; every other address is a plain cell.
type Memory struct {
	cells [1 << 16]uint16
	host  HostIO
}

// NewMemory returns a zeroed address space wired to the given host I/O port.
// host may be nil for tests that never touch KBSR/KBDR.
func NewMemory(host HostIO) *Memory {
	return &Memory{host: host}
}

// Read returns mem[addr]. A read of KBSR first re-polls the host: if a key
// is ready, KBSR is set to 0x8000 and KBDR is latched with the next input
// byte; otherwise KBSR is cleared. If that read fails, KBSR is cleared and
// the error is not reported. This is the point at which a host
// keystroke is actually consumed — a correct LC-3 program reads KBSR, tests
// bit 15, then reads KBDR.
func (m *Memory) Read(addr uint16) uint16 {
	if addr == MMIOKBSR {
		m.pollKeyboard()
	}
	return m.cells[addr]
}

// Write performs a plain store. Writes to KBSR/KBDR carry no special
// semantics.
func (m *Memory) Write(addr uint16, val uint16) {
	m.cells[addr] = val
}

func (m *Memory) pollKeyboard() {
	if m.host == nil || !m.host.Poll() {
		m.cells[MMIOKBSR] = 0
		return
	}
	b, err := m.host.ReadByte()
	if err != nil {
		m.cells[MMIOKBSR] = 0
		return
	}
	m.cells[MMIOKBSR] = 0x8000
	m.cells[MMIOKBDR] = uint16(b) & 0xFF
}
