package main

import (
	"errors"
	"testing"
)

func newTestMachine() (*Machine, *BufferedHostIO) {
	host := NewBufferedHostIO()
	m := NewMachine(host, nil)
	return m, host
}

// load writes words starting at PCStart and resets PC there.
func load(m *Machine, words ...uint16) {
	for i, w := range words {
		m.Mem.Write(PCStart+uint16(i), w)
	}
	m.Reg.PC = PCStart
}

func TestStepADDImmediate(t *testing.T) {
	m, _ := newTestMachine()
	// ADD R0, R0, #5  (R0 starts at 0)
	load(m, 0x1025)
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m.Reg.R[R0] != 5 {
		t.Fatalf("R0 = %d, want 5", m.Reg.R[R0])
	}
	if m.Reg.COND != FlagP {
		t.Fatalf("COND = %#03b, want P", m.Reg.COND)
	}
}

func TestStepADDNegativeImmediate(t *testing.T) {
	m, _ := newTestMachine()
	// ADD R1, R1, #-1 (imm5 = 0x1F), R1 starts at 0
	load(m, 0x127F)
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if int16(m.Reg.R[R1]) != -1 {
		t.Fatalf("R1 = %d, want -1", int16(m.Reg.R[R1]))
	}
	if m.Reg.COND != FlagN {
		t.Fatalf("COND = %#03b, want N", m.Reg.COND)
	}
}

func TestStepLDI(t *testing.T) {
	m, _ := newTestMachine()
	// LDI R2, #1 -> after the fetch increment PC = PCStart+1, so the
	// pointer cell is read from PC+1 = PCStart+2.
	load(m, 0xA401, 0x0000, 0x4000)
	m.Mem.Write(0x4000, 0x7777)
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m.Reg.R[R2] != 0x7777 {
		t.Fatalf("R2 = %#04x, want 0x7777", m.Reg.R[R2])
	}
}

func TestStepBRTaken(t *testing.T) {
	m, _ := newTestMachine()
	m.Reg.COND = FlagZ
	// BRz #3
	load(m, 0x0403)
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m.Reg.PC != PCStart+1+3 {
		t.Fatalf("PC = %#04x, want %#04x", m.Reg.PC, PCStart+1+3)
	}
}

func TestStepBRNotTaken(t *testing.T) {
	m, _ := newTestMachine()
	m.Reg.COND = FlagP
	// BRz #3 (COND is P, branch not taken)
	load(m, 0x0403)
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m.Reg.PC != PCStart+1 {
		t.Fatalf("PC = %#04x, want %#04x (branch must not be taken)", m.Reg.PC, PCStart+1)
	}
}

func TestStepJSRLong(t *testing.T) {
	m, _ := newTestMachine()
	// JSR #5 (long form, bit 11 set)
	load(m, 0x4805)
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m.Reg.R[R7] != PCStart+1 {
		t.Fatalf("R7 = %#04x, want %#04x (return address)", m.Reg.R[R7], PCStart+1)
	}
	if m.Reg.PC != PCStart+1+5 {
		t.Fatalf("PC = %#04x, want %#04x", m.Reg.PC, PCStart+1+5)
	}
}

func TestStepJSRRShort(t *testing.T) {
	m, _ := newTestMachine()
	m.Reg.R[R3] = 0x4000
	// JSRR R3 (bit 11 clear)
	load(m, 0x40C0)
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m.Reg.PC != 0x4000 {
		t.Fatalf("PC = %#04x, want 0x4000", m.Reg.PC)
	}
}

func TestStepNOTTwiceIsIdentity(t *testing.T) {
	m, _ := newTestMachine()
	m.Reg.R[R0] = 0x00F0
	// NOT R1, R0 ; NOT R2, R1
	load(m, 0x923F, 0x947F)
	if err := m.Step(); err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	if err := m.Step(); err != nil {
		t.Fatalf("Step 2: %v", err)
	}
	if m.Reg.R[R2] != 0x00F0 {
		t.Fatalf("R2 = %#04x, want 0x00F0 (double NOT must be identity)", m.Reg.R[R2])
	}
}

func TestStepANDWithAllOnesIsIdentity(t *testing.T) {
	m, _ := newTestMachine()
	m.Reg.R[R0] = 0x1234
	m.Reg.R[R1] = 0xFFFF
	// AND R2, R0, R1
	load(m, 0x5401)
	if err := m.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if m.Reg.R[R2] != 0x1234 {
		t.Fatalf("R2 = %#04x, want 0x1234", m.Reg.R[R2])
	}
}

func TestStepReservedOpcodesAreFatal(t *testing.T) {
	for _, tc := range []struct {
		name  string
		instr uint16
	}{
		{"RTI", 0x8000},
		{"RES", 0xD000},
	} {
		m, _ := newTestMachine()
		load(m, tc.instr)
		err := m.Step()
		if !errors.Is(err, ErrFatalInstruction) {
			t.Errorf("%s: Step error = %v, want ErrFatalInstruction", tc.name, err)
		}
	}
}

func TestRunHaltsCleanly(t *testing.T) {
	m, host := newTestMachine()
	// TRAP HALT
	load(m, 0xF025)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := host.DrainOutput(); got != "HALT\n" {
		t.Fatalf("output = %q, want %q", got, "HALT\n")
	}
}

func TestConditionCodeAlwaysOneHot(t *testing.T) {
	m, _ := newTestMachine()
	for _, v := range []uint16{0, 1, 0x7FFF, 0x8000, 0xFFFF} {
		m.Reg.R[R0] = v
		m.Reg.updateFlags(R0)
		c := m.Reg.COND
		if c != FlagN && c != FlagZ && c != FlagP {
			t.Fatalf("COND = %#03b for R0=%#04x, want exactly one of N/Z/P", c, v)
		}
	}
}
