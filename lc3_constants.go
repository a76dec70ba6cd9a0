package main

// Opcodes occupy bits 15..12 of every instruction word. All 16 slots are
// covered: 13 are implemented, RTI and RES are reserved and abort the
// machine, and TRAP dispatches to a service routine table.
const (
	OpBR   = 0x0
	OpADD  = 0x1
	OpLD   = 0x2
	OpST   = 0x3
	OpJSR  = 0x4
	OpAND  = 0x5
	OpLDR  = 0x6
	OpSTR  = 0x7
	OpRTI  = 0x8
	OpNOT  = 0x9
	OpLDI  = 0xA
	OpSTI  = 0xB
	OpJMP  = 0xC
	OpRES  = 0xD
	OpLEA  = 0xE
	OpTRAP = 0xF
)

// Register file indices. R0..R7 are addressed 0..7; PC and COND are held
// separately since no instruction encoding ever names them as a DR/SR.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	RegCount
)

// Condition flags are one-hot: exactly one of N, Z, P is set after any
// instruction that runs through updateFlags.
const (
	FlagN uint16 = 1 << 2 // 0b100
	FlagZ uint16 = 1 << 1 // 0b010
	FlagP uint16 = 1 << 0 // 0b001
)

// PCStart is the fixed entry point for every LC-3 program image.
const PCStart uint16 = 0x3000

// Memory-mapped keyboard status/data registers.
const (
	MMIOKBSR uint16 = 0xFE00
	MMIOKBDR uint16 = 0xFE02
)

// Trap vectors, selected by the low 8 bits of a TRAP instruction.
const (
	TrapGETC  = 0x20
	TrapOUT   = 0x21
	TrapPUTS  = 0x22
	TrapIN    = 0x23
	TrapPUTSP = 0x24
	TrapHALT  = 0x25
)
