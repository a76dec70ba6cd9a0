package main

import "fmt"

// Disassemble renders a single LC-3 instruction word as text for
// diagnostics; the interpreter loop itself does not call it. It is not an
// interactive debugger: it reads no further instructions than the one word
// it is given and holds no breakpoint or stepping state.
func Disassemble(word uint16) string {
	op := word >> 12
	dr := (word >> 9) & 0x7
	sr1 := (word >> 6) & 0x7
	sr2 := word & 0x7

	switch op {
	case OpBR:
		n, z, p := (word>>11)&1, (word>>10)&1, (word>>9)&1
		return fmt.Sprintf("BR%s%s%s #%d", bit(n, "n"), bit(z, "z"), bit(p, "p"), int16(signExtend(word&0x1FF, 9)))
	case OpADD:
		if (word>>5)&1 != 0 {
			return fmt.Sprintf("ADD R%d, R%d, #%d", dr, sr1, int16(signExtend(word&0x1F, 5)))
		}
		return fmt.Sprintf("ADD R%d, R%d, R%d", dr, sr1, sr2)
	case OpLD:
		return fmt.Sprintf("LD R%d, #%d", dr, int16(signExtend(word&0x1FF, 9)))
	case OpST:
		return fmt.Sprintf("ST R%d, #%d", dr, int16(signExtend(word&0x1FF, 9)))
	case OpJSR:
		if (word>>11)&1 != 0 {
			return fmt.Sprintf("JSR #%d", int16(signExtend(word&0x7FF, 11)))
		}
		return fmt.Sprintf("JSRR R%d", sr1)
	case OpAND:
		if (word>>5)&1 != 0 {
			return fmt.Sprintf("AND R%d, R%d, #%d", dr, sr1, int16(signExtend(word&0x1F, 5)))
		}
		return fmt.Sprintf("AND R%d, R%d, R%d", dr, sr1, sr2)
	case OpLDR:
		return fmt.Sprintf("LDR R%d, R%d, #%d", dr, sr1, int16(signExtend(word&0x3F, 6)))
	case OpSTR:
		return fmt.Sprintf("STR R%d, R%d, #%d", dr, sr1, int16(signExtend(word&0x3F, 6)))
	case OpRTI:
		return "RTI"
	case OpNOT:
		return fmt.Sprintf("NOT R%d, R%d", dr, sr1)
	case OpLDI:
		return fmt.Sprintf("LDI R%d, #%d", dr, int16(signExtend(word&0x1FF, 9)))
	case OpSTI:
		return fmt.Sprintf("STI R%d, #%d", dr, int16(signExtend(word&0x1FF, 9)))
	case OpJMP:
		if sr1 == R7 {
			return "RET"
		}
		return fmt.Sprintf("JMP R%d", sr1)
	case OpRES:
		return "RES"
	case OpLEA:
		return fmt.Sprintf("LEA R%d, #%d", dr, int16(signExtend(word&0x1FF, 9)))
	case OpTRAP:
		return fmt.Sprintf("TRAP %#02x", word&0xFF)
	default:
		return fmt.Sprintf(".WORD %#04x", word)
	}
}

func bit(v uint16, name string) string {
	if v != 0 {
		return name
	}
	return ""
}
