package cpu

import "fmt"

// Reg8 selects an 8-bit operand in the order the opcode encodes it.
// RegHLInd is the byte at (HL), not a register.
type Reg8 uint8

const (
	RegB Reg8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegHLInd
	RegA
)

var reg8Names = [...]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func (r Reg8) String() string {
	if int(r) < len(reg8Names) {
		return reg8Names[r]
	}
	return fmt.Sprintf("Reg8(%d)", uint8(r))
}

// Reg16 selects a register pair.
type Reg16 uint8

const (
	RegBC Reg16 = iota
	RegDE
	RegHL
	RegSP
	RegAF
)

var reg16Names = [...]string{"BC", "DE", "HL", "SP", "AF"}

func (r Reg16) String() string {
	if int(r) < len(reg16Names) {
		return reg16Names[r]
	}
	return fmt.Sprintf("Reg16(%d)", uint8(r))
}

// Condition is a branch condition. Always marks the unconditional forms.
type Condition uint8

const (
	CondNZ Condition = iota
	CondZ
	CondNC
	CondC
	Always
)

var conditionNames = [...]string{"NZ", "Z", "NC", "C", ""}

func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return fmt.Sprintf("Condition(%d)", uint8(c))
}

// ALUOp is one of the eight accumulator operations of the 0x80-0xBF block.
type ALUOp uint8

const (
	OpAdd ALUOp = iota
	OpAdc
	OpSub
	OpSbc
	OpAnd
	OpXor
	OpOr
	OpCp
)

var aluNames = [...]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}

// ShiftOp is one of the eight rotate/shift operations of the CB 0x00-0x3F block.
type ShiftOp uint8

const (
	OpRLC ShiftOp = iota
	OpRRC
	OpRL
	OpRR
	OpSLA
	OpSRA
	OpSWAP
	OpSRL
)

var shiftNames = [...]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

// Indirect selects the (BC)/(DE)/(HL+)/(HL-) load family.
type Indirect uint8

const (
	IndBC Indirect = iota
	IndDE
	IndHLI
	IndHLD
)

var indirectNames = [...]string{"(BC)", "(DE)", "(HL+)", "(HL-)"}

// Operation is one decoded instruction. The set of implementations is
// closed: only the types in this file satisfy it.
type Operation interface {
	fmt.Stringer
	// Len is the encoded size in bytes, prefix included.
	Len() uint16
	operation()
}

type (
	Nop  struct{}
	Halt struct{}
	Stop struct{}
	DI   struct{}
	EI   struct{}
	DAA  struct{}
	CPL  struct{}
	SCF  struct{}
	CCF  struct{}

	// RotateA is RLCA/RRCA/RLA/RRA. Only the four rotates are valid.
	RotateA struct{ Op ShiftOp }

	// Load8 is LD r,r' including the (HL) forms.
	Load8 struct{ Dst, Src Reg8 }
	// Load8Imm is LD r,d8 and LD (HL),d8.
	Load8Imm struct {
		Dst   Reg8
		Value uint8
	}
	// Load16Imm is LD rr,d16.
	Load16Imm struct {
		Dst   Reg16
		Value uint16
	}
	// StoreIndirect is LD (BC)/(DE)/(HL+)/(HL-),A.
	StoreIndirect struct{ Mode Indirect }
	// LoadIndirect is LD A,(BC)/(DE)/(HL+)/(HL-).
	LoadIndirect struct{ Mode Indirect }
	// StoreSP is LD (a16),SP.
	StoreSP struct{ Address uint16 }
	// StoreA is LD (a16),A.
	StoreA struct{ Address uint16 }
	// LoadA is LD A,(a16).
	LoadA struct{ Address uint16 }
	// StoreHigh is LDH (a8),A or, with ViaC, LD (C),A.
	StoreHigh struct {
		Offset uint8
		ViaC   bool
	}
	// LoadHigh is LDH A,(a8) or, with ViaC, LD A,(C).
	LoadHigh struct {
		Offset uint8
		ViaC   bool
	}
	// LoadSPHL is LD SP,HL.
	LoadSPHL struct{}
	// LoadHLSP is LD HL,SP+e8.
	LoadHLSP struct{ Offset int8 }
	// AddSP is ADD SP,e8.
	AddSP struct{ Offset int8 }

	Inc8  struct{ Reg Reg8 }
	Dec8  struct{ Reg Reg8 }
	Inc16 struct{ Reg Reg16 }
	Dec16 struct{ Reg Reg16 }
	AddHL struct{ Src Reg16 }
	ALU   struct {
		Op  ALUOp
		Src Reg8
	}
	ALUImm struct {
		Op    ALUOp
		Value uint8
	}

	// JR is a relative jump, the offset is applied to the address after the instruction.
	JR struct {
		Cond   Condition
		Offset int8
	}
	JP struct {
		Cond    Condition
		Address uint16
	}
	JPHL struct{}
	Call struct {
		Cond    Condition
		Address uint16
	}
	Ret  struct{ Cond Condition }
	RetI struct{}
	// RST calls one of the eight fixed vectors 0x00-0x38.
	RST  struct{ Vector uint8 }
	Push struct{ Reg Reg16 }
	Pop  struct{ Reg Reg16 }

	// CB prefixed.
	Shift struct {
		Op  ShiftOp
		Reg Reg8
	}
	Bit struct {
		N   uint8
		Reg Reg8
	}
	Res struct {
		N   uint8
		Reg Reg8
	}
	Set struct {
		N   uint8
		Reg Reg8
	}
)

func (Nop) operation()           {}
func (Halt) operation()          {}
func (Stop) operation()          {}
func (DI) operation()            {}
func (EI) operation()            {}
func (DAA) operation()           {}
func (CPL) operation()           {}
func (SCF) operation()           {}
func (CCF) operation()           {}
func (RotateA) operation()       {}
func (Load8) operation()         {}
func (Load8Imm) operation()      {}
func (Load16Imm) operation()     {}
func (StoreIndirect) operation() {}
func (LoadIndirect) operation()  {}
func (StoreSP) operation()       {}
func (StoreA) operation()        {}
func (LoadA) operation()         {}
func (StoreHigh) operation()     {}
func (LoadHigh) operation()      {}
func (LoadSPHL) operation()      {}
func (LoadHLSP) operation()      {}
func (AddSP) operation()         {}
func (Inc8) operation()          {}
func (Dec8) operation()          {}
func (Inc16) operation()         {}
func (Dec16) operation()         {}
func (AddHL) operation()         {}
func (ALU) operation()           {}
func (ALUImm) operation()        {}
func (JR) operation()            {}
func (JP) operation()            {}
func (JPHL) operation()          {}
func (Call) operation()          {}
func (Ret) operation()           {}
func (RetI) operation()          {}
func (RST) operation()           {}
func (Push) operation()          {}
func (Pop) operation()           {}
func (Shift) operation()         {}
func (Bit) operation()           {}
func (Res) operation()           {}
func (Set) operation()           {}

func (Nop) Len() uint16  { return 1 }
func (Halt) Len() uint16 { return 1 }

// Stop is encoded as 0x10 0x00.
func (Stop) Len() uint16          { return 2 }
func (DI) Len() uint16            { return 1 }
func (EI) Len() uint16            { return 1 }
func (DAA) Len() uint16           { return 1 }
func (CPL) Len() uint16           { return 1 }
func (SCF) Len() uint16           { return 1 }
func (CCF) Len() uint16           { return 1 }
func (RotateA) Len() uint16       { return 1 }
func (Load8) Len() uint16         { return 1 }
func (Load8Imm) Len() uint16      { return 2 }
func (Load16Imm) Len() uint16     { return 3 }
func (StoreIndirect) Len() uint16 { return 1 }
func (LoadIndirect) Len() uint16  { return 1 }
func (StoreSP) Len() uint16       { return 3 }
func (StoreA) Len() uint16        { return 3 }
func (LoadA) Len() uint16         { return 3 }
func (LoadSPHL) Len() uint16      { return 1 }
func (LoadHLSP) Len() uint16      { return 2 }
func (AddSP) Len() uint16         { return 2 }
func (Inc8) Len() uint16          { return 1 }
func (Dec8) Len() uint16          { return 1 }
func (Inc16) Len() uint16         { return 1 }
func (Dec16) Len() uint16         { return 1 }
func (AddHL) Len() uint16         { return 1 }
func (ALU) Len() uint16           { return 1 }
func (ALUImm) Len() uint16        { return 2 }
func (JR) Len() uint16            { return 2 }
func (JP) Len() uint16            { return 3 }
func (JPHL) Len() uint16          { return 1 }
func (Call) Len() uint16          { return 3 }
func (Ret) Len() uint16           { return 1 }
func (RetI) Len() uint16          { return 1 }
func (RST) Len() uint16           { return 1 }
func (Push) Len() uint16          { return 1 }
func (Pop) Len() uint16           { return 1 }
func (Shift) Len() uint16         { return 2 }
func (Bit) Len() uint16           { return 2 }
func (Res) Len() uint16           { return 2 }
func (Set) Len() uint16           { return 2 }

func (op StoreHigh) Len() uint16 {
	if op.ViaC {
		return 1
	}
	return 2
}

func (op LoadHigh) Len() uint16 {
	if op.ViaC {
		return 1
	}
	return 2
}

func (Nop) String() string  { return "NOP" }
func (Halt) String() string { return "HALT" }
func (Stop) String() string { return "STOP" }
func (DI) String() string   { return "DI" }
func (EI) String() string   { return "EI" }
func (DAA) String() string  { return "DAA" }
func (CPL) String() string  { return "CPL" }
func (SCF) String() string  { return "SCF" }
func (CCF) String() string  { return "CCF" }

func (op RotateA) String() string { return shiftNames[op.Op] + "A" }
func (op Load8) String() string   { return fmt.Sprintf("LD %s,%s", op.Dst, op.Src) }
func (op Load8Imm) String() string {
	return fmt.Sprintf("LD %s,$%02X", op.Dst, op.Value)
}
func (op Load16Imm) String() string {
	return fmt.Sprintf("LD %s,$%04X", op.Dst, op.Value)
}
func (op StoreIndirect) String() string { return "LD " + indirectNames[op.Mode] + ",A" }
func (op LoadIndirect) String() string  { return "LD A," + indirectNames[op.Mode] }
func (op StoreSP) String() string       { return fmt.Sprintf("LD ($%04X),SP", op.Address) }
func (op StoreA) String() string        { return fmt.Sprintf("LD ($%04X),A", op.Address) }
func (op LoadA) String() string         { return fmt.Sprintf("LD A,($%04X)", op.Address) }

func (op StoreHigh) String() string {
	if op.ViaC {
		return "LD (C),A"
	}
	return fmt.Sprintf("LDH ($FF%02X),A", op.Offset)
}

func (op LoadHigh) String() string {
	if op.ViaC {
		return "LD A,(C)"
	}
	return fmt.Sprintf("LDH A,($FF%02X)", op.Offset)
}

func (LoadSPHL) String() string    { return "LD SP,HL" }
func (op LoadHLSP) String() string { return fmt.Sprintf("LD HL,SP%+d", op.Offset) }
func (op AddSP) String() string    { return fmt.Sprintf("ADD SP,%+d", op.Offset) }
func (op Inc8) String() string     { return "INC " + op.Reg.String() }
func (op Dec8) String() string     { return "DEC " + op.Reg.String() }
func (op Inc16) String() string    { return "INC " + op.Reg.String() }
func (op Dec16) String() string    { return "DEC " + op.Reg.String() }
func (op AddHL) String() string    { return "ADD HL," + op.Src.String() }
func (op ALU) String() string      { return aluNames[op.Op] + op.Src.String() }
func (op ALUImm) String() string   { return fmt.Sprintf("%s$%02X", aluNames[op.Op], op.Value) }
func (JPHL) String() string        { return "JP HL" }
func (RetI) String() string        { return "RETI" }
func (op RST) String() string      { return fmt.Sprintf("RST $%02X", op.Vector) }
func (op Push) String() string     { return "PUSH " + op.Reg.String() }
func (op Pop) String() string      { return "POP " + op.Reg.String() }
func (op Shift) String() string    { return shiftNames[op.Op] + " " + op.Reg.String() }
func (op Bit) String() string      { return fmt.Sprintf("BIT %d,%s", op.N, op.Reg) }
func (op Res) String() string      { return fmt.Sprintf("RES %d,%s", op.N, op.Reg) }
func (op Set) String() string      { return fmt.Sprintf("SET %d,%s", op.N, op.Reg) }

func (op JR) String() string {
	return fmt.Sprintf("JR %s%+d", condPrefix(op.Cond), op.Offset)
}

func (op JP) String() string {
	return fmt.Sprintf("JP %s$%04X", condPrefix(op.Cond), op.Address)
}

func (op Call) String() string {
	return fmt.Sprintf("CALL %s$%04X", condPrefix(op.Cond), op.Address)
}

func (op Ret) String() string {
	if op.Cond == Always {
		return "RET"
	}
	return "RET " + op.Cond.String()
}

func condPrefix(c Condition) string {
	if c == Always {
		return ""
	}
	return c.String() + ","
}
