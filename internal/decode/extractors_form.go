package decode

import "fmt"

// Standard 32-bit RISC-V field positions, shared by every R/I/S/B/U/J/AMO
// extractor below. Grounded on the LMMilewski-riscv-emu field layout
// (opcode low 7 bits, rd@7, funct3@12, rs1@15, rs2@20, funct7@25).
var (
	fieldOpcode = NewField("opcode", 0, 7)
	fieldRD     = NewField("rd", 7, 5)
	fieldFunct3 = NewField("funct3", 12, 3)
	fieldRS1    = NewField("rs1", 15, 5)
	fieldRS2    = NewField("rs2", 20, 5)
	fieldFunct7 = NewField("funct7", 25, 7)
)

// formExtractorBase carries only an operand-kind hook. No extractor in this
// package embeds it; register kinds are resolved by regOperand below through
// InstMetaData.KindFor.
type formExtractorBase struct {
	kind func(field OperandFieldID, isSource bool, meta *InstMetaData) RegisterFileKind
}

func regOperand(meta *InstMetaData, field OperandFieldID, isSource bool, num uint64) OperandInfo {
	return OperandInfo{
		Field:  field,
		Kind:   meta.KindFor(field, isSource),
		Number: uint32(num),
	}
}

// RFormExtractor decodes the R-type form: rd, rs1, rs2, funct3, funct7.
// Grounded on decode.go's R-type field extraction in the reference emulator.
type RFormExtractor struct{}

func (RFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, fieldRS1.Extract(opcode)),
			regOperand(meta, FieldRS2, true, fieldRS2.Extract(opcode)),
		},
		Dests: []OperandInfo{
			regOperand(meta, FieldRD, false, fieldRD.Extract(opcode)),
		},
	}
}

func (RFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, x%d, x%d", mnemonic, fieldRD.Extract(opcode), fieldRS1.Extract(opcode), fieldRS2.Extract(opcode))
}

func (e RFormExtractor) Clone() Extractor { return e }

// IFormExtractor decodes the I-type form: rd, rs1, a 12-bit sign-extended
// immediate.
type IFormExtractor struct{}

var fieldImm12I = NewField("imm", 20, 12)

func (IFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, fieldRS1.Extract(opcode)),
		},
		Dests: []OperandInfo{
			regOperand(meta, FieldRD, false, fieldRD.Extract(opcode)),
		},
		Immediate:    fieldImm12I.ExtractSigned(opcode),
		HasImmediate: true,
	}
}

func (IFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, x%d, %d", mnemonic, fieldRD.Extract(opcode), fieldRS1.Extract(opcode), fieldImm12I.ExtractSigned(opcode))
}

func (e IFormExtractor) Clone() Extractor { return e }

// SFormExtractor decodes the S-type (store) form: rs1 (address), rs2 (data),
// a split 12-bit sign-extended immediate.
type SFormExtractor struct{}

var (
	fieldImmSLow  = NewField("imm_lo", 7, 5)
	fieldImmSHigh = NewField("imm_hi", 25, 7)
)

func sImmediate(opcode uint64) int64 {
	raw := (fieldImmSHigh.Extract(opcode) << 5) | fieldImmSLow.Extract(opcode)
	if raw&(1<<11) != 0 {
		raw |= ^uint64(0xFFF)
	}
	return int64(raw)
}

func (SFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	addr := regOperand(meta, FieldRS1, true, fieldRS1.Extract(opcode))
	data := regOperand(meta, FieldRS2, true, fieldRS2.Extract(opcode))
	data.IsStoreVal = true
	return OpInfo{
		Mnemonic:     mnemonic,
		UID:          uid,
		Opcode:       opcode,
		Sources:      []OperandInfo{addr, data},
		Immediate:    sImmediate(opcode),
		HasImmediate: true,
	}
}

func (SFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, %d(x%d)", mnemonic, fieldRS2.Extract(opcode), sImmediate(opcode), fieldRS1.Extract(opcode))
}

func (e SFormExtractor) Clone() Extractor { return e }

// BFormExtractor decodes the B-type (branch) form: rs1, rs2, a split 13-bit
// sign-extended, 2-aligned offset.
type BFormExtractor struct{}

var (
	fieldBImm11  = NewField("imm11", 7, 1)
	fieldBImm4_1 = NewField("imm4_1", 8, 4)
	fieldBImm10  = NewField("imm10_5", 25, 6)
	fieldBImm12  = NewField("imm12", 31, 1)
)

func bImmediate(opcode uint64) int64 {
	raw := (fieldBImm12.Extract(opcode) << 12) |
		(fieldBImm11.Extract(opcode) << 11) |
		(fieldBImm10.Extract(opcode) << 5) |
		(fieldBImm4_1.Extract(opcode) << 1)
	if raw&(1<<12) != 0 {
		raw |= ^uint64(0x1FFF)
	}
	return int64(raw)
}

func (BFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, fieldRS1.Extract(opcode)),
			regOperand(meta, FieldRS2, true, fieldRS2.Extract(opcode)),
		},
		Immediate:    bImmediate(opcode),
		HasImmediate: true,
	}
}

func (BFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, x%d, %d", mnemonic, fieldRS1.Extract(opcode), fieldRS2.Extract(opcode), bImmediate(opcode))
}

func (e BFormExtractor) Clone() Extractor { return e }

// UFormExtractor decodes the U-type form: rd, a 20-bit immediate occupying
// the upper bits of the result (used as-is, already shifted by the format).
type UFormExtractor struct{}

var fieldImm20U = NewField("imm20", 12, 20)

func (UFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Dests: []OperandInfo{
			regOperand(meta, FieldRD, false, fieldRD.Extract(opcode)),
		},
		Immediate:    int64(fieldImm20U.Extract(opcode) << 12),
		HasImmediate: true,
	}
}

func (UFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, 0x%x", mnemonic, fieldRD.Extract(opcode), fieldImm20U.Extract(opcode))
}

func (e UFormExtractor) Clone() Extractor { return e }

// JFormExtractor decodes the J-type (jump) form: rd, a split 21-bit
// sign-extended, 2-aligned offset.
type JFormExtractor struct{}

var (
	fieldJImm19_12 = NewField("imm19_12", 12, 8)
	fieldJImm11    = NewField("imm11", 20, 1)
	fieldJImm10_1  = NewField("imm10_1", 21, 10)
	fieldJImm20    = NewField("imm20", 31, 1)
)

func jImmediate(opcode uint64) int64 {
	raw := (fieldJImm20.Extract(opcode) << 20) |
		(fieldJImm19_12.Extract(opcode) << 12) |
		(fieldJImm11.Extract(opcode) << 11) |
		(fieldJImm10_1.Extract(opcode) << 1)
	if raw&(1<<20) != 0 {
		raw |= ^uint64(0x1FFFFF)
	}
	return int64(raw)
}

func (JFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Dests: []OperandInfo{
			regOperand(meta, FieldRD, false, fieldRD.Extract(opcode)),
		},
		Immediate:    jImmediate(opcode),
		HasImmediate: true,
	}
}

func (JFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, %d", mnemonic, fieldRD.Extract(opcode), jImmediate(opcode))
}

func (e JFormExtractor) Clone() Extractor { return e }

// AMOFormExtractor decodes the atomic-memory-operation form: rd, rs1
// (address), rs2 (value), plus the AQ/RL special-field bits.
type AMOFormExtractor struct{}

var (
	fieldAQ = NewField("aq", 26, 1)
	fieldRL = NewField("rl", 25, 1)
)

func (AMOFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, fieldRS1.Extract(opcode)),
			regOperand(meta, FieldRS2, true, fieldRS2.Extract(opcode)),
		},
		Dests: []OperandInfo{
			regOperand(meta, FieldRD, false, fieldRD.Extract(opcode)),
		},
		Specials: map[SpecialField]int64{
			SpecialAQ: int64(fieldAQ.Extract(opcode)),
			SpecialRL: int64(fieldRL.Extract(opcode)),
		},
	}
}

func (AMOFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, x%d, (x%d)", mnemonic, fieldRD.Extract(opcode), fieldRS2.Extract(opcode), fieldRS1.Extract(opcode))
}

func (e AMOFormExtractor) Clone() Extractor { return e }

func (e AMOFormExtractor) SpecialField(kind SpecialField, opcode uint64) (int64, error) {
	switch kind {
	case SpecialAQ:
		return int64(fieldAQ.Extract(opcode)), nil
	case SpecialRL:
		return int64(fieldRL.Extract(opcode)), nil
	default:
		return 0, &UnsupportedSpecialFieldError{Field: kind, Mnemonic: "amo"}
	}
}
