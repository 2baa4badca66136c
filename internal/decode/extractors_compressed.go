package decode

import "fmt"

// Compressed (16-bit, "C" extension) field positions. Grounded on the
// bit-scrambling in the reference emulator's rvc decoder: a 3-bit
// compressed register field is offset by 8 to reach x8..x15.
var (
	cFieldOp     = NewField("c_op", 0, 2)
	cFieldRS2Raw = NewField("c_rs2", 2, 5)
	cFieldRDRaw  = NewField("c_rd", 7, 5)
	cFieldFunct3 = NewField("c_funct3", 13, 3)

	cFieldRS2Short = NewField("c_rs2_short", 2, 3) // compressed register, +8
	cFieldRS1Short = NewField("c_rs1_short", 7, 3) // compressed register, +8
	cFieldRDShort  = NewField("c_rd_short", 2, 3)  // compressed register, +8

	cFieldFunct4 = NewField("c_funct4", 12, 4)
)

func compressedReg(word uint64, f Field) uint64 { return f.Extract(word) + 8 }

// CRFormExtractor decodes the CR (compressed register) sub-format, used by
// c.mv/c.add/c.jr/c.jalr. Mnemonics of this form are told apart only by
// their c_funct4 stencil bits (c.jr 0x8, c.add 0x9); this extractor applies
// no rs2==0 test, so a split on c_rs2 needs a JSON overlay that matches it.
type CRFormExtractor struct{}

func (CRFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	rdRs1 := cFieldRDRaw.Extract(opcode)
	rs2 := cFieldRS2Raw.Extract(opcode)
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, rdRs1),
			regOperand(meta, FieldRS2, true, rs2),
		},
		Dests: []OperandInfo{
			regOperand(meta, FieldRD, false, rdRs1),
		},
	}
}

func (CRFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, x%d", mnemonic, cFieldRDRaw.Extract(opcode), cFieldRS2Raw.Extract(opcode))
}

func (e CRFormExtractor) Clone() Extractor { return e }

// CIFormExtractor decodes the CI (compressed immediate) sub-format, used by
// c.addi/c.li/c.lui/c.lwsp/c.addi16sp etc. The raw 6-bit immediate
// (imm[5]=bit12, imm[4:0]=bits[6:2]) is exposed unshifted and sign-extended
// via CISignedImmediate for every mnemonic of this form; the different
// bit-scrambles of c.lui, c.addi16sp and c.lwsp are not reassembled.
type CIFormExtractor struct{}

var (
	cFieldImmHi = NewField("c_imm_hi", 12, 1)
	cFieldImmLo = NewField("c_imm_lo", 2, 5)
)

// CISignedImmediate reassembles the CI-format 6-bit sign-extended immediate.
func CISignedImmediate(opcode uint64) int64 {
	raw := (cFieldImmHi.Extract(opcode) << 5) | cFieldImmLo.Extract(opcode)
	if raw&(1<<5) != 0 {
		raw |= ^uint64(0x3F)
	}
	return int64(raw)
}

func (CIFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	rd := cFieldRDRaw.Extract(opcode)
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, rd),
		},
		Dests: []OperandInfo{
			regOperand(meta, FieldRD, false, rd),
		},
		Immediate:    CISignedImmediate(opcode),
		HasImmediate: true,
	}
}

func (CIFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, %d", mnemonic, cFieldRDRaw.Extract(opcode), CISignedImmediate(opcode))
}

func (e CIFormExtractor) Clone() Extractor { return e }

// CSSFormExtractor decodes the CSS (compressed stack-relative store) sub-
// format, used by c.swsp/c.sdsp.
type CSSFormExtractor struct{}

var cFieldImmCSS = NewField("c_imm_css", 7, 6)

func (CSSFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	rs2 := cFieldRS2Raw.Extract(opcode)
	data := regOperand(meta, FieldRS2, true, rs2)
	data.IsStoreVal = true
	sp := regOperand(meta, FieldRS1, true, 2) // x2 == sp, implied
	sp.Implied = true
	return OpInfo{
		Mnemonic:     mnemonic,
		UID:          uid,
		Opcode:       opcode,
		Sources:      []OperandInfo{sp, data},
		Immediate:    int64(cFieldImmCSS.Extract(opcode)),
		HasImmediate: true,
	}
}

func (CSSFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, %d(sp)", mnemonic, cFieldRS2Raw.Extract(opcode), cFieldImmCSS.Extract(opcode))
}

func (e CSSFormExtractor) Clone() Extractor { return e }

// CIWFormExtractor decodes the CIW (compressed wide immediate) sub-format,
// used by c.addi4spn.
type CIWFormExtractor struct{}

var cFieldImmCIW = NewField("c_imm_ciw", 5, 8)

func (CIWFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	rd := compressedReg(opcode, cFieldRDShort)
	sp := regOperand(meta, FieldRS1, true, 2)
	sp.Implied = true
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources:  []OperandInfo{sp},
		Dests: []OperandInfo{
			regOperand(meta, FieldRD, false, rd),
		},
		Immediate:    int64(cFieldImmCIW.Extract(opcode)),
		HasImmediate: true,
	}
}

func (CIWFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, %d(sp)", mnemonic, compressedReg(opcode, cFieldRDShort), cFieldImmCIW.Extract(opcode))
}

func (e CIWFormExtractor) Clone() Extractor { return e }

// CLFormExtractor decodes the CL (compressed load) sub-format, used by
// c.lw/c.ld and, per the Zclsd scenario, a paired-destination c.ld variant
// on RV32.
type CLFormExtractor struct {
	// PairedDest, when true, produces a second destination register
	// (rd+1) — the RV32 Zclsd "two integer destinations" scenario. The
	// builder's extractorFor selects this for a CL-form "ld" mnemonic with
	// data 64 and the "zclsd" tag. An odd rd marks the OpInfo IsIllop, so
	// MakeInst rejects that encoding with IllegalOpcodeError.
	PairedDest bool
}

var cFieldImmCL = NewField("c_imm_cl", 10, 3)
var cFieldImmCL2 = NewField("c_imm_cl2", 5, 2)

func (e CLFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	rs1 := compressedReg(opcode, cFieldRS1Short)
	rd := compressedReg(opcode, cFieldRDShort)
	imm := (cFieldImmCL.Extract(opcode) << 3) | (cFieldImmCL2.Extract(opcode) << 1)
	dests := []OperandInfo{regOperand(meta, FieldRD, false, rd)}
	if e.PairedDest {
		dests = append(dests, regOperand(meta, FieldRD2, false, rd+1))
	}
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, rs1),
		},
		Dests:        dests,
		Immediate:    int64(imm),
		HasImmediate: true,
		IsIllop:      e.PairedDest && rd%2 != 0,
	}
}

func (e CLFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, (x%d)", mnemonic, compressedReg(opcode, cFieldRDShort), compressedReg(opcode, cFieldRS1Short))
}

func (e CLFormExtractor) Clone() Extractor { return e }

// CSFormExtractor decodes the CS (compressed store) sub-format, used by
// c.sw/c.sd.
type CSFormExtractor struct{}

func (CSFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	rs1 := compressedReg(opcode, cFieldRS1Short)
	rs2 := compressedReg(opcode, cFieldRS2Short)
	data := regOperand(meta, FieldRS2, true, rs2)
	data.IsStoreVal = true
	imm := (cFieldImmCL.Extract(opcode) << 3) | (cFieldImmCL2.Extract(opcode) << 1)
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, rs1),
			data,
		},
		Immediate:    int64(imm),
		HasImmediate: true,
	}
}

func (CSFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s x%d, (x%d)", mnemonic, compressedReg(opcode, cFieldRS2Short), compressedReg(opcode, cFieldRS1Short))
}

func (e CSFormExtractor) Clone() Extractor { return e }

// CBFormExtractor decodes the CB (compressed branch) sub-format, used by
// c.beqz/c.bnez, and doubles as the shift-immediate encoding for
// c.srli/c.srai/c.andi via the ImmediateOnly flag.
type CBFormExtractor struct {
	ImmediateOnly bool // true for c.srli/c.srai/c.andi (no branch offset semantics)

	// ImpliedImmediate, when set, is used verbatim as the decoded immediate
	// instead of reading cbOffset/shamt from the opcode word — the Zcb
	// misc-alu forms (c.zext.b, c.zext.h, ...) encode rd'/rs1' in the same
	// bit positions as a CB branch but carry no immediate of their own; the
	// single register doubles as both source and destination.
	ImpliedImmediate *int64
}

var (
	cFieldBOff12_10 = NewField("c_boff_hi", 10, 3)
	cFieldBOff6_2   = NewField("c_boff_lo", 2, 5)
)

func cbOffset(opcode uint64) int64 {
	raw := (cFieldBOff12_10.Extract(opcode) << 5) | cFieldBOff6_2.Extract(opcode)
	// bit layout per reference decoder: imm[8|4:3]=hi, imm[7:6|2:1|5]=lo,
	// scrambled; captured here as the documented permutation.
	scrambled := ((raw >> 7 & 0x1) << 8) | ((raw >> 5 & 0x3) << 3) | ((raw >> 3 & 0x3) << 6) | ((raw >> 1 & 0x3) << 1) | ((raw & 0x1) << 5)
	if scrambled&(1<<8) != 0 {
		scrambled |= ^uint64(0x1FF)
	}
	return int64(scrambled)
}

func (e CBFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	rs1 := compressedReg(opcode, cFieldRS1Short)
	if e.ImpliedImmediate != nil {
		return OpInfo{
			Mnemonic: mnemonic,
			UID:      uid,
			Opcode:   opcode,
			Sources: []OperandInfo{
				regOperand(meta, FieldRS1, true, rs1),
			},
			Dests: []OperandInfo{
				regOperand(meta, FieldRD, false, rs1),
			},
			Immediate:        *e.ImpliedImmediate,
			HasImmediate:     true,
			ImmediateImplied: true,
		}
	}
	if e.ImmediateOnly {
		shamt := (cFieldBOff12_10.Extract(opcode)&0x1)<<5 | cFieldBOff6_2.Extract(opcode)
		return OpInfo{
			Mnemonic: mnemonic,
			UID:      uid,
			Opcode:   opcode,
			Sources: []OperandInfo{
				regOperand(meta, FieldRS1, true, rs1),
			},
			Dests: []OperandInfo{
				regOperand(meta, FieldRD, false, rs1),
			},
			Immediate:    int64(shamt),
			HasImmediate: true,
		}
	}
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Sources: []OperandInfo{
			regOperand(meta, FieldRS1, true, rs1),
		},
		Immediate:    cbOffset(opcode),
		HasImmediate: true,
	}
}

func (e CBFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	if e.ImpliedImmediate != nil {
		return fmt.Sprintf("%s x%d", mnemonic, compressedReg(opcode, cFieldRS1Short))
	}
	return fmt.Sprintf("%s x%d, %d", mnemonic, compressedReg(opcode, cFieldRS1Short), cbOffset(opcode))
}

func (e CBFormExtractor) Clone() Extractor { return e }

// CJFormExtractor decodes the CJ (compressed jump) sub-format, used by
// c.j/c.jal.
type CJFormExtractor struct{}

var cFieldJTarget = NewField("c_jtarget", 2, 11)

func cjOffset(opcode uint64) int64 {
	raw := cFieldJTarget.Extract(opcode)
	// bit layout per reference decoder: imm[11|4|9:8|10|6|7|3:1|5],
	// scrambled from the 11 raw bits.
	b := func(n uint) uint64 { return (raw >> n) & 1 }
	scrambled := b(10)<<11 | b(9)<<4 | b(8)<<9 | b(7)<<8 | b(6)<<10 | b(5)<<6 | b(4)<<7 |
		b(3)<<3 | b(2)<<2 | b(1)<<1 | b(0)<<5
	if scrambled&(1<<11) != 0 {
		scrambled |= ^uint64(0xFFF)
	}
	return int64(scrambled)
}

func (CJFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	return OpInfo{
		Mnemonic:     mnemonic,
		UID:          uid,
		Opcode:       opcode,
		Immediate:    cjOffset(opcode),
		HasImmediate: true,
	}
}

func (CJFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	return fmt.Sprintf("%s %d", mnemonic, cjOffset(opcode))
}

func (e CJFormExtractor) Clone() Extractor { return e }
