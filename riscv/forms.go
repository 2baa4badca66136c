// Package riscv wires the generic decode engine to concrete RISC-V forms,
// a concrete decoded-instruction type, and register/ABI tables.
package riscv

import "github.com/keurnel/rvdecode/internal/decode"

// field is a small local alias kept private to this file's form-building
// helpers; the real bit layout lives in internal/decode's built-in
// extractors, which already hard-code the standard RISC-V field positions.
// Forms here exist to give the builder something to look up by name and to
// compute each factory's opcode-field mask.
func field(name string, lsb, width uint) decode.Field {
	return decode.NewField(name, lsb, width)
}

// RegisterBuiltinForms installs every standard RISC-V form the bundled
// extractors know how to decode into reg. Callers building a custom
// variant may register additional forms of their own (for experimental
// extensions) before constructing a context.
func RegisterBuiltinForms(reg *decode.FormRegistry) {
	opcode := field("opcode", 0, 7)
	rd := field("rd", 7, 5)
	funct3 := field("funct3", 12, 3)
	rs1 := field("rs1", 15, 5)
	rs2 := field("rs2", 20, 5)
	funct7 := field("funct7", 25, 7)

	reg.Register(decode.Form{
		Name:         "R",
		Fields:       []decode.Field{opcode, rd, funct3, rs1, rs2, funct7},
		OpcodeFields: []decode.Field{opcode, funct3, funct7},
	})
	reg.Register(decode.Form{
		Name:         "I",
		Fields:       []decode.Field{opcode, rd, funct3, rs1, field("imm", 20, 12)},
		OpcodeFields: []decode.Field{opcode, funct3},
	})
	reg.Register(decode.Form{
		Name: "S",
		Fields: []decode.Field{opcode, field("imm_lo", 7, 5), funct3, rs1, rs2,
			field("imm_hi", 25, 7)},
		OpcodeFields: []decode.Field{opcode, funct3},
	})
	reg.Register(decode.Form{
		Name: "B",
		Fields: []decode.Field{opcode, field("imm11", 7, 1), field("imm4_1", 8, 4), funct3,
			rs1, rs2, field("imm10_5", 25, 6), field("imm12", 31, 1)},
		OpcodeFields: []decode.Field{opcode, funct3},
	})
	reg.Register(decode.Form{
		Name:         "U",
		Fields:       []decode.Field{opcode, rd, field("imm20", 12, 20)},
		OpcodeFields: []decode.Field{opcode},
	})
	reg.Register(decode.Form{
		Name: "J",
		Fields: []decode.Field{opcode, rd, field("imm19_12", 12, 8), field("imm11", 20, 1),
			field("imm10_1", 21, 10), field("imm20", 31, 1)},
		OpcodeFields: []decode.Field{opcode},
	})
	reg.Register(decode.Form{
		Name:         "AMO",
		Fields:       []decode.Field{opcode, rd, funct3, rs1, rs2, field("rl", 25, 1), field("aq", 26, 1), field("funct5", 27, 5)},
		OpcodeFields: []decode.Field{opcode, funct3, field("funct5", 27, 5)},
	})

	c := field("c_op", 0, 2)
	cFunct3 := field("c_funct3", 13, 3)
	cFunct4 := field("c_funct4", 12, 4)
	reg.Register(decode.Form{
		Name:         "CR",
		Fields:       []decode.Field{c, field("c_rs2", 2, 5), field("c_rd", 7, 5), cFunct4},
		OpcodeFields: []decode.Field{c, cFunct4},
	})
	reg.Register(decode.Form{
		Name:         "CI",
		Fields:       []decode.Field{c, field("c_imm_lo", 2, 5), field("c_rd", 7, 5), field("c_imm_hi", 12, 1), cFunct3},
		OpcodeFields: []decode.Field{c, cFunct3},
	})
	reg.Register(decode.Form{
		Name:         "CSS",
		Fields:       []decode.Field{c, field("c_rs2", 2, 5), field("c_imm_css", 7, 6), cFunct3},
		OpcodeFields: []decode.Field{c, cFunct3},
	})
	reg.Register(decode.Form{
		Name:         "CIW",
		Fields:       []decode.Field{c, field("c_rd_short", 2, 3), field("c_imm_ciw", 5, 8), cFunct3},
		OpcodeFields: []decode.Field{c, cFunct3},
	})
	reg.Register(decode.Form{
		Name: "CL",
		Fields: []decode.Field{c, field("c_rd_short", 2, 3), field("c_imm_cl2", 5, 2), field("c_rs1_short", 7, 3),
			field("c_imm_cl", 10, 3), cFunct3},
		OpcodeFields: []decode.Field{c, cFunct3},
	})
	reg.Register(decode.Form{
		Name: "CS",
		Fields: []decode.Field{c, field("c_rs2_short", 2, 3), field("c_imm_cl2", 5, 2), field("c_rs1_short", 7, 3),
			field("c_imm_cl", 10, 3), cFunct3},
		OpcodeFields: []decode.Field{c, cFunct3},
	})
	reg.Register(decode.Form{
		Name: "CB",
		Fields: []decode.Field{c, field("c_boff_lo", 2, 5), field("c_rs1_short", 7, 3),
			field("c_boff_hi", 10, 3), cFunct3},
		OpcodeFields: []decode.Field{c, cFunct3},
	})
	reg.Register(decode.Form{
		Name:         "CJ",
		Fields:       []decode.Field{c, field("c_jtarget", 2, 11), cFunct3},
		OpcodeFields: []decode.Field{c, cFunct3},
	})

	vOpcode := field("v_opcode", 0, 7)
	vVD := field("v_vd", 7, 5)
	vFunct3 := field("v_funct3", 12, 3)
	vVS1 := field("v_vs1", 15, 5)
	vVS2 := field("v_vs2", 20, 5)
	vVM := field("v_vm", 25, 1)
	vFunct6 := field("v_funct6", 26, 6)
	reg.Register(decode.Form{
		Name:         "V",
		Fields:       []decode.Field{vOpcode, vVD, vFunct3, vVS1, vVS2, vVM, vFunct6},
		OpcodeFields: []decode.Field{vOpcode, vFunct3, vVS1, vVS2, vVM, vFunct6},
	})
}
