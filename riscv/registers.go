package riscv

import "fmt"

// Register describes one entry of a register file: its encoding number,
// canonical name, and ABI alias.
type Register struct {
	Number uint32
	Name   string
	ABI    string
}

// IntegerRegisters is the x0..x31 integer register file with standard ABI
// names.
var IntegerRegisters = [32]Register{
	{0, "x0", "zero"}, {1, "x1", "ra"}, {2, "x2", "sp"}, {3, "x3", "gp"},
	{4, "x4", "tp"}, {5, "x5", "t0"}, {6, "x6", "t1"}, {7, "x7", "t2"},
	{8, "x8", "s0"}, {9, "x9", "s1"}, {10, "x10", "a0"}, {11, "x11", "a1"},
	{12, "x12", "a2"}, {13, "x13", "a3"}, {14, "x14", "a4"}, {15, "x15", "a5"},
	{16, "x16", "a6"}, {17, "x17", "a7"}, {18, "x18", "s2"}, {19, "x19", "s3"},
	{20, "x20", "s4"}, {21, "x21", "s5"}, {22, "x22", "s6"}, {23, "x23", "s7"},
	{24, "x24", "s8"}, {25, "x25", "s9"}, {26, "x26", "s10"}, {27, "x27", "s11"},
	{28, "x28", "t3"}, {29, "x29", "t4"}, {30, "x30", "t5"}, {31, "x31", "t6"},
}

// FloatRegisters is the f0..f31 floating-point register file with standard
// ABI names.
var FloatRegisters = [32]Register{
	{0, "f0", "ft0"}, {1, "f1", "ft1"}, {2, "f2", "ft2"}, {3, "f3", "ft3"},
	{4, "f4", "ft4"}, {5, "f5", "ft5"}, {6, "f6", "ft6"}, {7, "f7", "ft7"},
	{8, "f8", "fs0"}, {9, "f9", "fs1"}, {10, "f10", "fa0"}, {11, "f11", "fa1"},
	{12, "f12", "fa2"}, {13, "f13", "fa3"}, {14, "f14", "fa4"}, {15, "f15", "fa5"},
	{16, "f16", "fa6"}, {17, "f17", "fa7"}, {18, "f18", "fs2"}, {19, "f19", "fs3"},
	{20, "f20", "fs4"}, {21, "f21", "fs5"}, {22, "f22", "fs6"}, {23, "f23", "fs7"},
	{24, "f24", "fs8"}, {25, "f25", "fs9"}, {26, "f26", "fs10"}, {27, "f27", "fs11"},
	{28, "f28", "ft8"}, {29, "f29", "ft9"}, {30, "f30", "ft10"}, {31, "f31", "ft11"},
}

// VectorRegisters is the v0..v31 vector register file; no standard ABI
// aliases exist, so ABI mirrors Name.
var VectorRegisters = func() [32]Register {
	var regs [32]Register
	for i := range regs {
		name := fmt.Sprintf("v%d", i)
		regs[i] = Register{Number: uint32(i), Name: name, ABI: name}
	}
	return regs
}()

// ABIName returns the ABI alias for reg within the integer file, or "x<n>"
// if reg exceeds the file's size.
func ABIName(reg uint32) string {
	if int(reg) < len(IntegerRegisters) {
		return IntegerRegisters[reg].ABI
	}
	return fmt.Sprintf("x%d", reg)
}
