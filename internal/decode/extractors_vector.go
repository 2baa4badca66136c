package decode

import "fmt"

// Vector ("V" extension) field positions: opcode low 7 bits, vd@7, funct3@12,
// vs1@15, vs2@20, vm@25, funct6@26. Grounded on the same fixed-width 32-bit
// instruction layout every other standard form in this file uses, with vm
// exposed as a SpecialField the way AMOFormExtractor exposes aq/rl.
var (
	fieldVD      = NewField("v_vd", 7, 5)
	fieldVFunct3 = NewField("v_funct3", 12, 3)
	fieldVVS1    = NewField("v_vs1", 15, 5)
	fieldVVS2    = NewField("v_vs2", 20, 5)
	fieldVM      = NewField("v_vm", 25, 1)
	fieldVFunct6 = NewField("v_funct6", 26, 6)
)

// VFormExtractor decodes the standard vector-arithmetic form (OP-V,
// opcode 0x57): a 5-bit destination register, two 5-bit source fields, and a
// vm mask-enable bit.
type VFormExtractor struct {
	// NoVectorSources marks the OPMVV sub-group where vs1 selects a
	// sub-operation rather than naming a source register and vs2 is unused
	// (must be zero) — vid.v, viota.m, and similar mask/index-generating
	// instructions. No vector source bits are produced for these.
	NoVectorSources bool
}

func (e VFormExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	vd := uint32(fieldVD.Extract(opcode))
	info := OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Opcode:   opcode,
		Dests: []OperandInfo{
			{Field: FieldRD, Kind: RegFileVector, Number: vd},
		},
		VectorDests: 1 << vd,
		Specials: map[SpecialField]int64{
			SpecialVM: int64(fieldVM.Extract(opcode)),
		},
	}
	if !e.NoVectorSources {
		vs1 := uint32(fieldVVS1.Extract(opcode))
		vs2 := uint32(fieldVVS2.Extract(opcode))
		info.Sources = []OperandInfo{
			{Field: FieldRS1, Kind: RegFileVector, Number: vs1},
			{Field: FieldRS2, Kind: RegFileVector, Number: vs2},
		}
		info.VectorSources = (1 << vs1) | (1 << vs2)
	}
	return info
}

func (e VFormExtractor) Dasm(mnemonic string, opcode uint64) string {
	if e.NoVectorSources {
		return fmt.Sprintf("%s v%d", mnemonic, fieldVD.Extract(opcode))
	}
	return fmt.Sprintf("%s v%d, v%d, v%d", mnemonic, fieldVD.Extract(opcode), fieldVVS2.Extract(opcode), fieldVVS1.Extract(opcode))
}

func (e VFormExtractor) Clone() Extractor { return e }

func (e VFormExtractor) SpecialField(kind SpecialField, opcode uint64) (int64, error) {
	if kind == SpecialVM {
		return int64(fieldVM.Extract(opcode)), nil
	}
	return 0, &UnsupportedSpecialFieldError{Field: kind, Mnemonic: "vector"}
}
