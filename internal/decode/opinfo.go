package decode

// RegisterFileKind classifies which register file an operand belongs to and,
// for float/vector files, its width variant.
type RegisterFileKind int

const (
	RegFileNone RegisterFileKind = iota
	RegFileInteger
	RegFileFloatSingle
	RegFileFloatDouble
	RegFileFloatHalf
	RegFileFloatQuad
	RegFileFloatLong
	RegFileVector
	RegFileCSR
)

// OperandFieldID names a decoded operand slot a meta-data record or
// extractor refers to (source/dest register positions, special fields).
type OperandFieldID int

const (
	FieldRS1 OperandFieldID = iota
	FieldRS2
	FieldRS3
	FieldRD
	FieldRD2 // second destination, e.g. paired c.ld
	FieldCSR
)

// SpecialField enumerates the non-register, non-immediate decoded data an
// extractor may expose.
type SpecialField int

const (
	SpecialRM SpecialField = iota
	SpecialVM
	SpecialNF
	SpecialAQ
	SpecialRL
	SpecialWD
	SpecialCSR
	SpecialStackAdj
	SpecialAVL
)

// OperandInfo describes one decoded register operand.
type OperandInfo struct {
	Field      OperandFieldID
	Kind       RegisterFileKind
	Number     uint32
	IsStoreVal bool // true if this operand is the value being stored, not an address
	Implied    bool // true if this operand was synthesized by the extractor, not encoded
}

// OpInfo is the extractor's output view of a decoded opcode word: everything
// a factory and, downstream, a user Instruction needs to populate itself.
type OpInfo struct {
	Mnemonic         string
	UID              UID
	Type             InstructionType
	Opcode           uint64
	Sources          []OperandInfo
	Dests            []OperandInfo
	Immediate        int64
	HasImmediate     bool
	ImmediateImplied bool // true when Immediate was synthesized by the extractor (e.g. c.zext.b's 0xFF), not read from the opcode word
	VectorSources    uint32 // bitmask of vector source register numbers
	VectorDests      uint32 // bitmask of vector destination register numbers
	Specials         map[SpecialField]int64
	IsIllop          bool
	IsHint           bool
}

// SpecialFieldValue returns the named special field's value, or
// an *UnsupportedSpecialFieldError if this instruction's extractor never set it.
func (o OpInfo) SpecialFieldValue(kind SpecialField) (int64, error) {
	v, ok := o.Specials[kind]
	if !ok {
		return 0, &UnsupportedSpecialFieldError{Field: kind, Mnemonic: o.Mnemonic}
	}
	return v, nil
}
