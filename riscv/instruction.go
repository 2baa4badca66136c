package riscv

import "github.com/keurnel/rvdecode/internal/decode"

// Instruction is the bundled concrete decoded-instruction type. It
// satisfies decode.Instruction[*Instruction] and is the default allocator
// target for a riscv.Decoder; nothing prevents a caller from implementing
// their own type against the same generic contract.
type Instruction struct {
	mnemonic string
	uid      decode.UID
	typ      decode.InstructionType
	opcode   uint64

	sources []decode.OperandInfo
	dests   []decode.OperandInfo

	immediate        int64
	hasImmediate     bool
	immediateImplied bool

	vectorSources uint32
	vectorDests   uint32

	specials map[decode.SpecialField]int64
	isIllop  bool
	isHint   bool

	annotation decode.Annotation
}

// New constructs an Instruction from an OpInfo/Annotation pair. This is the
// Allocator a riscv.Decoder passes to decode.NewDecoder.
func New(info decode.OpInfo, anno decode.Annotation) *Instruction {
	return &Instruction{
		mnemonic:         info.Mnemonic,
		uid:              info.UID,
		typ:              info.Type,
		opcode:           info.Opcode,
		sources:          info.Sources,
		dests:            info.Dests,
		immediate:        info.Immediate,
		hasImmediate:     info.HasImmediate,
		immediateImplied: info.ImmediateImplied,
		vectorSources:    info.VectorSources,
		vectorDests:      info.VectorDests,
		specials:         info.Specials,
		isIllop:          info.IsIllop,
		isHint:           info.IsHint,
		annotation:       anno.Clone(),
	}
}

func (i *Instruction) Mnemonic() string              { return i.mnemonic }
func (i *Instruction) UID() decode.UID               { return i.uid }
func (i *Instruction) Type() decode.InstructionType  { return i.typ }
func (i *Instruction) Opcode() uint64                { return i.opcode }
func (i *Instruction) Sources() []decode.OperandInfo { return i.sources }
func (i *Instruction) Dests() []decode.OperandInfo   { return i.dests }
func (i *Instruction) Immediate() (int64, bool)      { return i.immediate, i.hasImmediate }
func (i *Instruction) ImmediateImplied() bool        { return i.immediateImplied }
func (i *Instruction) VectorSources() uint32         { return i.vectorSources }
func (i *Instruction) VectorDests() uint32           { return i.vectorDests }
func (i *Instruction) IsIllop() bool                 { return i.isIllop }
func (i *Instruction) IsHint() bool                  { return i.isHint }
func (i *Instruction) Annotation() decode.Annotation { return i.annotation }

// SourceRegs returns the register numbers of every source operand.
func (i *Instruction) SourceRegs() []uint32 {
	out := make([]uint32, len(i.sources))
	for idx, s := range i.sources {
		out[idx] = s.Number
	}
	return out
}

// DestRegs returns the register numbers of every destination operand.
func (i *Instruction) DestRegs() []uint32 {
	out := make([]uint32, len(i.dests))
	for idx, d := range i.dests {
		out[idx] = d.Number
	}
	return out
}

// HasType reports whether every flag in want is set on this instruction.
func (i *Instruction) HasType(want decode.InstructionType) bool { return i.typ.Has(want) }

// SpecialField returns the named special field's raw value, if the
// extractor that produced this instruction set it.
func (i *Instruction) SpecialField(kind decode.SpecialField) (int64, bool) {
	v, ok := i.specials[kind]
	return v, ok
}

// Morph mutates the receiver in place to adopt a new decoded shape —
// implements decode.Instruction[*Instruction].
func (i *Instruction) Morph(info decode.OpInfo, anno decode.Annotation) {
	i.mnemonic = info.Mnemonic
	i.uid = info.UID
	i.typ = info.Type
	i.opcode = info.Opcode
	i.sources = info.Sources
	i.dests = info.Dests
	i.immediate = info.Immediate
	i.hasImmediate = info.HasImmediate
	i.immediateImplied = info.ImmediateImplied
	i.vectorSources = info.VectorSources
	i.vectorDests = info.VectorDests
	i.specials = info.Specials
	i.isIllop = info.IsIllop
	i.isHint = info.IsHint
	i.annotation = anno.Clone()
}

// Clone returns an independent copy — mandatory on every cache hit so the
// cache's pristine prototype is never handed out by reference.
func (i *Instruction) Clone() *Instruction {
	cp := *i
	cp.sources = append([]decode.OperandInfo(nil), i.sources...)
	cp.dests = append([]decode.OperandInfo(nil), i.dests...)
	if i.specials != nil {
		cp.specials = make(map[decode.SpecialField]int64, len(i.specials))
		for k, v := range i.specials {
			cp.specials[k] = v
		}
	}
	cp.annotation = i.annotation.Clone()
	return &cp
}
