package decode

// TraceInput is any value describing a previously-executed instruction from
// an external trace, used by MakeInstFromTrace. Decoding first tries to
// decode Opcode(); if the decoded mnemonic disagrees with Mnemonic(), the
// trace's mnemonic is authoritative.
type TraceInput interface {
	Mnemonic() string
	Opcode() uint64
	Function() string
	SourceRegs() []int
	DestRegs() []int
	Immediate() int64
}

// traceExtractor wraps a TraceInput as an Extractor, bypassing the trie
// entirely — the caller already knows the mnemonic.
type traceExtractor struct {
	trace TraceInput
}

func (e traceExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, _ uint64) OpInfo {
	sources := make([]OperandInfo, 0, len(e.trace.SourceRegs()))
	for _, r := range e.trace.SourceRegs() {
		sources = append(sources, OperandInfo{Field: FieldRS1, Kind: meta.DefaultSrcKind, Number: uint32(r)})
	}
	dests := make([]OperandInfo, 0, len(e.trace.DestRegs()))
	for _, r := range e.trace.DestRegs() {
		dests = append(dests, OperandInfo{Field: FieldRD, Kind: meta.DefaultDestKind, Number: uint32(r)})
	}
	return OpInfo{
		Mnemonic:     mnemonic,
		UID:          uid,
		Opcode:       e.trace.Opcode(),
		Sources:      sources,
		Dests:        dests,
		Immediate:    e.trace.Immediate(),
		HasImmediate: true,
	}
}

func (e traceExtractor) Dasm(mnemonic string, _ uint64) string { return mnemonic + " (from trace)" }
func (e traceExtractor) Clone() Extractor                      { return e }
