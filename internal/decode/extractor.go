package decode

// Extractor turns a matching opcode word into an OpInfo view. Each concrete
// extractor is stateless and safe to share across goroutines; Clone exists
// for cache-bypass morphing paths that want an independent copy to mutate.
type Extractor interface {
	// Extract produces the OpInfo for mnemonic/uid given the raw opcode word.
	Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo

	// Dasm renders a debug disassembly string, mirroring the original's
	// dasmString.
	Dasm(mnemonic string, opcode uint64) string

	// Clone returns an independent copy of the extractor.
	Clone() Extractor
}

// specialFieldExtractor is implemented by extractors that expose special
// fields (RM, VM, NF, AQ/RL, WD, CSR, STACK_ADJ, AVL). Extractors that never
// produce special fields need not implement it; getSpecialField callers
// fall back to UnsupportedSpecialFieldError.
type specialFieldExtractor interface {
	SpecialField(kind SpecialField, opcode uint64) (int64, error)
}

// GetSpecialField fetches a special field from an extractor, raising
// InvalidSpecialFieldIDError/UnsupportedSpecialFieldError per spec.
func GetSpecialField(e Extractor, mnemonic string, kind SpecialField, opcode uint64) (int64, error) {
	if kind < SpecialRM || kind > SpecialAVL {
		return 0, &InvalidSpecialFieldIDError{Field: kind}
	}
	sf, ok := e.(specialFieldExtractor)
	if !ok {
		return 0, &UnsupportedSpecialFieldError{Field: kind, Mnemonic: mnemonic}
	}
	return sf.SpecialField(kind, opcode)
}
