package decode

// DirectInfo describes a decoded instruction built without a backing opcode
// word — used by makeInstDirectly and pseudo-instruction construction.
type DirectInfo struct {
	Mnemonic  string
	Sources   []OperandInfo
	Dests     []OperandInfo
	Immediate int64
	Specials  map[SpecialField]int64
}

// RegisterListExtractor constructs an OpInfo from an explicit list of source
// and destination registers, with no immediate or special fields. Used for
// pseudo-instructions shaped like a plain register-to-register operation.
type RegisterListExtractor struct {
	Info DirectInfo
}

func (e RegisterListExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, _ uint64) OpInfo {
	return OpInfo{
		Mnemonic: mnemonic,
		UID:      uid,
		Sources:  e.Info.Sources,
		Dests:    e.Info.Dests,
	}
}

func (e RegisterListExtractor) Dasm(mnemonic string, _ uint64) string { return mnemonic }
func (e RegisterListExtractor) Clone() Extractor                     { return e }

// BitmaskExtractor constructs an OpInfo carrying an explicit immediate used
// as a bitmask (e.g. a fused compare-and-branch micro-op's condition mask),
// with no encoded registers of its own beyond those supplied directly.
type BitmaskExtractor struct {
	Info DirectInfo
}

func (e BitmaskExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, _ uint64) OpInfo {
	return OpInfo{
		Mnemonic:     mnemonic,
		UID:          uid,
		Sources:      e.Info.Sources,
		Dests:        e.Info.Dests,
		Immediate:    e.Info.Immediate,
		HasImmediate: true,
		Specials:     e.Info.Specials,
	}
}

func (e BitmaskExtractor) Dasm(mnemonic string, _ uint64) string { return mnemonic }
func (e BitmaskExtractor) Clone() Extractor                      { return e }

// StoreShapedExtractor constructs an OpInfo distinguishing address sources
// from data sources explicitly, for direct construction of store-shaped
// pseudo-instructions.
type StoreShapedExtractor struct {
	Info          DirectInfo
	AddressFields []OperandFieldID
	DataFields    []OperandFieldID
}

func (e StoreShapedExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, _ uint64) OpInfo {
	sources := make([]OperandInfo, 0, len(e.Info.Sources))
	for _, s := range e.Info.Sources {
		cp := s
		for _, df := range e.DataFields {
			if s.Field == df {
				cp.IsStoreVal = true
			}
		}
		sources = append(sources, cp)
	}
	return OpInfo{
		Mnemonic:     mnemonic,
		UID:          uid,
		Sources:      sources,
		Dests:        e.Info.Dests,
		Immediate:    e.Info.Immediate,
		HasImmediate: true,
	}
}

func (e StoreShapedExtractor) Dasm(mnemonic string, _ uint64) string { return mnemonic }
func (e StoreShapedExtractor) Clone() Extractor                     { return e }

// DestPlusStoresExtractor constructs an OpInfo for fused micro-ops that both
// produce a destination register result and perform one or more stores
// (e.g. a fused "load-modify-store" decomposition).
type DestPlusStoresExtractor struct {
	Info DirectInfo
}

func (e DestPlusStoresExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, _ uint64) OpInfo {
	sources := make([]OperandInfo, len(e.Info.Sources))
	copy(sources, e.Info.Sources)
	for i := range sources {
		sources[i].IsStoreVal = true
	}
	return OpInfo{
		Mnemonic:     mnemonic,
		UID:          uid,
		Sources:      sources,
		Dests:        e.Info.Dests,
		Immediate:    e.Info.Immediate,
		HasImmediate: e.Info.Immediate != 0,
	}
}

func (e DestPlusStoresExtractor) Dasm(mnemonic string, _ uint64) string { return mnemonic }
func (e DestPlusStoresExtractor) Clone() Extractor                     { return e }
