package decode

import (
	"os"

	json "github.com/go-json-experiment/json"
)

// pseudoJSON mirrors a pseudo-instruction entry: the same category/tag
// fields as instJSON, but no stencil — pseudo-instructions are never
// matched against opcode words.
type pseudoJSON struct {
	Mnemonic string   `json:"mnemonic"`
	Type     []string `json:"type"`
	Tags     []string `json:"tags"`
	SOper    string   `json:"s-oper"`
	DOper    string   `json:"d-oper"`
}

type pseudoFileJSON struct {
	Instructions []pseudoJSON `json:"instructions"`
}

// PseudoBuilder registers pseudo-instructions in a registry parallel to the
// main trie-backed factory set: they have meta-data and a UID but are
// reachable only by mnemonic, never by opcode lookup.
type PseudoBuilder struct {
	meta     *MetaRegistry
	factories map[string]*Factory
}

// NewPseudoBuilder returns an empty pseudo builder sharing the context's
// meta registry (pseudo-instructions' UIDs live in the same UID space).
func NewPseudoBuilder(meta *MetaRegistry) *PseudoBuilder {
	return &PseudoBuilder{meta: meta, factories: make(map[string]*Factory)}
}

// LoadFile reads and registers every pseudo-instruction in path.
func (p *PseudoBuilder) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &BadISAFileError{Path: path, Err: err}
	}
	var file pseudoFileJSON
	if err := json.Unmarshal(raw, &file); err != nil {
		return &BadISAFileError{Path: path, Err: err}
	}
	for _, inst := range file.Instructions {
		var typeBits InstructionType
		for _, t := range inst.Type {
			typeBits |= typeFlagByName[t]
		}
		meta := &InstMetaData{
			Mnemonic:        inst.Mnemonic,
			Type:            typeBits,
			DefaultSrcKind:  operKind(inst.SOper),
			DefaultDestKind: operKind(inst.DOper),
			Tags:            NewMatchSet(inst.Tags...),
			OperandKinds:    make(map[OperandFieldID]RegisterFileKind),
		}
		p.meta.Register(meta)
		p.factories[inst.Mnemonic] = &Factory{
			Mnemonic: inst.Mnemonic,
			UID:      meta.UID,
			Meta:     meta,
		}
	}
	return nil
}

// MakeDirect resolves a pseudo factory by mnemonic and produces an OpInfo
// from the given DirectInfo via one of the direct-extractor variants,
// raising UnknownPseudoMnemonicError if no such pseudo was registered.
func (p *PseudoBuilder) MakeDirect(mnemonic string, extractor Extractor) (OpInfo, Annotation, error) {
	factory, ok := p.factories[mnemonic]
	if !ok {
		return OpInfo{}, nil, &UnknownPseudoMnemonicError{Mnemonic: mnemonic}
	}
	info := extractor.Extract(mnemonic, factory.UID, factory.Meta, 0)
	return info, factory.Meta.Annotation, nil
}
