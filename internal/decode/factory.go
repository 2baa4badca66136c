package decode

// Factory represents one mnemonic: stencil, UID, meta-data reference,
// default extractor, and an ordered overlay list. GetInfo scans overlays in
// order and returns the first whose predicate holds, else the base.
type Factory struct {
	Mnemonic string
	UID      UID
	Stencil  uint64
	Form     Form
	Meta     *InstMetaData
	Base     Extractor
	Overlays []*OverlayExtractor
}

// GetInfo resolves opcode against this factory's overlays, returning the
// OpInfo and annotation of whichever — base or overlay — matches first.
func (f *Factory) GetInfo(opcode uint64) (OpInfo, Annotation) {
	for _, ov := range f.Overlays {
		if ov.Matches(opcode) {
			info := ov.Extract(ov.Mnemonic, ov.UID, ov.Meta, opcode)
			info.Type = ov.Meta.Type
			return info, ov.Meta.Annotation
		}
	}
	info := f.Base.Extract(f.Mnemonic, f.UID, f.Meta, opcode)
	info.Type = f.Meta.Type
	return info, f.Meta.Annotation
}

// GetInfoBypassCache produces an OpInfo for a direct-construction path
// (morph, makeInstDirectly) using an explicit extractor instead of the
// factory's own, still binding this factory's mnemonic/UID/meta.
func (f *Factory) GetInfoBypassCache(extractor Extractor, opcode uint64) (OpInfo, Annotation) {
	info := extractor.Extract(f.Mnemonic, f.UID, f.Meta, opcode)
	info.Type = f.Meta.Type
	return info, f.Meta.Annotation
}

// Matches reports whether word's opcode-field bits equal this factory's
// stencil — the defining predicate for this mnemonic.
func (f *Factory) Matches(word uint64) bool {
	return word&f.Form.OpcodeMask() == f.Stencil
}
