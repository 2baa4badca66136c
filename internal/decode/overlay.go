package decode

// OverlayPredicate tests whether an opcode word additionally matches an
// overlay factory's extra-match condition, on top of its base stencil.
type OverlayPredicate func(opcode uint64) bool

// FieldEqualsPredicate builds a predicate from the JSON "overlay.match"
// object shape: every named field must equal its given value.
func FieldEqualsPredicate(constraints map[Field]uint64) OverlayPredicate {
	return func(opcode uint64) bool {
		for f, want := range constraints {
			if f.Extract(opcode) != want {
				return false
			}
		}
		return true
	}
}

// OverlayExtractor wraps a base extractor for the same stencil with an
// extra predicate and a distinct mnemonic/UID. Example: mv overlays addi
// when imm==0 && rs1!=x0; c.mv overlays c.add when rs2!=x0 and funct4
// selects the "move" shape.
type OverlayExtractor struct {
	Mnemonic  string
	UID       UID
	Meta      *InstMetaData
	Base      Extractor
	Predicate OverlayPredicate
	// Reshape, if set, transforms the base's OpInfo after extraction (e.g.
	// mv drops the immediate that addi carries). Left nil when the base
	// shape is already correct for the overlay (e.g. a pure renaming).
	Reshape func(OpInfo) OpInfo
}

// Matches reports whether this overlay's predicate holds for opcode.
func (o *OverlayExtractor) Matches(opcode uint64) bool {
	return o.Predicate == nil || o.Predicate(opcode)
}

func (o *OverlayExtractor) Extract(mnemonic string, uid UID, meta *InstMetaData, opcode uint64) OpInfo {
	info := o.Base.Extract(o.Mnemonic, o.UID, o.Meta, opcode)
	if o.Reshape != nil {
		info = o.Reshape(info)
	}
	return info
}

func (o *OverlayExtractor) Dasm(mnemonic string, opcode uint64) string {
	return o.Base.Dasm(o.Mnemonic, opcode)
}

func (o *OverlayExtractor) Clone() Extractor {
	cp := *o
	cp.Base = o.Base.Clone()
	return &cp
}
