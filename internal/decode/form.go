package decode

import "golang.org/x/exp/slices"

// Form lists every field of a RISC-V instruction format, and the subset of
// those fields ("opcode fields") that must match a mnemonic's stencil for
// that mnemonic to be identified.
type Form struct {
	Name         string
	Fields       []Field
	OpcodeFields []Field
}

// FieldByName returns the named field and true, or the zero Field and false.
func (f Form) FieldByName(name string) (Field, bool) {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld, true
		}
	}
	return Field{}, false
}

// OpcodeMask is the OR of the masks of every opcode field, shifted into
// place — the bits of a word that matter for stencil matching.
func (f Form) OpcodeMask() uint64 {
	var mask uint64
	for _, fld := range f.OpcodeFields {
		mask |= fld.mask() << fld.LSB
	}
	return mask
}

// OrderedOpcodeFields returns a copy of OpcodeFields sorted deterministically
// by bit-width descending, ties broken by ascending LSB — the order the
// trie builder installs composite levels in.
func (f Form) OrderedOpcodeFields() []Field {
	out := append([]Field(nil), f.OpcodeFields...)
	slices.SortFunc(out, func(a, b Field) int {
		if a.Width != b.Width {
			return int(b.Width) - int(a.Width)
		}
		return int(a.LSB) - int(b.LSB)
	})
	return out
}

// starForm is the synthetic "*" form used solely by the trie's
// length-selector root.
var starForm = Form{
	Name:         "*",
	Fields:       []Field{familyField},
	OpcodeFields: []Field{familyField},
}

// FormRegistry looks up a Form by name. It is built once per context and is
// immutable thereafter.
type FormRegistry struct {
	forms map[string]Form
}

// NewFormRegistry returns a registry pre-seeded with the synthetic "*" form.
func NewFormRegistry() *FormRegistry {
	r := &FormRegistry{forms: make(map[string]Form)}
	r.Register(starForm)
	return r
}

// Register adds or replaces a form.
func (r *FormRegistry) Register(f Form) {
	r.forms[f.Name] = f
}

// Lookup returns the named form and true, or the zero Form and false.
func (r *FormRegistry) Lookup(name string) (Form, bool) {
	f, ok := r.forms[name]
	return f, ok
}

// MustLookup panics if the form is unknown — used for built-in forms that
// the caller controls and must exist.
func (r *FormRegistry) MustLookup(name string) Form {
	f, ok := r.Lookup(name)
	if !ok {
		panic("decode: unknown form " + name)
	}
	return f
}
