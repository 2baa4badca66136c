package riscv

import (
	"path/filepath"

	"github.com/keurnel/rvdecode/internal/decode"
	"github.com/keurnel/rvdecode/internal/diag"
	"github.com/keurnel/rvdecode/internal/isa"
)

// canonicalNOPUID reserves the UID for "nop" (the canonical addi x0,x0,0
// stencil), honoured from the user-supplied UID map per spec.md §4.4.
const canonicalNOPUID decode.UID = 1

// BuildOptions configures construction of a Decoder from an ISA string.
type BuildOptions struct {
	ExtensionSpecPath string   // path to the extension-spec JSON
	JSONDir           string   // directory containing instruction-definition JSONs
	PseudoJSONs       []string // pseudo-instruction JSON paths, relative to JSONDir
	UIDMap            map[string]decode.UID
	AnnoJSONs         []string
	AnnoOverrides     []decode.AnnotationOverride
	IncludeTags       []string
	ExcludeTags       []string
	AllowList         []string
	BlockList         []string
}

// Decoder is the RISC-V-flavored facade: a decode.Decoder[*Instruction]
// plus the resolved extension manager that built its active context.
type Decoder struct {
	*decode.Decoder[*Instruction]
	Extensions *isa.RISCVExtensionManager
	Diag       *diag.Context
}

func defaultUIDMap(userMap map[string]decode.UID) map[string]decode.UID {
	out := map[string]decode.UID{"nop": canonicalNOPUID}
	for k, v := range userMap {
		out[k] = v
	}
	return out
}

// NewDecoderFromISA parses isaString (e.g. "rv64gcb_zicsr_zifencei"),
// resolves it against the extension spec at opts.ExtensionSpecPath, and
// builds a single context named "default" from the resulting JSON file
// list.
func NewDecoderFromISA(isaString string, opts BuildOptions) (*Decoder, error) {
	return NewNamedDecoderFromISA("default", isaString, opts)
}

// NewNamedDecoderFromISA is NewDecoderFromISA with an explicit context
// name, for callers building multiple side-by-side contexts.
func NewNamedDecoderFromISA(contextName, isaString string, opts BuildOptions) (*Decoder, error) {
	d := diag.NewContext(isaString)

	spec, err := isa.LoadExtensionSpec(opts.ExtensionSpecPath)
	if err != nil {
		return nil, err
	}
	xlen := 64
	if len(isaString) >= 4 && isaString[2:4] == "32" {
		xlen = 32
	}
	mgr := isa.NewRISCVExtensionManager(spec, xlen)
	mgr.SetDiag(d)
	mgr.SetAllowList(opts.AllowList)
	mgr.SetBlockList(opts.BlockList)
	if err := mgr.SetISA(isaString); err != nil {
		return nil, err
	}

	forms := decode.NewFormRegistry()
	RegisterBuiltinForms(forms)

	dec := decode.NewDecoder[*Instruction](forms, New)

	jsons := make([]string, 0, len(mgr.GetJSONs()))
	for _, f := range mgr.GetJSONs() {
		jsons = append(jsons, filepath.Join(opts.JSONDir, f))
	}
	pseudoJSONs := make([]string, 0, len(opts.PseudoJSONs))
	for _, f := range opts.PseudoJSONs {
		pseudoJSONs = append(pseudoJSONs, filepath.Join(opts.JSONDir, f))
	}
	annoJSONs := make([]string, 0, len(opts.AnnoJSONs))
	for _, f := range opts.AnnoJSONs {
		annoJSONs = append(annoJSONs, filepath.Join(opts.JSONDir, f))
	}

	_, err = dec.MakeContext(contextName, decode.ContextConfig{
		ISAJSONs:      jsons,
		PseudoJSONs:   pseudoJSONs,
		AnnoJSONs:     annoJSONs,
		UIDMap:        defaultUIDMap(opts.UIDMap),
		AnnoOverrides: opts.AnnoOverrides,
		IncludeTags:   opts.IncludeTags,
		ExcludeTags:   opts.ExcludeTags,
		Diag:          d,
	})
	if err != nil {
		return nil, err
	}
	return &Decoder{Decoder: dec, Extensions: mgr, Diag: d}, nil
}
