package decode

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	json "github.com/go-json-experiment/json"

	"github.com/keurnel/rvdecode/internal/diag"
)

// instJSON mirrors the ISA-definition JSON schema from spec.md §6,
// field-for-field.
type instJSON struct {
	Mnemonic string            `json:"mnemonic"`
	Form     string            `json:"form"`
	Stencil  string            `json:"stencil"`
	Type     []string          `json:"type"`
	Tags     []string          `json:"tags"`
	LOper    string            `json:"l-oper"`
	SOper    string            `json:"s-oper"`
	DOper    string            `json:"d-oper"`
	Data     int               `json:"data"`
	Fixed    map[string]uint64 `json:"fixed"`
	Ignore   []string          `json:"ignore"`
	Overlay  *overlayJSON      `json:"overlay"`
	Implicit []string          `json:"implicit"`
	ISA      []string          `json:"isa"`

	// ImpliedImmediate, when set (a hex string like stencil), gives a fixed
	// immediate value the extractor should report without reading it from
	// the opcode word — spec.md §4.3's "c.zext.b implies immediate 0xFF".
	ImpliedImmediate string `json:"implied_immediate"`
}

type overlayJSON struct {
	Base          string            `json:"base"`
	Match         map[string]uint64 `json:"match"`
	DropImmediate bool              `json:"drop_immediate"`
}

type isaFileJSON struct {
	Instructions []instJSON `json:"instructions"`
}

var typeFlagByName = map[string]InstructionType{
	"int": TypeInt, "float": TypeFloat, "branch": TypeBranch, "load": TypeLoad,
	"store": TypeStore, "atomic": TypeAtomic, "vector": TypeVector, "move": TypeMove,
	"conditional": TypeConditional, "call": TypeCall, "return": TypeReturn,
	"segment": TypeSegment, "faultfirst": TypeFaultFirst, "mask": TypeMask, "indexed": TypeIndexed,
}

var operKindByHint = map[string]RegisterFileKind{
	"all": RegFileInteger, "single": RegFileFloatSingle, "double": RegFileFloatDouble,
	"word": RegFileInteger, "long": RegFileFloatLong, "quad": RegFileFloatQuad,
	"half": RegFileFloatHalf, "vector": RegFileVector,
}

// buildNode is the builder's mutable intermediate trie representation,
// converted to an immutable trieNode by Finalize. It always dispatches on
// one field by value; leaves a direct factory slot once fully selected.
type buildNode struct {
	field    Field
	children map[uint64]*buildNode
	leaf     *Factory
}

func newBuildNode(field Field) *buildNode {
	return &buildNode{field: field, children: make(map[uint64]*buildNode)}
}

// finalize converts a buildNode subtree into an immutable trieNode, picking
// dense vs sparse by the occupied/range ratio, per spec.md §4.5.
func (b *buildNode) finalize() trieNode {
	if b.leaf != nil {
		return &leafNode{factory: b.leaf}
	}
	valueRange := uint64(1) << b.field.Width
	occupancy := float64(len(b.children)) / float64(valueRange)
	if valueRange <= 4096 && occupancy >= densityThreshold {
		dn := newDenseNode(b.field)
		for v, child := range b.children {
			if int(v) < len(dn.children) {
				dn.children[v] = child.finalize()
			}
		}
		return dn
	}
	sn := newSparseNode(b.field)
	for v, child := range b.children {
		sn.children[v] = child.finalize()
	}
	return sn
}

// FactoryBuilder ingests ISA-definition and annotation JSON, resolves tag
// filters and overlays, and produces factories installed into a decode
// trie. One builder is owned per Context; it is discarded (logically
// frozen) once the context is built, though the registry keeps it
// reachable via Context.Builder.
type FactoryBuilder struct {
	Forms *FormRegistry
	Meta  *MetaRegistry

	includeTags MatchSet
	excludeTags MatchSet

	branchRoots [6]*buildNode // one per length-selector branch, lazily created
	formRoots   map[string]*buildNode

	built map[string]*Factory // mnemonic -> factory, before overlay resolution
	pendingOverlays []pendingOverlay

	diag *diag.Context
}

type pendingOverlay struct {
	mnemonic      string
	uid           UID
	base          string
	match         map[string]uint64
	dropImmediate bool
	extractor     func(base Extractor) Extractor
	meta          *InstMetaData
}

// NewFactoryBuilder returns an empty builder. uidMap reserves specific UIDs
// for specific mnemonics; includeTags/excludeTags implement the tag-based
// inclusion/exclusion filter (an empty includeTags set means "no allowlist
// restriction").
func NewFactoryBuilder(forms *FormRegistry, uidMap map[string]UID, includeTags, excludeTags []string) *FactoryBuilder {
	return &FactoryBuilder{
		Forms:       forms,
		Meta:        NewMetaRegistry(uidMap),
		includeTags: NewMatchSet(includeTags...),
		excludeTags: NewMatchSet(excludeTags...),
		formRoots:   make(map[string]*buildNode),
		built:       make(map[string]*Factory),
	}
}

// SetDiag attaches a diagnostic context; building records entries into it
// under the "build-trie" phase. Optional — nil (the default) stays silent.
func (b *FactoryBuilder) SetDiag(d *diag.Context) { b.diag = d }

func (b *FactoryBuilder) passesFilter(tags []string) bool {
	tagSet := NewMatchSet(tags...)
	if len(b.excludeTags) > 0 {
		for t := range b.excludeTags {
			if tagSet.Contains(t) {
				return false
			}
		}
	}
	if len(b.includeTags) > 0 {
		for t := range b.includeTags {
			if tagSet.Contains(t) {
				return true
			}
		}
		return false
	}
	return true
}

// LoadISAFile reads and parses one ISA-definition JSON file, installing
// every instruction that passes the tag filter.
func (b *FactoryBuilder) LoadISAFile(path string) error {
	if b.diag != nil {
		b.diag.SetPhase("build-trie")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return &BadISAFileError{Path: path, Err: err}
	}
	var file isaFileJSON
	if err := json.Unmarshal(raw, &file); err != nil {
		return &BadISAFileError{Path: path, Err: err}
	}
	for _, inst := range file.Instructions {
		if !b.passesFilter(inst.Tags) {
			if b.diag != nil {
				b.diag.Trace(b.diag.LocIn(path, 0, 0), "skipped by tag filter: "+inst.Mnemonic)
			}
			continue
		}
		if err := b.installInstruction(inst); err != nil {
			if b.diag != nil {
				b.diag.Error(b.diag.LocIn(path, 0, 0), err.Error())
			}
			return &BadISAFileError{Path: path, Err: err}
		}
		if b.diag != nil {
			b.diag.Trace(b.diag.LocIn(path, 0, 0), "installed mnemonic "+inst.Mnemonic)
		}
	}
	return nil
}

func parseStencil(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return strconv.ParseUint(s, 16, 64)
}

func (b *FactoryBuilder) extractorFor(form Form, inst instJSON) (Extractor, error) {
	switch form.Name {
	case "R":
		return RFormExtractor{}, nil
	case "I":
		return IFormExtractor{}, nil
	case "S":
		return SFormExtractor{}, nil
	case "B":
		return BFormExtractor{}, nil
	case "U":
		return UFormExtractor{}, nil
	case "J":
		return JFormExtractor{}, nil
	case "AMO":
		return AMOFormExtractor{}, nil
	case "CR":
		return CRFormExtractor{}, nil
	case "CI":
		return CIFormExtractor{}, nil
	case "CSS":
		return CSSFormExtractor{}, nil
	case "CIW":
		return CIWFormExtractor{}, nil
	case "CL":
		paired := inst.Data == 64 && strings.Contains(inst.Mnemonic, "ld") && hasTag(inst.Tags, "zclsd")
		return CLFormExtractor{PairedDest: paired}, nil
	case "CS":
		return CSFormExtractor{}, nil
	case "CB":
		if inst.ImpliedImmediate != "" {
			v, err := parseStencil(inst.ImpliedImmediate)
			if err != nil {
				return nil, fmt.Errorf("decode: bad implied_immediate %q for mnemonic %q: %w", inst.ImpliedImmediate, inst.Mnemonic, err)
			}
			iv := int64(v)
			return CBFormExtractor{ImpliedImmediate: &iv}, nil
		}
		return CBFormExtractor{ImmediateOnly: hasTag(inst.Tags, "shift-imm")}, nil
	case "CJ":
		return CJFormExtractor{}, nil
	case "V":
		return VFormExtractor{NoVectorSources: hasTag(inst.Tags, "vec-selector")}, nil
	default:
		return nil, fmt.Errorf("decode: no built-in extractor for form %q", form.Name)
	}
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func operKind(hint string) RegisterFileKind {
	if k, ok := operKindByHint[hint]; ok {
		return k
	}
	return RegFileInteger
}

func (b *FactoryBuilder) installInstruction(inst instJSON) error {
	form, ok := b.Forms.Lookup(inst.Form)
	if !ok {
		return fmt.Errorf("decode: unknown form %q for mnemonic %q", inst.Form, inst.Mnemonic)
	}
	stencil, err := parseStencil(inst.Stencil)
	if err != nil {
		return fmt.Errorf("decode: bad stencil %q for mnemonic %q: %w", inst.Stencil, inst.Mnemonic, err)
	}

	var typeBits InstructionType
	for _, t := range inst.Type {
		typeBits |= typeFlagByName[t]
	}

	meta := &InstMetaData{
		Mnemonic:        inst.Mnemonic,
		Type:            typeBits,
		Extensions:      NewMatchSet(inst.ISA...),
		OperandKinds:    make(map[OperandFieldID]RegisterFileKind),
		DefaultSrcKind:  operKind(inst.SOper),
		DefaultDestKind: operKind(inst.DOper),
		Tags:            NewMatchSet(inst.Tags...),
	}
	if inst.LOper != "" {
		meta.DefaultSrcKind = operKind(inst.LOper)
		meta.DefaultDestKind = operKind(inst.LOper)
	}
	b.Meta.Register(meta)

	extractor, err := b.extractorFor(form, inst)
	if err != nil {
		return err
	}

	factory := &Factory{
		Mnemonic: inst.Mnemonic,
		UID:      meta.UID,
		Stencil:  stencil,
		Form:     form,
		Meta:     meta,
		Base:     extractor,
	}

	if inst.Overlay != nil {
		b.pendingOverlays = append(b.pendingOverlays, pendingOverlay{
			mnemonic:      inst.Mnemonic,
			uid:           meta.UID,
			base:          inst.Overlay.Base,
			match:         inst.Overlay.Match,
			dropImmediate: inst.Overlay.DropImmediate,
			meta:          meta,
		})
		b.built[inst.Mnemonic] = factory // kept reachable for lookup, not installed into the trie directly
		return nil
	}

	b.built[inst.Mnemonic] = factory
	return b.install(form, factory)
}

// install places factory into the per-form subtree under the appropriate
// length-selector branch, ordering opcode fields by bit-width descending
// (ties by lsb), excluding the branch's own family-field discrimination.
func (b *FactoryBuilder) install(form Form, factory *Factory) error {
	root, ok := b.formRoots[form.Name]
	if !ok {
		fields := form.OrderedOpcodeFields()
		if len(fields) == 0 {
			return fmt.Errorf("decode: form %q has no opcode fields", form.Name)
		}
		root = newBuildNode(fields[0])
		b.formRoots[form.Name] = root
	}
	fields := form.OrderedOpcodeFields()
	node := root
	for i, f := range fields {
		val := f.Extract(factory.Stencil)
		child, ok := node.children[val]
		if !ok {
			if i == len(fields)-1 {
				child = &buildNode{field: f}
			} else {
				child = newBuildNode(fields[i+1])
			}
			node.children[val] = child
		}
		if i == len(fields)-1 {
			if child.leaf != nil && child.leaf.Mnemonic != factory.Mnemonic {
				return &BuildErrorAmbiguousOpcodeError{First: child.leaf.Mnemonic, Second: factory.Mnemonic}
			}
			child.leaf = factory
		}
		node = child
	}
	return nil
}

// ResolveOverlays attaches every pending overlay to its named base factory.
// Must be called after all ISA files for a context are loaded.
func (b *FactoryBuilder) ResolveOverlays() error {
	for _, p := range b.pendingOverlays {
		base, ok := b.built[p.base]
		if !ok {
			return &BuildErrorOverlayBaseNotFoundError{Overlay: p.mnemonic, Base: p.base}
		}
		constraints := make(map[Field]uint64, len(p.match))
		for name, want := range p.match {
			f, ok := base.Form.FieldByName(name)
			if !ok {
				return fmt.Errorf("decode: overlay %q matches unknown field %q", p.mnemonic, name)
			}
			constraints[f] = want
		}
		ov := &OverlayExtractor{
			Mnemonic:  p.mnemonic,
			UID:       p.uid,
			Meta:      p.meta,
			Base:      base.Base,
			Predicate: FieldEqualsPredicate(constraints),
		}
		if p.dropImmediate {
			ov.Reshape = func(info OpInfo) OpInfo {
				info.Immediate = 0
				info.HasImmediate = false
				return info
			}
		}
		base.Overlays = append(base.Overlays, ov)
	}
	return nil
}

// Finalize converts every per-form buildNode subtree into the immutable
// decode trie and wires it under the six-branch length-selector root.
func (b *FactoryBuilder) Finalize() trieNode {
	root := newRootNode()
	for formName, buildRoot := range b.formRoots {
		branch := lengthBranchFor(formName)
		for i := range root.branches {
			if root.branches[i].name == branch {
				root.branches[i].next = mergeIntoBranch(root.branches[i].next, buildRoot.finalize())
			}
		}
	}
	return root
}

func mergeIntoBranch(existing, next trieNode) trieNode {
	if existing == nil {
		return next
	}
	// Multiple forms sharing one branch (e.g. every 32-bit standard form)
	// must be merged; since distinct forms select on the same leading
	// field (opcode[6:0]) this degenerates to reusing the existing root,
	// with the new form's entries folded in by value.
	if dn, ok := existing.(*denseNode); ok {
		if nd, ok2 := next.(*denseNode); ok2 {
			for i, c := range nd.children {
				if c != nil {
					dn.children[i] = c
				}
			}
			return dn
		}
	}
	if sn, ok := existing.(*sparseNode); ok {
		if ns, ok2 := next.(*sparseNode); ok2 {
			for v, c := range ns.children {
				sn.children[v] = c
			}
			return sn
		}
	}
	return existing
}

// Factory returns the installed factory for mnemonic (base or overlay-
// carrying), or false if no such mnemonic was loaded into this builder.
func (b *FactoryBuilder) Factory(mnemonic string) (*Factory, bool) {
	f, ok := b.built[mnemonic]
	return f, ok
}

func lengthBranchFor(formName string) string {
	switch formName {
	case "CR", "CI", "CSS", "CIW", "CL", "CS", "CB", "CJ":
		return "16-bit"
	default:
		return "32-bit"
	}
}
