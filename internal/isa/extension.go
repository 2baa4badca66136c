package isa

// UnknownExtensionAction controls how the manager reacts to an ISA-string
// extension with no matching spec entry.
type UnknownExtensionAction int

const (
	ActionError UnknownExtensionAction = iota
	ActionWarn
	ActionIgnore
)

// ExtensionSpecEntry is one extension's declaration from the extension-spec
// JSON (spec.md §4.7/§6).
type ExtensionSpecEntry struct {
	Name            string
	XLEN            []int // valid XLEN values; empty means "any"
	IsMetaExtension bool
	IsBaseExtension bool
	MetaExtension   []string // meta-extensions this one belongs to, e.g. "g"
	Aliases         []string
	Enables         []string
	EnabledBy       [][]string // list of AND-groups; enabled iff any group fully enabled
	Requires        []string
	Conflicts       []string
	InternalOnly    bool
	JSONFiles       []string
}

// ExtensionSpec is the full parsed extension-spec file: every extension's
// declaration plus the default unknown-extension action.
type ExtensionSpec struct {
	Extensions            map[string]*ExtensionSpecEntry
	UnknownExtensionAction UnknownExtensionAction
}

// ExtensionInfo is the runtime record of one enabled extension: its
// resolved major/minor version (parsed from an ISA-string suffix like
// "zicsr2p0"), carried from the original's RISCVExtensionInfo.
type ExtensionInfo struct {
	Name         string
	Major        uint32
	Minor        uint32
	ForceEnabled bool // set when enabled transitively via another extension's "enables"
	Enabled      bool
	internalOnly bool
}

// Version returns the extension's parsed major/minor version.
func (e ExtensionInfo) Version() (major, minor uint32) { return e.Major, e.Minor }
