package isa

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/keurnel/rvdecode/internal/diag"
)

// metaGExpansion is the one built-in meta-extension expansion named directly
// in spec.md's grammar description: "g" = "i m a f d zicsr zifencei". The
// base "i" is added separately, so the list omits it.
var metaGExpansion = []string{"m", "a", "f", "d", "zicsr", "zifencei"}

// RISCVExtensionManager turns an ISA string plus an ExtensionSpec into the
// set of enabled extensions and the instruction-definition JSON files a
// decoder context should load. Grounded on
// extension_managers/RISCVExtensionManager.hpp.
type RISCVExtensionManager struct {
	spec *ExtensionSpec
	xlen int

	enabled map[string]*ExtensionInfo

	allowList MatchSet
	blockList MatchSet

	diag *diag.Context
}

// MatchSet is a small owned string set, mirrored from the decode package's
// shape (kept separate to avoid an import cycle between decode and isa).
type MatchSet map[string]struct{}

func newMatchSet(items ...string) MatchSet {
	s := make(MatchSet, len(items))
	for _, i := range items {
		s[i] = struct{}{}
	}
	return s
}

func (s MatchSet) contains(item string) bool {
	_, ok := s[item]
	return ok
}

// NewRISCVExtensionManager returns a manager bound to spec; xlen must be 32
// or 64.
func NewRISCVExtensionManager(spec *ExtensionSpec, xlen int) *RISCVExtensionManager {
	return &RISCVExtensionManager{
		spec:    spec,
		xlen:    xlen,
		enabled: make(map[string]*ExtensionInfo),
	}
}

// SetAllowList restricts resolution to these extensions: any enabled
// extension missing from a non-empty list, including one enabled only
// transitively, fails resolution with ExtensionNotAllowedError.
func (m *RISCVExtensionManager) SetAllowList(names []string) { m.allowList = newMatchSet(names...) }

// SetBlockList forbids these extensions from ever being enabled.
func (m *RISCVExtensionManager) SetBlockList(names []string) { m.blockList = newMatchSet(names...) }

// SetDiag attaches a diagnostic context; resolution records entries into it
// under the "parse-isa-string"/"resolve-extensions" phases. Optional — a nil
// diag context (the default) means resolution stays silent.
func (m *RISCVExtensionManager) SetDiag(d *diag.Context) { m.diag = d }

type parsedExt struct {
	name        string
	major       uint32
	minor       uint32
	forceEnable bool
}

// SetISA parses isaString and runs the four-step resolution algorithm.
func (m *RISCVExtensionManager) SetISA(isaString string) error {
	if m.diag != nil {
		m.diag.SetPhase("parse-isa-string")
	}
	parsed, err := parseISAString(isaString, m.xlen)
	if err != nil {
		if m.diag != nil {
			m.diag.Error(m.diag.Loc(0, 0), err.Error())
		}
		return err
	}
	if m.diag != nil {
		m.diag.SetPhase("resolve-extensions")
	}
	if err := m.resolve(parsed); err != nil {
		if m.diag != nil {
			m.diag.Error(m.diag.Loc(0, 0), err.Error())
		}
		return err
	}
	return nil
}

// parseISAString implements the grammar from spec.md §4.7: prefix "rv",
// decimal XLEN, base letter, single-character extensions (each with an
// optional "<major>p<minor>" version suffix) until the first z/s/x letter
// switches to underscore-separated multi-character mode.
func parseISAString(isa string, expectXLEN int) ([]parsedExt, error) {
	s := isa
	if !strings.HasPrefix(s, "rv") {
		return nil, &InvalidISAStringError{ISA: isa, Reason: `missing "rv" prefix`}
	}
	s = s[2:]

	xlenStr := ""
	for len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
		xlenStr += string(s[0])
		s = s[1:]
	}
	if xlenStr == "" {
		return nil, &InvalidISAStringError{ISA: isa, Reason: "missing XLEN"}
	}
	xlen, err := strconv.Atoi(xlenStr)
	if err != nil || (xlen != 32 && xlen != 64) {
		return nil, &InvalidISAStringError{ISA: isa, Reason: "XLEN must be 32 or 64"}
	}
	if expectXLEN != 0 && xlen != expectXLEN {
		return nil, &InvalidISAStringError{ISA: isa, Reason: "XLEN does not match manager's configured XLEN"}
	}
	if len(s) == 0 {
		return nil, &InvalidISAStringError{ISA: isa, Reason: "missing base extension letter"}
	}
	base := s[0]
	if base != 'i' && base != 'e' && base != 'g' {
		return nil, &InvalidISAStringError{ISA: isa, Reason: "base extension must be i, e, or g"}
	}
	s = s[1:]

	var out []parsedExt
	if base == 'g' {
		out = append(out, parsedExt{name: "i"})
		for _, e := range metaGExpansion {
			out = append(out, parsedExt{name: e, forceEnable: true})
		}
	} else {
		out = append(out, parsedExt{name: string(base)})
	}

	// Single-character standard extensions until the first z/s/x letter.
	for len(s) > 0 {
		c := s[0]
		if c == 'z' || c == 's' || c == 'x' || c == '_' {
			break
		}
		s = s[1:]
		major, minor, rest, verr := consumeVersion(s)
		if verr != nil {
			return nil, &InvalidISAStringError{ISA: isa, Reason: verr.Error()}
		}
		s = rest
		out = append(out, parsedExt{name: string(c), major: major, minor: minor})
	}

	s = strings.TrimPrefix(s, "_")
	if s != "" {
		for _, tok := range strings.Split(s, "_") {
			if tok == "" {
				continue
			}
			name, major, minor, terr := splitTokenVersion(tok)
			if terr != nil {
				return nil, &InvalidISAStringError{ISA: isa, Reason: terr.Error()}
			}
			out = append(out, parsedExt{name: name, major: major, minor: minor})
		}
	}
	return out, nil
}

// consumeVersion reads an optional "<major>p<minor>" suffix from the start
// of s, returning the parsed version (0,0 if absent) and the remainder.
func consumeVersion(s string) (major, minor uint32, rest string, err error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != 'p' {
		return 0, 0, s, nil
	}
	majorVal, _ := strconv.Atoi(s[:i])
	j := i + 1
	start := j
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == start {
		return 0, 0, s, nil
	}
	minorVal, _ := strconv.Atoi(s[start:j])
	return uint32(majorVal), uint32(minorVal), s[j:], nil
}

func splitTokenVersion(tok string) (name string, major, minor uint32, err error) {
	i := len(tok)
	for i > 0 && tok[i-1] >= '0' && tok[i-1] <= '9' {
		i--
	}
	// walk back further to find an optional "<digits>p<digits>" suffix
	digitsEnd := len(tok)
	j := digitsEnd
	for j > 0 && tok[j-1] >= '0' && tok[j-1] <= '9' {
		j--
	}
	if j > 0 && tok[j-1] == 'p' {
		k := j - 1
		for k > 0 && tok[k-1] >= '0' && tok[k-1] <= '9' {
			k--
		}
		if k < j-1 {
			majorVal, _ := strconv.Atoi(tok[k : j-1])
			minorVal, _ := strconv.Atoi(tok[j:digitsEnd])
			return tok[:k], uint32(majorVal), uint32(minorVal), nil
		}
	}
	return tok, 0, 0, nil
}

// resolve runs the four-step algorithm: enable named extensions, expand
// aliases/meta-extensions to a fixed point, propagate transitive "enables",
// then check requires/conflicts.
func (m *RISCVExtensionManager) resolve(parsed []parsedExt) error {
	for _, p := range parsed {
		if existing, dup := m.enabled[p.name]; dup {
			// An extension already present because a base letter (e.g. "g")
			// force-expanded it is not a genuine duplicate when the ISA
			// string also names it explicitly — that's the conventional
			// "rv64gc_zicsr_zifencei" spelling. Only a second explicit
			// mention of an already-explicit extension is an error.
			if !existing.ForceEnabled {
				return &DuplicateExtensionError{Extension: p.name}
			}
			existing.Major, existing.Minor = p.major, p.minor
			continue
		}
		entry, ok := m.spec.Extensions[p.name]
		if !ok {
			switch m.spec.UnknownExtensionAction {
			case ActionIgnore:
				continue
			case ActionWarn:
				if m.diag != nil {
					m.diag.Warning(m.diag.Loc(0, 0), "unknown extension treated as enabled: "+p.name)
				}
				m.enabled[p.name] = &ExtensionInfo{Name: p.name, Major: p.major, Minor: p.minor, Enabled: true, ForceEnabled: p.forceEnable}
				continue
			default:
				return &UnknownExtensionError{Extension: p.name}
			}
		}
		m.enabled[p.name] = &ExtensionInfo{
			Name: p.name, Major: p.major, Minor: p.minor,
			Enabled: true, ForceEnabled: p.forceEnable, internalOnly: entry.InternalOnly,
		}
	}

	if err := m.expandAliasesAndMeta(); err != nil {
		return err
	}
	m.propagateEnables()
	return m.checkRequiresConflicts()
}

// expandAliasesAndMeta resolves deferred dependencies (aliases, the
// meta-extensions every enabled extension declares itself a member of)
// until stable; a cycle that never stabilizes raises CircularDependency.
func (m *RISCVExtensionManager) expandAliasesAndMeta() error {
	for round := 0; round < 64; round++ {
		changed := false
		for name := range maps.Clone(m.enabled) {
			entry, ok := m.spec.Extensions[name]
			if !ok {
				continue
			}
			for _, alias := range entry.Aliases {
				if alias == name {
					return &SelfReferentialError{Extension: name}
				}
				if _, present := m.enabled[alias]; !present {
					m.enabled[alias] = &ExtensionInfo{Name: alias, Enabled: true}
					changed = true
				}
			}
			for _, meta := range entry.MetaExtension {
				if _, present := m.enabled[meta]; !present {
					if _, known := m.spec.Extensions[meta]; known {
						m.enabled[meta] = &ExtensionInfo{Name: meta, Enabled: true}
						changed = true
						if m.diag != nil {
							m.diag.Trace(m.diag.Loc(0, 0), "meta-extension "+meta+" enabled via "+name)
						}
					}
				}
			}
		}
		if !changed {
			return nil
		}
	}
	return &CircularDependencyError{Cycle: maps.Keys(m.enabled)}
}

// propagateEnables computes the transitive closure of every enabled
// extension's "enables" list via fixed-point iteration.
func (m *RISCVExtensionManager) propagateEnables() {
	for {
		changed := false
		for name := range maps.Clone(m.enabled) {
			entry, ok := m.spec.Extensions[name]
			if !ok {
				continue
			}
			for _, target := range entry.Enables {
				if target == name {
					continue
				}
				info, present := m.enabled[target]
				if !present {
					m.enabled[target] = &ExtensionInfo{Name: target, Enabled: true, ForceEnabled: true}
					changed = true
				} else if !info.ForceEnabled {
					info.ForceEnabled = true
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

func (m *RISCVExtensionManager) checkRequiresConflicts() error {
	names := maps.Keys(m.enabled)
	sort.Strings(names)
	for _, name := range names {
		entry, ok := m.spec.Extensions[name]
		if !ok {
			continue
		}
		if len(m.blockList) > 0 && m.blockList.contains(name) {
			return &ExtensionNotAllowedError{Extension: name}
		}
		if len(m.allowList) > 0 && !m.allowList.contains(name) {
			return &ExtensionNotAllowedError{Extension: name}
		}
		if len(entry.XLEN) > 0 && !slices.Contains(entry.XLEN, m.xlen) {
			return &ExtensionXLENMismatchError{Extension: name, XLEN: m.xlen, Valid: entry.XLEN}
		}
		for _, req := range entry.Requires {
			if _, ok := m.enabled[req]; !ok {
				return &MissingRequiredExtensionError{Extension: name, Requires: req}
			}
		}
		for _, conflict := range entry.Conflicts {
			if _, ok := m.enabled[conflict]; ok {
				return &ConflictingExtensionError{Extension: name, Conflict: conflict}
			}
		}
		if len(entry.EnabledBy) > 0 {
			anyGroupSatisfied := false
			for _, group := range entry.EnabledBy {
				satisfied := true
				for _, member := range group {
					if _, ok := m.enabled[member]; !ok {
						satisfied = false
						break
					}
				}
				if satisfied {
					anyGroupSatisfied = true
					break
				}
			}
			info := m.enabled[name]
			if !info.ForceEnabled && !anyGroupSatisfied {
				if m.diag != nil {
					m.diag.Warning(m.diag.Loc(0, 0), "extension pruned, enabled_by unsatisfied: "+name)
				}
				delete(m.enabled, name)
			}
		}
	}
	return nil
}

// IsEnabled reports whether ext is enabled.
func (m *RISCVExtensionManager) IsEnabled(ext string) bool {
	_, ok := m.enabled[ext]
	return ok
}

// Info returns the resolved runtime record for an enabled extension.
func (m *RISCVExtensionManager) Info(ext string) (ExtensionInfo, bool) {
	info, ok := m.enabled[ext]
	if !ok {
		return ExtensionInfo{}, false
	}
	return *info, true
}

// GetEnabledExtensions returns the sorted list of enabled extension names.
// Internal-only extensions are always filtered from the result; when
// includeMeta is false, meta-extensions are filtered too.
func (m *RISCVExtensionManager) GetEnabledExtensions(includeMeta bool) []string {
	out := make([]string, 0, len(m.enabled))
	for name, info := range m.enabled {
		if info.internalOnly {
			continue
		}
		if entry, ok := m.spec.Extensions[name]; ok && entry.InternalOnly {
			continue
		}
		if !includeMeta {
			if entry, ok := m.spec.Extensions[name]; ok && entry.IsMetaExtension {
				continue
			}
		}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// GetJSONs returns the union of instruction-definition JSON files of every
// enabled extension.
func (m *RISCVExtensionManager) GetJSONs() []string {
	seen := make(MatchSet)
	var out []string
	for name := range m.enabled {
		entry, ok := m.spec.Extensions[name]
		if !ok {
			continue
		}
		for _, f := range entry.JSONFiles {
			if !seen.contains(f) {
				seen[f] = struct{}{}
				out = append(out, f)
			}
		}
	}
	slices.Sort(out)
	return out
}
