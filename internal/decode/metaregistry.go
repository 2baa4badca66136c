package decode

import (
	"fmt"
	"os"

	json "github.com/go-json-experiment/json"
)

// annoFileEntry is one entry of an annotation-override JSON file: a
// mnemonic plus the attribute map to merge into its annotation.
type annoFileEntry struct {
	Mnemonic string         `json:"mnemonic"`
	Attrs    map[string]any `json:"attrs"`
}

// LoadAnnotationFile reads a JSON file of {mnemonic, attrs} entries and
// applies each attribute as an override, per spec.md §6's annotation-file
// schema.
func LoadAnnotationFile(reg *MetaRegistry, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &BadISAFileError{Path: path, Err: err}
	}
	var entries []annoFileEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return &BadISAFileError{Path: path, Err: err}
	}
	for _, e := range entries {
		for attr, value := range e.Attrs {
			if err := reg.ApplyOverride(e.Mnemonic, attr, value); err != nil {
				return &BadISAFileError{Path: path, Err: err}
			}
		}
	}
	return nil
}

// applyAnnotationOverride parses an override's "attr:value" JSON fragment
// (a single-key object) and merges it into the named mnemonic's annotation.
func applyAnnotationOverride(reg *MetaRegistry, ov AnnotationOverride) error {
	var fragment map[string]any
	if err := json.Unmarshal([]byte(ov.AttrJSON), &fragment); err != nil {
		return fmt.Errorf("decode: bad annotation override for %q: %w", ov.Mnemonic, err)
	}
	if len(fragment) != 1 {
		return fmt.Errorf("decode: annotation override for %q must be a single-key object, got %d keys", ov.Mnemonic, len(fragment))
	}
	for attr, value := range fragment {
		return reg.ApplyOverride(ov.Mnemonic, attr, value)
	}
	return nil
}

// AnnotationOverride is a (mnemonic, "attr:value") pair applied after
// loading to mutate that mnemonic's annotation payload. Overrides apply only
// during construction; they never retroactively affect an already-built
// context.
type AnnotationOverride struct {
	Mnemonic string
	AttrJSON string // a single-key JSON object fragment, e.g. `{"pipelined":false}`
}

// MetaRegistry does mnemonic<->UID lookup and owns every InstMetaData for a
// context. It is built once at construction and immutable thereafter.
type MetaRegistry struct {
	byMnemonic map[string]*InstMetaData
	byUID      map[UID]*InstMetaData
	reserved   map[string]UID // user-supplied mnemonic->UID mapping, consulted before auto-allocating
	nextUID    UID
}

// NewMetaRegistry returns an empty registry. uidMap reserves specific UIDs
// for specific mnemonics (e.g. nop); auto-allocation skips any UID already
// reserved.
func NewMetaRegistry(uidMap map[string]UID) *MetaRegistry {
	return &MetaRegistry{
		byMnemonic: make(map[string]*InstMetaData),
		byUID:      make(map[UID]*InstMetaData),
		reserved:   uidMap,
	}
}

// Register installs meta for mnemonic, assigning meta.UID from the reserved
// map if present, else auto-allocating the next free UID.
func (r *MetaRegistry) Register(meta *InstMetaData) {
	if uid, ok := r.reserved[meta.Mnemonic]; ok {
		meta.UID = uid
	} else {
		for {
			r.nextUID++
			_, taken := r.byUID[r.nextUID]
			for _, res := range r.reserved {
				if res == r.nextUID {
					taken = true
				}
			}
			if !taken {
				meta.UID = r.nextUID
				break
			}
		}
	}
	r.byMnemonic[meta.Mnemonic] = meta
	r.byUID[meta.UID] = meta
}

// ByMnemonic looks up meta by mnemonic.
func (r *MetaRegistry) ByMnemonic(mnemonic string) (*InstMetaData, bool) {
	m, ok := r.byMnemonic[mnemonic]
	return m, ok
}

// ByUID looks up meta by UID.
func (r *MetaRegistry) ByUID(uid UID) (*InstMetaData, bool) {
	m, ok := r.byUID[uid]
	return m, ok
}

// ApplyOverride merges an annotation override's single-key JSON fragment
// into the named mnemonic's annotation map. The fragment must already be
// decoded into a single key/value pair by the caller (LoadAnnotationFile or
// applyAnnotationOverride, which own the JSON decoding).
func (r *MetaRegistry) ApplyOverride(mnemonic, attr string, value any) error {
	meta, ok := r.byMnemonic[mnemonic]
	if !ok {
		return fmt.Errorf("decode: annotation override for unknown mnemonic %q", mnemonic)
	}
	if meta.Annotation == nil {
		meta.Annotation = make(Annotation)
	}
	meta.Annotation[attr] = value
	return nil
}
