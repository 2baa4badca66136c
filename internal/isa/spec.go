package isa

import (
	"fmt"
	"os"

	json "github.com/go-json-experiment/json"
)

type extensionEntryJSON struct {
	XLEN            []int      `json:"xlen"`
	IsMetaExtension bool       `json:"is_meta_extension"`
	IsBaseExtension bool       `json:"is_base_extension"`
	MetaExtension   []string   `json:"meta_extension"`
	Aliases         []string   `json:"aliases"`
	Enables         []string   `json:"enables"`
	EnabledBy       [][]string `json:"enabled_by"`
	Requires        []string   `json:"requires"`
	Conflicts       []string   `json:"conflicts"`
	InternalOnly    bool       `json:"internal_only"`
	JSON            []string   `json:"json"`
}

type extensionSpecFileJSON struct {
	UnknownExtensionAction string                        `json:"unknown_extension_action"`
	Extensions             map[string]extensionEntryJSON `json:"extensions"`
}

// LoadExtensionSpec reads and parses an extension-spec JSON file.
func LoadExtensionSpec(path string) (*ExtensionSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("isa: reading extension spec %s: %w", path, err)
	}
	var file extensionSpecFileJSON
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	spec := &ExtensionSpec{
		Extensions: make(map[string]*ExtensionSpecEntry, len(file.Extensions)),
	}
	switch file.UnknownExtensionAction {
	case "warn":
		spec.UnknownExtensionAction = ActionWarn
	case "ignore":
		spec.UnknownExtensionAction = ActionIgnore
	default:
		spec.UnknownExtensionAction = ActionError
	}
	for name, e := range file.Extensions {
		if !e.IsMetaExtension && len(e.JSON) == 0 {
			return nil, &MissingRequiredJSONKeyError{Extension: name, Key: "json"}
		}
		if e.IsMetaExtension && len(e.JSON) != 0 {
			return nil, &MetaExtensionUnexpectedJSONKeyError{Extension: name, Key: "json"}
		}
		spec.Extensions[name] = &ExtensionSpecEntry{
			Name:            name,
			XLEN:            e.XLEN,
			IsMetaExtension: e.IsMetaExtension,
			IsBaseExtension: e.IsBaseExtension,
			MetaExtension:   e.MetaExtension,
			Aliases:         e.Aliases,
			Enables:         e.Enables,
			EnabledBy:       e.EnabledBy,
			Requires:        e.Requires,
			Conflicts:       e.Conflicts,
			InternalOnly:    e.InternalOnly,
			JSONFiles:       e.JSON,
		}
	}
	return spec, nil
}
