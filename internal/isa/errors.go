// Package isa resolves a RISC-V ISA string (given as text or read from an
// ELF .riscv.attributes section) plus an extension-spec JSON file into the
// concrete set of enabled extensions and the instruction-definition JSON
// files a decode.Context should load.
package isa

import "fmt"

// InvalidJSONDirectoryError reports a JSON search directory that does not
// exist or is not a directory.
type InvalidJSONDirectoryError struct {
	Path string
}

func (e *InvalidJSONDirectoryError) Error() string {
	return fmt.Sprintf("isa: invalid JSON directory %q", e.Path)
}

// MissingRequiredJSONKeyError reports an extension-spec entry missing a
// required key.
type MissingRequiredJSONKeyError struct {
	Extension, Key string
}

func (e *MissingRequiredJSONKeyError) Error() string {
	return fmt.Sprintf("isa: extension %q missing required key %q", e.Extension, e.Key)
}

// MetaExtensionUnexpectedJSONKeyError reports a meta-extension entry
// carrying a key only concrete extensions may have (e.g. "json").
type MetaExtensionUnexpectedJSONKeyError struct {
	Extension, Key string
}

func (e *MetaExtensionUnexpectedJSONKeyError) Error() string {
	return fmt.Sprintf("isa: meta-extension %q has unexpected key %q", e.Extension, e.Key)
}

// InvalidISAStringError reports a syntactically malformed ISA string.
type InvalidISAStringError struct {
	ISA    string
	Reason string
}

func (e *InvalidISAStringError) Error() string {
	return fmt.Sprintf("isa: invalid ISA string %q: %s", e.ISA, e.Reason)
}

// DuplicateExtensionError reports the same extension named twice in one ISA
// string.
type DuplicateExtensionError struct {
	Extension string
}

func (e *DuplicateExtensionError) Error() string {
	return fmt.Sprintf("isa: duplicate extension %q", e.Extension)
}

// UnknownExtensionError reports an extension letter/word with no spec
// entry, under the ERROR unknown-extension action.
type UnknownExtensionError struct {
	Extension string
}

func (e *UnknownExtensionError) Error() string {
	return fmt.Sprintf("isa: unknown extension %q", e.Extension)
}

// MissingRequiredExtensionError reports an enabled extension whose
// "requires" list is not fully satisfied.
type MissingRequiredExtensionError struct {
	Extension, Requires string
}

func (e *MissingRequiredExtensionError) Error() string {
	return fmt.Sprintf("isa: extension %q requires %q, which is not enabled", e.Extension, e.Requires)
}

// ConflictingExtensionError reports two mutually exclusive extensions both
// enabled.
type ConflictingExtensionError struct {
	Extension, Conflict string
}

func (e *ConflictingExtensionError) Error() string {
	return fmt.Sprintf("isa: extension %q conflicts with enabled extension %q", e.Extension, e.Conflict)
}

// CircularDependencyError reports a dependency cycle among extensions.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("isa: circular dependency: %v", e.Cycle)
}

// SelfReferentialError reports an extension naming itself in its own
// enables/requires/conflicts list.
type SelfReferentialError struct {
	Extension string
}

func (e *SelfReferentialError) Error() string {
	return fmt.Sprintf("isa: extension %q is self-referential", e.Extension)
}

// UnresolvedDependencyError reports an alias or meta-extension expansion
// that never reached a fixed point.
type UnresolvedDependencyError struct {
	Extension string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("isa: unresolved dependency for extension %q", e.Extension)
}

// ExtensionNotAllowedError reports an extension selected despite being
// blocklisted, or missing from a non-empty allowlist.
type ExtensionNotAllowedError struct {
	Extension string
}

func (e *ExtensionNotAllowedError) Error() string {
	return fmt.Sprintf("isa: extension %q is not allowed", e.Extension)
}

// ExtensionXLENMismatchError reports an extension enabled on an XLEN its
// spec entry does not list as valid.
type ExtensionXLENMismatchError struct {
	Extension string
	XLEN      int
	Valid     []int
}

func (e *ExtensionXLENMismatchError) Error() string {
	return fmt.Sprintf("isa: extension %q does not support rv%d (valid: %v)", e.Extension, e.XLEN, e.Valid)
}

// ELFNotFoundError reports an ELF path that could not be opened.
type ELFNotFoundError struct {
	Path string
	Err  error
}

func (e *ELFNotFoundError) Error() string { return fmt.Sprintf("isa: ELF not found at %s: %v", e.Path, e.Err) }
func (e *ELFNotFoundError) Unwrap() error  { return e.Err }

// ISANotFoundInELFError reports a well-formed ELF with no
// .riscv.attributes Tag_RISCV_arch entry.
type ISANotFoundInELFError struct {
	Path string
}

func (e *ISANotFoundInELFError) Error() string {
	return fmt.Sprintf("isa: no ISA string found in ELF attributes of %s", e.Path)
}
