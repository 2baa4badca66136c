package decode

import "fmt"

// UID is a mnemonic's stable identifier within a context.
type UID uint32

// IllegalOpcodeError reports a word that decoded successfully but whose
// factory classifies it as an illegal instruction form (isIllop).
type IllegalOpcodeError struct {
	Opcode   uint64
	Mnemonic string
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("decode: illegal opcode 0x%x (%s)", e.Opcode, e.Mnemonic)
}

// UnknownOpcodeError reports a trie lookup that fell off an edge: no
// composite child or leaf matched the word.
type UnknownOpcodeError struct {
	Opcode uint64
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("decode: unknown opcode 0x%x", e.Opcode)
}

// UnknownMnemonicError reports a direct-info or trace path referencing a
// mnemonic with no installed factory.
type UnknownMnemonicError struct {
	Mnemonic string
}

func (e *UnknownMnemonicError) Error() string {
	return fmt.Sprintf("decode: unknown mnemonic %q", e.Mnemonic)
}

// UnknownPseudoMnemonicError reports a pseudo-instruction lookup that found
// no registered pseudo factory.
type UnknownPseudoMnemonicError struct {
	Mnemonic string
}

func (e *UnknownPseudoMnemonicError) Error() string {
	return fmt.Sprintf("decode: unknown pseudo mnemonic %q", e.Mnemonic)
}

// InvalidRegisterNumberError reports a direct-info register index exceeding
// its register file's size.
type InvalidRegisterNumberError struct {
	Number uint32
	Max    uint32
}

func (e *InvalidRegisterNumberError) Error() string {
	return fmt.Sprintf("decode: invalid register number %d (max %d)", e.Number, e.Max)
}

// UnsupportedSpecialFieldError reports an extractor asked for a special
// field it does not provide for the given mnemonic.
type UnsupportedSpecialFieldError struct {
	Field    SpecialField
	Mnemonic string
}

func (e *UnsupportedSpecialFieldError) Error() string {
	return fmt.Sprintf("decode: mnemonic %q does not support special field %d", e.Mnemonic, e.Field)
}

// InvalidSpecialFieldIDError reports a special-field request using an ID the
// extractor family does not recognize at all.
type InvalidSpecialFieldIDError struct {
	Field SpecialField
}

func (e *InvalidSpecialFieldIDError) Error() string {
	return fmt.Sprintf("decode: invalid special field id %d", e.Field)
}

// ContextAlreadyExistsError reports MakeContext called with a name already
// registered.
type ContextAlreadyExistsError struct {
	Name string
}

func (e *ContextAlreadyExistsError) Error() string {
	return fmt.Sprintf("decode: context %q already exists", e.Name)
}

// UnknownContextError reports SwitchContext (or any accessor) referencing an
// unregistered context name.
type UnknownContextError struct {
	Name string
}

func (e *UnknownContextError) Error() string {
	return fmt.Sprintf("decode: unknown context %q", e.Name)
}

// BadISAFileError reports an I/O or JSON-parse failure reading an
// instruction-definition file.
type BadISAFileError struct {
	Path string
	Err  error
}

func (e *BadISAFileError) Error() string {
	return fmt.Sprintf("decode: bad ISA file %s: %v", e.Path, e.Err)
}

func (e *BadISAFileError) Unwrap() error { return e.Err }

// BuildErrorOverlayBaseNotFoundError reports an overlay declared against a
// base mnemonic that was never installed (usually removed by tag filtering).
type BuildErrorOverlayBaseNotFoundError struct {
	Overlay string
	Base    string
}

func (e *BuildErrorOverlayBaseNotFoundError) Error() string {
	return fmt.Sprintf("decode: overlay %q names base %q which was not loaded", e.Overlay, e.Base)
}

// BuildErrorAmbiguousOpcodeError reports two distinct non-overlay factories
// selecting the same trie leaf.
type BuildErrorAmbiguousOpcodeError struct {
	First, Second string
}

func (e *BuildErrorAmbiguousOpcodeError) Error() string {
	return fmt.Sprintf("decode: ambiguous opcode — %q and %q select the same leaf", e.First, e.Second)
}
