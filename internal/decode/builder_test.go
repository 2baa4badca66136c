package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadISAFile_BasicDecode(t *testing.T) {
	_, root := buildRIContext(t)

	addWord := encode(t, testRForm(), 0x00000033, map[string]uint64{"rd": 1, "rs1": 2, "rs2": 3})
	factory, err := root.getInfo(addWord)
	require.NoError(t, err, "getInfo(add)")
	require.Equal(t, "add", factory.Mnemonic)

	subWord := encode(t, testRForm(), 0x40000033, map[string]uint64{"rd": 4, "rs1": 5, "rs2": 6})
	factory, err = root.getInfo(subWord)
	require.NoError(t, err, "getInfo(sub)")
	require.Equal(t, "sub", factory.Mnemonic)
}

func TestLoadISAFile_AmbiguousOpcode(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONFile(t, dir, "dup.json", `{
		"instructions": [
			{ "mnemonic": "add", "form": "R", "stencil": "0x00000033", "type": ["int"] },
			{ "mnemonic": "addx", "form": "R", "stencil": "0x00000033", "type": ["int"] }
		]
	}`)
	b := NewFactoryBuilder(testFormRegistry(), nil, nil, nil)
	err := b.LoadISAFile(path)
	require.Error(t, err, "expected an error installing two mnemonics onto the same stencil")

	var ambig *BuildErrorAmbiguousOpcodeError
	require.ErrorAs(t, err, &ambig)
}

func TestResolveOverlays_BaseNotFound(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONFile(t, dir, "overlay.json", `{
		"instructions": [
			{ "mnemonic": "addi", "form": "I", "stencil": "0x00000013", "type": ["int"], "tags": ["base-only"] },
			{ "mnemonic": "mv", "form": "I", "stencil": "0x00000013", "type": ["int", "move"],
			  "overlay": { "base": "addi", "match": { "imm": 0 } } }
		]
	}`)
	// Excluding "base-only" drops addi entirely, so the overlay naming it
	// as a base can never resolve — the scenario spec.md calls out
	// explicitly for BuildErrorOverlayBaseNotFoundError.
	b := NewFactoryBuilder(testFormRegistry(), nil, nil, []string{"base-only"})
	require.NoError(t, b.LoadISAFile(path))

	err := b.ResolveOverlays()
	var notFound *BuildErrorOverlayBaseNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "mv", notFound.Overlay)
	require.Equal(t, "addi", notFound.Base)
}

func TestResolveOverlays_DropImmediate(t *testing.T) {
	_, root := buildRIContext(t)
	form := testIForm()

	mvWord := encode(t, form, 0x00000013, map[string]uint64{"rd": 5, "rs1": 10, "imm": 0})
	factory, err := root.getInfo(mvWord)
	require.NoError(t, err, "getInfo(mv word)")
	info, _ := factory.GetInfo(mvWord)
	require.Equal(t, "mv", info.Mnemonic)
	require.False(t, info.HasImmediate, "mv overlay should drop the immediate")
	require.Zero(t, info.Immediate)

	addiWord := encode(t, form, 0x00000013, map[string]uint64{"rd": 5, "rs1": 10, "imm": 7})
	factory, err = root.getInfo(addiWord)
	require.NoError(t, err, "getInfo(addi word)")
	info, _ = factory.GetInfo(addiWord)
	require.Equal(t, "addi", info.Mnemonic, "imm != 0 must not match the mv overlay")
	require.True(t, info.HasImmediate, "addi should keep its immediate")
	require.EqualValues(t, 7, info.Immediate)
}

func TestTagFilter_IncludeExclude(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONFile(t, dir, "tagged.json", `{
		"instructions": [
			{ "mnemonic": "add", "form": "R", "stencil": "0x00000033", "type": ["int"] },
			{ "mnemonic": "mul", "form": "R", "stencil": "0x02000033", "type": ["int"], "tags": ["m"] }
		]
	}`)

	excluding := NewFactoryBuilder(testFormRegistry(), nil, nil, []string{"m"})
	require.NoError(t, excluding.LoadISAFile(path))
	_, ok := excluding.Factory("mul")
	require.False(t, ok, "expected mul excluded by tag filter")
	_, ok = excluding.Factory("add")
	require.True(t, ok, "expected add (no tags) to pass an exclude-only filter")

	including := NewFactoryBuilder(testFormRegistry(), nil, []string{"m"}, nil)
	require.NoError(t, including.LoadISAFile(path))
	_, ok = including.Factory("add")
	require.False(t, ok, "expected add excluded: an include allowlist without its tag must drop it")
	_, ok = including.Factory("mul")
	require.True(t, ok, "expected mul included: it carries the allowlisted tag")
}

func TestInstall_UnknownForm(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONFile(t, dir, "badform.json", `{
		"instructions": [
			{ "mnemonic": "vadd.vv", "form": "V", "stencil": "0x00000057", "type": ["vector"] }
		]
	}`)
	b := NewFactoryBuilder(testFormRegistry(), nil, nil, nil)
	require.Error(t, b.LoadISAFile(path), "expected an error for a form with no registered definition")
}

func TestUIDMap_ReservesExplicitUID(t *testing.T) {
	dir := t.TempDir()
	path := writeJSONFile(t, dir, "uid.json", `{
		"instructions": [
			{ "mnemonic": "addi", "form": "I", "stencil": "0x00000013", "type": ["int"] },
			{ "mnemonic": "add", "form": "R", "stencil": "0x00000033", "type": ["int"] }
		]
	}`)
	b := NewFactoryBuilder(testFormRegistry(), map[string]UID{"addi": 100}, nil, nil)
	require.NoError(t, b.LoadISAFile(path))

	addi, ok := b.Factory("addi")
	require.True(t, ok)
	require.EqualValues(t, 100, addi.UID)

	add, ok := b.Factory("add")
	require.True(t, ok)
	require.NotEqualValues(t, 100, add.UID, "add UID collided with the reserved addi UID")
}
