package decode

import (
	"os"
	"path/filepath"
	"testing"
)

// testRForm and testIForm mirror the standard 32-bit R/I field layout
// (opcode@0/7, rd@7/5, funct3@12/3, rs1@15/5, rs2@20/5, funct7@25/7,
// imm@20/12) independently of extractors_form.go's own field vars, so a
// regression in that layout would show up here too.
func testRForm() Form {
	return Form{
		Name: "R",
		Fields: []Field{
			NewField("opcode", 0, 7), NewField("rd", 7, 5), NewField("funct3", 12, 3),
			NewField("rs1", 15, 5), NewField("rs2", 20, 5), NewField("funct7", 25, 7),
		},
		OpcodeFields: []Field{NewField("opcode", 0, 7), NewField("funct3", 12, 3), NewField("funct7", 25, 7)},
	}
}

func testIForm() Form {
	return Form{
		Name: "I",
		Fields: []Field{
			NewField("opcode", 0, 7), NewField("rd", 7, 5), NewField("funct3", 12, 3),
			NewField("rs1", 15, 5), NewField("imm", 20, 12),
		},
		OpcodeFields: []Field{NewField("opcode", 0, 7), NewField("funct3", 12, 3)},
	}
}

func testFormRegistry() *FormRegistry {
	reg := NewFormRegistry()
	reg.Register(testRForm())
	reg.Register(testIForm())
	return reg
}

// encode builds an opcode word from a base stencil plus named field values,
// looked up against form so the encoding always matches what the builder
// itself would extract back out.
func encode(t *testing.T, form Form, stencil uint64, fields map[string]uint64) uint64 {
	t.Helper()
	w := stencil
	for name, val := range fields {
		f, ok := form.FieldByName(name)
		if !ok {
			t.Fatalf("form %q has no field %q", form.Name, name)
		}
		w |= val << f.LSB
	}
	return w
}

func writeJSONFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeJSONFile(%s): %v", name, err)
	}
	return path
}

const riFixture = `{
  "instructions": [
    { "mnemonic": "add", "form": "R", "stencil": "0x00000033", "type": ["int"] },
    { "mnemonic": "sub", "form": "R", "stencil": "0x40000033", "type": ["int"] },
    { "mnemonic": "addi", "form": "I", "stencil": "0x00000013", "type": ["int"] },
    { "mnemonic": "mv", "form": "I", "stencil": "0x00000013", "type": ["int", "move"],
      "overlay": { "base": "addi", "match": { "imm": 0 }, "drop_immediate": true } }
  ]
}`

// buildRIContext loads riFixture into a fresh builder and finalizes it,
// returning the builder (for Factory/Meta lookups) and the resulting trie.
func buildRIContext(t *testing.T) (*FactoryBuilder, trieNode) {
	t.Helper()
	dir := t.TempDir()
	path := writeJSONFile(t, dir, "rv_i.json", riFixture)

	b := NewFactoryBuilder(testFormRegistry(), nil, nil, nil)
	if err := b.LoadISAFile(path); err != nil {
		t.Fatalf("LoadISAFile: %v", err)
	}
	if err := b.ResolveOverlays(); err != nil {
		t.Fatalf("ResolveOverlays: %v", err)
	}
	return b, b.Finalize()
}
