package riscv_test

import (
	"errors"
	"testing"

	"github.com/keurnel/rvdecode/internal/decode"
	"github.com/keurnel/rvdecode/internal/isa"
	"github.com/keurnel/rvdecode/riscv"
)

const testdataDir = "../testdata/isa"
const extSpecPath = testdataDir + "/extensions.json"

// encode builds an opcode word from a base stencil plus named field values,
// looking each field's LSB up from the real registered form so a test can
// never drift from how the builder itself lays a form out.
func encode(t *testing.T, formName string, stencil uint64, fields map[string]uint64) uint64 {
	t.Helper()
	forms := decode.NewFormRegistry()
	riscv.RegisterBuiltinForms(forms)
	form, ok := forms.Lookup(formName)
	if !ok {
		t.Fatalf("no registered form %q", formName)
	}
	w := stencil
	for name, val := range fields {
		f, ok := form.FieldByName(name)
		if !ok {
			t.Fatalf("form %q has no field %q", formName, name)
		}
		w |= val << f.LSB
	}
	return w
}

func rv64I(t *testing.T) *riscv.Decoder {
	t.Helper()
	dec, err := riscv.NewDecoderFromISA("rv64i", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
	})
	if err != nil {
		t.Fatalf("NewDecoderFromISA: %v", err)
	}
	return dec
}

func TestNewDecoderFromISA_AddSub(t *testing.T) {
	dec := rv64I(t)

	addWord := encode(t, "R", 0x00000033, map[string]uint64{"rd": 1, "rs1": 2, "rs2": 3})
	inst, err := dec.MakeInst(addWord)
	if err != nil {
		t.Fatalf("MakeInst(add): %v", err)
	}
	if inst.Mnemonic() != "add" {
		t.Errorf("mnemonic = %q, want add", inst.Mnemonic())
	}
	if got := inst.SourceRegs(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("SourceRegs() = %v, want [2 3]", got)
	}
	if got := inst.DestRegs(); len(got) != 1 || got[0] != 1 {
		t.Errorf("DestRegs() = %v, want [1]", got)
	}

	subWord := encode(t, "R", 0x40000033, map[string]uint64{"rd": 4, "rs1": 5, "rs2": 6})
	inst, err = dec.MakeInst(subWord)
	if err != nil {
		t.Fatalf("MakeInst(sub): %v", err)
	}
	if inst.Mnemonic() != "sub" {
		t.Errorf("mnemonic = %q, want sub", inst.Mnemonic())
	}
}

func TestNewDecoderFromISA_MvOverlayDropsImmediate(t *testing.T) {
	dec := rv64I(t)

	mvWord := encode(t, "I", 0x00000013, map[string]uint64{"rd": 5, "rs1": 10, "imm": 0})
	inst, err := dec.MakeInst(mvWord)
	if err != nil {
		t.Fatalf("MakeInst(mv): %v", err)
	}
	if inst.Mnemonic() != "mv" {
		t.Fatalf("mnemonic = %q, want mv", inst.Mnemonic())
	}
	if _, has := inst.Immediate(); has {
		t.Error("mv overlay should drop the immediate")
	}

	addiWord := encode(t, "I", 0x00000013, map[string]uint64{"rd": 5, "rs1": 10, "imm": 3})
	inst, err = dec.MakeInst(addiWord)
	if err != nil {
		t.Fatalf("MakeInst(addi): %v", err)
	}
	if inst.Mnemonic() != "addi" {
		t.Errorf("mnemonic = %q, want addi (non-zero imm must not match the mv overlay)", inst.Mnemonic())
	}
	if imm, has := inst.Immediate(); !has || imm != 3 {
		t.Errorf("Immediate() = (%d, %v), want (3, true)", imm, has)
	}
}

func TestNewDecoderFromISA_PrefetchOverlayTagFiltered(t *testing.T) {
	dec := rv64I(t)

	// ori and prefetch.i share a stencil (0x00006013); only rd==0 selects
	// the prefetch.i overlay.
	oriWord := encode(t, "I", 0x00006013, map[string]uint64{"rd": 1, "rs1": 2, "imm": 4})
	inst, err := dec.MakeInst(oriWord)
	if err != nil {
		t.Fatalf("MakeInst(ori): %v", err)
	}
	if inst.Mnemonic() != "ori" {
		t.Errorf("mnemonic = %q, want ori", inst.Mnemonic())
	}

	prefetchWord := encode(t, "I", 0x00006013, map[string]uint64{"rd": 0, "rs1": 2, "imm": 4})
	inst, err = dec.MakeInst(prefetchWord)
	if err != nil {
		t.Fatalf("MakeInst(prefetch.i): %v", err)
	}
	if inst.Mnemonic() != "prefetch.i" {
		t.Errorf("mnemonic = %q, want prefetch.i", inst.Mnemonic())
	}

	// Excluding the "pf" tag drops the prefetch.i overlay, so the same word
	// decodes as ori.
	noPF, err := riscv.NewDecoderFromISA("rv64i", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
		ExcludeTags:       []string{"pf"},
	})
	if err != nil {
		t.Fatalf("NewDecoderFromISA(exclude pf): %v", err)
	}
	inst, err = noPF.MakeInst(prefetchWord)
	if err != nil {
		t.Fatalf("MakeInst(prefetch word, pf excluded): %v", err)
	}
	if inst.Mnemonic() != "ori" {
		t.Errorf("mnemonic = %q, want ori with the pf tag excluded", inst.Mnemonic())
	}
}

func TestNewDecoderFromISA_Jalr(t *testing.T) {
	dec := rv64I(t)
	word := encode(t, "I", 0x00000067, map[string]uint64{"rd": 1, "rs1": 2, "imm": 0})
	inst, err := dec.MakeInst(word)
	if err != nil {
		t.Fatalf("MakeInst(jalr): %v", err)
	}
	if inst.Mnemonic() != "jalr" {
		t.Errorf("mnemonic = %q, want jalr", inst.Mnemonic())
	}
	if !inst.HasType(decode.TypeCall) || !inst.HasType(decode.TypeReturn) {
		t.Errorf("jalr should carry both call and return flags (rv_i.json tags it [int call return])")
	}
}

func TestNewDecoderFromISA_UnknownOpcode(t *testing.T) {
	dec := rv64I(t)
	_, err := dec.MakeInst(0)
	if _, ok := err.(*decode.UnknownOpcodeError); !ok {
		t.Errorf("error = %v (%T), want *decode.UnknownOpcodeError", err, err)
	}
}

func TestNewDecoderFromISA_MissingRequiredExtension(t *testing.T) {
	_, err := riscv.NewDecoderFromISA("rv64imafc_zcd", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
	})
	var merr *isa.MissingRequiredExtensionError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v (%T), want *isa.MissingRequiredExtensionError", err, err)
	}
	if merr.Extension != "zcd" || merr.Requires != "d" {
		t.Errorf("got %+v, want extension=zcd requires=d", merr)
	}
}

func TestNewDecoderFromISA_AnnotationOverrides(t *testing.T) {
	dec, err := riscv.NewDecoderFromISA("rv64im", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
		AnnoJSONs:         []string{"anno_pipeline.json"},
	})
	if err != nil {
		t.Fatalf("NewDecoderFromISA: %v", err)
	}

	addWord := encode(t, "R", 0x00000033, map[string]uint64{"rd": 1, "rs1": 2, "rs2": 3})
	add, err := dec.MakeInst(addWord)
	if err != nil {
		t.Fatalf("MakeInst(add): %v", err)
	}
	if !riscv.Pipelined(add.Annotation()) {
		t.Error("add should be pipelined per anno_pipeline.json")
	}
	if group := riscv.ROBGroup(add.Annotation()); len(group) != 2 || group[0] != "begin" || group[1] != "commit" {
		t.Errorf("ROBGroup(add) = %v, want [begin commit]", group)
	}

	mulWord := encode(t, "R", 0x02000033, map[string]uint64{"rd": 1, "rs1": 2, "rs2": 3})
	mul, err := dec.MakeInst(mulWord)
	if err != nil {
		t.Fatalf("MakeInst(mul): %v", err)
	}
	if riscv.Pipelined(mul.Annotation()) {
		t.Error("mul should not be pipelined per anno_pipeline.json")
	}
}

func TestNewDecoderFromISA_ZclsdPairedDestOnRV32(t *testing.T) {
	dec, err := riscv.NewDecoderFromISA("rv32ic_zclsd", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
	})
	if err != nil {
		t.Fatalf("NewDecoderFromISA: %v", err)
	}

	// rs1_short=1 (x9), rd_short=0 (x8), imm_cl2=1, imm_cl=2.
	word := encode(t, "CL", 0x6000, map[string]uint64{
		"c_rs1_short": 1, "c_rd_short": 0, "c_imm_cl2": 1, "c_imm_cl": 2,
	})
	inst, err := dec.MakeInst(word)
	if err != nil {
		t.Fatalf("MakeInst(c.ld): %v", err)
	}
	if inst.Mnemonic() != "c.ld" {
		t.Fatalf("mnemonic = %q, want c.ld", inst.Mnemonic())
	}
	dests := inst.DestRegs()
	if len(dests) != 2 || dests[0] != 8 || dests[1] != 9 {
		t.Errorf("DestRegs() = %v, want [8 9] (Zclsd's paired rd/rd+1 destination)", dests)
	}
}

func TestNewDecoderFromISA_ZclsdRejectedOnRV64(t *testing.T) {
	_, err := riscv.NewDecoderFromISA("rv64ic_zclsd", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
	})
	var mismatch *isa.ExtensionXLENMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v (%T), want *isa.ExtensionXLENMismatchError", err, err)
	}
	if mismatch.Extension != "zclsd" {
		t.Errorf("got %+v, want extension=zclsd", mismatch)
	}
}

func TestNewDecoderFromISA_PseudoCmov(t *testing.T) {
	dec, err := riscv.NewDecoderFromISA("rv64i", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
		PseudoJSONs:       []string{"rv_pseudo.json"},
	})
	if err != nil {
		t.Fatalf("NewDecoderFromISA: %v", err)
	}

	direct := decode.RegisterListExtractor{Info: decode.DirectInfo{
		Sources: []decode.OperandInfo{{Field: decode.FieldRS1, Number: 7}, {Field: decode.FieldRS2, Number: 8}},
		Dests:   []decode.OperandInfo{{Field: decode.FieldRD, Number: 9}},
	}}
	inst, err := dec.MakePseudoInst("cmov", direct)
	if err != nil {
		t.Fatalf("MakePseudoInst(cmov): %v", err)
	}
	if inst.Mnemonic() != "cmov" {
		t.Errorf("mnemonic = %q, want cmov", inst.Mnemonic())
	}
}

func TestNewDecoderFromISA_VectorVidV(t *testing.T) {
	dec, err := riscv.NewDecoderFromISA("rv64i_v", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
	})
	if err != nil {
		t.Fatalf("NewDecoderFromISA: %v", err)
	}

	word := encode(t, "V", 0x5008A057, map[string]uint64{"v_vd": 1})
	inst, err := dec.MakeInst(word)
	if err != nil {
		t.Fatalf("MakeInst(vid.v): %v", err)
	}
	if inst.Mnemonic() != "vid.v" {
		t.Fatalf("mnemonic = %q, want vid.v", inst.Mnemonic())
	}
	if inst.VectorSources() != 0b0 {
		t.Errorf("VectorSources() = %#b, want 0b0 (vid.v has no real vector source operand)", inst.VectorSources())
	}
	if inst.VectorDests() != 0b10 {
		t.Errorf("VectorDests() = %#b, want 0b10 (vd=1)", inst.VectorDests())
	}
}

func TestNewDecoderFromISA_ZcbImpliedImmediate(t *testing.T) {
	dec, err := riscv.NewDecoderFromISA("rv64ic_zcb", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
	})
	if err != nil {
		t.Fatalf("NewDecoderFromISA: %v", err)
	}

	word := encode(t, "CB", 0x9c61, nil)
	inst, err := dec.MakeInst(word)
	if err != nil {
		t.Fatalf("MakeInst(c.zext.b): %v", err)
	}
	if inst.Mnemonic() != "c.zext.b" {
		t.Fatalf("mnemonic = %q, want c.zext.b", inst.Mnemonic())
	}
	imm, has := inst.Immediate()
	if !has || imm != 0xFF {
		t.Errorf("Immediate() = (%#x, %v), want (0xff, true)", imm, has)
	}
	if !inst.ImmediateImplied() {
		t.Error("c.zext.b's immediate should be reported as implied, not encoded")
	}
}

func TestNewDecoderFromISA_UIDMapHonoured(t *testing.T) {
	dec, err := riscv.NewDecoderFromISA("rv64i", riscv.BuildOptions{
		ExtensionSpecPath: extSpecPath,
		JSONDir:           testdataDir,
		UIDMap:            map[string]decode.UID{"add": 500},
	})
	if err != nil {
		t.Fatalf("NewDecoderFromISA: %v", err)
	}
	addWord := encode(t, "R", 0x00000033, map[string]uint64{"rd": 1, "rs1": 2, "rs2": 3})
	inst, err := dec.MakeInst(addWord)
	if err != nil {
		t.Fatalf("MakeInst(add): %v", err)
	}
	if inst.UID() != 500 {
		t.Errorf("add UID = %d, want 500 (caller-supplied UIDMap entry)", inst.UID())
	}
}
