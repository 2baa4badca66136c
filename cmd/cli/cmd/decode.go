package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/keurnel/rvdecode/riscv"
)

var decodeCmd = &cobra.Command{
	Use:     "decode <hex-word>",
	GroupID: "decode",
	Short:   "Decode a single instruction word",
	Long:    `Decode prints the fields of a single RISC-V instruction word.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecode(cmd, args)
	},
}

func runDecode(cmd *cobra.Command, args []string) error {
	word, err := parseHexWord(args[0])
	if err != nil {
		return err
	}

	dec, err := buildDecoder()
	if err != nil {
		slog.Error("building decoder", "isa", cfg.DefaultISA, "error", err)
		return fmt.Errorf("building decoder: %w", err)
	}

	inst, err := dec.MakeInst(word)
	if err != nil {
		slog.Error("decoding word", "word", word, "error", err)
		return fmt.Errorf("decoding 0x%x: %w", word, err)
	}
	slog.Debug("decoded", "mnemonic", inst.Mnemonic(), "uid", inst.UID())

	cmd.Printf("mnemonic: %s\n", inst.Mnemonic())
	cmd.Printf("uid:      %d\n", inst.UID())
	cmd.Printf("opcode:   0x%x\n", inst.Opcode())
	if imm, ok := inst.Immediate(); ok {
		cmd.Printf("immediate: %d\n", imm)
	}
	spew.Fdump(cmd.OutOrStdout(), inst)
	return nil
}

// parseHexWord accepts either a bare hex string or a "0x"-prefixed one.
func parseHexWord(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 64)
}

func buildDecoder() (*riscv.Decoder, error) {
	isaString := cfg.DefaultISA
	return riscv.NewDecoderFromISA(isaString, riscv.BuildOptions{
		ExtensionSpecPath: cfg.ExtensionSpecPath,
		JSONDir:           cfg.JSONDir,
		AllowList:         cfg.AllowList,
		BlockList:         cfg.BlockList,
	})
}
