package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/keurnel/rvdecode/internal/isa"
)

var elfCmd = &cobra.Command{
	Use:     "elf <path>",
	GroupID: "decode",
	Short:   "Extract the ISA string from an ELF binary's build attributes",
	Long:    `elf reads the .riscv.attributes section of the given ELF file and prints the Tag_RISCV_arch string.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runELF(cmd, args)
	},
}

func runELF(cmd *cobra.Command, args []string) error {
	isaString, err := isa.ReadISAFromELF(args[0])
	if err != nil {
		slog.Error("reading ELF attributes", "path", args[0], "error", err)
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	slog.Debug("ISA string extracted", "path", args[0], "isa", isaString)
	cmd.Println(isaString)
	return nil
}
