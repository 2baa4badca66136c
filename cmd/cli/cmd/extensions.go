package cmd

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/keurnel/rvdecode/internal/isa"
)

var extensionsCmd = &cobra.Command{
	Use:     "extensions <isa-string>",
	GroupID: "decode",
	Short:   "Resolve an ISA string and list enabled extensions",
	Long:    `extensions parses an ISA string, runs alias/meta expansion and requires/conflicts checks, and prints the resulting extension set.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtensions(cmd, args)
	},
}

func runExtensions(cmd *cobra.Command, args []string) error {
	spec, err := isa.LoadExtensionSpec(cfg.ExtensionSpecPath)
	if err != nil {
		slog.Error("loading extension spec", "path", cfg.ExtensionSpecPath, "error", err)
		return fmt.Errorf("loading extension spec: %w", err)
	}

	xlen := 64
	isaString := args[0]
	if len(isaString) >= 4 && isaString[2:4] == "32" {
		xlen = 32
	}

	mgr := isa.NewRISCVExtensionManager(spec, xlen)
	mgr.SetAllowList(cfg.AllowList)
	mgr.SetBlockList(cfg.BlockList)
	if err := mgr.SetISA(isaString); err != nil {
		slog.Error("resolving ISA string", "isa", isaString, "error", err)
		return fmt.Errorf("resolving %q: %w", isaString, err)
	}

	bold := color.New(color.Bold)
	for _, name := range mgr.GetEnabledExtensions(true) {
		bold.Fprintf(cmd.OutOrStdout(), "%-12s", name)
		if info, ok := mgr.Info(name); ok {
			cmd.Printf("v%d.%d\n", info.Major, info.Minor)
			continue
		}
		cmd.Println()
	}
	return nil
}
