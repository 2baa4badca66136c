package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/keurnel/rvdecode/internal/config"
	"github.com/keurnel/rvdecode/internal/obslog"
)

var rootCmd = &cobra.Command{
	Use:   "rvdecode",
	Short: "RISC-V instruction decoder",
	Long:  `rvdecode decodes RISC-V instruction words against a configurable ISA.`,
}

var cfg config.Config

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "decode",
		Title: "Decoding",
	})

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(extensionsCmd)
	rootCmd.AddCommand(elfCmd)

	fs := pflag.NewFlagSet("rvdecode", pflag.ContinueOnError)
	fs.String("isa", "", "ISA string, e.g. rv64gc_zicsr_zifencei")
	fs.String("json-dir", "", "directory containing ISA/annotation/pseudo JSON files")
	fs.String("extension-spec", "", "path to the extension-spec JSON file")
	rootCmd.PersistentFlags().AddFlagSet(fs)

	cobra.OnInitialize(func() {
		loaded, err := config.Load(fs)
		if err != nil {
			cobra.CheckErr(err)
		}
		cfg = loaded

		level := slog.LevelInfo
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
		obslog.Default(obslog.Config{Level: level, JSON: cfg.LogJSON})
		slog.Debug("config loaded", "json_dir", cfg.JSONDir, "extension_spec", cfg.ExtensionSpecPath, "default_isa", cfg.DefaultISA)
	})
}
