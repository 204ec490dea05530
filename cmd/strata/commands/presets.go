package commands

import (
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/strata/internal/preset"
)

func init() {
	rootCmd.AddCommand(presetsCmd)
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available presets",
	Long: `Presets lists the builtin presets compiled into strata and the
directories searched for installed preset packages.`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

func runPresets(cmd *cobra.Command, args []string) error {
	builtins := preset.Builtins()
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd.Println(color.New(color.Bold).Sprint("Builtin presets:"))
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}

	cmd.Println()
	cmd.Println(color.New(color.Bold).Sprint("Package search paths:"))
	for _, dir := range toolConfig.PresetDirs {
		cmd.Printf("  %s\n", dir)
	}
	return nil
}
