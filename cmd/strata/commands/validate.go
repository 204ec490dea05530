package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/strata/internal/errors"
)

func init() {
	validateCmd.Flags().BoolVar(&compileJSON, "json", false,
		"report diagnostics as JSON")

	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <profile>",
	Short: "Compile a profile without writing anything",
	Long: `Validate runs the full compile pipeline over a profile, including
preset resolution, plugins, and schema validation, and reports the
diagnostics. No files are written.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	result, err := compileProfile(cmd, args[0])
	if err != nil {
		return err
	}

	if err := reportDiagnostics(cmd, result); err != nil {
		return err
	}
	if result.Failed() {
		return errors.NewUserError(errors.ErrCompileFailed, "fix the errors above and re-run")
	}

	if !compileJSON {
		cmd.Printf("%s %s compiles cleanly\n", color.GreenString("✓"), args[0])
	}
	return nil
}
