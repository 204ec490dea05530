package commands

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/strata/internal/compiler"
	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/errors"
	"github.com/thoreinstein/strata/internal/install"
	"github.com/thoreinstein/strata/internal/logging"
	"github.com/thoreinstein/strata/internal/plugin"
	"github.com/thoreinstein/strata/internal/preset"
	"github.com/thoreinstein/strata/internal/profile"
	"github.com/thoreinstein/strata/internal/source"
)

var (
	compileOut    string
	compileDryRun bool
	compileJSON   bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "",
		"output directory (defaults to output_dir from config)")
	compileCmd.Flags().BoolVar(&compileDryRun, "dry-run", false,
		"compile and print the settings document without writing files")
	compileCmd.Flags().BoolVar(&compileJSON, "json", false,
		"report diagnostics as JSON")

	rootCmd.AddCommand(compileCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile <profile>",
	Short: "Compile a profile into settings and artifacts",
	Long: `Compile resolves the profile's extends graph, merges all fragments,
runs the plugin pipeline, validates the result against the output
schema, and writes settings.json plus command and agent markdown files
under the output directory.

A compile is all-or-nothing: if any error diagnostic is produced,
nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
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

	if compileDryRun {
		data, err := result.Output.Settings.JSON()
		if err != nil {
			return errors.NewExitError(err, errors.ExitSystem)
		}
		cmd.Print(string(data))
		return nil
	}

	outDir := compileOut
	if outDir == "" {
		outDir = toolConfig.OutputDir
	}
	if err := install.New(outDir).Install(result.Output); err != nil {
		return errors.NewSystemError(err, "check the output directory is writable")
	}

	cmd.Printf("%s wrote %s (%d commands, %d agents)\n",
		color.GreenString("✓"), outDir,
		len(result.Output.Commands), len(result.Output.Agents))
	return nil
}

// compileProfile runs one compile over the given profile path using the
// configured preset search directories.
func compileProfile(cmd *cobra.Command, path string) (*compiler.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewUserError(
			errors.Wrap(errors.ErrInvalidProfile, err.Error()),
			"check the profile path")
	}

	loader := preset.NewLoader(preset.Builtins(), toolConfig.PresetDirs, nil)
	comp := compiler.New(loader, plugin.NewRegistry(),
		compiler.WithLogger(logging.FromContext(cmd.Context())),
		compiler.WithSourceReader(&source.FSReader{Root: filepath.Dir(path)}),
	)

	return comp.Compile(cmd.Context(), data, profile.DetectFormat(path), path), nil
}

// reportDiagnostics writes the result's diagnostics to stderr in the
// requested format. Clean-compile output is suppressed in text mode.
func reportDiagnostics(cmd *cobra.Command, result *compiler.Result) error {
	format := diagnostic.FormatText
	if compileJSON {
		format = diagnostic.FormatJSON
	}

	if format == diagnostic.FormatText && len(result.Diagnostics.Diagnostics) == 0 {
		return nil
	}

	reporter := diagnostic.NewReporter(cmd.ErrOrStderr(), format)
	if err := reporter.Report(&result.Diagnostics); err != nil {
		return errors.NewExitError(err, errors.ExitSystem)
	}
	return nil
}
