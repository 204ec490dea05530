package diagnostic

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format specifies the output format for diagnostic reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes compile diagnostics.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the diagnostic list to the output.
func (r *Reporter) Report(list *List) error {
	if list == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(list)
	default:
		return r.reportText(list)
	}
}

func (r *Reporter) reportJSON(list *List) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(list), "encoding JSON report")
}

func (r *Reporter) reportText(list *List) error {
	errs := list.Errors()
	warnings := list.Warnings()

	if len(errs) == 0 && len(warnings) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ Compile clean"))
		return nil
	}

	summary := []string{}
	if len(errs) > 0 {
		summary = append(summary, color.RedString("%d error(s)", len(errs)))
	}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	fmt.Fprintf(r.out, "%s\n\n", strings.Join(summary, ", "))

	if len(errs) > 0 {
		fmt.Fprintln(r.out, "Errors:")
		for _, d := range errs {
			r.printDiagnostic(d, color.FgRed)
		}
		fmt.Fprintln(r.out)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(r.out, "Warnings:")
		for _, d := range warnings {
			r.printDiagnostic(d, color.FgYellow)
		}
		fmt.Fprintln(r.out)
	}

	return nil
}

func (r *Reporter) printDiagnostic(d Diagnostic, c color.Attribute) {
	printer := color.New(c).SprintFunc()

	var sb strings.Builder
	sb.WriteString("  • ")
	sb.WriteString(printer(string(d.Code)))
	sb.WriteString(": ")

	if d.Field != "" {
		sb.WriteString(d.Field)
		sb.WriteString(": ")
	}

	sb.WriteString(d.Message)

	if len(d.Context) > 0 {
		var ctxParts []string
		for k, v := range d.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%s", k, v))
		}
		// Sort for deterministic output
		sort.Strings(ctxParts)

		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", strings.Join(ctxParts, ", ")))
	}

	if d.Value != nil {
		valStr := fmt.Sprintf("%v", d.Value)
		if len(valStr) > 50 {
			valStr = valStr[:47] + "..."
		}
		sb.WriteString(color.New(color.FgHiBlack).Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())

	if d.Remediation != "" {
		fmt.Fprintf(r.out, "    %s\n", color.New(color.FgHiBlack).Sprintf("→ %s", d.Remediation))
	}
}
