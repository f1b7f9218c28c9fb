package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autoc/internal/diagfmt"
	"autoc/internal/driver"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [flags] file.at",
	Short: "Run the full front end over a module",
	Long:  "Diagnose lexes, parses and binds a module, reporting every diagnostic without generating code.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagnoseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	diagnoseCmd.Flags().Bool("notes", true, "show secondary notes")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	showNotes, _ := cmd.Flags().GetBool("notes")

	result, err := driver.Diagnose(args[0], maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}
	result.Bag.Sort()

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stdout),
			ShowNotes: showNotes,
		})
	case "json":
		if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     showNotes,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.Bag.HasErrors() {
		return fmt.Errorf("%s: %d diagnostics", args[0], result.Bag.Len())
	}
	return nil
}
