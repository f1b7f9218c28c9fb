package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autoc/internal/ast"
	"autoc/internal/diagfmt"
	"autoc/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.at",
	Short: "Parse an Auto source module",
	Long:  "Parse checks the syntax of an Auto module and summarizes its declarations.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	result, err := driver.Parse(args[0], maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		result.Bag.Sort()
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color: useColor(cmd, os.Stderr),
		})
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		printParseSummary(result.File)
	}

	if result.Bag.HasErrors() {
		return fmt.Errorf("%s: syntax errors", args[0])
	}
	return nil
}

func printParseSummary(file *ast.File) {
	var fns, types, tags, specs, uses int
	for _, d := range file.Decls {
		switch d.(type) {
		case *ast.FnDecl:
			fns++
		case *ast.TypeDecl:
			types++
		case *ast.TagDecl:
			tags++
		case *ast.SpecDecl:
			specs++
		case *ast.UseDecl:
			uses++
		}
	}
	fmt.Printf("module %s: %d fn, %d type, %d tag, %d spec, %d use",
		file.Module, fns, types, tags, specs, uses)
	if len(file.Stmts) > 0 {
		fmt.Printf(", %d script statements", len(file.Stmts))
	}
	fmt.Println()
}
