package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"autoc/internal/diagfmt"
	"autoc/internal/driver"
	"autoc/internal/project"
)

const noManifestMessage = "no auto.toml found\nplease specify the module explicitly, e.g.:\n  autoc build path/to/module"

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Compile a project to C",
	Long:  "Build compiles every module of a project to C, using auto.toml to locate the sources when no path is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().String("out-dir", "", "output directory (default <root>/build)")
	buildCmd.Flags().Bool("no-cache", false, "disable the on-disk module cache")
	buildCmd.Flags().String("ui", "auto", "interactive progress (auto|on|off)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	uiValue, _ := cmd.Flags().GetString("ui")
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("out-dir")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	jobs, _ := cmd.Root().PersistentFlags().GetInt("jobs")

	target, root, err := resolveBuildTarget(args)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = filepath.Join(root, "build")
	}

	files, err := listBuildFiles(target)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s modules under %s", project.SourceExt, target)
	}

	var cache *driver.DiskCache
	if !noCache {
		// A missing cache directory degrades to a cold build.
		cache, _ = driver.OpenDiskCache("autoc")
	}

	opts := driver.CompileOptions{
		MaxDiagnostics: maxDiagnostics(cmd),
		Jobs:           jobs,
		Cache:          cache,
	}

	var result *driver.CompileResult
	if shouldUseTUI(uiModeValue) && !quiet {
		result, err = runCompileWithUI(cmd.Context(), "building "+filepath.Base(root), files, opts)
	} else {
		result, err = driver.Compile(cmd.Context(), files, opts)
	}
	if err != nil {
		return err
	}

	printBuildDiagnostics(cmd, result)

	written, err := driver.WriteOutputs(result, outDir, nil)
	if err != nil {
		return err
	}
	if !quiet {
		for _, path := range written {
			fmt.Println(path)
		}
	}

	if result.HasErrors() {
		return errors.New("build finished with errors")
	}
	return nil
}

// resolveBuildTarget picks the source target and project root from
// the manifest or an explicit path argument.
func resolveBuildTarget(args []string) (target, root string, err error) {
	manifest, found, err := project.LoadManifest(".")
	if err != nil {
		return "", "", err
	}
	if found {
		return manifest.MainPath(), manifest.Root, nil
	}
	if len(args) == 0 {
		return "", "", errors.New(noManifestMessage)
	}
	target = args[0]
	root = target
	if info, statErr := os.Stat(target); statErr == nil && !info.IsDir() {
		root = filepath.Dir(target)
	}
	return target, root, nil
}

func listBuildFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return project.ListSourceFiles(target)
	}
	if filepath.Ext(target) != project.SourceExt {
		return nil, fmt.Errorf("%s: not an %s module", target, project.SourceExt)
	}
	return []string{target}, nil
}

// printBuildDiagnostics renders every module's diagnostics grouped in
// file order.
func printBuildDiagnostics(cmd *cobra.Command, result *driver.CompileResult) {
	color := useColor(cmd, os.Stderr)
	for i := range result.Modules {
		bag := result.Modules[i].Bag
		if bag.Len() == 0 {
			continue
		}
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			ShowNotes: true,
		})
	}
}

func runCompileWithUI(ctx context.Context, title string, files []string, opts driver.CompileOptions) (*driver.CompileResult, error) {
	events := make(chan driver.Event, 256)
	type outcome struct {
		result *driver.CompileResult
		err    error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		opts.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.Compile(ctx, files, opts)
		outcomeCh <- outcome{result: res, err: err}
		close(events)
	}()

	uiErr := runProgress(title, files, events)
	got := <-outcomeCh
	if uiErr != nil && got.err == nil {
		return got.result, uiErr
	}
	return got.result, got.err
}
