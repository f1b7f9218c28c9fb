package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"autoc/internal/driver"
	"autoc/internal/project"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated output and the module cache",
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache", false, "also clear the on-disk module cache")
}

func runClean(cmd *cobra.Command, args []string) error {
	root, found, err := project.FindProjectRoot(".")
	if err != nil {
		return err
	}
	if found {
		buildDir := filepath.Join(root, "build")
		if err := os.RemoveAll(buildDir); err != nil {
			return err
		}
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Println("removed", buildDir)
		}
	}

	clearCache, _ := cmd.Flags().GetBool("cache")
	if clearCache {
		cache, err := driver.OpenDiskCache("autoc")
		if err != nil {
			return err
		}
		if err := cache.Clear(); err != nil {
			return err
		}
	}
	return nil
}
