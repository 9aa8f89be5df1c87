package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file and create the run store",
	Long: `Create a .nextup.yml with the default settings (features directory,
ranking weights, validator options, business input paths) and initialize
the SQLite run store next to it.

Existing configuration is never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(projectRoot, cfgPath)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		cfg := config.Default()
		if err := config.Save(cfg, path); err != nil {
			return err
		}

		p := &pipeline{cfg: cfg, root: projectRoot}
		store, err := p.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s wrote %s\n", green("✓"), path)
		fmt.Printf("%s initialized run store at %s\n", green("✓"), filepath.Join(projectRoot, cfg.StorePath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
