package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration directory and a default config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		if err := ensureConfigDir(configDir); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
		path, created, err := ensureDefaultConfigFile(configDir)
		if err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
		if created {
			fmt.Printf("Created %s\n", path)
		} else {
			fmt.Printf("Config already exists at %s\n", path)
		}
		return nil
	},
}
