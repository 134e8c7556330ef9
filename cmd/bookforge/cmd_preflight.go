package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookforge/internal/preflight"
)

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Check the environment before a generation run",
	Long: `Verify provider CLIs, export tooling, and workspace permissions.
Warnings mean a feature is degraded (a missing CLI falls through to the
next provider); failures mean a run cannot proceed.`,
	RunE: runPreflight,
}

func init() {
	rootCmd.AddCommand(preflightCmd)
}

func runPreflight(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	results := preflight.New(projectDir, cfg).Run(cmd.Context())
	for _, r := range results {
		mark := "✓"
		switch r.Status {
		case preflight.StatusWarn:
			mark = "!"
		case preflight.StatusFail:
			mark = "✗"
		}
		fmt.Printf("  %s %-20s %s\n", mark, r.Name, r.Detail)
	}

	if !preflight.Passed(results) {
		return fmt.Errorf("preflight failed")
	}
	fmt.Println("All checks passed")
	return nil
}
