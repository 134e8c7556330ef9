package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookforge/internal/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Assemble chapters and export the manuscript",
	Long: `Concatenate all chapter files into one manuscript, normalize
typographic characters for the typesetter, and render it. PDF export
shells out to pandoc with the configured engine; markdown and HTML need
no external tools.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "output format: markdown, html, or pdf")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	bus := buildBus(cfg)

	e := export.New(projectDir, cfg, bus)
	out, err := e.Export(cmd.Context(), exportFormat)
	if err != nil {
		return err
	}
	fmt.Println("Exported:", out)
	return nil
}
