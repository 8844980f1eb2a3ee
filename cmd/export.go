package cmd

import (
	"fmt"

	"namegen/internal/export"

	"github.com/spf13/cobra"
)

var exportDryRun bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one scripted effect file per record type",
	Long: `Render every record through code.txt and write {type}_name.txt files to
common/scripted_effects. The output directory is deleted and recreated; with
no records nothing is touched.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVarP(&exportDryRun, "dry-run", "n", false, "Print the rendered files instead of writing them")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	exporter, err := export.New(cfg.TemplatePath(), cfg.OutputPath(), export.WithLogger(logger))
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()

	if exportDryRun {
		files, err := exporter.Render(s.Records())
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(out, "==> %s (%d states) <==\n%s\n", f.Name, f.Records, f.Content)
		}
		return nil
	}

	result, err := exporter.Export(s.Records())
	if err != nil {
		return err
	}
	if len(result.Files) == 0 {
		fmt.Fprintln(out, "No records to export")
		return nil
	}

	fmt.Fprintf(out, "Exported %d files to %s:\n", len(result.Files), result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(out, "  - %s (%d states)\n", f.Name, f.Records)
	}
	return nil
}
