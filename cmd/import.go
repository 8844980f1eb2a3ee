package cmd

import (
	"fmt"

	"namegen/internal/csv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	csvFile       string
	importReplace bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import state records from a CSV file",
	Long: `Import state records from a CSV file with the columns
type,state_id,state_name,provinces. Provinces are "id - name" entries
separated by newlines inside the quoted cell.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&csvFile, "csv", "c", "", "CSV file to import (required)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace existing records instead of appending")

	importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := cfg.Path(csvFile)
	records, err := csv.NewParser(path).ParseRecords()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	logger.Info("parsed CSV", zap.String("file", path), zap.Int("records", len(records)))

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	before := s.Len()
	if importReplace {
		err = s.Replace(records)
	} else {
		err = s.Append(records...)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if importReplace {
		fmt.Fprintf(out, "Replaced %d records with %d from %s\n", before, len(records), csvFile)
	} else {
		fmt.Fprintf(out, "Imported %d records from %s (%d total)\n", len(records), csvFile, s.Len())
	}
	return nil
}
