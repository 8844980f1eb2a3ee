package cmd

import (
	"fmt"

	"namegen/internal/backup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputDir    string
	backupFormat string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a timestamped snapshot of the records",
	Long:  "Write a timestamped snapshot of data.json as JSON or CSV",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for backup files (default: backups under the base directory)")
	backupCmd.Flags().StringVarP(&backupFormat, "format", "f", backup.FormatJSON, "Backup format: json or csv")
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	if err := backup.ValidateFormat(backupFormat); err != nil {
		return err
	}

	dir := cfg.BackupPath()
	if outputDir != "" {
		dir = cfg.Path(outputDir)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("starting backup", zap.String("dir", dir), zap.String("format", backupFormat))
	backupFile, err := backup.NewService(s).BackupStore(dir, backupFormat)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d records to %s\n", s.Len(), backupFile)
	return nil
}
