package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"namegen/internal/backup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	inputFile        string
	restoreFormat    string
	mergeRecords     bool
	skipConfirmation bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore records from a backup",
	Long: `Restore records from a JSON or CSV backup, including the data.json.bak
file kept by every save. The current data file is rotated to .bak first.`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input backup file to restore (required)")
	restoreCmd.Flags().StringVarP(&restoreFormat, "format", "f", "", "Backup format: json or csv (auto-detected if not specified)")
	restoreCmd.Flags().BoolVar(&mergeRecords, "merge", false, "Append the backup to the current records instead of replacing them")
	restoreCmd.Flags().BoolVar(&skipConfirmation, "yes", false, "Skip confirmation prompts")

	restoreCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	path := cfg.Path(inputFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", path)
	}

	format := restoreFormat
	if format == "" {
		detected, err := backup.DetectFormat(path)
		if err != nil {
			return err
		}
		format = detected
	}
	if err := backup.ValidateFormat(format); err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	svc := backup.NewService(s)
	if err := svc.ValidateBackupFile(path, format); err != nil {
		return fmt.Errorf("backup file validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if !skipConfirmation {
		fmt.Fprintln(out, "About to restore:")
		fmt.Fprintf(out, "  Source file: %s\n", path)
		fmt.Fprintf(out, "  Format: %s\n", format)
		fmt.Fprintf(out, "  Current records: %d\n", s.Len())
		if !mergeRecords {
			fmt.Fprintln(out, "  WARNING: current records will be REPLACED!")
		}

		if !confirmAction(cmd.InOrStdin(), out, "Do you want to continue?") {
			fmt.Fprintln(out, "Restore cancelled")
			return nil
		}
	}

	logger.Info("starting restore", zap.String("file", path), zap.String("format", format), zap.Bool("merge", mergeRecords))
	n, err := svc.RestoreStore(path, format, mergeRecords)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Restored %d records (%d total)\n", n, s.Len())
	return nil
}

func confirmAction(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s (y/N): ", message)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
