package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"namegen/internal/filter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listDupes string
	listPlain bool
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "Print the records matching a search",
	Long: `Print the records matching a search. The query uses the same syntax as
the editor's search box: "field:term" searches one of type, stateid,
statename or provinces, anything else searches every field.

Examples:
  namegen list type:ger
  namegen list --dupes state
  namegen list --dupes province berlin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listDupes, "dupes", "d", "none", "Duplicate mode: none, state or province")
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "Tab separated output without borders")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	mode, err := filter.ParseMode(listDupes)
	if err != nil {
		return err
	}
	var query string
	if len(args) == 1 {
		query = args[0]
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	records := s.Records()
	visible := filter.Apply(records, query, mode)
	logger.Debug("list",
		zap.String("query", query),
		zap.Stringer("dupes", mode),
		zap.Int("matched", len(visible)))

	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(visible))
	for n, i := range visible {
		r := records[i]
		rows = append(rows, []string{
			strconv.Itoa(n + 1),
			r.Type,
			strconv.FormatInt(r.StateID, 10),
			r.StateName,
			strings.ReplaceAll(r.ProvincesText(), "\n", "; "),
		})
	}

	if listPlain {
		for _, row := range rows {
			fmt.Fprintln(out, strings.Join(row, "\t"))
		}
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TYPE", "STATE ID", "STATE NAME", "PROVINCES").
		Rows(rows...)
	fmt.Fprintln(out, t.String())
	fmt.Fprintf(out, "%d of %d records (%s)\n", len(visible), len(records), mode.Label())
	return nil
}
