package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/templui/dailybible/internal/devotion"
)

func CatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the devotion catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "List calendar days without a devotion",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := devotion.LoadCatalog()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			missing := catalog.Missing()
			for _, day := range missing {
				fmt.Fprintf(out, "missing %s\n", day.Format("January 2"))
			}
			fmt.Fprintf(out, "%d devotions, %d days missing\n", catalog.Len(), len(missing))

			if len(missing) > 0 {
				return fmt.Errorf("catalog incomplete")
			}
			return nil
		},
	})

	var month, day int
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the devotion of a calendar day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month: %d", month)
			}
			catalog, err := devotion.LoadCatalog()
			if err != nil {
				return err
			}

			r := catalog.SelectMonthDay(month, day)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n%s\n\nTask: %s\n",
				catalog.Theme(time.Month(month)), r.Verse, r.Reference, r.Task)
			return nil
		},
	}
	show.Flags().IntVar(&month, "month", 1, "month (1-12)")
	show.Flags().IntVar(&day, "day", 1, "day of month")
	cmd.AddCommand(show)

	return cmd
}
