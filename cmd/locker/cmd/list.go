package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aweris/locker"
)

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List stored links",
	Long:  "List the links of a kind in the order they were added, optionally filtered by a search term matched against title and category.",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories <kind>",
	Short: "Show categories with their link counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategories,
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "case-insensitive filter on title and category")
	rootCmd.AddCommand(listCmd, categoriesCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	kind := args[0]
	term, _ := cmd.Flags().GetString("search")

	return withUnlocked(func(l *locker.Locker) error {
		links, err := l.Links().Search(kind, term)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(links) == 0 {
			total, err := l.Links().Len(kind)
			if err != nil {
				return err
			}
			if total == 0 {
				fmt.Fprintln(out, "(no links)")
			} else {
				fmt.Fprintln(out, "(no matches)")
			}
			return nil
		}

		for _, link := range links {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
				link.ID, link.Title, link.Category, link.URL, link.AddedAt.Local().Format(time.DateOnly))
		}
		return nil
	})
}

func runCategories(cmd *cobra.Command, args []string) error {
	kind := args[0]
	return withUnlocked(func(l *locker.Locker) error {
		counts, err := l.Links().CategoryCounts(kind)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(counts) == 0 {
			fmt.Fprintln(out, "(no categories)")
			return nil
		}
		for _, c := range counts {
			fmt.Fprintf(out, "%s (%d)\n", c.Category, c.Count)
		}
		return nil
	})
}
