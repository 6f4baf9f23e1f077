package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aweris/locker"
)

var addCmd = &cobra.Command{
	Use:   "add <kind> <title> <url>",
	Short: "Store a new link",
	Args:  cobra.ExactArgs(3),
	RunE:  runAdd,
}

var removeCmd = &cobra.Command{
	Use:     "remove <kind> <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a stored link",
	Args:    cobra.ExactArgs(2),
	RunE:    runRemove,
}

var openCmd = &cobra.Command{
	Use:   "open <kind> <id>",
	Short: "Open a stored link in the browser",
	Args:  cobra.ExactArgs(2),
	RunE:  runOpen,
}

func init() {
	addCmd.Flags().StringP("category", "c", "", "category (default: "+locker.DefaultCategory+")")
	rootCmd.AddCommand(addCmd, removeCmd, openCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	kind, title, url := args[0], args[1], args[2]
	category, _ := cmd.Flags().GetString("category")

	return withUnlocked(func(l *locker.Locker) error {
		link, err := l.Links().Add(kind, title, url, category)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s has been secured in the box\n", link.ID, link.Title)
		return nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	kind, id := args[0], args[1]
	return withUnlocked(func(l *locker.Locker) error {
		removed, err := l.Links().Remove(kind, id)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%w: %s/%s", locker.ErrNotFound, kind, id)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Link has been deleted from the box")
		return nil
	})
}

func runOpen(cmd *cobra.Command, args []string) error {
	kind, id := args[0], args[1]
	return withUnlocked(func(l *locker.Locker) error {
		return l.Links().Open(kind, id)
	})
}
