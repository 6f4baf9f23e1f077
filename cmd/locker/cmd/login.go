package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aweris/locker"
)

var loginCmd = &cobra.Command{
	Use:   "login <agent-id> <access-code>",
	Short: "Unlock the locker",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Lock the locker",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the locker is unlocked and how many links it holds",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	return withLocker(func(l *locker.Locker) error {
		ok, err := l.Gate().AttemptLoginContext(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("access denied: invalid credentials")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Access granted")
		return nil
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	return withLocker(func(l *locker.Locker) error {
		if err := l.Gate().Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Locked")
		return nil
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withLocker(func(l *locker.Locker) error {
		out := cmd.OutOrStdout()
		if !l.Gate().IsAuthenticated() {
			fmt.Fprintln(out, "locked")
			return nil
		}
		fmt.Fprintln(out, "unlocked")
		for _, kind := range []string{locker.KindGames, locker.KindApps} {
			n, err := l.Links().Len(kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%d secured\n", kind, n)
		}
		return nil
	})
}
