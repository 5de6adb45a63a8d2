package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and remember the session",
	Long: `Logs in to the backend. The password is read from --password,
PAGEBUILDER_PASSWORD or standard input, in that order.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Logout(cmd.Context()); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user and current tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := application.Client.Me(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
		if u.Plan != "" {
			fmt.Fprintf(out, "Plan:   %s\n", u.Plan)
		}
		tenant := application.Client.Tenant()
		if tenant == "" {
			tenant = "(none)"
		}
		fmt.Fprintf(out, "Tenant: %s\n", tenant)
		return nil
	},
}

// tenantCmd manages the current tenant
var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Show or switch the current tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		tenant := application.Client.Tenant()
		if tenant == "" {
			hint(cmd.OutOrStdout(), "No tenant selected. Use: pagebuilder tenant use <page-id>")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), tenant)
		return nil
	},
}

var tenantUseCmd = &cobra.Command{
	Use:   "use <page-id>",
	Short: "Send requests on behalf of the site with this page id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.UseTenant(args[0]); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Tenant set to %s", args[0])
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prefer PAGEBUILDER_PASSWORD or stdin)")
	tenantCmd.AddCommand(tenantUseCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("PAGEBUILDER_PASSWORD")
	}
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	sess, err := application.Login(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}
	success(cmd.OutOrStdout(), "Logged in as %s", sess.Email)
	return nil
}
