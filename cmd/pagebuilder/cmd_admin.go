package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pagebuilder/internal/domain"
)

var (
	adminJSON      bool
	adminLimit     int
	adminUnban     bool
	adminExportOut string

	userPlan      string
	userRole      string
	userFirstName string
	userLastName  string

	planName        string
	planPrice       int64
	planDescription string
	planFeatures    []string
	planSiteLimit   int
)

// adminCmd groups the platform administration commands. They need an
// admin session.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administer users, plans and platform stats",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := application.Client.ListUsers(cmd.Context(), adminLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if adminJSON {
			return printJSON(out, users)
		}
		if len(users) == 0 {
			fmt.Fprintln(out, "No users.")
			return nil
		}
		tw := newTable(out)
		fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tPLAN\tROLE\tBANNED")
		for _, u := range users {
			fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%t\n", u.ID, u.Email, u.FirstName, u.LastName, u.Plan, u.Role, u.Banned)
		}
		return tw.Flush()
	},
}

var adminUpdateUserCmd = &cobra.Command{
	Use:   "update-user <user-id>",
	Short: "Change an account's plan, role or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var u domain.UserUpdate
		f := cmd.Flags()
		if f.Changed("plan") {
			u.Plan = &userPlan
		}
		if f.Changed("role") {
			u.Role = &userRole
		}
		if f.Changed("first-name") {
			u.FirstName = &userFirstName
		}
		if f.Changed("last-name") {
			u.LastName = &userLastName
		}
		if u.Empty() {
			return fmt.Errorf("nothing to update: pass --plan, --role, --first-name or --last-name")
		}
		user, err := application.Client.UpdateUser(cmd.Context(), args[0], u)
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Updated %s (plan %s, role %s)", user.ID, user.Plan, user.Role)
		return nil
	},
}

var adminBanCmd = &cobra.Command{
	Use:   "ban <user-id>",
	Short: "Ban an account, or lift a ban with --unban",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := application.Client.BanUser(cmd.Context(), args[0], !adminUnban); err != nil {
			return err
		}
		if adminUnban {
			success(cmd.OutOrStdout(), "Lifted the ban on %s", args[0])
		} else {
			success(cmd.OutOrStdout(), "Banned %s", args[0])
		}
		return nil
	},
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user <user-id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Client.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Deleted user %s", args[0])
		return nil
	},
}

var adminExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download every account as a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := application.Client.ExportUsers(cmd.Context())
		if err != nil {
			return err
		}
		if err := os.WriteFile(adminExportOut, data, 0o644); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Wrote %s (%d bytes)", adminExportOut, len(data))
		return nil
	},
}

var adminPlansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List plans with their full configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := application.Client.AdminPlans(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if adminJSON {
			return printJSON(out, plans)
		}
		return printPlans(out, plans)
	},
}

var adminUpdatePlanCmd = &cobra.Command{
	Use:   "update-plan <plan-id>",
	Short: "Replace a plan's name, price, description, features and site limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if planName == "" {
			return fmt.Errorf("--name is required")
		}
		if planPrice < 0 || planSiteLimit < 0 {
			return fmt.Errorf("price and site limit must not be negative")
		}
		p, err := application.Client.UpdatePlan(cmd.Context(), args[0], domain.PlanUpdate{
			Name:        planName,
			PriceCents:  planPrice,
			Description: planDescription,
			Features:    planFeatures,
			SiteLimit:   planSiteLimit,
		})
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Updated plan %s: %s", p.ID, formatPrice(p.PriceCents, application.Config.Server.Currency))
		return nil
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the platform overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		ov, err := application.Client.Overview(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if adminJSON {
			return printJSON(out, ov)
		}
		printOverview(out, ov, application.Config.Server.Currency)
		return nil
	},
}

func printOverview(w io.Writer, ov domain.Overview, currency string) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Users\t%d (%d active, %d banned)\n", ov.TotalUsers, ov.ActiveUsers, ov.BannedUsers)
	fmt.Fprintf(tw, "New users\t%d in 24h, %d in 30 days\n", ov.CreatedLast24h, ov.NewUsersLast30Days)
	fmt.Fprintf(tw, "Paying users\t%d\n", ov.PayingUsers)
	fmt.Fprintf(tw, "Revenue\t%s total, %s in 30 days, %s in 24h\n",
		formatPrice(ov.PaidTotalCents, currency), formatPrice(ov.PaidLast30DaysCents, currency), formatPrice(ov.PaymentsLast24hCents, currency))
	fmt.Fprintf(tw, "Average ticket\t%s\n", formatPrice(ov.AverageTicketCents, currency))
	for _, p := range ov.PlansByUsage {
		fmt.Fprintf(tw, "Plan %s\t%d users\n", p.Label, p.Value)
	}
	tw.Flush()
}

func init() {
	adminUsersCmd.Flags().IntVar(&adminLimit, "limit", 0, "maximum accounts to list (backend default 200)")
	for _, c := range []*cobra.Command{adminUsersCmd, adminPlansCmd, adminStatsCmd} {
		c.Flags().BoolVar(&adminJSON, "json", false, "print JSON")
	}
	adminBanCmd.Flags().BoolVar(&adminUnban, "unban", false, "lift the ban instead")
	adminExportCmd.Flags().StringVarP(&adminExportOut, "out", "o", "users.xlsx", "output file")

	f := adminUpdateUserCmd.Flags()
	f.StringVar(&userPlan, "plan", "", "plan id")
	f.StringVar(&userRole, "role", "", "platform_user, platform_admin, customer, admin or owner")
	f.StringVar(&userFirstName, "first-name", "", "first name")
	f.StringVar(&userLastName, "last-name", "", "last name")

	f = adminUpdatePlanCmd.Flags()
	f.StringVar(&planName, "name", "", "plan name")
	f.Int64Var(&planPrice, "price", 0, "price in cents")
	f.StringVar(&planDescription, "description", "", "description")
	f.StringSliceVar(&planFeatures, "feature", nil, "feature line (repeatable)")
	f.IntVar(&planSiteLimit, "site-limit", 0, "number of sites the plan allows")

	adminCmd.AddCommand(adminUsersCmd, adminUpdateUserCmd, adminBanCmd, adminDeleteUserCmd,
		adminExportCmd, adminPlansCmd, adminUpdatePlanCmd, adminStatsCmd)
}
