package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pagebuilder/internal/domain"
)

// plansCmd lists subscription plans
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := application.Client.ListPlans(cmd.Context())
		if err != nil {
			return err
		}
		return printPlans(cmd.OutOrStdout(), plans)
	},
}

var plansCheckoutCmd = &cobra.Command{
	Use:   "checkout <plan-id>",
	Short: "Start paying for a plan",
	Long: `Opens a checkout session with the billing provider and prints the URL
where the payment is completed. The plan changes once the provider confirms
the payment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		co, err := application.Client.Checkout(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		success(out, "Checkout ready for plan %s", args[0])
		fmt.Fprintln(out, co.URL)
		hint(out, "Open the link in a browser to pay.")
		return nil
	},
}

func printPlans(w io.Writer, plans []domain.Plan) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSITES\tROUTES")
	for _, p := range plans {
		currency := application.Config.Server.Currency
		if p.Currency != "" {
			currency = p.Currency + " "
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", p.ID, p.Name, formatPrice(p.PriceCents, currency), p.SiteLimit, p.RouteLimit)
	}
	return tw.Flush()
}

func init() {
	plansCmd.AddCommand(plansCheckoutCmd)
}
