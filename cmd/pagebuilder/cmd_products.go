package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagebuilder/internal/domain"
)

var (
	productDescription string
	productPrice       int64
	productImages      []string
	productHidden      bool
	productsJSON       bool
)

// productsCmd manages the products shown by product grid sections
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List, create and update the products of a page",
}

var productsListCmd = &cobra.Command{
	Use:   "list <page-id>",
	Short: "List products",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := application.Client.ListProducts(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if productsJSON {
			return printJSON(out, products)
		}
		if len(products) == 0 {
			fmt.Fprintln(out, "No products yet.")
			return nil
		}
		currency := application.Config.Server.Currency
		tw := newTable(out)
		fmt.Fprintln(tw, "ID\tNAME\tPRICE\tVISIBLE")
		for _, p := range products {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", p.ID, p.Name, formatPrice(p.PriceCents, currency), p.Visible)
		}
		return tw.Flush()
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create <page-id> <name>",
	Short: "Create a product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if productPrice < 0 {
			return fmt.Errorf("price must not be negative")
		}
		p, err := application.Client.CreateProduct(cmd.Context(), args[0], domain.Product{
			Name:        args[1],
			Description: productDescription,
			PriceCents:  productPrice,
			Images:      productImages,
			Visible:     !productHidden,
		})
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Created product %s (%s)", p.Name, p.ID)
		return nil
	},
}

var (
	updateName    string
	updatePrice   int64
	updateVisible bool
)

var productsUpdateCmd = &cobra.Command{
	Use:   "update <page-id> <product-id>",
	Short: "Change the name, price or visibility of a product",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := map[string]any{}
		f := cmd.Flags()
		if f.Changed("name") {
			patch["name"] = updateName
		}
		if f.Changed("price") {
			if updatePrice < 0 {
				return fmt.Errorf("price must not be negative")
			}
			patch["price_cents"] = updatePrice
		}
		if f.Changed("visible") {
			patch["visible"] = updateVisible
		}
		if len(patch) == 0 {
			return fmt.Errorf("nothing to update: pass --name, --price or --visible")
		}
		p, err := application.Client.UpdateProduct(cmd.Context(), args[0], args[1], patch)
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Updated product %s", p.Name)
		return nil
	},
}

func init() {
	productsUpdateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	productsUpdateCmd.Flags().Int64Var(&updatePrice, "price", 0, "new price in cents")
	productsUpdateCmd.Flags().BoolVar(&updateVisible, "visible", true, "show or hide the product")

	productsListCmd.Flags().BoolVar(&productsJSON, "json", false, "print JSON")

	f := productsCreateCmd.Flags()
	f.StringVar(&productDescription, "description", "", "description")
	f.Int64Var(&productPrice, "price", 0, "price in cents")
	f.StringSliceVar(&productImages, "image", nil, "image URL (repeatable)")
	f.BoolVar(&productHidden, "hidden", false, "create the product hidden")

	productsCmd.AddCommand(productsListCmd, productsCreateCmd, productsUpdateCmd)
}
