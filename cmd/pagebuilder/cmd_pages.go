package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagebuilder/internal/domain"
)

var (
	pageName     string
	pageType     string
	pageTemplate string
	pageDomain   string
	pageGoal     string
	pageAsSite   bool
	pagesJSON    bool
)

// pagesCmd manages the tenant's pages
var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List, create and delete pages",
}

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pages of the current tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := application.Client.ListPages(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if pagesJSON {
			return printJSON(out, pages)
		}
		if len(pages) == 0 {
			fmt.Fprintln(out, "No pages yet.")
			return nil
		}
		tw := newTable(out)
		fmt.Fprintln(tw, "PAGE ID\tNAME\tDOMAIN\tUPDATED")
		for _, p := range pages {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.PageID, p.Name, p.Domain, p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var pagesCreateCmd = &cobra.Command{
	Use:   "create <page-id>",
	Short: "Create a page (or a whole site with --site)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := pageName
		if name == "" {
			name = args[0]
		}
		var (
			p   domain.Page
			err error
		)
		if pageAsSite {
			p, err = application.Client.CreateSite(cmd.Context(), name, args[0])
		} else {
			p, err = application.Client.CreatePage(cmd.Context(), domain.NewPage{
				Name:     name,
				PageID:   args[0],
				PageType: pageType,
				Template: pageTemplate,
				Domain:   pageDomain,
				Goal:     pageGoal,
			})
		}
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Created %s (%s)", p.PageID, p.Name)
		return nil
	},
}

var pagesDeleteCmd = &cobra.Command{
	Use:   "delete <page-id>",
	Short: "Delete a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Client.DeletePage(cmd.Context(), args[0]); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Deleted %s", args[0])
		return nil
	},
}

func init() {
	pagesListCmd.Flags().BoolVar(&pagesJSON, "json", false, "print JSON")

	f := pagesCreateCmd.Flags()
	f.StringVar(&pageName, "name", "", "display name (default: the page id)")
	f.StringVar(&pageType, "type", "page", "page type")
	f.StringVar(&pageTemplate, "template", "", "template to start from")
	f.StringVar(&pageDomain, "domain", "", "custom domain")
	f.StringVar(&pageGoal, "goal", "", "what the page is for")
	f.BoolVar(&pageAsSite, "site", false, "create a new site instead of a page in the current one")

	pagesCmd.AddCommand(pagesListCmd, pagesCreateCmd, pagesDeleteCmd)
}
