package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pagebuilder/internal/themes"
)

var (
	themeTag    string
	themeOut    string
	themeRemote bool
	themeSave   bool
)

// themesCmd browses and applies themes
var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Browse, preview, export and apply themes",
}

var themesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the community themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		list := application.Themes.Search(themeTag)
		tw := newTable(cmd.OutOrStdout())
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tTAGS\tSECTIONS")
		for _, t := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", t.ID, t.Name, t.PageType, strings.Join(t.Tags, ","), len(t.Components))
		}
		return tw.Flush()
	},
}

var themesStoreCmd = &cobra.Command{
	Use:   "store [slug]",
	Short: "Browse the remote theme store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			d, err := application.Client.GetThemeStoreEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n%s\n\n%s\n", d.Name, d.Description, d.LongDescription)
			fmt.Fprintf(out, "Rating %.1f, %d installs\n", d.Rating, d.Installs)
			return nil
		}
		entries, err := application.Client.ListThemeStore(cmd.Context())
		if err != nil {
			return err
		}
		tw := newTable(out)
		fmt.Fprintln(tw, "ID\tNAME\tPAGE ID\tFOR SALE\tOWNED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%t\n", e.ID, e.Name, e.PageID, e.ForSale, e.Owned)
		}
		return tw.Flush()
	},
}

var themesPreviewCmd = &cobra.Command{
	Use:   "preview <theme-id>",
	Short: "Write a theme's preview card as HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := application.Themes.Get(args[0])
		if err != nil {
			return err
		}
		return withOutput(cmd, themeOut, t.Preview)
	},
}

var themesExportCmd = &cobra.Command{
	Use:   "export <theme-id>",
	Short: "Export a theme with its sections as YAML",
	Long: `Exports a theme as YAML. Edit the file and drop it into
<data dir>/themes to add it to the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := application.Themes.Get(args[0])
		if err != nil {
			return err
		}
		return withOutput(cmd, themeOut, func(w io.Writer) error {
			return themes.ExportYAML(w, t)
		})
	},
}

var themesApplyCmd = &cobra.Command{
	Use:   "apply <page-id> <theme-id>",
	Short: "Replace a page's sections with a theme's sections",
	Long: `Replaces every section of the page with fresh copies of the theme's
sections. Without --save the result stays a local draft.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := application.Editor.Open(ctx, args[0])
		if err != nil {
			return err
		}
		comp, err := sess.ApplyTheme(ctx, args[1])
		if err != nil {
			return err
		}
		if themeRemote {
			if err := application.Client.ApplyTheme(ctx, args[1]); err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Applied %s: %d sections\n", args[1], len(comp))
		if !themeSave {
			hint(out, "Not saved. Run with --save, or edit further with: pagebuilder edit %s --restore-draft", args[0])
			return nil
		}
		if err := sess.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, sess.State().Message)
		return nil
	},
}

// withOutput runs write against the --out file, or stdout when empty.
func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	themesListCmd.Flags().StringVar(&themeTag, "tag", "", "filter by tag or page type")
	themesPreviewCmd.Flags().StringVarP(&themeOut, "out", "o", "", "output file (default stdout)")
	themesExportCmd.Flags().StringVarP(&themeOut, "out", "o", "", "output file (default stdout)")
	themesApplyCmd.Flags().BoolVar(&themeRemote, "remote", false, "also set the theme on the site")
	themesApplyCmd.Flags().BoolVar(&themeSave, "save", false, "save the page afterwards")

	themesCmd.AddCommand(themesListCmd, themesStoreCmd, themesPreviewCmd, themesExportCmd, themesApplyCmd)
}
