package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pagebuilder/internal/service"
)

var pruneOlderThan time.Duration

// draftsCmd manages local unsaved drafts
var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Inspect and prune local unsaved drafts",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local drafts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		drafts, err := application.Drafts().ListDrafts()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(drafts) == 0 {
			fmt.Fprintln(out, "No drafts.")
			return nil
		}
		tw := newTable(out)
		fmt.Fprintln(tw, "TENANT\tPAGE ID\tSECTIONS\tUPDATED")
		for _, d := range drafts {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.Tenant, d.PageID, len(d.Components), d.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var draftsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete drafts older than the retention",
	RunE: func(cmd *cobra.Command, args []string) error {
		janitor := application.Janitor()
		if cmd.Flags().Changed("older-than") {
			janitor = service.NewDraftJanitor(application.Drafts(), pruneOlderThan, application.Emitter, application.Log)
		}
		n, err := janitor.PruneNow(cmd.Context())
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Pruned %d draft(s)", n)
		return nil
	},
}

var draftsDiscardCmd = &cobra.Command{
	Use:   "discard <page-id>",
	Short: "Delete the draft of a page for the current tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Drafts().DeleteDraft(application.Client.Tenant(), args[0]); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Discarded draft of %s", args[0])
		return nil
	},
}

func init() {
	draftsPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 0, "override drafts.retention, e.g. 72h")
	draftsCmd.AddCommand(draftsListCmd, draftsPruneCmd, draftsDiscardCmd)
}
