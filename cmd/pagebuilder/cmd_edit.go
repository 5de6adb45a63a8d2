package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pagebuilder/internal/service"
)

var (
	editFile         string
	editRestoreDraft bool
	editSaveOnExit   bool
)

// editCmd edits a page through a JSON file in any text editor
var editCmd = &cobra.Command{
	Use:   "edit <page-id>",
	Short: "Edit a page's sections as a JSON file",
	Long: `Writes the page's sections to a JSON file and watches it. Every time the
file is saved, its sections replace the editor's; invalid files are reported
and ignored. Stop with Ctrl-C. Changes are kept as a local draft and only
reach the backend with --save.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	f := editCmd.Flags()
	f.StringVarP(&editFile, "file", "f", "", "file to sync (default <page-id>.json)")
	f.BoolVar(&editRestoreDraft, "restore-draft", false, "start from the local draft instead of the saved page")
	f.BoolVar(&editSaveOnExit, "save", false, "save the page when stopping if it changed")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pageID := args[0]
	path := editFile
	if path == "" {
		path = pageID + ".json"
	}

	sess, err := application.Editor.Open(ctx, pageID)
	if err != nil {
		return err
	}
	if editRestoreDraft {
		restored, err := sess.RestoreDraft(ctx)
		if err != nil {
			return err
		}
		if !restored {
			fmt.Fprintln(cmd.ErrOrStderr(), "No draft found, starting from the saved page.")
		}
	}

	watch := service.NewFileSync(sess, path, application.Emitter, application.Log)
	if err := watch.Export(); err != nil {
		return err
	}
	if err := watch.Start(ctx); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Editing %s in %s (%d sections). Press Ctrl-C to stop.\n", pageID, path, len(sess.Blocks()))

	<-ctx.Done()
	watch.Stop()

	st := sess.State()
	if !st.Dirty {
		fmt.Fprintln(out, "No changes.")
		return nil
	}
	if !editSaveOnExit {
		hint(out, "Changes kept as a local draft. Resume with --restore-draft.")
		return nil
	}
	// ctx is already cancelled; the save gets its own deadline.
	saveCtx, cancel := context.WithTimeout(context.Background(), application.Config.API.Timeout+5*time.Second)
	defer cancel()
	if err := sess.Save(saveCtx); err != nil {
		return err
	}
	fmt.Fprintln(out, sess.State().Message)
	return nil
}
