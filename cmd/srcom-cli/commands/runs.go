package commands

import (
	"fmt"
	"log/slog"
	"srcomkit/lib/cliutil"
	"srcomkit/lib/journal"
	"srcomkit/lib/srcom/resolve"
	"srcomkit/lib/srcom/runs"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List, edit or migrate the runs of a category.",
}

var (
	gameURL       string
	categoryName  string
	subcategories []string
	journalPath   string
)

func init() {
	runsCmd.PersistentFlags().StringVar(&gameURL, "game", "", "The game's URL slug (speedrun.com/<slug>).")
	runsCmd.PersistentFlags().StringVar(&categoryName, "category", "", "The category name, e.g. \"Any%\".")
	runsCmd.PersistentFlags().StringArrayVar(&subcategories, "sub", nil, "Subcategory value name; repeatable, order matters.")
	runsCmd.PersistentFlags().StringVar(&journalPath, "journal", "journal.db", "The sqlite database bulk outcomes are recorded to.")
	runsCmd.MarkPersistentFlagRequired("game")
	runsCmd.MarkPersistentFlagRequired("category")

	runsEditAllCmd.Flags().String("comment", "", "Replace every run's comment.")
	runsEditAllCmd.Flags().String("video", "", "Replace every run's video link.")
	runsEditAllCmd.Flags().String("platform", "", "Replace every run's platform id.")
	runsEditAllCmd.Flags().Bool("emulator", false, "Set every run's emulator flag.")

	runsMoveAllCmd.Flags().String("to-category", "", "The destination category name.")
	runsMoveAllCmd.Flags().StringArray("to-sub", nil, "Destination subcategory value name; repeatable.")
	runsMoveAllCmd.MarkFlagRequired("to-category")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsEditAllCmd)
	runsCmd.AddCommand(runsMoveAllCmd)
	rootCmd.AddCommand(runsCmd)
}

func categoryRef() resolve.CategoryRef {
	return resolve.CategoryRef{
		GameURL:       gameURL,
		Category:      categoryName,
		Subcategories: subcategories,
	}
}

func refLabel(ref resolve.CategoryRef) string {
	if len(ref.Subcategories) == 0 {
		return ref.Category
	}
	return fmt.Sprintf("%s (%s)", ref.Category, strings.Join(ref.Subcategories, ", "))
}

func recordOutcomes(cmd *cobra.Command, operation string, outcomes []runs.Outcome) {
	j, err := journal.Open(journalPath)
	if err != nil {
		cliutil.Fatal("failed to open journal", err)
	}
	defer j.Close()

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.OK() {
			failed++
		}
		err := j.Record(cmd.Context(), operation, outcome.RunID, outcome.Err)
		if err != nil {
			cliutil.Fatal("failed to record outcome", err)
		}
	}
	slog.Info("bulk operation finished",
		"operation", operation,
		"runs", len(outcomes),
		"failed", failed,
		"journal", journalPath,
	)
}

func formatSeconds(seconds float64) string {
	millis := int64(seconds*1000 + 0.5)
	h := millis / 3_600_000
	m := millis % 3_600_000 / 60_000
	s := millis % 60_000 / 1000
	ms := millis % 1000
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%d:%02d.%03d", m, s, ms)
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every run in the category, obsolete ones included.",
	Run: func(cmd *cobra.Command, args []string) {
		orchestrator := newOrchestrator()

		runList, err := orchestrator.Runs(cmd.Context(), categoryRef(), nil)
		if err != nil {
			cliutil.Fatal("failed to enumerate runs", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Run", "Place", "Time", "Players", "Obsolete"})
		for _, run := range runList {
			t.AppendRow(table.Row{
				run.ID,
				run.Place,
				formatSeconds(run.Time),
				strings.Join(run.PlayerIDs, ", "),
				run.Obsolete,
			})
		}
		t.Render()
	},
}

var runsEditAllCmd = &cobra.Command{
	Use:   "edit-all",
	Short: "Applies the same settings edit to every run in the category.",
	Run: func(cmd *cobra.Command, args []string) {
		var changes runs.EditParams
		if cmd.Flags().Changed("comment") {
			v, _ := cmd.Flags().GetString("comment")
			changes.Comment = &v
		}
		if cmd.Flags().Changed("video") {
			v, _ := cmd.Flags().GetString("video")
			changes.Video = &v
		}
		if cmd.Flags().Changed("platform") {
			v, _ := cmd.Flags().GetString("platform")
			changes.PlatformID = &v
		}
		if cmd.Flags().Changed("emulator") {
			v, _ := cmd.Flags().GetBool("emulator")
			changes.Emulator = &v
		}

		ref := categoryRef()
		orchestrator := newOrchestrator()
		outcomes, err := orchestrator.EditAll(cmd.Context(), ref, changes)
		if err != nil {
			cliutil.Fatal("failed to edit runs", err)
		}
		recordOutcomes(cmd, fmt.Sprintf("edit:%s", refLabel(ref)), outcomes)
	},
}

var runsMoveAllCmd = &cobra.Command{
	Use:   "move-all",
	Short: "Moves every run in the category to another category of the same game.",
	Run: func(cmd *cobra.Command, args []string) {
		toCategory, _ := cmd.Flags().GetString("to-category")
		toSubs, _ := cmd.Flags().GetStringArray("to-sub")

		oldRef := categoryRef()
		newRef := resolve.CategoryRef{
			GameURL:       gameURL,
			Category:      toCategory,
			Subcategories: toSubs,
		}

		orchestrator := newOrchestrator()
		outcomes, err := orchestrator.MoveAll(cmd.Context(), oldRef, newRef)
		if err != nil {
			cliutil.Fatal("failed to move runs", err)
		}
		recordOutcomes(cmd, fmt.Sprintf("move:%s->%s", refLabel(oldRef), refLabel(newRef)), outcomes)
	},
}
