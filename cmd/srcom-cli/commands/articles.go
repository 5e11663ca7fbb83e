package commands

import (
	"srcomkit/lib/cliutil"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var articlesLimit *int

func init() {
	articlesLimit = articlesCmd.Flags().Int("limit", 20, "How many articles to fetch.")
	rootCmd.AddCommand(articlesCmd)
}

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Lists recent site news articles.",
	Run: func(cmd *cobra.Command, args []string) {
		orchestrator := newOrchestrator()

		// the article feed is read-only; any client will do
		list, err := orchestrator.Client().GetArticleList(cmd.Context(), *articlesLimit)
		if err != nil {
			cliutil.Fatal("failed to fetch articles", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Published", "Title", "Summary"})
		for _, article := range list.ArticleList {
			t.AppendRow(table.Row{
				time.Unix(article.PublishDate, 0).Format(time.DateOnly),
				article.Title,
				article.Summary,
			})
		}
		t.Render()
	},
}
