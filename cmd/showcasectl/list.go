package main

import (
	"fmt"
	"io"
	"iter"
	"text/tabwriter"

	"github.com/tanya-writes/showcase-portal/internal/models"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List published showcase items, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		repo, err := openRepo(cmd.Context(), currentEnv())
		if err != nil {
			return err
		}
		return printRecords(cmd.OutOrStdout(), repo.ListPublished(cmd.Context(), listLimit))
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum number of items (0 for all)")
}

func printRecords(w io.Writer, recs iter.Seq2[models.Showcase, error]) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTITLE\tAUTHOR\tDOCUMENT")
	n := 0
	for rec, err := range recs {
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rec.ID, rec.CreatedAt, rec.Title, rec.Author, rec.DocumentKey)
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d item(s)\n", n)
	return err
}
