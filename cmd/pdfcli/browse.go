package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pdfcatalog/internal/client"
	"pdfcatalog/internal/recent"
)

func (a *cli) yearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the year levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.apiClient()
			if err != nil {
				return err
			}
			years, err := c.Years(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(years) == 0 {
				fmt.Fprintln(out, "No year levels found.")
				return nil
			}
			for _, y := range years {
				fmt.Fprintln(out, y)
			}
			return nil
		},
	}
}

func (a *cli) listCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list <year>",
		Short: "List the PDFs of a year level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.apiClient()
			if err != nil {
				return err
			}
			docs, err := c.ByYear(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if search != "" {
				docs = client.FilterByTitle(docs, search)
			}
			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintln(out, "No PDFs found.")
				return nil
			}
			for _, d := range docs {
				fmt.Fprintf(out, "%s\t%s\t%s\n", d.ID, d.Subject, d.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive title filter")
	return cmd
}

func (a *cli) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <year> <id>",
		Short: "Print the viewer link for a PDF and remember it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.apiClient()
			if err != nil {
				return err
			}
			docs, err := c.ByYear(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, d := range docs {
				if d.ID != args[1] {
					continue
				}
				if _, err := recent.Record(a.store(), d, time.Now()); err != nil {
					return fmt.Errorf("save recent view: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.ViewerURL(d))
				return nil
			}
			return fmt.Errorf("no PDF %q in %q", args[1], args[0])
		},
	}
}

func (a *cli) recentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show recently viewed PDFs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := recent.Load(a.store())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(l) == 0 {
				fmt.Fprintln(out, "No recently viewed PDFs.")
				return nil
			}
			for _, e := range l {
				fmt.Fprintf(out, "%s\t%s (%s, %s)\n",
					time.UnixMilli(e.ViewedAt).Format(time.DateTime), e.Title, e.Subject, e.YearLevel)
			}
			return nil
		},
	}
}
