package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewCatalogCmd prints the lobby and any catalog issues.
func NewCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List catalog entries and report content issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalog(cmd.OutOrStdout(), opts)
		},
	}
}

func printCatalog(out io.Writer, opts *rootOptions) error {
	cat, err := loadCatalog(opts.cfg)
	if err != nil {
		return err
	}
	for _, q := range cat.List() {
		listing := q.Listing()
		status := "available"
		if !listing.Available {
			status = "coming soon"
		}
		fmt.Fprintf(out, "%-20s %-12s %2d questions  %s\n", q.ID, status, len(q.Questions), q.Title)
	}
	issues := cat.Validate()
	if len(issues) == 0 {
		return nil
	}
	fmt.Fprintf(out, "\n%d issue(s):\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(out, "  %s\n", issue)
	}
	return nil
}
