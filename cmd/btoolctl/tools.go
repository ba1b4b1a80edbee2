package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"btoolme/internal/catalog"
)

func toolsCmd() *cobra.Command {
	var (
		category string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := catalog.NewSnapshot(catalog.Default())
			tools := snapshot.Tools()
			if category != "" {
				c, ok := catalog.ParseCategory(category)
				if !ok {
					return fmt.Errorf("%w: %s", catalog.ErrUnknownCategory, category)
				}
				tools = snapshot.ByCategory(c)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(tools)
			}
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICING")
			for _, t := range tools {
				tiers := make([]string, len(t.Pricing))
				for i, p := range t.Pricing {
					tiers[i] = string(p)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Category, strings.Join(tiers, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list tools in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
