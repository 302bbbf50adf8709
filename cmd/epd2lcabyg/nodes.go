package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the known soda4LCA nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := [][]string{}
		for _, n := range fetcher.Nodes() {
			var notes []string
			if n.ID == fetcher.DefaultNode {
				notes = append(notes, "default")
			}
			if n.Public {
				notes = append(notes, "public")
			}
			if n.Positional {
				notes = append(notes, "positional classification")
			}
			rows = append(rows, []string{n.ID, n.BaseURL, strings.Join(notes, ", ")})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderTable([]string{"Node", "Base URL", "Notes"}, rows))
		return nil
	},
}
