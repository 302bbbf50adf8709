package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/config"
	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/generator"
	"github.com/epd-tools/epd2lcabyg/internal/resolver"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var (
	searchNode          string
	searchPageSize      int
	searchLocation      string
	searchNoInteractive bool
)

// Actions offered for the datasets picked in the selector.
const (
	actionInfo    = "Show indicators"
	actionConvert = "Convert to LCAByg stages"
	actionSave    = "Save raw JSON"
	actionCancel  = "Cancel"
)

var searchActions = []string{actionInfo, actionConvert, actionSave, actionCancel}

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search a node for EPDs",
	Long: "Search a soda4LCA node for EPDs by name. Results are listed in an interactive selector; " +
		"the picked datasets can then be inspected, converted or saved. Use --no-interactive to print a table instead.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	node, err := nodeFor("search.node")
	if err != nil {
		return err
	}
	keyword := ""
	if len(args) > 0 {
		keyword = strings.TrimSpace(args[0])
	}

	client, closeClient := openClient(cfg, cmd.ErrOrStderr())
	defer closeClient()

	opts := fetcher.SearchOptions{
		PageSize: viper.GetInt("search.page-size"),
		Location: viper.GetString("search.location"),
	}
	search := searchFunc(client, node, opts)
	out := cmd.OutOrStdout()

	if viper.GetBool("search.no-interactive") {
		if keyword == "" {
			return apperr.User("a keyword is required with --no-interactive")
		}
		items, err := search(cmd.Context(), keyword)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(out, ui.FormatStatus("warning", fmt.Sprintf("No EPDs found for %q on %s", keyword, node.ID)))
			return nil
		}
		fmt.Fprintln(out, ui.RenderSearchResults(items))
		return nil
	}

	picked, err := ui.RunEPDSelector(ui.EPDSelectorConfig{
		Search:  search,
		Query:   keyword,
		Node:    node.ID,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return err
	}
	if len(picked) == 0 {
		return nil
	}
	return actOnSelection(cmd.Context(), out, client, node, cfg, picked)
}

// searchFunc adapts a node search to the selector.
func searchFunc(client *fetcher.Client, node fetcher.Node, opts fetcher.SearchOptions) ui.SearchFunc {
	return func(ctx context.Context, keyword string) ([]ui.SearchItem, error) {
		page, err := client.Search(ctx, node, keyword, opts)
		if err != nil {
			if hint := fetcher.Hint(err); hint != "" {
				return nil, fmt.Errorf("%w (%s)", err, hint)
			}
			return nil, err
		}
		items := make([]ui.SearchItem, 0, len(page.Results))
		for _, r := range page.Results {
			items = append(items, ui.SearchItem{
				UUID:           r.UUID,
				Name:           r.DisplayName(),
				Node:           r.NodeID,
				Owner:          r.Owner,
				Geo:            r.Geo,
				Classification: r.Classification,
				SubType:        r.SubType,
				ReferenceYear:  r.ReferenceYear.String(),
				ValidUntil:     r.ValidUntil.String(),
			})
		}
		return items, nil
	}
}

// sourceFor maps a hit to the node that actually hosts it. Distributed
// search returns datasets of other nodes.
func sourceFor(item ui.SearchItem, fallback fetcher.Node) generator.Source {
	node := fallback
	if item.Node != "" {
		if n, err := fetcher.LookupNode(item.Node); err == nil {
			node = n
		}
	}
	return generator.Source{Node: node, UUID: item.UUID}
}

func actOnSelection(ctx context.Context, w io.Writer, client *fetcher.Client, node fetcher.Node, cfg config.Config, picked []ui.SearchItem) error {
	names := make([]string, len(picked))
	for i, it := range picked {
		names[i] = it.Name
	}
	choice, err := resolver.SelectForm(ctx, fmt.Sprintf("%d EPD(s) selected", len(picked)), strings.Join(names, "\n"), searchActions)
	if err != nil {
		return err
	}

	sources := make([]generator.Source, len(picked))
	for i, it := range picked {
		sources[i] = sourceFor(it, node)
	}

	switch searchActions[choice] {
	case actionInfo:
		for _, src := range sources {
			if err := showInfo(ctx, w, client, src, true); err != nil {
				return err
			}
		}
		return nil
	case actionConvert:
		settings, err := convertSettingsFromViper(cfg)
		if err != nil {
			return err
		}
		return runConversion(ctx, w, client, sources, settings)
	case actionSave:
		for _, src := range sources {
			if err := saveRaw(ctx, w, client, src, cfg.ResultFolder); err != nil {
				return err
			}
		}
		return nil
	default:
		return apperr.ErrCancelled
	}
}

func init() {
	searchCmd.Flags().StringVarP(&searchNode, "node", "n", "", "soda4LCA node id (see 'nodes')")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 10, "Number of results per search")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "Restrict results to a location code (e.g. DK)")
	searchCmd.Flags().BoolVar(&searchNoInteractive, "no-interactive", false, "Print results as a table instead of opening the selector")

	viper.BindPFlag("search.node", searchCmd.Flags().Lookup("node"))
	viper.BindPFlag("search.page-size", searchCmd.Flags().Lookup("page-size"))
	viper.BindPFlag("search.location", searchCmd.Flags().Lookup("location"))
	viper.BindPFlag("search.no-interactive", searchCmd.Flags().Lookup("no-interactive"))
}
