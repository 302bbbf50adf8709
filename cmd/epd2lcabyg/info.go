package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/converter"
	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/generator"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var (
	infoNode    string
	infoUUID    string
	infoFile    string
	infoModules bool
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the impact indicators of one EPD",
	Long:  "Fetch one EPD from a node (or read it from disk) and print its LCIA indicators with their totals, optionally broken down per life-cycle module.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		src := generator.Source{UUID: infoUUID, File: infoFile}
		if infoFile == "" || cmd.Flags().Changed("node") {
			if src.Node, err = nodeFor("info.node"); err != nil {
				return err
			}
		}

		client, closeClient := openClient(cfg, cmd.ErrOrStderr())
		defer closeClient()

		return showInfo(cmd.Context(), cmd.OutOrStdout(), client, src, viper.GetBool("info.modules"))
	},
}

// showInfo loads one dataset and prints its indicators.
func showInfo(ctx context.Context, w io.Writer, client *fetcher.Client, src generator.Source, modules bool) error {
	loaded, err := loadOne(ctx, w, client, src)
	if err != nil {
		return err
	}
	table, _, err := converter.ExtractIndicators(loaded.Process)
	if err != nil {
		return err
	}

	info := loaded.Process.ProcessInformation
	header := ui.DatasetHeader{
		UUID:       info.DataSetInformation.UUID,
		Node:       src.Node.ID,
		URL:        loaded.URI,
		ValidUntil: info.Time.DataSetValidUntil.String(),
	}
	if meta, err := converter.ExtractMetadata(loaded.Process, loaded.URI); err == nil {
		header.Name = meta.Name
	} else {
		header.Name = src.Label()
	}

	ui.PrintIndicators(w, header, indicatorRows(table), modules)
	return nil
}

func indicatorRows(table *converter.IndicatorTable) []ui.IndicatorRow {
	all := table.All()
	rows := make([]ui.IndicatorRow, 0, len(all))
	for _, ind := range all {
		row := ui.IndicatorRow{Code: ind.Code, Name: ind.Name, Unit: ind.Unit, Total: ind.Total}
		for _, e := range ind.Emissions {
			row.Amounts = append(row.Amounts, ui.ModuleAmount{Module: e.Module, Value: e.Value, Scenario: e.Scenario})
		}
		rows = append(rows, row)
	}
	return rows
}

func init() {
	infoCmd.Flags().StringVarP(&infoNode, "node", "n", "", "soda4LCA node id (see 'nodes')")
	infoCmd.Flags().StringVarP(&infoUUID, "uuid", "u", "", "Dataset UUID on the node")
	infoCmd.Flags().StringVar(&infoFile, "file", "", "Local ILCD process JSON file")
	infoCmd.Flags().BoolVarP(&infoModules, "modules", "m", false, "Show the value of every declared module")

	viper.BindPFlag("info.node", infoCmd.Flags().Lookup("node"))
	viper.BindPFlag("info.modules", infoCmd.Flags().Lookup("modules"))
}
