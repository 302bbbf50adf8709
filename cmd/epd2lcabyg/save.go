package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/converter"
	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/generator"
	stageio "github.com/epd-tools/epd2lcabyg/internal/io"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var (
	saveNode   string
	saveUUID   string
	saveOutput string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the raw ILCD JSON of one EPD",
	Long:  "Fetch one EPD from a node and store the JSON exactly as served, named after the dataset. Existing files are never overwritten.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if saveUUID == "" {
			return apperr.User("--uuid is required")
		}
		node, err := nodeFor("save.node")
		if err != nil {
			return err
		}
		dir := viper.GetString("save.output")
		if dir == "" {
			dir = cfg.ResultFolder
		}

		client, closeClient := openClient(cfg, cmd.ErrOrStderr())
		defer closeClient()

		return saveRaw(cmd.Context(), cmd.OutOrStdout(), client, generator.Source{Node: node, UUID: saveUUID}, dir)
	},
}

func saveRaw(ctx context.Context, w io.Writer, client *fetcher.Client, src generator.Source, dir string) error {
	loaded, err := loadOne(ctx, w, client, src)
	if err != nil {
		return err
	}
	name := src.UUID
	if meta, err := converter.ExtractMetadata(loaded.Process, loaded.URI); err == nil {
		name = meta.Name
	}
	path, err := stageio.SaveRaw(dir, name, loaded.Raw)
	if err != nil {
		return fmt.Errorf("save %s: %w", src.Label(), err)
	}
	if !quiet() {
		fmt.Fprintln(w, ui.FormatStatus("success", "Saved "+path))
	}
	return nil
}

func init() {
	saveCmd.Flags().StringVarP(&saveNode, "node", "n", "", "soda4LCA node id (see 'nodes')")
	saveCmd.Flags().StringVarP(&saveUUID, "uuid", "u", "", "Dataset UUID on the node")
	saveCmd.Flags().StringVarP(&saveOutput, "output", "o", "", "Target folder (default: result folder)")

	viper.BindPFlag("save.node", saveCmd.Flags().Lookup("node"))
	viper.BindPFlag("save.output", saveCmd.Flags().Lookup("output"))
}
