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
	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
	"github.com/epd-tools/epd2lcabyg/internal/resolver"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var (
	convertUUIDs        []string
	convertFiles        []string
	convertNode         string
	convertOutput       string
	convertFormat       string
	convertStrategy     string
	convertAnswers      string
	convertTemplate     string
	convertWorkbook     bool
	convertSuffixModule bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert EPDs into LCAByg Stage.json folders",
	Long: "Convert one or more EPDs into LCAByg stages. Datasets are fetched from a node with --uuid or read from disk with --file. " +
		"Each dataset gets a folder under the result folder with one sub-folder per life-cycle module holding Stage.json.",
	RunE: runConvert,
}

// convertSettings are the flag values shared with the search command.
type convertSettings struct {
	OutputDir        string
	Format           string
	Strategy         string
	AnswersFile      string
	TemplatePath     string
	Workbook         bool
	SuffixModuleName bool
}

func convertSettingsFromViper(cfg config.Config) (convertSettings, error) {
	s := convertSettings{
		OutputDir:        viper.GetString("convert.output"),
		Format:           strings.ToLower(strings.TrimSpace(viper.GetString("convert.format"))),
		Strategy:         viper.GetString("convert.strategy"),
		AnswersFile:      viper.GetString("convert.answers"),
		TemplatePath:     viper.GetString("convert.template"),
		Workbook:         viper.GetBool("convert.xlsx"),
		SuffixModuleName: viper.GetBool("convert.suffix-module"),
	}
	if s.OutputDir == "" {
		s.OutputDir = cfg.ResultFolder
	}
	if s.Strategy == "" {
		s.Strategy = cfg.Strategy
	}
	if s.AnswersFile == "" {
		s.AnswersFile = cfg.AnswersFile
	}
	switch s.Format {
	case "":
		s.Format = "json"
	case "json", "yaml":
	default:
		return s, apperr.Userf("invalid --format %q (expected json|yaml)", s.Format)
	}
	return s, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	settings, err := convertSettingsFromViper(cfg)
	if err != nil {
		return err
	}

	var sources []generator.Source
	if len(convertUUIDs) > 0 {
		node, err := nodeFor("convert.node")
		if err != nil {
			return err
		}
		sources = append(sources, generator.ParseSources(node, convertUUIDs)...)
	}
	for _, f := range convertFiles {
		src := generator.Source{File: f}
		// a file only borrows a node when one was named explicitly
		if cmd.Flags().Changed("node") {
			node, err := nodeFor("convert.node")
			if err != nil {
				return err
			}
			src.Node = node
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return apperr.User("either --uuid or --file is required (use 'search' to find datasets)")
	}

	client, closeClient := openClient(cfg, cmd.ErrOrStderr())
	defer closeClient()

	return runConversion(cmd.Context(), cmd.OutOrStdout(), client, sources, settings)
}

// runConversion converts sources and prints progress and a summary.
func runConversion(ctx context.Context, w io.Writer, client *fetcher.Client, sources []generator.Source, s convertSettings) error {
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := resolver.New(resolver.Options{Strategy: s.Strategy, AnswersFile: s.AnswersFile})
	if err != nil {
		return err
	}
	tpl, err := lcabyg.LoadTemplate(s.TemplatePath)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}

	// prompts and a redrawing spinner cannot share the terminal
	interactive := strings.EqualFold(strings.TrimSpace(s.Strategy), resolver.StrategyInteractive) || strings.TrimSpace(s.Strategy) == ""
	convUI := ui.NewConvertUI(w, quiet(), !interactive)

	labels := make([]string, len(sources))
	for i, src := range sources {
		labels[i] = src.Label()
	}
	convUI.StartWorkflow(labels)

	current := 0
	onProgress := func(evt generator.ProgressEvent) {
		switch evt.Type {
		case generator.EventFetchStart:
			current = evt.Index
			convUI.StartDataset(current, "loading")
		case generator.EventConvertStart:
			convUI.UpdateDataset(current, "converting")
		case generator.EventWriteStart:
			convUI.UpdateDataset(current, "writing")
		case generator.EventDatasetComplete:
			convUI.CompleteDataset(current, fmt.Sprintf("%d stage(s) → %s", evt.Stages, evt.Message))
		case generator.EventError:
			convUI.FailDataset(current, evt.Message)
		}
	}

	outcomes, err := generator.Run(ctx, sources, generator.Options{
		Client:           client,
		Resolver:         res,
		Template:         &tpl,
		SuffixModuleName: s.SuffixModuleName,
		OutputDir:        s.OutputDir,
		Format:           s.Format,
		Workbook:         s.Workbook,
		OnProgress:       onProgress,
	})
	convUI.FinishWorkflow()
	if err != nil {
		return err
	}

	summary := ui.ConvertSummary{Datasets: len(outcomes), OutputDir: s.OutputDir, Format: s.Format}
	for _, o := range outcomes {
		if o.Err != nil {
			summary.Failed++
			continue
		}
		summary.Stages += len(o.Conversion.Results)
		summary.Folders = append(summary.Folders, o.Folder)
	}
	convUI.PrintSummary(summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d dataset(s) failed", summary.Failed, summary.Datasets)
	}
	return nil
}

func init() {
	convertCmd.Flags().StringSliceVarP(&convertUUIDs, "uuid", "u", nil, "Dataset UUID(s) on the node - can be used multiple times or comma-separated")
	convertCmd.Flags().StringSliceVar(&convertFiles, "file", nil, "Local ILCD process JSON file(s)")
	convertCmd.Flags().StringVarP(&convertNode, "node", "n", "", "soda4LCA node id (see 'nodes')")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Result folder (default from config)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "Stage file format: json|yaml")
	convertCmd.Flags().StringVar(&convertStrategy, "strategy", "", "Resolution strategy: "+strings.Join(resolver.Strategies, "|"))
	convertCmd.Flags().StringVar(&convertAnswers, "answers", "", "YAML answers file for --strategy file")
	convertCmd.Flags().StringVar(&convertTemplate, "template", "", "Stage.json template (default: embedded)")
	convertCmd.Flags().BoolVar(&convertWorkbook, "xlsx", false, "Also write an Excel review workbook per dataset")
	convertCmd.Flags().BoolVar(&convertSuffixModule, "suffix-module", false, "Append the module to each stage name")

	// Bind all flags to viper for config file support
	viper.BindPFlag("convert.node", convertCmd.Flags().Lookup("node"))
	viper.BindPFlag("convert.output", convertCmd.Flags().Lookup("output"))
	viper.BindPFlag("convert.format", convertCmd.Flags().Lookup("format"))
	viper.BindPFlag("convert.strategy", convertCmd.Flags().Lookup("strategy"))
	viper.BindPFlag("convert.answers", convertCmd.Flags().Lookup("answers"))
	viper.BindPFlag("convert.template", convertCmd.Flags().Lookup("template"))
	viper.BindPFlag("convert.xlsx", convertCmd.Flags().Lookup("xlsx"))
	viper.BindPFlag("convert.suffix-module", convertCmd.Flags().Lookup("suffix-module"))
}
