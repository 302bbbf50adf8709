package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/lcabyg"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
	"github.com/epd-tools/epd2lcabyg/internal/validator"
)

var (
	validateStrict   bool
	validateTemplate string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate generated Stage files",
	Long: "Validate Stage.json/Stage.yaml files against the LCAByg import schema. " +
		"A folder is searched recursively; without a path the result folder is checked.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		root := cfg.ResultFolder
		if len(args) > 0 {
			root = args[0]
		}

		opts := validator.ValidationOptions{StrictMode: viper.GetBool("validate.strict")}
		if p := viper.GetString("validate.template"); p != "" {
			tpl, err := lcabyg.LoadTemplate(p)
			if err != nil {
				return fmt.Errorf("load template: %w", err)
			}
			opts.Template = &tpl
		}

		results, err := validator.ValidateTree(root, opts)
		if err != nil {
			return err
		}
		merged := validator.Merge(results)
		merged.Path = root
		validator.PrintReport(merged)

		ui.NewValidationUI(cmd.OutOrStdout(), quiet()).PrintReport(ui.ValidationReport{
			Path:     root,
			Valid:    merged.Valid,
			Stages:   merged.Stages,
			Errors:   merged.Errors,
			Warnings: merged.Warnings,
		})
		if !merged.Valid {
			return fmt.Errorf("validation failed with %d error(s)", len(merged.Errors))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Treat missing optional data as errors")
	validateCmd.Flags().StringVar(&validateTemplate, "template", "", "Stage template whose indicator codes must be present")

	viper.BindPFlag("validate.strict", validateCmd.Flags().Lookup("strict"))
	viper.BindPFlag("validate.template", validateCmd.Flags().Lookup("template"))
}
