package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
	"github.com/epd-tools/epd2lcabyg/internal/config"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the persistent settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		file := viper.ConfigFileUsed()
		if file == "" {
			file = "(none)"
		}
		cacheState := cfg.CachePath
		if cfg.NoCache {
			cacheState = "disabled"
		}
		rows := [][]string{
			{"Config file", file},
			{"API key", config.Masked(cfg.APIKey)},
			{"Result folder", cfg.ResultFolder},
			{"Default node", cfg.Node},
			{"Timeout", cfg.Timeout.String()},
			{"Cache", cacheState},
			{"Cache TTL", cfg.CacheTTL.String()},
			{"Strategy", cfg.Strategy},
		}
		if cfg.AnswersFile != "" {
			rows = append(rows, []string{"Answers file", cfg.AnswersFile})
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderTable([]string{"Setting", "Value"}, rows))
		return nil
	},
}

var configSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key [key]",
	Short: "Store the node API key",
	Long:  "Store the API key sent to non-public nodes. Without an argument the key is read from a masked prompt.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) > 0 {
			key = args[0]
		} else {
			err := huh.NewInput().
				Title("API key").
				EchoMode(huh.EchoModePassword).
				Validate(config.ValidateAPIKey).
				Value(&key).
				Run()
			if err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return apperr.ErrCancelled
				}
				return err
			}
		}
		if strings.TrimSpace(key) == "" {
			return apperr.User("API key must not be empty")
		}
		path, err := config.SetAPIKey(viper.GetViper(), key)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "API key saved to "+path))
		return nil
	},
}

var configSetResultFolderCmd = &cobra.Command{
	Use:   "set-result-folder <folder>",
	Short: "Store the folder converted stages are written to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.SetResultFolder(viper.GetViper(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Result folder saved to "+path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetAPIKeyCmd, configSetResultFolderCmd)
}
