package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/cache"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
)

var cachePruneAge time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or empty the node response cache",
}

// withCache opens the configured cache for one subcommand.
func withCache(fn func(db *cache.DB, path string) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := cache.Open(cfg.CachePath)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db, cfg.CachePath)
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cache location and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(db *cache.DB, path string) error {
			n, err := db.Len(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.FormatKeyValue("Cache", path))
			fmt.Fprintln(out, ui.FormatKeyValue("Entries", fmt.Sprintf("%d", n)))
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(db *cache.DB, path string) error {
			if err := db.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Cache cleared"))
			return nil
		})
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached responses older than --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		age := viper.GetDuration("cache.prune.older-than")
		return withCache(func(db *cache.DB, path string) error {
			n, err := db.Prune(cmd.Context(), age)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", fmt.Sprintf("Pruned %d entr(ies) older than %s", n, age)))
			return nil
		})
	},
}

func init() {
	cachePruneCmd.Flags().DurationVar(&cachePruneAge, "older-than", 7*24*time.Hour, "Maximum age of kept entries")
	viper.BindPFlag("cache.prune.older-than", cachePruneCmd.Flags().Lookup("older-than"))

	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd, cachePruneCmd)
}
