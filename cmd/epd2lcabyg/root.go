package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/cache"
	"github.com/epd-tools/epd2lcabyg/internal/config"
	"github.com/epd-tools/epd2lcabyg/internal/converter"
	"github.com/epd-tools/epd2lcabyg/internal/fetcher"
	"github.com/epd-tools/epd2lcabyg/internal/generator"
	"github.com/epd-tools/epd2lcabyg/internal/resolver"
	"github.com/epd-tools/epd2lcabyg/internal/ui"
	"github.com/epd-tools/epd2lcabyg/internal/validator"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "epd2lcabyg",
	Short: "Convert EPDs from soda4LCA nodes into LCAByg stages",
	Long:  longDescription,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		ui.Init(viper.GetBool("no-color"))
		return setupLogging(cmd.ErrOrStderr())
	},

	// When invoked without a subcommand, show help (with banner) instead of
	// printing a plain usage output.
	RunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		return cmd.Help()
	},
}

var cfgFile string
var version string

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// GetRootCmd returns the root command for use with fang
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.epd2lcabyg.yaml or ./config/defaults.yaml)")
	pf.Bool("no-color", false, "Disable colored log prefixes")
	pf.String("log-level", "standard", "Log level: quiet|standard|debug")
	pf.String("api-key", "", "soda4LCA API key (not sent to public nodes)")
	pf.Duration("timeout", 0, "HTTP timeout for node requests (e.g. 30s)")
	pf.Bool("no-cache", false, "Bypass the local response cache")

	viper.BindPFlag("no-color", pf.Lookup("no-color"))
	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag(config.KeyAPIKey, pf.Lookup("api-key"))
	viper.BindPFlag(config.KeyCacheOff, pf.Lookup("no-cache"))

	// Ensure `--help` (and help subcommands) show the banner consistently.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(convertCmd, infoCmd, saveCmd, searchCmd, nodesCmd, validateCmd, configCmd, cacheCmd)
}

func initConfig() {
	config.LoadDotEnv()
	config.Bind(viper.GetViper())

	// A zero duration flag must not shadow the configured timeout.
	if f := rootCmd.PersistentFlags().Lookup("timeout"); f != nil && f.Changed {
		viper.Set(config.KeyTimeout, f.Value.String())
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			cobra.CheckErr(err)
		}
		printConfigUsed()
		return
	}

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	viper.AddConfigPath("./config")

	// Try .epd2lcabyg first
	viper.SetConfigName(config.FileName)
	err = viper.ReadInConfig()

	// If not found, try defaults.yaml
	notFound := &viper.ConfigFileNotFoundError{}
	if err != nil && errors.As(err, notFound) {
		viper.SetConfigName("defaults")
		err = viper.ReadInConfig()
	}

	switch {
	case err != nil && !errors.As(err, notFound):
		cobra.CheckErr(err)
	case err != nil:
		// The config file is optional
	default:
		printConfigUsed()
	}
}

func printConfigUsed() {
	if strings.EqualFold(viper.GetString("log.level"), "quiet") {
		return
	}
	configMsg := ui.Dim.Render("Using config file: ") + ui.Secondary.Render(viper.ConfigFileUsed())
	fmt.Fprintln(os.Stderr, configMsg)
}

// logLevel returns the validated log level.
func logLevel() (string, error) {
	level := strings.ToLower(strings.TrimSpace(viper.GetString("log.level")))
	if level == "" {
		level = "standard"
	}
	switch level {
	case "quiet", "standard", "debug":
		return level, nil
	default:
		return "", fmt.Errorf("invalid --log-level %q (expected quiet|standard|debug)", level)
	}
}

func quiet() bool {
	level, _ := logLevel()
	return level == "quiet"
}

// setupLogging wires the package loggers for debug mode.
func setupLogging(w io.Writer) error {
	level, err := logLevel()
	if err != nil {
		return err
	}
	var lw io.Writer
	if level == "debug" {
		lw = w
	}
	fetcher.SetLogger(lw)
	cache.SetLogger(lw)
	converter.SetLogger(lw)
	resolver.SetLogger(lw)
	generator.SetLogger(lw)
	validator.SetLogger(lw)
	return nil
}

const longDescription = "Fetch Environmental Product Declarations (ILCD+EPD) from soda4LCA nodes and convert them into LCAByg Stage.json records, one per life-cycle module."

func initUIAndBanner(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	cmd.Root().Long = ui.RenderGradientBanner(ui.BannerASCII) + "\n" + longDescription
}
