package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/lemmi/glubpage"
	"github.com/lemmi/glubpage/feed"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	verbose bool

	v      = viper.New()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "gctool",
	Short: "Maintain the posts of a glubpage site",
	Long: `gctool manages the files the page renderer reads: the post pages under
posts/ and posts/manifest.json. It imports RSS/Atom feeds, creates posts
from Markdown and checks a site by rendering its index page offline.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return errors.Wrap(err, "Cannot initialize logger")
		}
		cmd.SetContext(glubpage.LoggingContext(cmd.Context(), logger))
		return initializeConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("site", ".", "root directory of the site (env GCTOOL_SITE)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <site>/gctool.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = v.BindPFlag("site", rootCmd.PersistentFlags().Lookup("site"))
}

func initializeConfig() error {
	v.SetEnvPrefix("GCTOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(v.GetString("site"))
		v.SetConfigName("gctool")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return errors.Wrap(err, "Cannot read config file")
		}
		logger.Debug("No config file, using flags and environment")
	} else {
		logger.Debug("Using config file", zap.String("file", v.ConfigFileUsed()))
	}
	return nil
}

func site() feed.Site {
	root, err := filepath.Abs(v.GetString("site"))
	if err != nil {
		root = v.GetString("site")
	}
	return feed.Site{Root: root}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
