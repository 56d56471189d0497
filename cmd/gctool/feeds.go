package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lemmi/glubpage/feed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Import RSS/Atom feeds into posts/",
	Long: `Fetches the configured feeds, writes one page per new item to
posts/YYYY-MM-DD-<slug>.html and adds the items to posts/manifest.json.

Feeds come from --feed, else from $RSS_FEEDS (comma separated) or the
feeds key of the config file, else from a built-in list. Items already in
the manifest are skipped.`,
	Args: cobra.NoArgs,
	RunE: runFeeds,
}

func init() {
	feedsCmd.Flags().StringSlice("feed", nil, "feed url, may be repeated")
	feedsCmd.Flags().Int("items", feed.DefaultItemsPerFeed, "newest items to consider per feed (env ITEMS_PER_FEED)")
	feedsCmd.Flags().Duration("timeout", 30*time.Second, "timeout per feed request")
	_ = v.BindEnv("feeds", "RSS_FEEDS")
	_ = v.BindEnv("items", "ITEMS_PER_FEED")
	_ = v.BindPFlag("items", feedsCmd.Flags().Lookup("items"))
	rootCmd.AddCommand(feedsCmd)
}

func runFeeds(cmd *cobra.Command, args []string) error {
	feeds, err := configuredFeeds(cmd)
	if err != nil {
		return err
	}
	if len(feeds) == 0 {
		logger.Warn("No RSS feeds provided. Set RSS_FEEDS or pass --feed.")
		return nil
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	im := feed.Importer{
		Site:         site(),
		Feeds:        feeds,
		ItemsPerFeed: v.GetInt("items"),
		Client:       &http.Client{Timeout: timeout},
	}
	added, err := im.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "New posts added: %d\n", added)
	return nil
}

// configuredFeeds resolves the feed list. An explicitly configured but empty
// list yields no feeds rather than the defaults.
func configuredFeeds(cmd *cobra.Command) ([]string, error) {
	flagged, err := cmd.Flags().GetStringSlice("feed")
	if err != nil {
		return nil, err
	}
	if len(flagged) > 0 {
		return cleanFeeds(flagged), nil
	}
	if !v.IsSet("feeds") {
		return feed.DefaultFeeds, nil
	}
	switch raw := v.Get("feeds").(type) {
	case string:
		if strings.TrimSpace(raw) == "" {
			return feed.DefaultFeeds, nil
		}
		return cleanFeeds(strings.Split(raw, ",")), nil
	default:
		logger.Debug("Feeds from config", zap.Any("feeds", raw))
		return cleanFeeds(v.GetStringSlice("feeds")), nil
	}
}

func cleanFeeds(raw []string) []string {
	var feeds []string
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			feeds = append(feeds, u)
		}
	}
	return feeds
}
