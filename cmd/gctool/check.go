package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/lemmi/glubpage"
	"github.com/lemmi/glubpage/backend"
	"github.com/lemmi/glubpage/htmldoc"
	"github.com/pkg/errors"
	"github.com/raymondbutcher/tidyhtml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Render the site's index page offline and report every mount",
	Long: `Loads <site>/index.html, runs the page renderer against the files of the
site and logs what ended up in each mount point. With --print the rendered
page is written to stdout.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("page", "index.html", "page to render, relative to the site root")
	checkCmd.Flags().Bool("print", false, "print the rendered page")
	checkCmd.Flags().String("date-layout", glubpage.DefaultDateLayout, "Go time layout for post dates (env GCTOOL_DATE_LAYOUT)")
	_ = v.BindPFlag("date-layout", checkCmd.Flags().Lookup("date-layout"))
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetString("page")
	printPage, _ := cmd.Flags().GetBool("print")
	root := site().Root

	f, err := os.Open(filepath.Join(root, page))
	if err != nil {
		return errors.Wrapf(err, "Cannot open page: %q", page)
	}
	doc, err := htmldoc.Parse(f)
	f.Close()
	if err != nil {
		return err
	}

	r := &glubpage.Renderer{
		Fetcher: backend.NewFetcher(http.Dir(root)),
		Dates:   glubpage.LayoutDates{Layout: v.GetString("date-layout")},
	}
	<-r.Mount(cmd.Context(), doc)

	for _, id := range []string{
		glubpage.LatestPostsID,
		glubpage.AllPostsID,
		glubpage.AdSlotID,
		glubpage.AffiliatesID,
	} {
		inner, ok := doc.InnerHTML(id)
		if !ok {
			logger.Info("Mount not on page", zap.String("id", id))
			continue
		}
		logger.Info("Mount rendered",
			zap.String("id", id),
			zap.Int("items", strings.Count(inner, "<li")),
			zap.Int("bytes", len(inner)))
	}

	if !printPage {
		return nil
	}
	buf := bytes.Buffer{}
	if err := doc.Render(&buf); err != nil {
		return err
	}
	return errors.Wrap(tidyhtml.Copy(cmd.OutOrStdout(), &buf), "tidyhtml failed")
}
