package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lemmi/glubpage/article"
	"github.com/lemmi/glubpage/feed"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [flags] FILE.md",
	Short: "Create a post from a Markdown file",
	Long: `Renders FILE.md to a post page dated now, writes it to posts/ and adds it
to the manifest. The HTML is sanitized unless --unsafe is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().String("title", "New Post", "title of the post")
	newCmd.Flags().String("summary", "", "summary shown in post lists (default: start of the text)")
	newCmd.Flags().String("source", "", "link to the original source")
	newCmd.Flags().Bool("unsafe", false, "do not sanitize the rendered Markdown")
	newCmd.Flags().BoolP("simulate", "n", false, "only show the manifest entry")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	title, _ := flags.GetString("title")
	summary, _ := flags.GetString("summary")
	source, _ := flags.GetString("source")
	unsafe, _ := flags.GetBool("unsafe")
	simulate, _ := flags.GetBool("simulate")

	mdPath, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	r := article.NewRenderer(http.Dir(filepath.Dir(mdPath)), "/"+filepath.Base(mdPath), unsafe)
	html, err := r.Render()
	if err != nil {
		return err
	}
	if summary == "" {
		summary = feed.Summarize(string(html), feed.SummaryLength)
	}

	page := feed.Page{
		Date:    time.Now(),
		Title:   title,
		Content: template.HTML(html),
		Source:  source,
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+mdPath)).String()

	s := site()
	entry := page.Entry(page.Filename(), id, summary)
	if !simulate {
		entry, err = s.Publish(cmd.Context(), page, id, summary)
		if err != nil {
			return err
		}
	}

	b, err := json.MarshalIndent(entry, "", "\t")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(s.PostsDir(), entry.Slug))
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
