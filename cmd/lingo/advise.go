package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"

	"github.com/ZaguanLabs/lingo"
	"github.com/spf13/cobra"
)

func (a *app) adviseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise URL",
		Short: "Review the visible text of a website",
		Long: `Review the headings, links, buttons, labels and paragraphs of the page
at URL. Gemini models open the page themselves; other providers review the
labels lingo extracts from the HTML.`,
		Example: `  lingo advise https://example.com
  lingo advise https://example.com --types spelling,grammar --stream`,
		Args: cobra.ExactArgs(1),
		RunE: a.runAdvise,
	}

	flags := cmd.Flags()
	flags.String("types", "", "Comma-separated error types (default: all)")
	flags.Bool("stream", false, "Print suggestions as they arrive")
	flags.Bool("json", false, "Output suggestions as JSON")
	return cmd
}

func (a *app) runAdvise(cmd *cobra.Command, args []string) error {
	page := args[0]
	if u, err := url.Parse(page); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q: must be an absolute http(s) URL", page)
	}

	types, err := errorTypes(a.v.GetString("types"), lingo.WebsiteErrorTypes)
	if err != nil {
		return err
	}

	engine, err := a.engine(cmd.Context())
	if err != nil {
		return err
	}
	opts := lingo.AdviseOptions{ErrorTypes: types, OnProgress: a.progress()}

	if a.v.GetBool("stream") {
		for s, err := range engine.AdviseWebsiteStream(cmd.Context(), page, opts) {
			if err != nil {
				return fmt.Errorf("advice failed: %w", err)
			}
			if a.v.GetBool("json") {
				// One object per line
				line, err := json.Marshal(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%s\n", line)
				continue
			}
			printSuggestion(a.stdout, s)
		}
		return nil
	}

	suggestions, err := engine.AdviseWebsite(cmd.Context(), page, opts)
	if err != nil {
		return fmt.Errorf("advice failed: %w", err)
	}

	// Most severe first
	slices.SortStableFunc(suggestions, func(x, y lingo.Suggestion) int {
		return cmp.Compare(y.Severity.Rank(), x.Severity.Rank())
	})

	if a.v.GetBool("json") {
		return writeJSON(a.stdout, suggestions)
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(a.stdout, "No issues found.")
		return nil
	}
	for _, s := range suggestions {
		printSuggestion(a.stdout, s)
	}
	return nil
}
