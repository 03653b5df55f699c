package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ZaguanLabs/lingo"
	"github.com/spf13/cobra"
)

func (a *app) reviseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revise FILE",
		Short: "Proofread a JSON or YAML message file",
		Example: `  lingo revise en.json --types grammar,spelling
  lingo revise en.yaml --context "Banking app" --json`,
		Args: cobra.ExactArgs(1),
		RunE: a.runRevise,
	}

	flags := cmd.Flags()
	flags.String("types", "", "Comma-separated error types (default: all)")
	flags.String("context", "", "Product or domain context for the model")
	flags.Bool("json", false, "Output suggestions as JSON")
	flags.Int("batch-size", lingo.DefaultBatchSize, batchSizeUsage)
	return cmd
}

func (a *app) runRevise(cmd *cobra.Command, args []string) error {
	types, err := errorTypes(a.v.GetString("types"), lingo.RevisionErrorTypes)
	if err != nil {
		return err
	}

	source, err := readMessageFile(args[0])
	if err != nil {
		return err
	}

	engine, err := a.engine(cmd.Context())
	if err != nil {
		return err
	}

	suggestions, err := engine.Revise(cmd.Context(), source.Messages, lingo.ReviseOptions{
		ErrorTypes: types,
		Context:    a.v.GetString("context"),
		OnProgress: a.progress(),
	})
	if err != nil {
		return fmt.Errorf("revision failed: %w", err)
	}

	if a.v.GetBool("json") {
		return writeJSON(a.stdout, suggestions)
	}

	if len(suggestions) == 0 {
		fmt.Fprintln(a.stdout, "No issues found.")
		return nil
	}
	fmt.Fprintf(a.stdout, "Found %d issues:\n\n", len(suggestions))
	for _, s := range suggestions {
		printSuggestion(a.stdout, s)
	}
	return nil
}

// printSuggestion writes one suggestion as a short text block.
func printSuggestion(w io.Writer, s lingo.Suggestion) {
	label := string(s.Type)
	if info, ok := s.Type.Info(); ok {
		label = info.Label
	}
	if s.Severity != "" {
		label += ", " + string(s.Severity)
	}

	fmt.Fprintf(w, "%s [%s]\n", s.Key, label)
	fmt.Fprintf(w, "  - %q\n", s.Original)
	fmt.Fprintf(w, "  + %q\n", s.Suggested)
	if s.Reason != "" {
		fmt.Fprintf(w, "  %s\n", s.Reason)
	}
	fmt.Fprintln(w)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
