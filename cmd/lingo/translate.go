package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaguanLabs/lingo"
	"github.com/apex/log"
	"github.com/spf13/cobra"
)

func (a *app) translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate FILE",
		Short: "Translate a JSON or YAML message file",
		Long: `Translate every message of FILE into the target language. Nested
objects are flattened to dotted keys for translation and re-nested on output.

With --previous and --existing only the messages that changed since the
previous source version are sent to the model; the rest are taken from the
existing translation.`,
		Example: `  lingo translate en.json --lang fr -o fr.json
  lingo translate en.yaml --lang de --previous en.old.yaml --existing de.yaml -o de.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: a.runTranslate,
	}

	flags := cmd.Flags()
	flags.String("lang", "", "Target language code (e.g., fr, pt-BR)")
	flags.String("context", "", "Product or domain context for the model")
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.String("previous", "", "Previous version of the source file")
	flags.String("existing", "", "Existing translation to update")
	flags.Int("batch-size", lingo.DefaultBatchSize, batchSizeUsage)
	return cmd
}

func (a *app) runTranslate(cmd *cobra.Command, args []string) error {
	lang := a.v.GetString("lang")
	if lang == "" {
		return fmt.Errorf("--lang is required")
	}
	previousPath := a.v.GetString("previous")
	existingPath := a.v.GetString("existing")
	if previousPath != "" && existingPath == "" {
		return fmt.Errorf("--previous requires --existing")
	}

	source, err := readMessageFile(args[0])
	if err != nil {
		return err
	}

	existing := lingo.NewMessageMap()
	if existingPath != "" {
		f, err := readMessageFile(existingPath)
		if err != nil {
			return err
		}
		existing = f.Messages
	}

	pending := source.Messages
	if previousPath != "" {
		previous, err := readMessageFile(previousPath)
		if err != nil {
			return err
		}
		diff := lingo.DiffMessages(previous.Messages, source.Messages)
		stats := diff.Stats()
		a.logger.WithFields(log.Fields{
			"added":     stats.Added,
			"modified":  stats.Modified,
			"removed":   stats.Removed,
			"unchanged": stats.Unchanged,
		}).Info("compared with previous version")
		pending = diff.NeedsTranslation()
	}

	engine, err := a.engine(cmd.Context())
	if err != nil {
		return err
	}

	if !a.v.GetBool("quiet") {
		fmt.Fprintf(a.stderr, "Translating %d messages to %s...\n", pending.Len(), lingo.GetLanguageName(lang))
	}

	start := time.Now()
	translated, err := engine.Translate(cmd.Context(), pending, lingo.TranslateOptions{
		TargetLang: lang,
		Context:    a.v.GetString("context"),
		OnProgress: a.progress(),
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	result := source.withMessages(lingo.MergeMessages(source.Messages, existing, translated))

	var out io.Writer = a.stdout
	if output := a.v.GetString("output"); output != "" {
		result.Format = formatFromPath(output, result.Format)
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := result.write(out); err != nil {
		return err
	}

	if !a.v.GetBool("quiet") {
		fmt.Fprintf(a.stderr, "Done in %v\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
