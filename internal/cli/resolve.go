package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kolah/deref/internal/config"
	"github.com/kolah/deref/internal/document"
	"github.com/kolah/deref/internal/refs"
	"github.com/kolah/deref/internal/resolver"
)

func ResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [input]",
		Short: "Inline external references of a document into a single file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResolve,
	}

	config.BindFlags(cmd)

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd, args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	loc, err := refs.NewLocation(cfg.Input)
	if err != nil {
		return err
	}

	strategy, err := resolver.ParseConflictStrategy(cfg.ConflictStrategy)
	if err != nil {
		return err
	}

	result, err := resolver.ResolveLocation(cmd.Context(), loc, resolver.Options{
		ConflictStrategy: strategy,
		StripProvenance:  cfg.NoProvenance,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeDocument(result.Document, cfg.Format, out)
}

func writeDocument(doc *document.Document, format string, out io.Writer) error {
	if format == "json" {
		return doc.EncodeJSON(out)
	}
	return doc.EncodeYAML(out)
}
