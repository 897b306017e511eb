package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"langtable/internal/config"
	"langtable/internal/filewalker"
	"langtable/internal/parser"
	"langtable/internal/table"
	"langtable/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func checkCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check <directory>",
		Short: "Load every translation file under a directory and report coverage",
		Long: `Walks a directory for .json/.jsonc files, loads each one concurrently and
prints its entry count and missing translations. Exits non-zero if any file
fails to load.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, cfg, args[0])
		},
	}
}

// runCheck handles the `check` command.
func runCheck(cmd *cobra.Command, cfg *config.Config, dir string) error {
	ctx, cancel := setupContext()
	defer cancel()

	files, err := filewalker.NewWalker().Walk(dir)
	if err != nil {
		return err
	}

	pool := worker.NewPool[string, table.Stats](cfg.WorkerCount,
		func(ctx context.Context, path string) (table.Stats, error) {
			t, err := parser.LoadFile(path)
			if err != nil {
				return table.Stats{}, err
			}
			return t.Stats(), nil
		},
	)
	results := pool.Execute(ctx, files)

	root, _ := filepath.Abs(dir)
	out := cmd.OutOrStdout()
	failed := 0
	totalMissing := make(map[string]int)

	for _, r := range results {
		rel, err := filepath.Rel(root, r.Input)
		if err != nil {
			rel = r.Input
		}

		switch {
		case !r.Done:
			fmt.Fprintf(out, "SKIP  %s\n", rel)
		case r.Err != nil:
			failed++
			fmt.Fprintf(out, "FAIL  %s: %v\n", rel, r.Err)
		default:
			fmt.Fprintf(out, "OK    %s: %d entries, %d missing\n", rel, r.Output.Entries, r.Output.MissingAny)
			for lang, n := range r.Output.MissingPerLanguage {
				totalMissing[lang] += n
			}
		}
	}

	if len(totalMissing) > 0 {
		fmt.Fprintln(out, "\nMissing per language:")
		for _, lang := range sortedKeys(totalMissing) {
			fmt.Fprintf(out, "  %-8s %d\n", lang, totalMissing[lang])
		}
	}

	log.Info().Int("files", len(files)).Int("failed", failed).Msg("Check complete")

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to load", failed, len(files))
	}
	return ctx.Err()
}
