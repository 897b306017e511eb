package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"langtable/internal/config"
	"langtable/internal/history"
	"langtable/internal/merge"
	"langtable/internal/table"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func formatCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Rewrite a translation file in canonical form, dropping comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cfg, args[0])
			if err != nil {
				return err
			}

			toStdout, _ := cmd.Flags().GetBool("stdout")
			if toStdout {
				out, err := s.Serialize()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}

			output, _ := cmd.Flags().GetString("output")
			return s.Save(output)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Write to this path instead of rewriting the input")
	cmd.Flags().Bool("stdout", false, "Print the result instead of writing a file")

	return cmd
}

func mergeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <file> <fragment-file|->",
		Short: "Merge a JSON fragment into a translation file",
		Long: `Merges translations from a JSON fragment into an existing file.
The fragment may omit the outer braces. Every language it uses must already
exist in the file (see add-language); keys missing from the file are ignored.
Values longer than the longest existing value of their key are reported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			noHistory, _ := cmd.Flags().GetBool("no-history")
			return runMerge(cmd, cfg, args[0], args[1], dryRun, noHistory)
		},
	}

	cmd.Flags().Bool("dry-run", false, "Report what would change without writing the file")
	cmd.Flags().Bool("no-history", false, "Do not record the merge in PostgreSQL")

	return cmd
}

// runMerge handles the `merge` command.
func runMerge(cmd *cobra.Command, cfg *config.Config, path, fragmentName string, dryRun, noHistory bool) error {
	fragment, err := readInput(cmd, fragmentName)
	if err != nil {
		return err
	}
	if strings.TrimSpace(fragment) == "" {
		return fmt.Errorf("fragment %s is empty", fragmentName)
	}

	s, err := openSession(cfg, path)
	if err != nil {
		return err
	}

	report, err := s.Merge(fragment)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Format(cfg.MaxReportedWarnings))

	if dryRun {
		log.Info().Str("path", path).Msg("Dry run, file not written")
		return nil
	}

	if err := s.Save(""); err != nil {
		return err
	}

	if cfg.HistoryEnabled() && !noHistory {
		ctx, cancel := setupContext()
		defer cancel()
		if err := recordHistory(ctx, cfg, fileID(path), report); err != nil {
			log.Warn().Err(err).Msg("Failed to record merge history")
		}
	}

	log.Info().
		Str("path", path).
		Int("updated", report.UpdatedEntries).
		Int("ignored", report.MissingKeys).
		Int("length_warnings", len(report.LengthWarnings)).
		Msg("Merge saved")
	return nil
}

func recordHistory(ctx context.Context, cfg *config.Config, file string, report *merge.Report) error {
	pool, err := history.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := history.NewStore(pool, cfg.HistoryBatchSize)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return store.Record(ctx, file, report.Changes)
}

func addLanguageCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add-language <file> <code>",
		Short: "Add a language column, filling every entry with an empty value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cfg, args[0])
			if err != nil {
				return err
			}

			added, err := s.AddLanguage(args[1])
			if err != nil {
				return err
			}
			if !added {
				return fmt.Errorf("language %q already exists", strings.ToLower(strings.TrimSpace(args[1])))
			}
			return s.Save("")
		},
	}
}

func addKeyCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add-key <file> <key>...",
		Short: "Append new keys with empty values for every language",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cfg, args[0])
			if err != nil {
				return err
			}

			for _, key := range args[1:] {
				if err := s.AddEntry(key); err != nil {
					return err
				}
			}
			return s.Save("")
		},
	}
}

func searchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <file> <query>",
		Short: "Find keys containing a substring, cycling through matches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cfg, args[0])
			if err != nil {
				return err
			}

			count, _ := cmd.Flags().GetInt("count")
			if count < 1 {
				count = 1
			}

			for i := 0; i < count; i++ {
				idx, key, ok := s.Search(args[1])
				if !ok {
					if i == 0 {
						return fmt.Errorf("no key matches %q", args[1])
					}
					break
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", idx, key)
			}
			return nil
		},
	}

	cmd.Flags().IntP("count", "n", 1, "Number of successive matches to print")

	return cmd
}

func extractCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file> [key...]",
		Short: "Print entries as a JSON fragment suitable for merge",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cfg, args[0])
			if err != nil {
				return err
			}

			keys := args[1:]
			match, _ := cmd.Flags().GetString("match")
			if match != "" {
				err := s.View(func(t *table.Table) error {
					needle := strings.ToLower(match)
					for _, e := range t.Entries() {
						if strings.Contains(strings.ToLower(e.Key), needle) {
							keys = append(keys, e.Key)
						}
					}
					return nil
				})
				if err != nil {
					return err
				}
			}
			if len(keys) == 0 {
				return fmt.Errorf("no keys selected")
			}

			out, err := s.Extract(dedupe(keys))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().String("match", "", "Also select keys containing this substring")

	return cmd
}

func statsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Show entry count and missing translations per language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cfg, args[0])
			if err != nil {
				return err
			}

			st, err := s.Stats()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatStats(st))
			return nil
		},
	}
}

func formatStats(st table.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Entries: %d   |   Missing (any): %d\n", st.Entries, st.MissingAny)
	for _, lang := range st.Languages {
		fmt.Fprintf(&sb, "  %-8s missing %d\n", lang, st.MissingPerLanguage[lang])
	}
	return sb.String()
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
