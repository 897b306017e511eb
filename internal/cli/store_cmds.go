package cli

import (
	"errors"
	"fmt"
	"strings"

	"langtable/internal/config"
	"langtable/internal/graph"
	"langtable/internal/history"
	"langtable/internal/parser"
	"langtable/internal/textutil"

	"github.com/spf13/cobra"
)

var (
	errHistoryDisabled = errors.New("DATABASE_URL is not set; merge history is disabled")
	errGraphDisabled   = errors.New("NEO4J_URI is not set; graph export is disabled")
)

func historyCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <file> [key]",
		Short: "List values previously written by merges",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.HistoryEnabled() {
				return errHistoryDisabled
			}

			key := ""
			if len(args) == 2 {
				key = args[1]
			}
			limit, _ := cmd.Flags().GetInt("limit")

			ctx, cancel := setupContext()
			defer cancel()

			pool, err := history.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			store := history.NewStore(pool, cfg.HistoryBatchSize)
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}

			records, err := store.List(ctx, fileID(args[0]), key, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range records {
				mark := ""
				if r.LengthWarning {
					mark = " (length warning)"
				}
				fmt.Fprintf(out, "%s  %s [%s]: %q -> %q%s\n",
					r.MergedAt.Format("2006-01-02 15:04:05"), r.Key, r.Language,
					textutil.Truncate(r.OldText, 40), textutil.Truncate(r.NewText, 40), mark)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 50, "Maximum number of changes to list")

	return cmd
}

func graphCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export translation coverage to Neo4j and query it",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Replace the graph image of a translation file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.GraphEnabled() {
				return errGraphDisabled
			}

			t, err := parser.LoadFile(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := setupContext()
			defer cancel()

			driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			exporter := graph.NewExporter(driver)
			if err := exporter.EnsureSchema(ctx); err != nil {
				return err
			}
			return exporter.Export(ctx, fileID(args[0]), t)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "missing <file> <language>",
		Short: "List keys of an exported file lacking a translation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.GraphEnabled() {
				return errGraphDisabled
			}

			ctx, cancel := setupContext()
			defer cancel()

			driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			keys, err := graph.NewQuerier(driver).Missing(ctx, fileID(args[0]), strings.ToLower(args[1]))
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "coverage <file>",
		Short: "Show filled translations per language for an exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.GraphEnabled() {
				return errGraphDisabled
			}

			ctx, cancel := setupContext()
			defer cancel()

			driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
			if err != nil {
				return err
			}
			defer driver.Close(ctx)

			coverage, err := graph.NewQuerier(driver).Coverage(ctx, fileID(args[0]))
			if err != nil {
				return err
			}
			for _, c := range coverage {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d/%d\n", c.Language, c.Filled, c.Total)
			}
			return nil
		},
	})

	return cmd
}
