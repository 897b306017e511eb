package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"langtable/internal/config"
	"langtable/internal/merge"
	"langtable/internal/session"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	setLogLevel(cfg.LogLevel)

	if err := NewRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree for cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "langtable",
		Short:        "Edit comment-tolerant JSON translation tables",
		Long:         "Load, merge, search and check translation tables stored as JSON objects of objects with // line comments.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(formatCmd(cfg))
	rootCmd.AddCommand(mergeCmd(cfg))
	rootCmd.AddCommand(addLanguageCmd(cfg))
	rootCmd.AddCommand(addKeyCmd(cfg))
	rootCmd.AddCommand(searchCmd(cfg))
	rootCmd.AddCommand(extractCmd(cfg))
	rootCmd.AddCommand(statsCmd(cfg))
	rootCmd.AddCommand(checkCmd(cfg))
	rootCmd.AddCommand(historyCmd(cfg))
	rootCmd.AddCommand(graphCmd(cfg))

	return rootCmd
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// openSession loads path into a fresh session configured from cfg.
func openSession(cfg *config.Config, path string) (*session.Session, error) {
	s := session.New(newEngine(cfg))
	if err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

func newEngine(cfg *config.Config) *merge.Engine {
	return merge.NewEngine(merge.Options{
		LengthWarningMultiplier: cfg.LengthWarningMultiplier,
		CheckPlaceholders:       cfg.CheckPlaceholders,
	})
}

// readInput reads a file, or stdin when name is "-".
func readInput(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// fileID is the identity a translation file is recorded under in history and graph.
func fileID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
