package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/cubetime/internal/history"
	"github.com/verte-zerg/cubetime/internal/model"
	"github.com/verte-zerg/cubetime/internal/stats"
)

var (
	historyLast  int
	exportFormat string
	exportOutput string
	importDryRun bool
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, delete, export and import solves",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryExportCmd())
	cmd.AddCommand(newHistoryImportCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List solves, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to the last N solves")
	return cmd
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	solves, err := withState(cmd, func(ctx context.Context, st stateOps) ([]model.Solve, error) {
		return st.Solves(), nil
	})
	if err != nil {
		return err
	}
	if historyLast > 0 && historyLast < len(solves) {
		solves = solves[:historyLast]
	}
	if err := stats.RenderSolveTable(cmd.OutOrStdout(), solves); err != nil {
		return fmt.Errorf("failed to write solves: %w", err)
	}
	return nil
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <timestamp>",
		Short: "Delete the solve recorded at timestamp",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	}
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	ts := strings.TrimSpace(args[0])
	var removed bool
	_, err := withState(cmd, func(ctx context.Context, st stateOps) ([]model.Solve, error) {
		ok, err := st.Delete(ctx, ts)
		removed = ok
		return nil, err
	})
	if err != nil {
		return err
	}
	if !removed {
		logErrf("No solve with timestamp %s\n", ts)
		return nil
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", ts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export solves as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", formatJSON, "output format (json, yaml)")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func runHistoryExportCmd(cmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(exportFormat))
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("--format must be one of %s, %s", formatJSON, formatYAML)
	}
	solves, err := withState(cmd, func(ctx context.Context, st stateOps) ([]model.Solve, error) {
		return st.Solves(), nil
	})
	if err != nil {
		return err
	}
	data, err := encodeSolves(format, solves)
	if err != nil {
		return err
	}
	if exportOutput == "" {
		return writeAll(cmd.OutOrStdout(), data)
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	return nil
}

func encodeSolves(format string, solves []model.Solve) ([]byte, error) {
	if solves == nil {
		solves = []model.Solve{}
	}
	switch format {
	case formatYAML:
		data, err := yaml.Marshal(solves)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return data, nil
	default:
		data, err := history.Encode(solves)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func newHistoryImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge solves from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryImportCmd,
	}
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "report what would be imported without saving")
	return cmd
}

func runHistoryImportCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	incoming, err := history.DecodeImport(data)
	if err != nil {
		return err
	}
	var added int
	_, err = withState(cmd, func(ctx context.Context, st stateOps) ([]model.Solve, error) {
		if importDryRun {
			added = countNew(st.Solves(), incoming)
			return nil, nil
		}
		n, err := st.Import(ctx, incoming)
		added = n
		return nil, err
	})
	if err != nil {
		return err
	}
	verb := "Imported"
	if importDryRun {
		verb = "Would import"
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %d of %d solves\n", verb, added, len(incoming)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func countNew(existing, incoming []model.Solve) int {
	h := history.New(existing)
	return h.Merge(incoming)
}

// stateOps is the part of the application state the history commands use.
type stateOps interface {
	Solves() []model.Solve
	Delete(ctx context.Context, timestamp string) (bool, error)
	Import(ctx context.Context, solves []model.Solve) (int, error)
}

func withState(cmd *cobra.Command, fn func(ctx context.Context, st stateOps) ([]model.Solve, error)) ([]model.Solve, error) {
	if _, err := loadFileConfig(cmd); err != nil {
		return nil, err
	}
	log, err := consoleLogger()
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	st, kv, err := openState(ctx, 0, log)
	if err != nil {
		return nil, err
	}
	defer closeStore(kv, log)
	return fn(ctx, st)
}

func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
