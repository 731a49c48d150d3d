package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songfinder/internal/formatter"
	"github.com/desertthunder/songfinder/internal/ui"
)

// History lists recorded lookups, newest first, or exports them with --format.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.requireHistory()
	if err != nil {
		return err
	}

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if cmd.Bool("failed") {
		criteria["failed"] = true
	}
	if source := cmd.String("source"); source != "" {
		criteria["source"] = source
	}

	lookups, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.IsSet("format") || cmd.IsSet("output") {
		format, err := formatter.ParseFormat(cmd.String("format"))
		if err != nil {
			return err
		}

		if path := cmd.String("output"); path != "" {
			written, err := formatter.WriteExport(format, lookups, path)
			if err != nil {
				return err
			}
			r.writePlain("%s Exported %d lookups to %s\n", ui.Styles.Success("✓"), len(lookups), written)
			return nil
		}

		data, err := formatter.Export(format, lookups)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	total, err := repo.Count()
	if err != nil {
		return err
	}

	r.writePlainHeader("Lookup History")
	if len(lookups) == 0 {
		r.writePlain("%s\n", ui.Styles.Help("No lookups recorded yet."))
		return nil
	}
	for _, l := range lookups {
		r.writePlain("%s\n", ui.RenderHistoryRow(l))
	}
	r.writePlainln("Showing %d of %d lookups", len(lookups), total)
	return nil
}

// HistoryPrune deletes lookups older than --older-than.
func (r *Runner) HistoryPrune(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.requireHistory()
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-cmd.Duration("older-than"))
	n, err := repo.Prune(cutoff)
	if err != nil {
		return err
	}

	r.logger.Info("pruned lookup history", "deleted", n, "cutoff", cutoff)
	r.writePlain("%s Deleted %d lookups older than %s\n", ui.Styles.Success("✓"), n, cutoff.Format(time.RFC3339))
	return nil
}
