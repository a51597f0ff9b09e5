package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"contest-sync/core/reconcile"
	"contest-sync/feature/contest"
	"contest-sync/feature/contest/upstream"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncDryRun       bool
	syncProviders    []string
	syncFromSnapshot bool
	syncJSON         bool
)

// syncCmd runs one sync cycle and exits.
var syncCmd = &cobra.Command{
	Use:       "sync [full|incremental]",
	Short:     "Run a single sync cycle",
	ValidArgs: []string{contest.CycleFull, contest.CycleIncremental},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `Fetches the configured providers once, normalizes the listings and
reconciles them into the contest store, then prints a report.

Examples:
  # Full sync of every configured provider
  sync full

  # Show what an incremental run would change, without writing
  sync incremental --dry-run

  # Only one provider
  sync full --provider codeforces

  # Replay the latest archived snapshot
  sync full --from-snapshot`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Plan the writes without applying them")
	syncCmd.Flags().StringSliceVar(&syncProviders, "provider", nil, "Provider to sync (repeatable, default: sync.providers)")
	syncCmd.Flags().BoolVar(&syncFromSnapshot, "from-snapshot", false, "Reconcile the latest archived snapshot instead of fetching")
	syncCmd.Flags().BoolVar(&syncJSON, "json", false, "Print the report as JSON")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	l := rt.logger

	fetcher := upstream.NewFetcher(rt.cfg.Upstream, l)
	for _, p := range syncProviders {
		if !fetcher.HasProvider(p) {
			return fmt.Errorf("%w: %s", upstream.ErrUnknownProvider, p)
		}
	}
	if syncFromSnapshot && rt.archive == nil {
		return errors.New("--from-snapshot requires storage.enabled")
	}

	engine := reconcile.NewEngine(contest.NewAdapter(rt.repo), reconcile.WithLogger(l))
	opts := []contest.SyncerOption{contest.WithSyncLogger(l)}
	if rt.archive != nil {
		opts = append(opts, contest.WithArchive(rt.archive))
	}
	syncer := contest.NewSyncer(fetcher, engine, rt.cfg.Sync, opts...)

	runOpts := contest.RunOptions{
		Providers:    syncProviders,
		DryRun:       syncDryRun,
		FromSnapshot: syncFromSnapshot,
	}

	l.Info("Starting sync", zap.String("cycle", args[0]), zap.Bool("dry_run", syncDryRun))

	var report *contest.Report
	if args[0] == contest.CycleFull {
		report, err = syncer.FullSync(ctx, runOpts)
	} else {
		report, err = syncer.IncrementalSync(ctx, runOpts)
	}
	if report != nil {
		if syncJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil {
				return fmt.Errorf("failed to encode report: %w", encErr)
			}
		} else {
			printSyncReport(l, report)
		}
	}
	if err != nil {
		return err
	}

	if syncDryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	return nil
}

// printSyncReport prints a per-provider report using logger.
func printSyncReport(l *zap.Logger, report *contest.Report) {
	for _, p := range report.Providers {
		if p.Error != "" {
			l.Warn("Provider failed", zap.String("provider", p.Provider), zap.String("error", p.Error))
			continue
		}
		l.Info("Provider report",
			zap.String("provider", p.Provider),
			zap.Int("fetched", p.Fetched),
			zap.Int("dropped", p.Dropped),
			zap.Int("selected", p.Selected),
			zap.Int("inserted", p.Summary.Inserted),
			zap.Int("updated", p.Summary.Updated),
			zap.Int("unchanged", p.Summary.Unchanged),
			zap.Int("failed", p.Summary.Failed),
		)

		// Show a sample of planned changes (max 5)
		maxShow := min(5, len(p.Changes))
		for _, action := range p.Changes[:maxShow] {
			l.Info("Sample change",
				zap.String("type", string(action.Type)),
				zap.String("key", action.Key.String()),
				zap.Strings("changes", action.Changes),
			)
		}
		if len(p.Changes) > maxShow {
			l.Info("Additional changes not shown", zap.Int("count", len(p.Changes)-maxShow))
		}
	}

	s := report.Summary
	fields := []zap.Field{
		zap.String("cycle", report.Cycle),
		zap.Int("inserted", s.Inserted),
		zap.Int("updated", s.Updated),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("failed", s.Failed),
		zap.Int("total", s.Total()),
	}
	if report.Snapshot != "" {
		fields = append(fields, zap.String("snapshot", report.Snapshot))
	}
	l.Info("Sync report", fields...)
}
