package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"contest-sync/feature/contest/upstream"
	"contest-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// errUnhealthy makes the process exit non-zero after the report was printed.
var errUnhealthy = errors.New("integrity checks failed")

var (
	// Flags for the check command
	checkFix  bool
	checkJSON bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the contest store, snapshot storage and providers",
	Long: `Verifies the contest table or collection schema, the snapshot bucket and
the reachability of every configured provider. Exits non-zero when a check fails.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "Create the snapshot bucket if missing")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the report as JSON")

	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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
	svc := integrity.NewService(rt.integrityDeps(fetcher), clock.RealClock{}, l)

	l.Info("Running integrity checks", zap.Bool("fix", checkFix))
	report := svc.CheckAll(ctx, checkFix)

	if checkJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		printCheckReport(l, report)
	}

	if !report.Healthy {
		return errUnhealthy
	}
	return nil
}

// printCheckReport prints the integrity report using logger.
func printCheckReport(l *zap.Logger, report *integrity.Report) {
	if s := report.Schema; s != nil {
		l.Info("Schema",
			zap.String("driver", s.Driver),
			zap.String("table", s.Table),
			zap.Bool("matched", s.Matched),
			zap.Strings("missing_columns", s.MissingColumns),
			zap.Strings("missing_indexes", s.MissingIndexes),
		)
	}
	if s := report.Storage; s != nil {
		l.Info("Storage",
			zap.String("bucket", s.Bucket),
			zap.Bool("exists", s.Exists),
			zap.Int("snapshots", s.Snapshots),
			zap.String("latest", s.Latest),
		)
	}
	for _, p := range report.Upstream {
		if !p.Reachable {
			l.Warn("Provider unreachable", zap.String("provider", p.Provider), zap.String("error", p.Error))
			continue
		}
		l.Info("Provider reachable", zap.String("provider", p.Provider), zap.Int64("latency_ms", p.LatencyMs))
	}
	for check, msg := range report.Errors {
		l.Error("Check failed", zap.String("check", check), zap.String("error", msg))
	}

	if report.Healthy {
		l.Info("All integrity checks passed")
	} else {
		l.Warn("Integrity checks reported problems")
	}
}
