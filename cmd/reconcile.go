package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"clinic-desk/core/reconcile"
	"clinic-desk/core/storage"
	"clinic-desk/feature/frontdesk"
	visitreconcile "clinic-desk/feature/frontdesk/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile visits command
	reconcileDate string
	purgeVisits   bool
	syncVisits    bool
	dryRunVisits  bool
	archiveReport bool
	yesConfirm    bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the waiting list with the treatment log",
	Long: `Reconcile visits across the waitlist and treatment stores to detect
check-ins that exist on one side only.
Supports optional purge (delete orphans) and sync (recreate the missing side) operations.`,
}

// visitsReconcileCmd performs visit reconciliation with optional purge/sync.
var visitsReconcileCmd = &cobra.Command{
	Use:   "visits",
	Short: "Reconcile visits for a date or a year (report + optionally purge/sync)",
	Long: `Reconcile visits for one visit date or a whole year.

Reports wait entries without treatment records and treatment records without
wait entries. Optionally purge (delete) the orphan, or sync (recreate) the
missing side from the person store and the front-desk defaults.

Examples:
  # Report only
  reconcile visits --date 2026-02-11

  # Whole year
  reconcile visits --date 2026

  # Recreate the missing side with interactive confirmation
  reconcile visits --date 2026-02-11 --sync

  # Purge orphans with auto-confirm and archive the report
  reconcile visits --date 2026-02-11 --purge --yes --archive`,
	RunE: runVisitsReconcile,
}

func init() {
	reconcileCmd.AddCommand(visitsReconcileCmd)

	visitsReconcileCmd.Flags().StringVar(&reconcileDate, "date", "", "Visit date (YYYY-MM-DD) or year (YYYY)")
	visitsReconcileCmd.Flags().BoolVar(&purgeVisits, "purge", false, "Enable purge (delete visits missing in either store)")
	visitsReconcileCmd.Flags().BoolVar(&syncVisits, "sync", false, "Enable sync (recreate the missing side)")
	visitsReconcileCmd.Flags().BoolVar(&dryRunVisits, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	visitsReconcileCmd.Flags().BoolVar(&archiveReport, "archive", false, "Upload the report as JSON to object storage")
	visitsReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	_ = visitsReconcileCmd.MarkFlagRequired("date")

	RootCmd.AddCommand(reconcileCmd)
}

func runVisitsReconcile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	l := rt.logger

	l.Info("Starting visit reconciliation", zap.String("scope", reconcileDate))

	var archive *storage.Archive
	if archiveReport {
		archive = rt.archive()
	}
	sync := frontdesk.NewSynchronizer(rt.stores, rt.cfg.FrontDesk, nil, l)
	// No caching: every command run must see the stores as they are now.
	svc := visitreconcile.NewService(visitreconcile.NewAdapter(rt.stores, sync), archive, 0, l)

	opts := reconcile.ReconcileOptions{
		DoPurge: purgeVisits,
		DoSync:  syncVisits,
		DryRun:  dryRunVisits,
	}

	// Step 1: Plan (always runs)
	l.Info("Planning reconciliation...")
	plan, err := svc.Plan(ctx, reconcileDate)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}
	printReconcileReport(l, plan)
	report := &visitreconcile.Report{Plan: plan, DryRun: true}

	// Step 2: Apply when actions are requested, present and confirmed
	switch {
	case !purgeVisits && !syncVisits:
		l.Info("No actions requested. Use --purge to delete orphans or --sync to recreate the missing side.")
	case dryRunVisits:
		l.Info("Dry-run mode: No changes were made.")
	case len(plan.Actions) == 0:
		l.Info("No actions required based on current flags.")
	case !confirmDestructiveAction():
		l.Warn("Operation cancelled by user. No changes were made.")
	default:
		opts.Confirmed = true
		l.Info("Applying actions...")
		report, err = svc.Run(ctx, reconcileDate, opts)
		if err != nil {
			return err
		}
		l.Info("Successfully executed actions", zap.Int("count", report.Executed))
	}

	if archiveReport {
		if _, err := svc.Archive(ctx, report); err != nil {
			return fmt.Errorf("failed to archive report: %w", err)
		}
	}
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.String("scope", plan.Scope),
		zap.Int("total_visits", s.TotalItems),
		zap.Int("missing_wait", s.MissingPrimary),
		zap.Int("missing_treatment", s.MissingSecondary),
		zap.Int("mismatches", s.Mismatches),
	)

	for _, r := range plan.Results {
		if len(r.Mismatch) == 0 || !r.PrimaryPresent || !r.SecondaryPresent {
			continue
		}
		l.Info("Visit mismatch", zap.String("key", r.Key), zap.String("name", r.Name), zap.Strings("fields", r.Mismatch))
	}

	if len(plan.Actions) == 0 {
		return
	}
	l.Info("Planned actions",
		zap.Int("purge_actions", s.PurgeActions),
		zap.Int("sync_actions", s.SyncActions),
		zap.Int("total_actions", len(plan.Actions)),
	)

	maxShow := min(len(plan.Actions), 5)
	for _, action := range plan.Actions[:maxShow] {
		l.Info("Sample action",
			zap.String("type", string(action.Type)),
			zap.String("key", action.Key),
			zap.String("reason", action.Reason),
		)
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm changes to the clinic stores: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
