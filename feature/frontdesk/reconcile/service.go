package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-desk/core/reconcile"
	"clinic-desk/core/server"
	"clinic-desk/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Report is the outcome of one reconciliation run.
type Report struct {
	Plan     *reconcile.ReconcilePlan `json:"plan"`
	Executed int                      `json:"executed"`
	DryRun   bool                     `json:"dry_run"`
	Object   string                   `json:"object,omitempty"`
}

// Service runs visit reconciliation for a date or a year.
type Service struct {
	engine   *reconcile.Engine
	adapter  *VisitAdapter
	archive  *storage.Archive
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a reconciliation service. archive may be nil.
func NewService(adapter *VisitAdapter, archive *storage.Archive, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		engine:   reconcile.NewEngine(),
		adapter:  adapter,
		archive:  archive,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) spec(scope string) (*reconcile.Spec, error) {
	if err := ValidateScope(scope); err != nil {
		return nil, server.BadRequest("invalid scope %q: %v", scope, err)
	}
	return &reconcile.Spec{Adapter: s.adapter, CacheTTL: s.cacheTTL, Scope: scope}, nil
}

// Plan reports the differences in scope without changing anything.
func (s *Service) Plan(ctx context.Context, scope string) (*reconcile.ReconcilePlan, error) {
	spec, err := s.spec(scope)
	if err != nil {
		return nil, err
	}
	return s.engine.Plan(ctx, spec, reconcile.ReconcileOptions{})
}

// Run plans and, when confirmed and not a dry run, applies the repairs.
func (s *Service) Run(ctx context.Context, scope string, opts reconcile.ReconcileOptions) (*Report, error) {
	spec, err := s.spec(scope)
	if err != nil {
		return nil, err
	}

	plan, executed, err := s.engine.PlanAndApply(ctx, spec, opts)
	if plan == nil {
		return nil, err
	}
	report := &Report{Plan: plan, Executed: executed, DryRun: opts.DryRun || !opts.Confirmed}

	s.logger.Info("Reconciliation finished",
		zap.String("scope", scope),
		zap.Int("total", plan.Summary.TotalItems),
		zap.Int("missing_wait", plan.Summary.MissingPrimary),
		zap.Int("missing_treatment", plan.Summary.MissingSecondary),
		zap.Int("mismatches", plan.Summary.Mismatches),
		zap.Int("actions", len(plan.Actions)),
		zap.Int("executed", executed),
		zap.Bool("dry_run", report.DryRun))

	if err != nil {
		return report, fmt.Errorf("failed to apply reconcile plan: %w", err)
	}
	return report, nil
}

// Archive uploads report as JSON and records the object name on it.
func (s *Service) Archive(ctx context.Context, report *Report) (string, error) {
	if s.archive == nil {
		return "", fmt.Errorf("report archive is not configured")
	}
	if err := s.archive.EnsureBucket(ctx); err != nil {
		return "", err
	}

	scope := strings.ReplaceAll(report.Plan.Scope, "/", "-")
	name := fmt.Sprintf("%s/%s-%s.json", scope, s.now().UTC().Format("20060102T150405Z"), uuid.NewString())
	object, err := s.archive.PutJSON(ctx, name, report)
	if err != nil {
		return "", err
	}
	report.Object = object
	s.logger.Info("Reconciliation report archived",
		zap.String("bucket", s.archive.Bucket()),
		zap.String("object", object))
	return object, nil
}
