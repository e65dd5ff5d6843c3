package service

import (
	"context"
	stderrors "errors"
	"time"

	"zapdispatch/internal/config"
	"zapdispatch/internal/metrics"
	"zapdispatch/internal/models"
	"zapdispatch/internal/tracing"

	"github.com/sirupsen/logrus"
)

// Scanner runs the eligibility scans that feed the dispatcher. One Scanner
// instance backs both poll loops; each loop calls exactly one of the Scan
// methods, strictly sequentially, so the in-flight sets below are only ever
// touched by their own poll goroutine.
type Scanner struct {
	store    Store
	executor Executor
	cfg      models.DispatcherConfig
	logger   *logrus.Logger

	// Per-kind sets of actions currently being processed by this instance.
	// Purely an optimization to skip redundant claim attempts; correctness
	// rests on the store's claim transactions.
	scheduledInFlight map[int64]struct{}
	dueDateInFlight   map[int64]struct{}

	// pause is replaced in tests to avoid real inter-send delays.
	pause func(ctx context.Context, d time.Duration)
}

func NewScanner(store Store, executor Executor, cfg models.DispatcherConfig, logger *logrus.Logger) *Scanner {
	return &Scanner{
		store:             store,
		executor:          executor,
		cfg:               cfg,
		logger:            logger,
		scheduledInFlight: make(map[int64]struct{}),
		dueDateInFlight:   make(map[int64]struct{}),
		pause:             sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// ScanScheduled runs one full scheduled-message eligibility scan across all
// tenants. Failures are contained per action: a failed claim or send never
// blocks the rest of the tick.
func (s *Scanner) ScanScheduled(ctx context.Context) {
	ctx, span := tracing.StartSpan(ctx, "scan.scheduled")
	defer span.End()
	defer metrics.RecordPollCycle(KindScheduled)

	now := time.Now().UTC()

	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list tenants")
		return
	}

	for i := range tenants {
		tenant := &tenants[i]
		if !SubscriptionActive(tenant, now) {
			metrics.RecordGateSkip(tenant.ID)
			continue
		}

		s.scanTenantScheduled(ctx, tenant, now)

		if ctx.Err() != nil {
			return
		}
	}
}

func (s *Scanner) scanTenantScheduled(ctx context.Context, tenant *models.Tenant, now time.Time) {
	staleness := s.cfg.ClaimStaleness()

	msgs, err := s.store.ListEligibleScheduledMessages(ctx, tenant.ID, now, staleness)
	if err != nil {
		s.logger.WithError(err).WithField("tenant", tenant.ID).Error("Eligibility scan failed")
		return
	}

	delay := time.Duration(config.ClampBulkSendDelay(tenant.BulkSendDelaySec)) * time.Second

	for i := range msgs {
		if ctx.Err() != nil {
			return
		}

		msg := &msgs[i]
		if _, busy := s.scheduledInFlight[msg.ID]; busy {
			continue
		}

		wasStale := msg.Status == models.ActionStatusClaimed

		claimed, err := s.store.ClaimScheduledMessage(ctx, msg.ID, time.Now().UTC(), staleness)
		if err != nil {
			s.recordClaimFailure(KindScheduled, msg.ID, err)
			continue
		}
		metrics.RecordClaim(KindScheduled, wasStale)

		s.scheduledInFlight[msg.ID] = struct{}{}
		if err := s.executor.DispatchScheduled(ctx, claimed, tenant); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"id":     msg.ID,
				"tenant": tenant.ID,
			}).Warn("Scheduled dispatch failed")
		}
		delete(s.scheduledInFlight, msg.ID)

		// Fixed inter-send pacing for externally imposed outbound rate limits
		s.pause(ctx, delay)
	}
}

// ScanDueDates runs one full due-date eligibility scan across all tenants.
func (s *Scanner) ScanDueDates(ctx context.Context) {
	ctx, span := tracing.StartSpan(ctx, "scan.duedate")
	defer span.End()
	defer metrics.RecordPollCycle(KindDueDate)

	now := time.Now().UTC()

	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list tenants")
		return
	}

	for i := range tenants {
		tenant := &tenants[i]
		if !SubscriptionActive(tenant, now) {
			metrics.RecordGateSkip(tenant.ID)
			continue
		}

		s.scanTenantDueDates(ctx, tenant, now)

		if ctx.Err() != nil {
			return
		}
	}
}

func (s *Scanner) scanTenantDueDates(ctx context.Context, tenant *models.Tenant, now time.Time) {
	clients, err := s.store.ListDueClients(ctx, tenant.ID, now)
	if err != nil {
		s.logger.WithError(err).WithField("tenant", tenant.ID).Error("Due-date scan failed")
		return
	}

	delay := time.Duration(s.cfg.DueDateSendDelaySec) * time.Second

	for i := range clients {
		if ctx.Err() != nil {
			return
		}

		client := &clients[i]
		if _, busy := s.dueDateInFlight[client.ID]; busy {
			continue
		}

		claimed, err := s.store.ClaimClientDueDate(ctx, client.ID, time.Now().UTC())
		if err != nil {
			s.recordClaimFailure(KindDueDate, client.ID, err)
			continue
		}
		metrics.RecordClaim(KindDueDate, false)

		s.dueDateInFlight[client.ID] = struct{}{}
		if err := s.executor.DispatchDueDate(ctx, claimed, tenant); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"client": client.ID,
				"tenant": tenant.ID,
			}).Warn("Due-date dispatch failed")
		}
		delete(s.dueDateInFlight, client.ID)

		s.pause(ctx, delay)
	}
}

// recordClaimFailure counts benign outcomes silently and logs real faults.
func (s *Scanner) recordClaimFailure(kind string, id int64, err error) {
	if models.IsBenignClaimOutcome(err) {
		metrics.RecordClaimSkipped(kind, claimOutcomeLabel(err))
		return
	}
	s.logger.WithError(err).WithFields(logrus.Fields{
		"kind": kind,
		"id":   id,
	}).Error("Claim attempt failed")
}

func claimOutcomeLabel(err error) string {
	switch {
	case stderrors.Is(err, models.ErrNotDueYet):
		return "not_due_yet"
	case stderrors.Is(err, models.ErrAlreadyProcessed):
		return "already_processed"
	case stderrors.Is(err, models.ErrAlreadyBeingProcessed):
		return "already_being_processed"
	case stderrors.Is(err, models.ErrActionDeleted):
		return "deleted"
	default:
		return "unknown"
	}
}
