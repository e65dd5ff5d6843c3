package metrics

import "time"

// Dispatcher metric names
const (
	MetricClaimsTotal     = "dispatch_claims_total"
	MetricClaimsSkipped   = "dispatch_claims_skipped_total"
	MetricStaleReclaims   = "dispatch_stale_reclaims_total"
	MetricSendsTotal      = "dispatch_sends_total"
	MetricSendErrorsTotal = "dispatch_send_errors_total"
	MetricSendDuration    = "dispatch_send_duration"
	MetricGateSkips       = "dispatch_gate_skips_total"
	MetricPollCycles      = "dispatch_poll_cycles_total"
)

// RecordClaim counts a successful claim for an action kind ("scheduled" or "duedate").
func RecordClaim(kind string, reclaimed bool) {
	labels := map[string]string{"kind": kind}
	globalRegistry.IncrementCounter(MetricClaimsTotal, labels, "Successful action claims")
	if reclaimed {
		globalRegistry.IncrementCounter(MetricStaleReclaims, labels, "Stale claims taken over")
	}
}

// RecordClaimSkipped counts a benign claim outcome.
func RecordClaimSkipped(kind, outcome string) {
	globalRegistry.IncrementCounter(MetricClaimsSkipped,
		map[string]string{"kind": kind, "outcome": outcome},
		"Claim attempts skipped as benign")
}

// RecordSend counts a dispatch outcome and its latency.
func RecordSend(kind string, duration time.Duration, success bool) {
	labels := map[string]string{"kind": kind}
	globalRegistry.RecordTimer(MetricSendDuration, duration, labels)
	if success {
		globalRegistry.IncrementCounter(MetricSendsTotal, labels, "Successful deliveries")
	} else {
		globalRegistry.IncrementCounter(MetricSendErrorsTotal, labels, "Failed deliveries")
	}
}

// RecordGateSkip counts a poll cycle suppressed by the subscription gate.
func RecordGateSkip(tenantID string) {
	globalRegistry.IncrementCounter(MetricGateSkips,
		map[string]string{"tenant": tenantID},
		"Poll cycles suppressed by the subscription gate")
}

// RecordPollCycle counts a completed poll cycle for an action kind.
func RecordPollCycle(kind string) {
	globalRegistry.IncrementCounter(MetricPollCycles,
		map[string]string{"kind": kind},
		"Completed poll cycles")
}
