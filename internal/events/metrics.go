package events

import (
	"context"

	"crm_backend/platform/metrics"
)

// Sync outcomes recorded on the lead_syncs_total counter.
const (
	syncOutcomeUpdated = "updated"
	syncOutcomeCreated = "created"
)

// RegisterMetrics subscribes prometheus counters to the lead events.
func RegisterMetrics(bus Bus) {
	On(bus, func(_ context.Context, _ LeadConvertedToContact) error {
		metrics.LeadConversions.WithLabelValues(TargetContact).Inc()
		return nil
	})

	On(bus, func(_ context.Context, _ LeadConvertedToAccount) error {
		metrics.LeadConversions.WithLabelValues(TargetAccount).Inc()
		return nil
	})

	On(bus, func(_ context.Context, e LeadSynced) error {
		outcome := syncOutcomeUpdated
		if e.Created {
			outcome = syncOutcomeCreated
		}
		metrics.LeadSyncs.WithLabelValues(e.Target, outcome).Inc()
		return nil
	})

	On(bus, func(_ context.Context, e ConsistencyFailed) error {
		metrics.ConsistencyFailures.WithLabelValues(e.Step).Inc()
		return nil
	})

	On(bus, func(_ context.Context, e LeadsDeduplicated) error {
		metrics.DuplicateLeadsRemoved.Add(float64(e.DuplicatesFound))
		return nil
	})
}
